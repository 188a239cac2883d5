package handlers

import (
	"net/http"
)

type healthModels struct {
	Image string `json:"image"`
	Edit  string `json:"edit"`
	Video string `json:"video"`
}

type healthVideo struct {
	Resolution      string `json:"resolution"`
	AspectRatio     string `json:"aspectRatio"`
	PollInterval    string `json:"pollInterval"`
	PollMaxAttempts int    `json:"pollMaxAttempts"`
	PollMaxWait     string `json:"pollMaxWait"`
}

type healthResponse struct {
	Status       string        `json:"status"`
	Env          string        `json:"env,omitempty"`
	Provider     string        `json:"provider"`
	Models       *healthModels `json:"models,omitempty"`
	Video        *healthVideo  `json:"video,omitempty"`
	SessionStore string        `json:"sessionStore"`
}

// Health reports liveness together with the provider setup the process was
// started with. Credentials are never included.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:       "ok",
		Provider:     "gemini",
		SessionStore: "memory",
	}
	if cfg := a.Config; cfg != nil {
		resp.Env = cfg.AppEnv
		resp.Models = &healthModels{
			Image: cfg.ImageModel,
			Edit:  cfg.EditModel,
			Video: cfg.VideoModel,
		}
		resp.Video = &healthVideo{
			Resolution:      cfg.VideoResolution,
			AspectRatio:     cfg.VideoAspectRatio,
			PollInterval:    cfg.VideoPollInterval.String(),
			PollMaxAttempts: cfg.VideoPollMaxAttempts,
			PollMaxWait:     cfg.VideoPollMaxWait.String(),
		}
		if cfg.RedisURL != "" {
			resp.SessionStore = "redis"
		}
	}
	a.json(w, http.StatusOK, resp)
}
