package handlers

import (
	"net/http"
	"time"

	"holosuite/internal/middleware"
)

// GenerateVideo blocks until the provider job finishes, fails or hits the
// configured polling bound.
func (a *App) GenerateVideo(w http.ResponseWriter, r *http.Request) {
	var req transformRequest
	if err := a.bind(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	start := time.Now()
	out, err := a.Videos.Generate(r.Context(), req.imageData(), req.Prompt)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.Logger.Info().
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Str("operation", "generate-video").
		Dur("latency", time.Since(start)).
		Msg("video generated")
	a.json(w, http.StatusOK, out)
}
