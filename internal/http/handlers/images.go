package handlers

import (
	"net/http"
	"strings"
	"time"

	"holosuite/internal/domain"
	"holosuite/internal/middleware"
)

const (
	promptRequiredMessage = "Prompt is required and must be a string"
	imageRequiredMessage  = "Image data is required with base64 and mimeType"
)

type generateImageRequest struct {
	Prompt string `json:"prompt" validate:"required,notblank"`
}

type imagePayload struct {
	Base64   string `json:"base64" validate:"required"`
	MIMEType string `json:"mimeType" validate:"required"`
}

// transformRequest is the body shared by edit-image and generate-video.
type transformRequest struct {
	Image  *imagePayload `json:"image" validate:"required"`
	Prompt string        `json:"prompt" validate:"required,notblank"`
}

func (req transformRequest) imageData() domain.ImageData {
	return domain.ImageData{Base64: req.Image.Base64, MIMEType: req.Image.MIMEType}
}

// fieldMessage picks the caller-facing message for a failing request field.
func fieldMessage(field string) string {
	if field == "image" || strings.HasPrefix(field, "image.") {
		return imageRequiredMessage
	}
	return promptRequiredMessage
}

func (a *App) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req generateImageRequest
	if err := a.bind(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	start := time.Now()
	out, err := a.Images.Generate(r.Context(), req.Prompt)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.Logger.Info().
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Str("operation", "generate-image").
		Dur("latency", time.Since(start)).
		Msg("image generated")
	a.json(w, http.StatusOK, out)
}

func (a *App) EditImage(w http.ResponseWriter, r *http.Request) {
	var req transformRequest
	if err := a.bind(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	start := time.Now()
	out, err := a.Images.Edit(r.Context(), req.imageData(), req.Prompt)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.Logger.Info().
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Str("operation", "edit-image").
		Dur("latency", time.Since(start)).
		Msg("image edited")
	a.json(w, http.StatusOK, out)
}
