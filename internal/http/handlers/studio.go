package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"holosuite/internal/domain"
	"holosuite/internal/middleware"
	"holosuite/internal/studio"
)

const (
	sessionCookie = "holosuite_session"

	eventInterval  = time.Second
	eventKeepAlive = 15 * time.Second
)

type studioPromptRequest struct {
	Prompt string `json:"prompt"`
}

// sessionID returns the caller's studio session, issuing a cookie for new
// callers.
func (a *App) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}

	id := studio.NewSessionID()
	maxAge := int((24 * time.Hour).Seconds())
	if a.Config != nil && a.Config.StudioSessionTTL > 0 {
		maxAge = int(a.Config.StudioSessionTTL.Seconds())
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (a *App) respondState(w http.ResponseWriter, r *http.Request, state studio.State, err error) {
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, state)
}

func (a *App) StudioState(w http.ResponseWriter, r *http.Request) {
	state, err := a.Studio.Get(r.Context(), a.sessionID(w, r))
	a.respondState(w, r, state, err)
}

func (a *App) StudioUpload(w http.ResponseWriter, r *http.Request) {
	id := a.sessionID(w, r)

	maxBytes := int64(20 << 20)
	if a.Config != nil && a.Config.UploadMaxBytes > 0 {
		maxBytes = a.Config.UploadMaxBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		a.writeError(w, r, domain.WrapError(domain.ErrInvalidInput, "Upload must be a multipart form with a file field", err))
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		a.writeError(w, r, domain.WrapError(domain.ErrInvalidInput, "No file was uploaded", err))
		return
	}
	defer file.Close()

	state, err := a.Studio.Upload(r.Context(), id, file, header.Header.Get("Content-Type"), header.Filename)
	a.respondState(w, r, state, err)
}

func (a *App) studioPrompt(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req studioPromptRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		a.writeError(w, r, domain.WrapError(domain.ErrInvalidInput, promptRequiredMessage, err))
		return "", false
	}
	return req.Prompt, true
}

func (a *App) StudioGenerate(w http.ResponseWriter, r *http.Request) {
	id := a.sessionID(w, r)
	prompt, ok := a.studioPrompt(w, r)
	if !ok {
		return
	}
	state, err := a.Studio.Generate(r.Context(), id, prompt)
	a.respondState(w, r, state, err)
}

func (a *App) StudioEdit(w http.ResponseWriter, r *http.Request) {
	id := a.sessionID(w, r)
	prompt, ok := a.studioPrompt(w, r)
	if !ok {
		return
	}
	state, err := a.Studio.Edit(r.Context(), id, prompt)
	a.respondState(w, r, state, err)
}

func (a *App) StudioAnimate(w http.ResponseWriter, r *http.Request) {
	id := a.sessionID(w, r)
	prompt, ok := a.studioPrompt(w, r)
	if !ok {
		return
	}
	state, err := a.Studio.Animate(r.Context(), id, prompt)
	a.respondState(w, r, state, err)
}

func (a *App) StudioReset(w http.ResponseWriter, r *http.Request) {
	state, err := a.Studio.ResetToOriginal(r.Context(), a.sessionID(w, r))
	a.respondState(w, r, state, err)
}

func (a *App) StudioStartOver(w http.ResponseWriter, r *http.Request) {
	state, err := a.Studio.StartOver(r.Context(), a.sessionID(w, r))
	a.respondState(w, r, state, err)
}

func (a *App) StudioSelectCredential(w http.ResponseWriter, r *http.Request) {
	state, err := a.Studio.SelectCredential(r.Context(), a.sessionID(w, r))
	a.respondState(w, r, state, err)
}

// StudioEvents streams the session state as server-sent "state" events,
// sending a new event whenever the state changes.
func (a *App) StudioEvents(w http.ResponseWriter, r *http.Request) {
	id := a.sessionID(w, r)

	flusher, ok := w.(http.Flusher)
	if !ok {
		a.error(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ctx := r.Context()
	ticker := time.NewTicker(eventInterval)
	defer ticker.Stop()

	var last []byte
	lastWrite := time.Now()
	for {
		state, err := a.Studio.Get(ctx, id)
		if err != nil {
			if errors.Is(err, ctx.Err()) {
				return
			}
			a.Logger.Warn().Err(err).
				Str("request_id", middleware.RequestIDFromContext(ctx)).
				Msg("studio event read failed")
		} else if payload, err := json.Marshal(state); err == nil && !bytes.Equal(payload, last) {
			fmt.Fprintf(w, "event: state\ndata: %s\n\n", payload)
			flusher.Flush()
			last = payload
			lastWrite = time.Now()
		}

		if time.Since(lastWrite) >= eventKeepAlive {
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
			lastWrite = time.Now()
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
