package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"holosuite/internal/catalog"
	"holosuite/internal/domain"
	"holosuite/internal/infra"
	"holosuite/internal/middleware"
	"holosuite/internal/studio"
)

const defaultMaxJSONBody = 32 << 20

type App struct {
	Config  *infra.Config
	Logger  *infra.Logger
	Images  studio.ImageGateway
	Videos  studio.VideoGateway
	Catalog *catalog.Catalog
	Studio  *studio.Controller
}

func NewApp(cfg *infra.Config, logger *infra.Logger, images studio.ImageGateway, videos studio.VideoGateway, cat *catalog.Catalog, ctrl *studio.Controller) *App {
	if logger == nil {
		logger = infra.NopLogger()
	}
	return &App{
		Config:  cfg,
		Logger:  logger,
		Images:  images,
		Videos:  videos,
		Catalog: cat,
		Studio:  ctrl,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, message string) {
	a.json(w, code, map[string]string{"error": message})
}

// writeError maps a domain error kind to its status code. Untyped errors are
// internal and their text is not exposed.
func (a *App) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := "Internal server error"
	var typed *domain.Error
	if errors.As(err, &typed) {
		message = typed.Message
	}

	evt := a.Logger.Warn()
	if status >= http.StatusInternalServerError {
		evt = a.Logger.Error()
	}
	evt.Err(err).
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("request failed")

	a.error(w, status, message)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredential):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (a *App) maxJSONBody() int64 {
	if a.Config == nil || a.Config.UploadMaxBytes <= 0 {
		return defaultMaxJSONBody
	}
	// base64 inflates payloads by a third.
	return a.Config.UploadMaxBytes/3*4 + 1<<20
}

// bind decodes the JSON body into dst and runs its validate tags. Failures
// come back as domain.ErrInvalidInput carrying the message for the first
// offending field.
func (a *App) bind(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, a.maxJSONBody()))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return domain.WrapError(domain.ErrInvalidInput, fieldMessage(typeErr.Field), err)
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.WrapError(domain.ErrInvalidInput, "Request body is too large", err)
		}
		return domain.WrapError(domain.ErrInvalidInput, "Request body must be valid JSON", err)
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			ns := verrs[0].Namespace()
			if _, rest, ok := strings.Cut(ns, "."); ok {
				ns = rest
			}
			return domain.WrapError(domain.ErrInvalidInput, fieldMessage(ns), err)
		}
		return domain.WrapError(domain.ErrInvalidInput, "Invalid request", err)
	}
	return nil
}
