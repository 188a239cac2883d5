package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"holosuite/internal/http/handlers"
	"holosuite/internal/middleware"
)

func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(*app.Logger),
	)

	var origins []string
	rateLimit := 0
	if app.Config != nil {
		origins = app.Config.CORSAllowedOrigins
		rateLimit = app.Config.RateLimitPerMin
	}
	r.Use(middleware.CORS(origins))

	limited := middleware.RateLimit(rateLimit, time.Minute)

	// Provider-backed endpoints.
	r.Route("/api", func(r chi.Router) {
		r.Use(limited)
		r.Post("/generate-image", app.GenerateImage)
		r.Post("/edit-image", app.EditImage)
		r.Post("/generate-video", app.GenerateVideo)
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)
		r.Get("/openapi.json", app.OpenAPIJSON)
		r.Get("/docs", app.OpenAPIDocs)

		r.Get("/experiences", app.ListExperiences)
		r.Get("/experiences/{id}", app.GetExperience)

		r.Route("/studio", func(r chi.Router) {
			r.Get("/", app.StudioState)
			r.Get("/events", app.StudioEvents)
			r.Post("/reset", app.StudioReset)
			r.Post("/start-over", app.StudioStartOver)
			r.Post("/credential", app.StudioSelectCredential)

			r.Group(func(r chi.Router) {
				r.Use(limited)
				r.Post("/upload", app.StudioUpload)
				r.Post("/generate", app.StudioGenerate)
				r.Post("/edit", app.StudioEdit)
				r.Post("/animate", app.StudioAnimate)
			})
		})
	})

	return r
}
