package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"fundflow/internal/http/handlers"
	"fundflow/internal/infra"
	"fundflow/internal/middleware"
)

// NewRouter assembles the public donation API, the gateway callback endpoint
// and the cookie-gated admin surface.
func NewRouter(app *handlers.App, logger zerolog.Logger, cfg *infra.Config, lookup middleware.CountryLookup) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(cfg.AllowedOrigins),
	)

	r.Get("/healthz", app.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", app.ListProjects)
			r.Get("/{id}", app.GetProject)
			r.Get("/{id}/donations", app.ProjectDonations)
		})
		r.Get("/donations/recent", app.DonationsRecent)
		r.Get("/stats/summary", app.StatsSummary)

		r.With(
			middleware.Geo(lookup),
			middleware.RateLimit(cfg.RateLimitPerMin, time.Minute),
		).Post("/stk-push", app.StkPush)

		// The gateway retries on any non-200, so this route must never sit
		// behind the rate limiter.
		r.Post("/mpesa-callback", app.MpesaCallback)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", app.AdminLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminSession(cfg.SessionSecret))
			r.Post("/logout", app.AdminLogout)
			r.Get("/session", app.AdminMe)

			r.Route("/projects", func(r chi.Router) {
				r.Post("/", app.CreateProject)
				r.Put("/{id}", app.UpdateProject)
				r.Delete("/{id}", app.DeleteProject)
				r.Post("/{id}/image", app.UploadProjectImage)
			})
		})
	})

	if cfg.StorageBasePath != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StorageBasePath)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	return r
}
