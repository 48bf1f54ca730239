package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/diagnosis/founder-playbook/internal/http/handlers"
	"github.com/diagnosis/founder-playbook/internal/http/middleware"
	"github.com/diagnosis/founder-playbook/pkg/metrics"
	mw "github.com/diagnosis/founder-playbook/pkg/middleware"
)

type Config struct {
	ServiceName    string
	AllowedOrigins []string
	// TrustProxy rewrites RemoteAddr from X-Forwarded-For / X-Real-IP.
	TrustProxy bool
	Handlers       *handlers.Handlers
	Sessions       *middleware.Sessions
	Metrics        *metrics.Metrics
	// GateLimiter guards both credential endpoints. Nil disables limiting.
	GateLimiter *middleware.RateLimiter
}

func New(cfg Config) http.Handler {
	h := cfg.Handlers
	r := chi.NewRouter()

	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName(cfg.ServiceName))
	r.Use(mw.Logging)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.Health)
	r.Use(mw.Metrics(cfg.Metrics))

	limit := func(next http.Handler) http.Handler { return next }
	if cfg.GateLimiter != nil {
		limit = cfg.GateLimiter.Middleware()
	}

	r.Get("/", h.Root)

	r.Route("/api", func(r chi.Router) {
		r.Use(cfg.Sessions.Load)

		r.Get("/health", h.Health)

		r.Route("/auth", func(r chi.Router) {
			r.With(limit).Post("/access", h.SubmitAccessCode)
			r.Get("/check", h.CheckAuth)
			r.Post("/logout", h.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireVisitor)

			r.Get("/providers", h.ListProviders)
			r.Get("/providers/{id}", h.GetProvider)
			r.Get("/categories", h.ListCategories)
			r.Get("/sections", h.ListSections)
			r.Get("/sections/{slug}", h.GetSection)
			r.Get("/checklists", h.ListChecklists)
			r.Get("/checklists/{slug}", h.GetChecklist)

			r.Get("/progress", h.GetProgress)
			r.Post("/progress", h.SaveProgress)
			r.Delete("/progress/{checklistId}", h.ResetProgress)
		})

		r.Route("/admin", func(r chi.Router) {
			r.With(limit).Post("/auth", h.AdminAuth)
			r.Get("/check", h.AdminCheck)
			r.Post("/logout", h.AdminLogout)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Get("/sections", h.AdminListSections)
				r.Post("/sections", h.CreateSection)
				r.Put("/sections/{id}", h.UpdateSection)
				r.Delete("/sections/{id}", h.DeleteSection)

				r.Get("/providers", h.AdminListProviders)
				r.Post("/providers", h.CreateProvider)
				r.Put("/providers/{id}", h.UpdateProvider)
				r.Delete("/providers/{id}", h.DeleteProvider)

				r.Get("/categories", h.ListCategories)
				r.Post("/categories", h.CreateCategory)
				r.Put("/categories/{id}", h.UpdateCategory)
				r.Delete("/categories/{id}", h.DeleteCategory)

				r.Get("/checklists", h.AdminListChecklists)
				r.Post("/checklists", h.CreateChecklist)
				r.Put("/checklists/{id}", h.UpdateChecklist)
				r.Delete("/checklists/{id}", h.DeleteChecklist)

				r.Get("/access-log", h.ListAccessLog)
				r.Delete("/access-log", h.ClearAccessLog)

				r.Get("/access-codes", h.ListAccessCodes)
				r.Post("/access-codes", h.CreateAccessCode)
				r.Post("/access-codes/generate", h.GenerateAccessCode)
				r.Put("/access-codes/{id}", h.UpdateAccessCode)
				r.Delete("/access-codes/{id}", h.DeleteAccessCode)
				r.Patch("/access-codes/{id}/toggle", h.ToggleAccessCode)

				r.Get("/stats", h.Stats)
			})
		})
	})

	return r
}
