package app

import (
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vendora/vendora/internal/auth"
	"github.com/vendora/vendora/internal/observability"
	"github.com/vendora/vendora/internal/products"
	"github.com/vendora/vendora/internal/rbac"
	"github.com/vendora/vendora/internal/vendors"
	"github.com/vendora/vendora/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	Gate               *auth.Gate
	AuthHandler        *auth.Handler
	PermissionsHandler *rbac.PermissionsHandler
	VendorsHandler     *vendors.Handler
	ProductsHandler    *products.Handler
	JobHandler         *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with Vendora defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.Use(LoginRateLimit())
		params.AuthHandler.MountRoutes(r)
	})

	// Everything below requires an authenticated identity.
	r.Group(func(r chi.Router) {
		r.Use(params.Gate.Protect)

		if params.VendorsHandler != nil {
			r.Route("/api/vendors", params.VendorsHandler.MountRoutes)
		}
		if params.ProductsHandler != nil {
			r.Route("/api/products", params.ProductsHandler.MountRoutes)
		}
		if params.PermissionsHandler != nil {
			r.Route("/api/rbac", params.PermissionsHandler.MountRoutes)
		}

		// Administrative surface, super admins only.
		r.Group(func(r chi.Router) {
			r.Use(params.Gate.RequireSuperAdmin)
			if params.JobHandler != nil {
				r.Route("/api/admin/jobs", params.JobHandler.MountRoutes)
			}
		})
	})

	return r
}
