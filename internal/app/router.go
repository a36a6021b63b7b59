package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/wcloud/dynamicmenu/internal/auth"
	authhttp "github.com/wcloud/dynamicmenu/internal/auth/http"
	"github.com/wcloud/dynamicmenu/internal/menu"
	"github.com/wcloud/dynamicmenu/internal/observability"
	"github.com/wcloud/dynamicmenu/internal/roles"
	"github.com/wcloud/dynamicmenu/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger        *slog.Logger
	Config        *Config
	Authenticator *auth.Authenticator
	AuthHandler   *authhttp.Handler
	MenuHandler   *menu.Handler
	UsersHandler  *users.Handler
	RolesHandler  *roles.Handler
	Metrics       *observability.Metrics
}

// NewRouter constructs the chi.Router for the API surface.
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

	r.Route("/api", func(r chi.Router) {
		// The authenticator only attaches a principal when the token checks
		// out; requests without a usable token pass through anonymously and
		// are stopped by the route guards below.
		r.Use(params.Authenticator.Middleware)

		r.Route("/auth", func(r chi.Router) {
			params.AuthHandler.MountPublicRoutes(r)
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuthenticated)
				params.AuthHandler.MountProtectedRoutes(r)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuthenticated)
			r.Route("/menu", params.MenuHandler.MountRoutes)
			r.Route("/user", params.UsersHandler.MountRoutes)
			r.Route("/role", params.RolesHandler.MountRoutes)
		})
	})

	return r
}
