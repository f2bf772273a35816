package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/prn-tf/alexander-iam/internal/auth"
	"github.com/prn-tf/alexander-iam/internal/domain"
)

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Router assembles the HTTP API for Alexander IAM.
type Router struct {
	authHandler  *AuthHandler
	userHandler  *UserHandler
	adminHandler *AdminHandler
	tokens       *auth.TokenService
	health       HealthChecker
	logger       zerolog.Logger
}

// RouterConfig contains configuration for the router.
type RouterConfig struct {
	AuthHandler  *AuthHandler
	UserHandler  *UserHandler
	AdminHandler *AdminHandler
	Tokens       *auth.TokenService
	Health       HealthChecker
	Logger       zerolog.Logger
}

// NewRouter creates a new Router.
func NewRouter(config RouterConfig) *Router {
	return &Router{
		authHandler:  config.AuthHandler,
		userHandler:  config.UserHandler,
		adminHandler: config.AdminHandler,
		tokens:       config.Tokens,
		health:       config.Health,
		logger:       config.Logger.With().Str("component", "router").Logger(),
	}
}

// Handler returns the main HTTP handler.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(
		RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		Logging(rt.logger),
		chimw.Timeout(30*time.Second),
	)

	r.Get("/health", rt.handleHealth)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/signup", rt.authHandler.Signup)
		r.Post("/auth/login", rt.authHandler.Login)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(rt.tokens))

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", rt.userHandler.GetProfile)
				r.Put("/", rt.userHandler.UpdateProfile)
				r.Put("/password", rt.userHandler.ChangePassword)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(auth.RequireRole(domain.RoleAdmin).Middleware)

				r.Get("/users", rt.adminHandler.ListUsers)
				r.Get("/users/{id}", rt.adminHandler.GetUser)
				r.Get("/stats", rt.adminHandler.Stats)
				r.Put("/users/{id}/role", rt.adminHandler.ChangeRole)
				r.Put("/users/{id}/status", rt.adminHandler.SetActive)
				r.Delete("/users/{id}", rt.adminHandler.DeleteUser)
			})

			r.Route("/moderator", func(r chi.Router) {
				r.Use(auth.RequireAnyRole(domain.RoleAdmin, domain.RoleModerator).Middleware)

				r.Get("/overview", rt.adminHandler.Overview)
				r.Get("/users/active", rt.adminHandler.ListActiveUsers)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, Response{Success: false, Error: "Route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, Response{Success: false, Error: "Method not allowed"})
	})

	return r
}

// handleHealth handles health check requests.
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	if rt.health != nil {
		if err := rt.health.Health(r.Context()); err != nil {
			rt.logger.Error().Err(err).Msg("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "Store unavailable"})
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
