package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/todolabs/todolist/internal/domain"
	authctl "github.com/todolabs/todolist/internal/http/controllers/auth"
	healthctl "github.com/todolabs/todolist/internal/http/controllers/health"
	todoctl "github.com/todolabs/todolist/internal/http/controllers/todo"
	httperrors "github.com/todolabs/todolist/internal/http/errors"
	"github.com/todolabs/todolist/internal/http/middlewares"
	svcauth "github.com/todolabs/todolist/internal/http/services/auth"
	svctodo "github.com/todolabs/todolist/internal/http/services/todo"
	"github.com/todolabs/todolist/internal/rate"
	"github.com/todolabs/todolist/internal/token"
)

// Deps bundles everything the router needs.
type Deps struct {
	Issuer *token.Issuer
	Login  svcauth.LoginService
	Tokens svcauth.TokenService
	Users  domain.UserRepository
	Todos  svctodo.Service

	FrontendURL        string
	CORSAllowedOrigins []string

	// RateLimiter throttles the credential-facing auth routes; nil disables it.
	RateLimiter rate.Limiter
	// MetricsHandler serves /metrics; nil disables the route.
	MetricsHandler http.Handler
	// Health maps dependency names to their readiness pingers.
	Health map[string]healthctl.Pinger
}

// NewRouter assembles the middleware stack and all routes.
func NewRouter(deps Deps) http.Handler {
	login := authctl.NewLoginController(deps.Login)
	callback := authctl.NewCallbackController(deps.Login, deps.FrontendURL)
	session := authctl.NewSessionController(deps.Tokens, deps.Users)
	todos := todoctl.NewController(deps.Todos)
	health := healthctl.NewController(deps.Health)

	r := chi.NewRouter()
	r.Use(middlewares.WithRequestID())
	r.Use(middlewares.WithRecover())
	r.Use(middlewares.WithCORS(deps.CORSAllowedOrigins))
	r.Use(WithMetrics())
	r.Use(middlewares.WithLogging())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.Get("/providers", login.Providers)

		r.Group(func(r chi.Router) {
			r.Use(middlewares.RequireAuth(deps.Issuer))
			r.Get("/me", session.Me)
		})

		r.Group(func(r chi.Router) {
			if deps.RateLimiter != nil {
				r.Use(middlewares.WithRateLimit(deps.RateLimiter))
			}
			r.Post("/refresh", session.Refresh)
			r.Post("/logout", session.Logout)
			r.Get("/{provider}", login.Start)
			r.Post("/{provider}", login.Login)
			r.Get("/{provider}/callback", callback.Callback)
			r.Post("/{provider}/callback", login.Login)
		})
	})

	r.Route("/api/todos", func(r chi.Router) {
		r.Use(middlewares.RequireAuth(deps.Issuer))
		r.Get("/", todos.List)
		r.Post("/", todos.Create)
		r.Get("/{id}", todos.Get)
		r.Put("/{id}", todos.Update)
		r.Patch("/{id}", todos.Update)
		r.Delete("/{id}", todos.Delete)
	})

	return r
}
