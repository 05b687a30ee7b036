package auth

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	dto "github.com/todolabs/todolist/internal/http/dto/auth"
	httperrors "github.com/todolabs/todolist/internal/http/errors"
	"github.com/todolabs/todolist/internal/http/helpers"
	svcauth "github.com/todolabs/todolist/internal/http/services/auth"
	"github.com/todolabs/todolist/internal/oauth"
	"github.com/todolabs/todolist/internal/observability/logger"
	"github.com/todolabs/todolist/internal/observability/metrics"
)

// LoginController handles login entry points.
type LoginController struct {
	login svcauth.LoginService
}

// NewLoginController creates a new LoginController.
func NewLoginController(login svcauth.LoginService) *LoginController {
	return &LoginController{login: login}
}

// Providers handles GET /api/auth/providers.
func (c *LoginController) Providers(w http.ResponseWriter, r *http.Request) {
	ps := c.login.Providers()
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, string(p))
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ProvidersResponse{Providers: out})
}

// Start handles GET /api/auth/{provider}: issues a state and sends the
// browser to the provider. Clients that prefer JSON get the URL instead.
func (c *LoginController) Start(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	provider := oauth.Provider(chi.URLParam(r, "provider"))

	mobile := r.URL.Query().Get("mobile") == "true" || r.URL.Query().Get("mobile") == "1"

	authURL, err := c.login.Begin(ctx, provider, mobile)
	if err != nil {
		httperrors.WriteError(w, mapServiceError(err))
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		helpers.WriteJSON(w, http.StatusOK, dto.AuthURLResponse{URL: authURL})
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

// Login handles POST /api/auth/{provider}: a JSON body carrying either an
// authorization code (+ state) or a provider access token from a native SDK.
// Code wins when both are present.
func (c *LoginController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	provider := oauth.Provider(chi.URLParam(r, "provider"))
	log := logger.From(ctx).With(
		logger.Layer("controller"),
		logger.Op("LoginController.Login"),
		logger.Provider(string(provider)),
	)

	var req dto.LoginRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	if req.Code == "" && req.AccessToken == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("code or accessToken required"))
		return
	}

	var (
		sess *svcauth.Session
		err  error
	)
	if req.Code != "" {
		sess, err = c.login.LoginWithCode(ctx, provider, req.Code, req.State)
	} else {
		sess, err = c.login.LoginWithToken(ctx, provider, req.AccessToken)
	}
	metrics.ObserveLogin(string(provider), loginResult(err))
	if err != nil {
		log.Warn("login failed", logger.Err(err))
		httperrors.WriteError(w, mapServiceError(err))
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.SessionResponse{
		Token:        sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		ExpiresAt:    sess.ExpiresAt,
		User:         dto.UserFromDomain(sess.User),
	})
}
