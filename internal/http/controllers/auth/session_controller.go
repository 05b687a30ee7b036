package auth

import (
	"net/http"

	"github.com/todolabs/todolist/internal/domain"
	dto "github.com/todolabs/todolist/internal/http/dto/auth"
	httperrors "github.com/todolabs/todolist/internal/http/errors"
	"github.com/todolabs/todolist/internal/http/helpers"
	"github.com/todolabs/todolist/internal/http/middlewares"
	svcauth "github.com/todolabs/todolist/internal/http/services/auth"
	"github.com/todolabs/todolist/internal/observability/logger"
	"github.com/todolabs/todolist/internal/observability/metrics"
)

// SessionController handles refresh, logout and the authenticated profile.
type SessionController struct {
	tokens svcauth.TokenService
	users  domain.UserRepository
}

// NewSessionController creates a new SessionController.
func NewSessionController(tokens svcauth.TokenService, users domain.UserRepository) *SessionController {
	return &SessionController{tokens: tokens, users: users}
}

// Refresh handles POST /api/auth/refresh: rotates the refresh secret and
// mints a new session.
func (c *SessionController) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.RefreshRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	if req.RefreshToken == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("refreshToken required"))
		return
	}

	sess, err := c.tokens.Renew(ctx, req.RefreshToken)
	if err != nil {
		metrics.ObserveRenewal("rejected")
		httperrors.WriteError(w, mapServiceError(err))
		return
	}
	metrics.ObserveRenewal("ok")

	helpers.WriteJSON(w, http.StatusOK, dto.SessionResponse{
		Token:        sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		ExpiresAt:    sess.ExpiresAt,
		User:         dto.UserFromDomain(sess.User),
	})
}

// Logout handles POST /api/auth/logout: revokes the refresh secret. Always
// 204; revoking twice is fine.
func (c *SessionController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.LogoutRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		// A missing body still logs out; only the refresh secret is optional.
		req.RefreshToken = ""
	}

	if err := c.tokens.Logout(ctx, req.RefreshToken); err != nil {
		logger.From(ctx).Warn("logout revocation failed", logger.Err(err))
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me. The store is consulted for the fresh
// profile; if the row is gone the credential no longer identifies anyone.
func (c *SessionController) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims := middlewares.GetClaims(ctx)
	if claims == nil {
		httperrors.WriteError(w, httperrors.ErrTokenMissing)
		return
	}

	user, err := c.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if domain.IsNotFound(err) {
			httperrors.WriteError(w, httperrors.ErrTokenInvalid.WithDetail("account no longer exists"))
			return
		}
		// Store hiccup: fall back to the claims so /me stays useful.
		logger.From(ctx).Warn("profile lookup failed, serving claims", logger.Err(err))
		helpers.WriteJSON(w, http.StatusOK, dto.UserResponse{
			ID:       claims.UserID,
			Provider: claims.Provider,
			Email:    claims.Email,
		})
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.UserFromDomain(user))
}
