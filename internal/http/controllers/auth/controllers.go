// Package auth contains the controllers of the login, callback and session
// endpoints.
package auth

import (
	"errors"
	"net/http"
	"strings"

	httperrors "github.com/todolabs/todolist/internal/http/errors"
	svcauth "github.com/todolabs/todolist/internal/http/services/auth"
)

// mapServiceError translates service errors into the API error catalog.
func mapServiceError(err error) *httperrors.AppError {
	switch {
	case errors.Is(err, svcauth.ErrUnknownProvider):
		return httperrors.ErrUnknownProvider
	case errors.Is(err, svcauth.ErrMissingCode):
		return httperrors.ErrBadRequest.WithDetail("code required")
	case errors.Is(err, svcauth.ErrMissingToken):
		return httperrors.ErrBadRequest.WithDetail("accessToken required")
	case errors.Is(err, svcauth.ErrStateMismatch):
		return httperrors.ErrStateMismatch
	case errors.Is(err, svcauth.ErrUpstreamAuth):
		return httperrors.ErrUpstreamAuth
	case errors.Is(err, svcauth.ErrUpstreamProfile):
		return httperrors.ErrUpstreamAuth.WithDetail("profile fetch failed")
	case errors.Is(err, svcauth.ErrInvalidRefresh):
		return httperrors.ErrRefreshInvalid
	case errors.Is(err, svcauth.ErrExpiredRefresh):
		return httperrors.ErrRefreshExpired
	default:
		return httperrors.ErrInternal.WithCause(err)
	}
}

// loginResult labels login outcomes for metrics.
func loginResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, svcauth.ErrStateMismatch):
		return "state_mismatch"
	case errors.Is(err, svcauth.ErrUpstreamAuth), errors.Is(err, svcauth.ErrUpstreamProfile):
		return "upstream_error"
	case errors.Is(err, svcauth.ErrMissingCode), errors.Is(err, svcauth.ErrMissingToken):
		return "bad_request"
	default:
		return "error"
	}
}

// isMobileClient decides the delivery channel of a GET callback. The state
// prefix is authoritative (the app set it when it opened the login page);
// the user agent is the fallback for in-app web views.
func isMobileClient(r *http.Request, state string) bool {
	if strings.HasPrefix(state, svcauth.MobileStatePrefix) {
		return true
	}
	ua := r.Header.Get("User-Agent")
	return strings.Contains(ua, "wv)") || strings.Contains(ua, "WebView")
}
