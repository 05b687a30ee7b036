// Package auth contains the login, session and logout services.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/todolabs/todolist/internal/domain"
	"github.com/todolabs/todolist/internal/oauth"
)

// Session is the result of a successful login or renewal: the service's own
// access credential plus a fresh single-use refresh secret.
type Session struct {
	AccessToken  string
	ExpiresAt    time.Time
	RefreshToken string
	User         *domain.User
}

// LoginService drives the provider login flows. Both entry points converge
// on the same path: fetch profile, resolve the account, mint a session.
type LoginService interface {
	// Providers lists the configured providers.
	Providers() []oauth.Provider

	// Begin issues a one-shot anti-CSRF state and returns the provider's
	// authorization URL carrying it. Mobile clients get a prefixed state so
	// the callback can route the result to a deep link.
	Begin(ctx context.Context, provider oauth.Provider, mobile bool) (string, error)

	// LoginWithCode validates state, exchanges the authorization code and
	// completes the login. State is checked before any provider call.
	LoginWithCode(ctx context.Context, provider oauth.Provider, code, state string) (*Session, error)

	// LoginWithToken completes a login from a provider access token the
	// client already holds (native SDK flows).
	LoginWithToken(ctx context.Context, provider oauth.Provider, accessToken string) (*Session, error)
}

// TokenService mints, renews and revokes sessions.
type TokenService interface {
	IssueSession(ctx context.Context, user *domain.User) (*Session, error)

	// Renew rotates a refresh secret: the presented one is consumed and a
	// new session is minted. Of N concurrent renewals with the same secret
	// exactly one succeeds.
	Renew(ctx context.Context, refreshSecret string) (*Session, error)

	// Logout revokes a refresh secret. Idempotent: revoking an unknown or
	// already-revoked secret is not an error.
	Logout(ctx context.Context, refreshSecret string) error
}

// Service errors.
var (
	ErrUnknownProvider = errors.New("unknown_provider")
	ErrMissingCode     = errors.New("missing_code")
	ErrMissingToken    = errors.New("missing_token")
	ErrStateMismatch   = errors.New("state_mismatch")
	ErrUpstreamAuth    = errors.New("upstream_auth_failed")
	ErrUpstreamProfile = errors.New("upstream_profile_failed")
	ErrInvalidRefresh  = errors.New("invalid_refresh_token")
	ErrExpiredRefresh  = errors.New("expired_refresh_token")
)
