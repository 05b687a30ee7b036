package oauth

import "fmt"

// AuthError means the provider rejected a code/token exchange or returned a
// malformed token response. The upstream body is captured for logs only and
// must never be relayed to the end user.
type AuthError struct {
	Provider Provider
	// Code is the upstream OAuth error code ("invalid_grant", ...) when the
	// provider supplied one.
	Code string
	Desc string
	// RedirectURIMismatch marks the single most common integration failure:
	// the redirect URI sent does not equal the one used to obtain the code.
	RedirectURIMismatch bool
}

func (e *AuthError) Error() string {
	if e.RedirectURIMismatch {
		return fmt.Sprintf("%s: token exchange rejected: redirect_uri mismatch", e.Provider)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: token exchange rejected: %s", e.Provider, e.Code)
	}
	return fmt.Sprintf("%s: token exchange rejected", e.Provider)
}

// ReauthRequired reports whether the grant itself is gone (expired, revoked,
// already used) so the caller should send the user through login again
// rather than retry.
func (e *AuthError) ReauthRequired() bool {
	return e.Code == "invalid_grant"
}

// ProfileError means the profile endpoint answered non-2xx or with a body
// that cannot be normalized.
type ProfileError struct {
	Provider Provider
	Status   int
	Reason   string
}

func (e *ProfileError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: profile fetch failed: status %d", e.Provider, e.Status)
	}
	return fmt.Sprintf("%s: profile fetch failed: %s", e.Provider, e.Reason)
}

// Redact shortens a token for diagnostics. Raw token values never reach the
// logs.
func Redact(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "****" + token[len(token)-4:]
}
