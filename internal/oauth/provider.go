// Package oauth defines the contract every external identity provider
// adapter implements, plus the canonical identity produced by the
// per-provider profile normalizers. Adapters perform network calls only;
// user resolution and credential issuing happen in the auth service.
package oauth

import "context"

// Provider identifies an external identity provider.
type Provider string

const (
	ProviderKakao Provider = "kakao"
	ProviderNaver Provider = "naver"
)

// Valid reports whether p is a known provider.
func (p Provider) Valid() bool {
	return p == ProviderKakao || p == ProviderNaver
}

// Identity is the canonical profile extracted from a provider payload.
// Email and AvatarURL are nil when the provider omitted them; an absent
// email is legal and never mapped to an empty string.
type Identity struct {
	Provider    Provider
	ProviderID  string
	Email       *string
	DisplayName string
	AvatarURL   *string
}

// Token is the provider-side token set returned by a code exchange or a
// refresh. RefreshToken is empty when the provider did not issue one.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// Client is the adapter contract for one provider. Implementations return
// identity facts only and never persist anything locally.
type Client interface {
	// Name returns the provider identifier.
	Name() Provider

	// AuthURL builds the authorization URL the browser is redirected to.
	AuthURL(state string) string

	// ExchangeCode exchanges an authorization code for provider tokens.
	// The adapter sends the exact redirect URI used to obtain the code;
	// providers compare it for equality and reject on mismatch.
	ExchangeCode(ctx context.Context, code, state string) (*Token, error)

	// FetchProfile fetches and normalizes the user profile.
	FetchProfile(ctx context.Context, accessToken string) (*Identity, error)

	// Refresh trades a provider refresh token for a new access token.
	// An invalid_grant answer means the user must log in again.
	Refresh(ctx context.Context, refreshToken string) (*Token, error)
}

// StrPtr returns a pointer to s, or nil when s is empty. Normalizers use it
// so missing profile fields stay nil instead of becoming "".
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
