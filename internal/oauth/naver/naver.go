// Package naver implements OAuth 2.0 authentication with Naver.
// Unlike Kakao, Naver takes the token exchange as a query-param GET with a
// client secret and the anti-CSRF state, and wraps the profile in a
// {resultcode, message, response} envelope.
package naver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/todolabs/todolist/internal/oauth"
	"github.com/todolabs/todolist/internal/observability/logger"
)

const (
	defaultAuthEndpoint    = "https://nid.naver.com/oauth2.0/authorize"
	defaultTokenEndpoint   = "https://nid.naver.com/oauth2.0/token"
	defaultProfileEndpoint = "https://openapi.naver.com/v1/nid/me"

	fallbackDisplayName = "Naver User"
)

// OAuth is the Naver OAuth 2.0 client.
type OAuth struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Endpoints are overridable for tests.
	AuthEndpoint    string
	TokenEndpoint   string
	ProfileEndpoint string

	http *http.Client
}

// New creates a new Naver OAuth client.
func New(clientID, clientSecret, redirectURL string, timeout time.Duration) *OAuth {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OAuth{
		ClientID:        clientID,
		ClientSecret:    clientSecret,
		RedirectURL:     redirectURL,
		AuthEndpoint:    defaultAuthEndpoint,
		TokenEndpoint:   defaultTokenEndpoint,
		ProfileEndpoint: defaultProfileEndpoint,
		http:            &http.Client{Timeout: timeout},
	}
}

func (n *OAuth) Name() oauth.Provider { return oauth.ProviderNaver }

// AuthURL builds the authorization URL for Naver login. State is mandatory
// in Naver's flow.
func (n *OAuth) AuthURL(state string) string {
	u, _ := url.Parse(n.AuthEndpoint)
	q := u.Query()
	q.Set("response_type", "code")
	q.Set("client_id", n.ClientID)
	q.Set("redirect_uri", n.RedirectURL)
	q.Set("state", state)
	u.RawQuery = q.Encode()
	return u.String()
}

// tokenResponse is Naver's token payload. expires_in arrives as a JSON
// string, hence json.Number.
type tokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    json.Number `json:"expires_in"`
	Error        string      `json:"error,omitempty"`
	ErrorDesc    string      `json:"error_description,omitempty"`
}

// ExchangeCode exchanges an authorization code for Naver tokens.
func (n *OAuth) ExchangeCode(ctx context.Context, code, state string) (*oauth.Token, error) {
	q := url.Values{}
	q.Set("grant_type", "authorization_code")
	q.Set("client_id", n.ClientID)
	q.Set("client_secret", n.ClientSecret)
	q.Set("redirect_uri", n.RedirectURL)
	q.Set("code", code)
	q.Set("state", state)

	return n.tokenRequest(ctx, q)
}

// Refresh trades a Naver refresh token for a new access token.
func (n *OAuth) Refresh(ctx context.Context, refreshToken string) (*oauth.Token, error) {
	q := url.Values{}
	q.Set("grant_type", "refresh_token")
	q.Set("client_id", n.ClientID)
	q.Set("client_secret", n.ClientSecret)
	q.Set("refresh_token", refreshToken)

	return n.tokenRequest(ctx, q)
}

func (n *OAuth) tokenRequest(ctx context.Context, q url.Values) (*oauth.Token, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", n.TokenEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, &oauth.AuthError{Provider: oauth.ProviderNaver, Desc: "malformed token response"}
	}

	// Naver reports token errors with HTTP 200 and an error field.
	if tr.Error != "" || resp.StatusCode/100 != 2 {
		logger.From(ctx).Warn("naver token request rejected",
			logger.Provider("naver"),
			logger.String("error", tr.Error),
		)
		return nil, &oauth.AuthError{
			Provider:            oauth.ProviderNaver,
			Code:                tr.Error,
			Desc:                tr.ErrorDesc,
			RedirectURIMismatch: strings.Contains(strings.ToLower(tr.ErrorDesc), "redirect"),
		}
	}
	if tr.AccessToken == "" {
		return nil, &oauth.AuthError{Provider: oauth.ProviderNaver, Desc: "no access_token in response"}
	}

	expiresIn, _ := tr.ExpiresIn.Int64()
	return &oauth.Token{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// profilePayload is the raw Naver /v1/nid/me shape.
type profilePayload struct {
	ResultCode string `json:"resultcode"`
	Message    string `json:"message"`
	Response   struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Nickname     string `json:"nickname"`
		Name         string `json:"name"`
		ProfileImage string `json:"profile_image"`
	} `json:"response"`
}

// FetchProfile fetches the Naver profile and normalizes it.
func (n *OAuth) FetchProfile(ctx context.Context, accessToken string) (*oauth.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", n.ProfileEndpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &oauth.ProfileError{Provider: oauth.ProviderNaver, Status: resp.StatusCode}
	}

	var p profilePayload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, &oauth.ProfileError{Provider: oauth.ProviderNaver, Reason: "malformed profile response"}
	}
	if p.ResultCode != "00" || p.Response.ID == "" {
		return nil, &oauth.ProfileError{Provider: oauth.ProviderNaver, Reason: "resultcode " + p.ResultCode}
	}

	return normalize(&p), nil
}

// normalize maps the envelope to the canonical identity.
// Display name: nickname, then name.
func normalize(p *profilePayload) *oauth.Identity {
	name := p.Response.Nickname
	if name == "" {
		name = p.Response.Name
	}
	if name == "" {
		name = fallbackDisplayName
	}

	return &oauth.Identity{
		Provider:    oauth.ProviderNaver,
		ProviderID:  p.Response.ID,
		Email:       oauth.StrPtr(p.Response.Email),
		DisplayName: name,
		AvatarURL:   oauth.StrPtr(p.Response.ProfileImage),
	}
}
