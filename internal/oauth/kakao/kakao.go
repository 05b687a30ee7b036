// Package kakao implements OAuth 2.0 authentication with Kakao.
// Kakao exchanges the authorization code via a form-encoded POST and does
// not require a client secret; the profile payload nests the interesting
// fields under kakao_account and properties.
package kakao

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/todolabs/todolist/internal/oauth"
	"github.com/todolabs/todolist/internal/observability/logger"
)

const (
	defaultAuthEndpoint    = "https://kauth.kakao.com/oauth/authorize"
	defaultTokenEndpoint   = "https://kauth.kakao.com/oauth/token"
	defaultProfileEndpoint = "https://kapi.kakao.com/v2/user/me"

	fallbackDisplayName = "Kakao User"
)

// OAuth is the Kakao OAuth 2.0 client.
type OAuth struct {
	ClientID    string // REST API key
	RedirectURL string

	// Endpoints are overridable for tests.
	AuthEndpoint    string
	TokenEndpoint   string
	ProfileEndpoint string

	http *http.Client
}

// New creates a new Kakao OAuth client.
func New(clientID, redirectURL string, timeout time.Duration) *OAuth {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OAuth{
		ClientID:        clientID,
		RedirectURL:     redirectURL,
		AuthEndpoint:    defaultAuthEndpoint,
		TokenEndpoint:   defaultTokenEndpoint,
		ProfileEndpoint: defaultProfileEndpoint,
		http:            &http.Client{Timeout: timeout},
	}
}

func (k *OAuth) Name() oauth.Provider { return oauth.ProviderKakao }

// AuthURL builds the authorization URL for Kakao login.
func (k *OAuth) AuthURL(state string) string {
	u, _ := url.Parse(k.AuthEndpoint)
	q := u.Query()
	q.Set("response_type", "code")
	q.Set("client_id", k.ClientID)
	q.Set("redirect_uri", k.RedirectURL)
	if state != "" {
		q.Set("state", state)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	Error        string `json:"error,omitempty"`
	ErrorCode    string `json:"error_code,omitempty"`
	ErrorDesc    string `json:"error_description,omitempty"`
}

// ExchangeCode exchanges an authorization code for Kakao tokens.
// Kakao ignores state during the exchange; it is validated upstream.
func (k *OAuth) ExchangeCode(ctx context.Context, code, state string) (*oauth.Token, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", k.ClientID)
	form.Set("redirect_uri", k.RedirectURL)
	form.Set("code", code)

	return k.tokenRequest(ctx, form)
}

// Refresh trades a Kakao refresh token for a new access token. Kakao may
// rotate the refresh token; when it does the new one is returned too.
func (k *OAuth) Refresh(ctx context.Context, refreshToken string) (*oauth.Token, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", k.ClientID)
	form.Set("refresh_token", refreshToken)

	return k.tokenRequest(ctx, form)
}

func (k *OAuth) tokenRequest(ctx context.Context, form url.Values) (*oauth.Token, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", k.TokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")
	req.Header.Set("Accept", "application/json")

	resp, err := k.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, &oauth.AuthError{Provider: oauth.ProviderKakao, Desc: "malformed token response"}
	}

	if tr.Error != "" || resp.StatusCode/100 != 2 {
		logger.From(ctx).Warn("kakao token request rejected",
			logger.Provider("kakao"),
			logger.String("error", tr.Error),
			logger.String("error_code", tr.ErrorCode),
		)
		return nil, &oauth.AuthError{
			Provider:            oauth.ProviderKakao,
			Code:                tr.Error,
			Desc:                tr.ErrorDesc,
			RedirectURIMismatch: isRedirectMismatch(tr),
		}
	}
	if tr.AccessToken == "" {
		return nil, &oauth.AuthError{Provider: oauth.ProviderKakao, Desc: "no access_token in response"}
	}

	return &oauth.Token{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresIn:    tr.ExpiresIn,
	}, nil
}

// isRedirectMismatch detects Kakao's redirect URI rejection (KOE006 or an
// invalid_grant whose description names the redirect_uri).
func isRedirectMismatch(tr tokenResponse) bool {
	if tr.ErrorCode == "KOE006" {
		return true
	}
	return strings.Contains(strings.ToLower(tr.ErrorDesc), "redirect")
}

// profilePayload is the raw Kakao /v2/user/me shape. Every nested object is
// optional, hence the fallback chains in normalize.
type profilePayload struct {
	ID           int64 `json:"id"`
	KakaoAccount struct {
		Email   string `json:"email"`
		Profile struct {
			Nickname        string `json:"nickname"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"profile"`
	} `json:"kakao_account"`
	Properties struct {
		Nickname     string `json:"nickname"`
		ProfileImage string `json:"profile_image"`
	} `json:"properties"`
}

// FetchProfile fetches the Kakao profile and normalizes it.
func (k *OAuth) FetchProfile(ctx context.Context, accessToken string) (*oauth.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", k.ProfileEndpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := k.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &oauth.ProfileError{Provider: oauth.ProviderKakao, Status: resp.StatusCode}
	}

	var p profilePayload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, &oauth.ProfileError{Provider: oauth.ProviderKakao, Reason: "malformed profile response"}
	}
	if p.ID == 0 {
		return nil, &oauth.ProfileError{Provider: oauth.ProviderKakao, Reason: "missing id"}
	}

	return normalize(&p), nil
}

// normalize maps the raw payload to the canonical identity.
// Display name: kakao_account.profile.nickname, then properties.nickname.
// Avatar: kakao_account.profile.profile_image_url, then properties.profile_image.
func normalize(p *profilePayload) *oauth.Identity {
	name := p.KakaoAccount.Profile.Nickname
	if name == "" {
		name = p.Properties.Nickname
	}
	if name == "" {
		name = fallbackDisplayName
	}

	avatar := p.KakaoAccount.Profile.ProfileImageURL
	if avatar == "" {
		avatar = p.Properties.ProfileImage
	}

	return &oauth.Identity{
		Provider:    oauth.ProviderKakao,
		ProviderID:  strconv.FormatInt(p.ID, 10),
		Email:       oauth.StrPtr(p.KakaoAccount.Email),
		DisplayName: name,
		AvatarURL:   oauth.StrPtr(avatar),
	}
}
