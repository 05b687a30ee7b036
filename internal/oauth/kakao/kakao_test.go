package kakao

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/todolabs/todolist/internal/oauth"
)

func newTestClient(tokenHandler, profileHandler http.HandlerFunc) (*OAuth, func()) {
	tokenSrv := httptest.NewServer(tokenHandler)
	profileSrv := httptest.NewServer(profileHandler)

	c := New("client-id", "https://api.example.com/api/auth/kakao/callback", 2*time.Second)
	c.TokenEndpoint = tokenSrv.URL
	c.ProfileEndpoint = profileSrv.URL
	return c, func() {
		tokenSrv.Close()
		profileSrv.Close()
	}
}

func TestExchangeCodeSendsForm(t *testing.T) {
	var gotContentType, gotGrant, gotClientID, gotCode string

	c, done := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		gotGrant = r.PostForm.Get("grant_type")
		gotClientID = r.PostForm.Get("client_id")
		gotCode = r.PostForm.Get("code")
		if r.PostForm.Get("client_secret") != "" {
			t.Error("client_secret must not be sent")
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at-1","refresh_token":"rt-1","expires_in":21599}`))
	}, nil)
	defer done()

	tok, err := c.ExchangeCode(context.Background(), "code-1", "")
	if err != nil {
		t.Fatalf("ExchangeCode: %v", err)
	}

	if gotContentType != "application/x-www-form-urlencoded;charset=utf-8" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotGrant != "authorization_code" || gotClientID != "client-id" || gotCode != "code-1" {
		t.Errorf("form = grant %q client %q code %q", gotGrant, gotClientID, gotCode)
	}
	if tok.AccessToken != "at-1" || tok.RefreshToken != "rt-1" || tok.ExpiresIn != 21599 {
		t.Errorf("token = %+v", tok)
	}
}

func TestExchangeCodeProviderError(t *testing.T) {
	c, done := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_code":"KOE320","error_description":"authorization code not found"}`))
	}, nil)
	defer done()

	_, err := c.ExchangeCode(context.Background(), "stale", "")
	var authErr *oauth.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("err = %T, want *oauth.AuthError", err)
	}
	if authErr.Code != "invalid_grant" {
		t.Errorf("Code = %q", authErr.Code)
	}
	if !authErr.ReauthRequired() {
		t.Error("invalid_grant must demand reauth")
	}
	if authErr.RedirectURIMismatch {
		t.Error("KOE320 is not a redirect mismatch")
	}
}

func TestExchangeCodeRedirectMismatch(t *testing.T) {
	c, done := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_request","error_code":"KOE006","error_description":"redirect_uri mismatch"}`))
	}, nil)
	defer done()

	_, err := c.ExchangeCode(context.Background(), "c", "")
	var authErr *oauth.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("err = %T", err)
	}
	if !authErr.RedirectURIMismatch {
		t.Error("KOE006 must flag redirect mismatch")
	}
}

func TestExchangeCodeMissingAccessToken(t *testing.T) {
	c, done := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}, nil)
	defer done()

	if _, err := c.ExchangeCode(context.Background(), "c", ""); err == nil {
		t.Fatal("expected error for empty token response")
	}
}

func TestFetchProfileFallbacks(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		wantName   string
		wantAvatar string
		wantEmail  bool
	}{
		{
			name:       "kakao_account preferred",
			body:       `{"id":42,"kakao_account":{"email":"a@b.c","profile":{"nickname":"acct-nick","profile_image_url":"https://img/a.png"}},"properties":{"nickname":"prop-nick","profile_image":"https://img/p.png"}}`,
			wantName:   "acct-nick",
			wantAvatar: "https://img/a.png",
			wantEmail:  true,
		},
		{
			name:       "properties fallback",
			body:       `{"id":42,"properties":{"nickname":"prop-nick","profile_image":"https://img/p.png"}}`,
			wantName:   "prop-nick",
			wantAvatar: "https://img/p.png",
		},
		{
			name:     "default display name",
			body:     `{"id":42}`,
			wantName: "Kakao User",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, done := newTestClient(nil, func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Authorization"); got != "Bearer at-1" {
					t.Errorf("Authorization = %q", got)
				}
				w.Write([]byte(tc.body))
			})
			defer done()

			id, err := c.FetchProfile(context.Background(), "at-1")
			if err != nil {
				t.Fatalf("FetchProfile: %v", err)
			}
			if id.Provider != oauth.ProviderKakao || id.ProviderID != "42" {
				t.Errorf("identity = %+v", id)
			}
			if id.DisplayName != tc.wantName {
				t.Errorf("DisplayName = %q, want %q", id.DisplayName, tc.wantName)
			}
			if tc.wantAvatar == "" {
				if id.AvatarURL != nil {
					t.Errorf("AvatarURL = %q, want nil", *id.AvatarURL)
				}
			} else if id.AvatarURL == nil || *id.AvatarURL != tc.wantAvatar {
				t.Errorf("AvatarURL = %v, want %q", id.AvatarURL, tc.wantAvatar)
			}
			if tc.wantEmail != (id.Email != nil) {
				t.Errorf("Email = %v, wantEmail %v", id.Email, tc.wantEmail)
			}
		})
	}
}

func TestFetchProfileRejectsMissingID(t *testing.T) {
	c, done := newTestClient(nil, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"properties":{"nickname":"n"}}`))
	})
	defer done()

	_, err := c.FetchProfile(context.Background(), "at-1")
	var profErr *oauth.ProfileError
	if !errors.As(err, &profErr) {
		t.Fatalf("err = %T, want *oauth.ProfileError", err)
	}
}

func TestFetchProfileUpstreamStatus(t *testing.T) {
	c, done := newTestClient(nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer done()

	_, err := c.FetchProfile(context.Background(), "expired")
	var profErr *oauth.ProfileError
	if !errors.As(err, &profErr) {
		t.Fatalf("err = %T", err)
	}
	if profErr.Status != http.StatusUnauthorized {
		t.Errorf("Status = %d", profErr.Status)
	}
}

func TestAuthURL(t *testing.T) {
	c := New("client-id", "https://api.example.com/cb", time.Second)

	u := c.AuthURL("st-1")
	for _, want := range []string{"response_type=code", "client_id=client-id", "state=st-1"} {
		if !strings.Contains(u, want) {
			t.Errorf("AuthURL %q missing %q", u, want)
		}
	}

	// Kakao state is optional: no empty state param.
	u = c.AuthURL("")
	if strings.Contains(u, "state=") {
		t.Errorf("AuthURL %q carries empty state", u)
	}
}
