package naver

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

	c := New("client-id", "client-secret", "https://api.example.com/api/auth/naver/callback", 2*time.Second)
	c.TokenEndpoint = tokenSrv.URL
	c.ProfileEndpoint = profileSrv.URL
	return c, func() {
		tokenSrv.Close()
		profileSrv.Close()
	}
}

func TestExchangeCodeSendsQueryParams(t *testing.T) {
	var got map[string]string

	c, done := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		q := r.URL.Query()
		got = map[string]string{
			"grant_type":    q.Get("grant_type"),
			"client_id":     q.Get("client_id"),
			"client_secret": q.Get("client_secret"),
			"code":          q.Get("code"),
			"state":         q.Get("state"),
		}
		// Naver returns expires_in as a JSON string.
		w.Write([]byte(`{"access_token":"at-1","refresh_token":"rt-1","expires_in":"3600","token_type":"bearer"}`))
	}, nil)
	defer done()

	tok, err := c.ExchangeCode(context.Background(), "code-1", "st-1")
	if err != nil {
		t.Fatalf("ExchangeCode: %v", err)
	}

	want := map[string]string{
		"grant_type":    "authorization_code",
		"client_id":     "client-id",
		"client_secret": "client-secret",
		"code":          "code-1",
		"state":         "st-1",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
	if tok.AccessToken != "at-1" || tok.ExpiresIn != 3600 {
		t.Errorf("token = %+v", tok)
	}
}

func TestExchangeCodeErrorWithHTTP200(t *testing.T) {
	// Naver reports token errors in the body with status 200.
	c, done := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"invalid_request","error_description":"no valid data in session"}`))
	}, nil)
	defer done()

	_, err := c.ExchangeCode(context.Background(), "c", "st")
	var authErr *oauth.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("err = %T, want *oauth.AuthError", err)
	}
	if authErr.Code != "invalid_request" {
		t.Errorf("Code = %q", authErr.Code)
	}
}

func TestFetchProfileEnvelope(t *testing.T) {
	c, done := newTestClient(nil, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer at-1" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`{"resultcode":"00","message":"success","response":{"id":"naver-7","email":"n@example.com","nickname":"nick","name":"Real Name","profile_image":"https://img/n.png"}}`))
	})
	defer done()

	id, err := c.FetchProfile(context.Background(), "at-1")
	if err != nil {
		t.Fatalf("FetchProfile: %v", err)
	}
	if id.Provider != oauth.ProviderNaver || id.ProviderID != "naver-7" {
		t.Errorf("identity = %+v", id)
	}
	if id.DisplayName != "nick" {
		t.Errorf("DisplayName = %q, nickname wins over name", id.DisplayName)
	}
	if id.Email == nil || *id.Email != "n@example.com" {
		t.Errorf("Email = %v", id.Email)
	}
	if id.AvatarURL == nil || *id.AvatarURL != "https://img/n.png" {
		t.Errorf("AvatarURL = %v", id.AvatarURL)
	}
}

func TestFetchProfileNameFallback(t *testing.T) {
	c, done := newTestClient(nil, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"resultcode":"00","message":"success","response":{"id":"naver-7","name":"Real Name"}}`))
	})
	defer done()

	id, err := c.FetchProfile(context.Background(), "at-1")
	if err != nil {
		t.Fatalf("FetchProfile: %v", err)
	}
	if id.DisplayName != "Real Name" {
		t.Errorf("DisplayName = %q, want name fallback", id.DisplayName)
	}
	if id.Email != nil {
		t.Errorf("Email = %q, want nil", *id.Email)
	}
}

func TestFetchProfileBadResultCode(t *testing.T) {
	c, done := newTestClient(nil, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"resultcode":"024","message":"Authentication failed"}`))
	})
	defer done()

	_, err := c.FetchProfile(context.Background(), "at-1")
	var profErr *oauth.ProfileError
	if !errors.As(err, &profErr) {
		t.Fatalf("err = %T, want *oauth.ProfileError", err)
	}
}

func TestAuthURLAlwaysCarriesState(t *testing.T) {
	c := New("client-id", "client-secret", "https://api.example.com/cb", time.Second)

	u := c.AuthURL("st-1")
	for _, want := range []string{"response_type=code", "client_id=client-id", "state=st-1"} {
		if !strings.Contains(u, want) {
			t.Errorf("AuthURL %q missing %q", u, want)
		}
	}
}
