package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/todolabs/todolist/internal/security/secretbox"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Server.Addr != ":8080" {
		t.Errorf("Addr = %q", c.Server.Addr)
	}
	if c.Storage.Driver != "memory" || c.Cache.Kind != "memory" {
		t.Errorf("defaults = %q/%q", c.Storage.Driver, c.Cache.Kind)
	}
	if c.AccessTTL() != 168*time.Hour {
		t.Errorf("AccessTTL = %v", c.AccessTTL())
	}
	if c.RefreshTTL() != 720*time.Hour {
		t.Errorf("RefreshTTL = %v", c.RefreshTTL())
	}
	if c.StateTTL() != 5*time.Minute || c.SweepInterval() != time.Hour {
		t.Errorf("auth ttls = %v/%v", c.StateTTL(), c.SweepInterval())
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatal("Load without token secret must fail")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
token:
  secret: from-file
server:
  addr: ":9999"
`)
	t.Setenv("SERVER_ADDR", ":7777")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Server.Addr != ":7777" {
		t.Errorf("Addr = %q, env must win", c.Server.Addr)
	}
	if c.Token.Secret != "from-file" {
		t.Errorf("Secret = %q", c.Token.Secret)
	}
}

func TestEnabledProviderNeedsCredentials(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("NAVER_ENABLED", "true")
	t.Setenv("NAVER_CLIENT_ID", "cid")
	t.Setenv("NAVER_REDIRECT_URI", "https://api.example.com/cb")
	// client_secret deliberately missing

	if _, err := Load(""); err == nil {
		t.Fatal("enabled naver without client_secret must fail at load")
	}
}

func TestKakaoNeedsNoSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("KAKAO_ENABLED", "true")
	t.Setenv("KAKAO_REST_API_KEY", "rest-key")
	t.Setenv("KAKAO_REDIRECT_URI", "https://api.example.com/cb")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !c.Providers.Kakao.Enabled || c.Providers.Kakao.ClientID != "rest-key" {
		t.Errorf("kakao = %+v", c.Providers.Kakao)
	}
}

func TestBadDurationRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("JWT_ACCESS_TTL", "7 days")

	if _, err := Load(""); err == nil {
		t.Fatal("unparseable duration must fail at load")
	}
}

func TestCORSListFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("SERVER_CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Server.CORSAllowedOrigins) != 2 || c.Server.CORSAllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("CORS = %v", c.Server.CORSAllowedOrigins)
	}
}

func TestEncryptedDSN(t *testing.T) {
	key := strings.Repeat("k", 32)
	sealed, err := secretbox.Encrypt([]byte(key), "postgres://app@db/todolist")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("STORAGE_DSN", "enc:"+sealed)
	t.Setenv("STORAGE_DSN_KEY", key)

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Storage.DSN != "postgres://app@db/todolist" {
		t.Errorf("DSN = %q", c.Storage.DSN)
	}
}

func TestEncryptedDSNWithoutKeyFails(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("STORAGE_DSN", "enc:AAAA|AAAA")
	t.Setenv("STORAGE_DSN_KEY", "")

	if _, err := Load(""); err == nil {
		t.Fatal("Load succeeded with encrypted dsn and no key")
	}
}
