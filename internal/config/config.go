package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/todolabs/todolist/internal/security/secretbox"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env      string `yaml:"env"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
		// FrontendURL is where browser callbacks redirect after login.
		FrontendURL string `yaml:"frontend_url"`
	} `yaml:"server"`

	Storage struct {
		// driver: postgres | memory
		Driver   string `yaml:"driver"`
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxConns        int    `yaml:"max_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Addr string `yaml:"addr"`
			DB   int    `yaml:"db"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	Token struct {
		// Secret signs access credentials (HS256). Required.
		Secret     string `yaml:"secret"`
		Issuer     string `yaml:"issuer"`
		AccessTTL  string `yaml:"access_ttl"`
		RefreshTTL string `yaml:"refresh_ttl"`
	} `yaml:"token"`

	Auth struct {
		StateTTL      string `yaml:"state_ttl"`
		SweepInterval string `yaml:"sweep_interval"`
		// RateLimitMax requests per client per RateLimitWindow on the
		// login/refresh routes. Zero disables limiting.
		RateLimitMax    int    `yaml:"rate_limit_max"`
		RateLimitWindow string `yaml:"rate_limit_window"`
	} `yaml:"auth"`

	Providers struct {
		// Timeout bounds every outbound call to a provider.
		Timeout string `yaml:"timeout"`

		Kakao struct {
			Enabled     bool   `yaml:"enabled"`
			ClientID    string `yaml:"client_id"` // REST API key
			RedirectURL string `yaml:"redirect_url"`
		} `yaml:"kakao"`

		Naver struct {
			Enabled      bool   `yaml:"enabled"`
			ClientID     string `yaml:"client_id"`
			ClientSecret string `yaml:"client_secret"`
			RedirectURL  string `yaml:"redirect_url"`
		} `yaml:"naver"`
	} `yaml:"providers"`
}

// ErrProviderMisconfigured wraps per-provider startup validation failures so a
// provider missing its secret is surfaced at load time, not at first login.
var ErrProviderMisconfigured = errors.New("provider misconfigured")

// Load reads the YAML file (optional: empty path skips the file), applies env
// overrides, fills defaults and validates durations and provider settings.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	c.applyEnvOverrides()

	// A DSN sealed by `todolist secret encrypt-dsn` carries the enc: prefix
	// and is opened with the key from STORAGE_DSN_KEY.
	if sealed, ok := strings.CutPrefix(c.Storage.DSN, "enc:"); ok {
		key, err := secretbox.ParseKey(os.Getenv("STORAGE_DSN_KEY"))
		if err != nil {
			return nil, fmt.Errorf("storage.dsn is encrypted, STORAGE_DSN_KEY: %w", err)
		}
		dsn, err := secretbox.Decrypt(key, sealed)
		if err != nil {
			return nil, fmt.Errorf("storage.dsn: %w", err)
		}
		c.Storage.DSN = dsn
	}

	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.FrontendURL == "" {
		c.Server.FrontendURL = "http://localhost:3000"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Memory.DefaultTTL == "" {
		c.Cache.Memory.DefaultTTL = "10m"
	}
	if c.Token.Issuer == "" {
		c.Token.Issuer = "todolist"
	}
	if c.Token.AccessTTL == "" {
		c.Token.AccessTTL = "168h" // 7d
	}
	if c.Token.RefreshTTL == "" {
		c.Token.RefreshTTL = "720h" // 30d
	}
	if c.Auth.StateTTL == "" {
		c.Auth.StateTTL = "5m"
	}
	if c.Auth.SweepInterval == "" {
		c.Auth.SweepInterval = "1h"
	}
	if c.Auth.RateLimitWindow == "" {
		c.Auth.RateLimitWindow = "1m"
	}
	if c.Providers.Timeout == "" {
		c.Providers.Timeout = "10s"
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks durations and the enabled providers' required settings.
func (c *Config) Validate() error {
	for name, s := range map[string]string{
		"token.access_ttl":     c.Token.AccessTTL,
		"token.refresh_ttl":    c.Token.RefreshTTL,
		"auth.state_ttl":       c.Auth.StateTTL,
		"auth.sweep_interval":  c.Auth.SweepInterval,
		"auth.rate_limit_win":  c.Auth.RateLimitWindow,
		"providers.timeout":    c.Providers.Timeout,
		"cache.memory.default": c.Cache.Memory.DefaultTTL,
	} {
		if _, err := time.ParseDuration(s); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if c.Storage.Postgres.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(c.Storage.Postgres.ConnMaxLifetime); err != nil {
			return err
		}
	}

	if strings.TrimSpace(c.Token.Secret) == "" {
		return errors.New("token.secret is required")
	}

	if c.Providers.Kakao.Enabled {
		if strings.TrimSpace(c.Providers.Kakao.ClientID) == "" {
			return fmt.Errorf("%w: kakao: client_id missing", ErrProviderMisconfigured)
		}
		if strings.TrimSpace(c.Providers.Kakao.RedirectURL) == "" {
			return fmt.Errorf("%w: kakao: redirect_url missing", ErrProviderMisconfigured)
		}
	}
	if c.Providers.Naver.Enabled {
		if strings.TrimSpace(c.Providers.Naver.ClientID) == "" {
			return fmt.Errorf("%w: naver: client_id missing", ErrProviderMisconfigured)
		}
		if strings.TrimSpace(c.Providers.Naver.ClientSecret) == "" {
			return fmt.Errorf("%w: naver: client_secret missing", ErrProviderMisconfigured)
		}
		if strings.TrimSpace(c.Providers.Naver.RedirectURL) == "" {
			return fmt.Errorf("%w: naver: redirect_url missing", ErrProviderMisconfigured)
		}
	}
	return nil
}

// Duration helpers: these strings are validated in Validate, so the parsed
// value is safe to use directly.

func (c *Config) AccessTTL() time.Duration  { return mustDur(c.Token.AccessTTL) }
func (c *Config) RefreshTTL() time.Duration { return mustDur(c.Token.RefreshTTL) }
func (c *Config) StateTTL() time.Duration   { return mustDur(c.Auth.StateTTL) }
func (c *Config) SweepInterval() time.Duration {
	return mustDur(c.Auth.SweepInterval)
}
func (c *Config) RateLimitWindow() time.Duration {
	return mustDur(c.Auth.RateLimitWindow)
}
func (c *Config) ProviderTimeout() time.Duration { return mustDur(c.Providers.Timeout) }
func (c *Config) CacheDefaultTTL() time.Duration { return mustDur(c.Cache.Memory.DefaultTTL) }

func mustDur(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

// ---- env helpers ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}

func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

// applyEnvOverrides lets the environment win over config.yaml.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.App.LogLevel = v
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}
	if v, ok := getEnvStr("FRONTEND_URL"); ok {
		c.Server.FrontendURL = v
	}

	// STORAGE
	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = v
	}
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_CONNS"); ok {
		c.Storage.Postgres.MaxConns = v
	}
	if v, ok := getEnvStr("POSTGRES_CONN_MAX_LIFETIME"); ok {
		c.Storage.Postgres.ConnMaxLifetime = v
	}

	// CACHE
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = v
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}

	// TOKEN
	if v, ok := getEnvStr("JWT_SECRET"); ok {
		c.Token.Secret = v
	}
	if v, ok := getEnvStr("JWT_ISSUER"); ok {
		c.Token.Issuer = v
	}
	if v, ok := getEnvStr("JWT_ACCESS_TTL"); ok {
		c.Token.AccessTTL = v
	}
	if v, ok := getEnvStr("JWT_REFRESH_TTL"); ok {
		c.Token.RefreshTTL = v
	}

	// AUTH
	if v, ok := getEnvStr("AUTH_STATE_TTL"); ok {
		c.Auth.StateTTL = v
	}
	if v, ok := getEnvStr("AUTH_SWEEP_INTERVAL"); ok {
		c.Auth.SweepInterval = v
	}
	if v, ok := getEnvInt("AUTH_RATE_LIMIT_MAX"); ok {
		c.Auth.RateLimitMax = v
	}
	if v, ok := getEnvStr("AUTH_RATE_LIMIT_WINDOW"); ok {
		c.Auth.RateLimitWindow = v
	}

	// PROVIDERS
	if v, ok := getEnvStr("PROVIDER_TIMEOUT"); ok {
		c.Providers.Timeout = v
	}
	if v, ok := getEnvBool("KAKAO_ENABLED"); ok {
		c.Providers.Kakao.Enabled = v
	}
	if v, ok := getEnvStr("KAKAO_REST_API_KEY"); ok {
		c.Providers.Kakao.ClientID = v
	}
	if v, ok := getEnvStr("KAKAO_REDIRECT_URI"); ok {
		c.Providers.Kakao.RedirectURL = v
	}
	if v, ok := getEnvBool("NAVER_ENABLED"); ok {
		c.Providers.Naver.Enabled = v
	}
	if v, ok := getEnvStr("NAVER_CLIENT_ID"); ok {
		c.Providers.Naver.ClientID = v
	}
	if v, ok := getEnvStr("NAVER_CLIENT_SECRET"); ok {
		c.Providers.Naver.ClientSecret = v
	}
	if v, ok := getEnvStr("NAVER_REDIRECT_URI"); ok {
		c.Providers.Naver.RedirectURL = v
	}
}
