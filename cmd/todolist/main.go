package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/todolabs/todolist/internal/cache"
	cachemem "github.com/todolabs/todolist/internal/cache/memory"
	cacheredis "github.com/todolabs/todolist/internal/cache/redis"
	"github.com/todolabs/todolist/internal/config"
	"github.com/todolabs/todolist/internal/domain"
	httpx "github.com/todolabs/todolist/internal/http"
	healthctl "github.com/todolabs/todolist/internal/http/controllers/health"
	svcauth "github.com/todolabs/todolist/internal/http/services/auth"
	svctodo "github.com/todolabs/todolist/internal/http/services/todo"
	"github.com/todolabs/todolist/internal/oauth"
	"github.com/todolabs/todolist/internal/oauth/kakao"
	"github.com/todolabs/todolist/internal/oauth/naver"
	"github.com/todolabs/todolist/internal/observability/logger"
	"github.com/todolabs/todolist/internal/observability/metrics"
	"github.com/todolabs/todolist/internal/rate"
	"github.com/todolabs/todolist/internal/security/secretbox"
	storemem "github.com/todolabs/todolist/internal/store/memory"
	storepg "github.com/todolabs/todolist/internal/store/pg"
	"github.com/todolabs/todolist/internal/token"
	migrations "github.com/todolabs/todolist/migrations/postgres"
)

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	var configPath string

	root := &cobra.Command{
		Use:          "todolist",
		Short:        "Todolist API server with Kakao/Naver social login",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "path to config.yaml (optional)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runMigrate(cfg)
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Purge expired refresh tokens once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runSweep(cfg)
		},
	}

	secretCmd := &cobra.Command{
		Use:   "secret",
		Short: "Helpers for sealed config values",
	}
	secretCmd.AddCommand(&cobra.Command{
		Use:   "encrypt-dsn <plaintext-dsn>",
		Short: "Seal a DSN with the key in STORAGE_DSN_KEY; store the output as storage.dsn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := secretbox.ParseKey(os.Getenv("STORAGE_DSN_KEY"))
			if err != nil {
				return fmt.Errorf("STORAGE_DSN_KEY: %w", err)
			}
			sealed, err := secretbox.Encrypt(key, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "enc:"+sealed)
			return nil
		},
	})

	root.AddCommand(serveCmd, migrateCmd, sweepCmd, secretCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (domain.Store, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		var lifetime time.Duration
		if cfg.Storage.Postgres.ConnMaxLifetime != "" {
			lifetime, _ = time.ParseDuration(cfg.Storage.Postgres.ConnMaxLifetime)
		}
		return storepg.New(ctx, cfg.Storage.DSN, storepg.Config{
			MaxConns:        cfg.Storage.Postgres.MaxConns,
			ConnMaxLifetime: lifetime,
		})
	case "memory":
		return storemem.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func buildProviders(cfg *config.Config) map[oauth.Provider]oauth.Client {
	providers := map[oauth.Provider]oauth.Client{}
	timeout := cfg.ProviderTimeout()

	if cfg.Providers.Kakao.Enabled {
		providers[oauth.ProviderKakao] = kakao.New(
			cfg.Providers.Kakao.ClientID,
			cfg.Providers.Kakao.RedirectURL,
			timeout,
		)
	}
	if cfg.Providers.Naver.Enabled {
		providers[oauth.ProviderNaver] = naver.New(
			cfg.Providers.Naver.ClientID,
			cfg.Providers.Naver.ClientSecret,
			cfg.Providers.Naver.RedirectURL,
			timeout,
		)
	}
	return providers
}

func runServe(cfg *config.Config) error {
	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.App.LogLevel,
		ServiceName: "todolist",
	})
	defer func() { _ = logger.Sync() }()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	var (
		stateCache cache.Cache
		limiter    rate.Limiter
	)
	health := map[string]healthctl.Pinger{"store": store}
	switch cfg.Cache.Kind {
	case "redis":
		rc := cacheredis.New(cfg.Cache.Redis.Addr, cfg.Cache.Redis.DB)
		stateCache = rc
		health["redis"] = rc
		if cfg.Auth.RateLimitMax > 0 {
			limiter = rate.NewRedisLimiter(rc.Client(), "rl:auth:", cfg.Auth.RateLimitMax, cfg.RateLimitWindow())
		}
	case "memory":
		stateCache = cachemem.New(cfg.CacheDefaultTTL())
		if cfg.Auth.RateLimitMax > 0 {
			limiter = rate.NewMemoryLimiter(cfg.Auth.RateLimitMax, cfg.RateLimitWindow())
		}
	default:
		return fmt.Errorf("unknown cache kind %q", cfg.Cache.Kind)
	}

	issuer := token.NewIssuer(cfg.Token.Secret, cfg.Token.Issuer, cfg.AccessTTL())

	providers := buildProviders(cfg)
	if len(providers) == 0 {
		log.Warn("no login providers enabled")
	}

	tokens := svcauth.NewTokenService(svcauth.TokenDeps{
		Issuer:     issuer,
		Users:      store.Users(),
		Refresh:    store.RefreshTokens(),
		RefreshTTL: cfg.RefreshTTL(),
	})
	login := svcauth.NewLoginService(svcauth.LoginDeps{
		Providers: providers,
		Users:     store.Users(),
		Tokens:    tokens,
		States:    svcauth.NewStateStore(stateCache, cfg.StateTTL()),
	})
	todos := svctodo.NewService(svctodo.Deps{Todos: store.Todos()})

	router := httpx.NewRouter(httpx.Deps{
		Issuer:             issuer,
		Login:              login,
		Tokens:             tokens,
		Users:              store.Users(),
		Todos:              todos,
		FrontendURL:        cfg.Server.FrontendURL,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		RateLimiter:        limiter,
		MetricsHandler:     metrics.Register(nil),
		Health:             health,
	})
	server := httpx.NewServer(cfg.Server.Addr, router)

	sweeper := &svcauth.Sweeper{
		Refresh:  store.RefreshTokens(),
		Interval: cfg.SweepInterval(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(gctx) })
	g.Go(func() error {
		if err := sweeper.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("server stopped")
	return nil
}

func runMigrate(cfg *config.Config) error {
	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, ServiceName: "todolist"})
	defer func() { _ = logger.Sync() }()

	if cfg.Storage.Driver != "postgres" {
		return fmt.Errorf("migrations only apply to the postgres driver (got %q)", cfg.Storage.Driver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, err := storepg.New(ctx, cfg.Storage.DSN, storepg.Config{})
	if err != nil {
		return fmt.Errorf("connecting: %w", err)
	}
	defer store.Close()

	applied, err := store.Migrate(ctx, migrations.FS)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		logger.L().Info("no pending migrations")
		return nil
	}
	logger.L().Info("migrations applied", logger.Int("count", len(applied)))
	return nil
}

func runSweep(cfg *config.Config) error {
	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, ServiceName: "todolist"})
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.RefreshTokens().DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	logger.L().Info("purged expired refresh tokens", logger.Int("count", int(n)))
	return nil
}
