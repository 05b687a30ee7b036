// Package pg is the postgres storage driver, built on pgxpool.
package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/todolabs/todolist/internal/domain"
)

type Store struct{ pool *pgxpool.Pool }

// Config tunes the connection pool.
type Config struct {
	MaxConns        int
	ConnMaxLifetime time.Duration
}

// New parses the DSN, applies pool tuning and connects.
func New(ctx context.Context, dsn string, cfg Config) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		pcfg.MaxConnLifetime = cfg.ConnMaxLifetime
		pcfg.MaxConnIdleTime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Pool exposes the underlying pool for migrations and metrics.
func (s *Store) Pool() *pgxpool.Pool {
	if s == nil {
		return nil
	}
	return s.pool
}

func (s *Store) Users() domain.UserRepository                 { return &userRepo{pool: s.pool} }
func (s *Store) RefreshTokens() domain.RefreshTokenRepository { return &tokenRepo{pool: s.pool} }
func (s *Store) Todos() domain.TodoRepository                 { return &todoRepo{pool: s.pool} }

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the pool (idempotent).
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}
