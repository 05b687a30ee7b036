package auth

import (
	"context"
	"time"

	"github.com/todolabs/todolist/internal/domain"
	"github.com/todolabs/todolist/internal/observability/logger"
	"github.com/todolabs/todolist/internal/observability/metrics"
)

// Sweeper periodically purges expired refresh credentials so abandoned
// sessions do not accumulate.
type Sweeper struct {
	Refresh  domain.RefreshTokenRepository
	Interval time.Duration
}

// Run sweeps until ctx is cancelled. One sweep runs immediately on start.
func (s *Sweeper) Run(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Hour
	}

	s.sweep(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.sweeper"),
		logger.Op("sweep"),
	)

	n, err := s.Refresh.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		metrics.ObserveSweep("error")
		log.Error("sweep failed", logger.Err(err))
		return
	}
	metrics.ObserveSweep("ok")
	if n > 0 {
		log.Info("purged expired refresh tokens", logger.Int("count", int(n)))
	}
}
