package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"nathanbeddoewebdev/dirctl/internal/domain"
)

// Scheduler runs reconciliation for a set of entity types on a fixed
// interval until its context is canceled. Failed runs are logged and retried
// on the next tick.
type Scheduler struct {
	Reconciler *Reconciler
	Types      []domain.EntityType
	Interval   time.Duration
	Logger     *zerolog.Logger

	// OnResult, when set, observes every run.
	OnResult func(et domain.EntityType, res *Result, err error)
}

// Run performs one round immediately and then one per Interval. It returns
// nil once ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.Interval <= 0 {
		return errors.New("reconcile: scheduler interval must be positive")
	}
	logger := zerolog.Nop()
	if s.Logger != nil {
		logger = *s.Logger
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		s.round(ctx, logger)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) round(ctx context.Context, logger zerolog.Logger) {
	for _, et := range s.Types {
		if ctx.Err() != nil {
			return
		}
		res, err := s.Reconciler.Run(ctx, et)
		switch {
		case errors.Is(err, domain.ErrSyncInProgress):
			logger.Info().Str("entity", string(et)).Msg("sync skipped, another run is in progress")
		case err != nil:
			logger.Error().Err(err).Str("entity", string(et)).Msg("scheduled sync failed")
		}
		if s.OnResult != nil {
			s.OnResult(et, res, err)
		}
	}
}
