// Package sweeper settles matches whose window has ended without waiting for
// a client to call complete.
package sweeper

import (
	"context"
	"errors"
	"time"

	"crypto-fantasy/internal/app/matches"
	"crypto-fantasy/internal/metrics"

	"github.com/rs/zerolog/log"
)

const defaultBatch = 100

type Settler interface {
	DueMatchIDs(ctx context.Context, limit int) ([]string, error)
	Complete(ctx context.Context, matchID string) (*matches.SettlementResponse, error)
}

type Sweeper struct {
	settler Settler
	metrics *metrics.Metrics
	batch   int
}

func New(settler Settler, m *metrics.Metrics) *Sweeper {
	return &Sweeper{settler: settler, metrics: m, batch: defaultBatch}
}

// Run sweeps every interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("settlement sweep failed")
			}
		}
	}
}

// SweepOnce settles every due match and reports how many it paid out. Matches
// another worker is settling, or already settled, are skipped.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	ids, err := s.settler.DueMatchIDs(ctx, s.batch)
	if err != nil {
		return 0, err
	}
	settled := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return settled, ctx.Err()
		}
		_, err := s.settler.Complete(ctx, id)
		switch {
		case err == nil:
			settled++
			s.metrics.ObserveSweep("settled")
		case errors.Is(err, matches.ErrSettlementBusy), errors.Is(err, matches.ErrAlreadySettled):
			s.metrics.ObserveSweep("skipped")
		default:
			s.metrics.ObserveSweep("failed")
			log.Warn().Err(err).Str("match_id", id).Msg("sweep could not settle match")
		}
	}
	if settled > 0 {
		log.Info().Int("settled", settled).Int("due", len(ids)).Msg("settlement sweep done")
	}
	return settled, nil
}
