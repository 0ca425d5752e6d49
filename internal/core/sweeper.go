package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper periodically evicts participants whose last heartbeat is older
// than the staleness threshold, appending a departure notice per eviction.
// It shares the registry and message log with the request handlers and
// mutates state only through them.
type Sweeper struct {
	registry   *Registry
	messages   *MessageLog
	interval   time.Duration
	staleAfter time.Duration
	log        *zerolog.Logger
	now        func() time.Time
}

// NewSweeper creates a presence sweeper with the given period and
// staleness threshold.
func NewSweeper(reg *Registry, msgs *MessageLog, interval, staleAfter time.Duration, logger *zerolog.Logger) *Sweeper {
	return &Sweeper{
		registry:   reg,
		messages:   msgs,
		interval:   interval,
		staleAfter: staleAfter,
		log:        logger,
		now:        time.Now,
	}
}

// Run executes sweep passes on the configured period until ctx is
// cancelled. An in-flight pass finishes before Run returns.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one eviction pass: snapshot the participant list, then for
// each stale entry append a departure notice and remove the record.
// Eviction decides on the snapshot's lastSeen; a heartbeat landing between
// snapshot and removal does not rescue the participant on this pass.
// Failures are logged and skipped so one bad eviction cannot abort the rest.
func (s *Sweeper) Sweep(ctx context.Context) {
	participants, err := s.registry.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("sweep: listing participants failed")
		return
	}

	cutoff := s.now().Add(-s.staleAfter).UnixMilli()
	for _, p := range participants {
		if p.LastSeen >= cutoff {
			continue
		}

		if err := s.messages.AppendLeft(ctx, p.Name); err != nil {
			// retried on the next pass, participant stays registered
			s.log.Warn().Err(err).Str("name", p.Name).Msg("sweep: departure notice failed")
			continue
		}
		if err := s.registry.Remove(ctx, p.Name); err != nil {
			s.log.Warn().Err(err).Str("name", p.Name).Msg("sweep: removal failed")
			continue
		}

		s.log.Info().Str("name", p.Name).Msg("participant evicted")
	}
}
