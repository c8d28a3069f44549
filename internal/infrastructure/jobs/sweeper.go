// Package jobs runs background maintenance tasks.
package jobs

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/studorg/counter-system/internal/core/session"
)

// Sweeper periodically evicts idle counter sessions so attendance records are
// written close to when the timeout elapsed, not lazily on the next query.
type Sweeper struct {
	cron     *cron.Cron
	registry *session.Registry
	interval time.Duration
	log      zerolog.Logger
}

// NewSweeper builds a Sweeper firing every interval. An interval of zero
// disables the sweep entirely; eviction then happens only on reads.
func NewSweeper(registry *session.Registry, interval time.Duration, log zerolog.Logger) *Sweeper {
	return &Sweeper{
		cron:     cron.New(),
		registry: registry,
		interval: interval,
		log:      log,
	}
}

// Start schedules the sweep and launches the scheduler.
func (s *Sweeper) Start() error {
	if s.interval <= 0 {
		s.log.Info().Msg("session sweep disabled")
		return nil
	}

	spec := fmt.Sprintf("@every %s", s.interval)
	_, err := s.cron.AddFunc(spec, func() {
		if n := s.registry.Sweep(); n > 0 {
			s.log.Info().Int("evicted", n).Msg("idle sessions evicted")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}

	s.cron.Start()
	s.log.Info().Dur("interval", s.interval).Msg("session sweeper started")
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
