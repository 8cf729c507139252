package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"nbaroster/backend/internal/ingest"
	"nbaroster/backend/internal/metrics"
)

// Scheduler triggers periodic sync runs.
//
// Runs are single-flight: a trigger that fires while a run is still in
// progress is logged and dropped, never interleaved. Cron normally spaces
// runs far apart; the guard makes that an invariant instead of an
// assumption.
type Scheduler struct {
	syncer   *ingest.Syncer
	cronSpec string
	cron     *cron.Cron
	running  atomic.Bool
}

// NewScheduler creates a scheduler that runs the syncer on cronSpec.
func NewScheduler(syncer *ingest.Syncer, cronSpec string) *Scheduler {
	return &Scheduler{
		syncer:   syncer,
		cronSpec: cronSpec,
		cron:     cron.New(),
	}
}

// Start registers the cron job and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.cronSpec, func() {
		s.RunNow(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule sync: %w", err)
	}

	s.cron.Start()
	log.Info().Str("schedule", s.cronSpec).Msg("Sync scheduled")
	return nil
}

// RunNow executes a sync run immediately, unless one is already in flight.
// Returns whether a run was started.
func (s *Scheduler) RunNow(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		metrics.SyncRunsSkipped.Inc()
		log.Warn().Msg("Sync already in flight, skipping trigger")
		return false
	}
	defer s.running.Store(false)

	log.Info().Msg("Starting sync run...")
	summary, err := s.syncer.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Sync run failed")
		return true
	}
	log.Info().Stringer("summary", summary).Msg("Sync run succeeded")
	return true
}

// Stop stops the scheduler. A run already in flight finishes on its own.
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")
	s.cron.Stop()
	log.Info().Msg("Scheduler stopped")
}
