package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ykvlv/autopilot-dashboard/internal/store"
)

// Sweeper evicts idle sessions.
// session.Registry implements this.
type Sweeper interface {
	Sweep(idle time.Duration) int
	Len() int
}

// Scheduler periodically drops idle dashboard sessions and old journal rows.
type Scheduler struct {
	sessions   Sweeper
	journal    store.Journal
	log        *zap.Logger
	interval   time.Duration
	sessionTTL time.Duration
	retention  time.Duration
	now        func() time.Time
}

// New creates a new Scheduler.
func New(sessions Sweeper, journal store.Journal, log *zap.Logger, interval, sessionTTL, retention time.Duration) *Scheduler {
	return &Scheduler{
		sessions:   sessions,
		journal:    journal,
		log:        log,
		interval:   interval,
		sessionTTL: sessionTTL,
		retention:  retention,
		now:        time.Now,
	}
}

// Run starts the loop until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopping")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick performs one housekeeping cycle.
func (s *Scheduler) tick(ctx context.Context) {
	if n := s.sessions.Sweep(s.sessionTTL); n > 0 {
		s.log.Info("idle sessions evicted", zap.Int("count", n), zap.Int("live", s.sessions.Len()))
	}

	if s.retention <= 0 {
		return
	}
	pruned, err := s.journal.Prune(ctx, s.now().UTC().Add(-s.retention))
	if err != nil {
		s.log.Error("journal prune failed", zap.Error(err))
		return
	}
	if pruned > 0 {
		s.log.Debug("journal pruned", zap.Int64("rows", pruned))
	}
}
