package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Retention prunes old audit records on a cron schedule
type Retention struct {
	store     EventStore
	retention time.Duration
	schedule  string
	timeout   time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
	now       func() time.Time
}

func NewRetention(store EventStore, retention time.Duration, schedule string, timeout time.Duration, logger *slog.Logger) *Retention {
	return &Retention{
		store:     store,
		retention: retention,
		schedule:  schedule,
		timeout:   timeout,
		cron:      cron.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// Start registers the prune job and starts the scheduler
func (r *Retention) Start() error {
	_, err := r.cron.AddFunc(r.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if _, err := r.PruneOnce(ctx); err != nil {
			r.logger.Error("Scheduled prune failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid retention schedule %q: %w", r.schedule, err)
	}

	r.cron.Start()
	r.logger.Info("Retention scheduler started",
		slog.String("schedule", r.schedule),
		slog.Duration("retention", r.retention),
	)
	return nil
}

// Stop waits for a running prune to finish
func (r *Retention) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info("Retention scheduler stopped")
}

// PruneOnce deletes records older than the retention window
func (r *Retention) PruneOnce(ctx context.Context) (int64, error) {
	cutoff := r.now().UTC().Add(-r.retention)
	return r.store.PruneEvents(ctx, cutoff)
}
