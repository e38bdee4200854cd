// Package cleanup purges long-cancelled notification records on a recurring
// schedule. It operates only through the store's query surface and never
// touches the state-machine use cases.
package cleanup

import (
	"context"
	"time"

	"finance-notifier/internal/common/logger"
	"finance-notifier/internal/common/metrics"
)

type notificationStore interface {
	DeleteCancelledOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Cleaner deletes cancelled notifications whose last update is older than the
// retention window. Deleting by cutoff makes consecutive runs idempotent: a
// second immediate run finds nothing left to remove.
type Cleaner struct {
	store     notificationStore
	retention time.Duration
	interval  time.Duration
	log       logger.Logger
	now       func() time.Time
}

func NewCleaner(store notificationStore, retention, interval time.Duration, log logger.Logger) *Cleaner {
	return &Cleaner{
		store:     store,
		retention: retention,
		interval:  interval,
		log:       log.WithFields(map[string]interface{}{"component": "cleanup"}),
		now:       time.Now,
	}
}

// WithClock overrides the cleaner's clock. Tests use it to pin "now".
func (c *Cleaner) WithClock(now func() time.Time) *Cleaner {
	c.now = now
	return c
}

// RunOnce performs a single purge and returns the number of rows deleted.
func (c *Cleaner) RunOnce(ctx context.Context) (int64, error) {
	cutoff := c.now().Add(-c.retention)

	deleted, err := c.store.DeleteCancelledOlderThan(ctx, cutoff)
	if err != nil {
		c.log.WithError(err).Error("cleanup run failed", nil)
		return 0, err
	}

	if deleted > 0 {
		metrics.CleanupRowsDeleted.Add(float64(deleted))
	}
	c.log.Info("cleanup run finished", map[string]interface{}{
		"deleted": deleted,
		"cutoff":  cutoff.Format(time.RFC3339),
	})
	return deleted, nil
}

// Run executes RunOnce on every tick until ctx is cancelled. Failures are
// logged and do not stop the schedule.
func (c *Cleaner) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.log.Info("cleanup scheduler started", map[string]interface{}{
		"interval":  c.interval.String(),
		"retention": c.retention.String(),
	})

	for {
		select {
		case <-ctx.Done():
			c.log.Info("cleanup scheduler stopped", nil)
			return
		case <-ticker.C:
			_, _ = c.RunOnce(ctx)
		}
	}
}
