// internal/scheduler/scheduler.go
package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	errs "finance-notifier/internal/common/errors"
	"finance-notifier/internal/common/logger"
	"finance-notifier/internal/models"
	"finance-notifier/internal/queue"
)

// Result is what a successful schedule hands back to the caller: the opaque
// job handle and the fire time the job was enqueued for.
type Result struct {
	JobID       string
	ScheduledAt time.Time
}

// Scheduler turns a computed fire time into a delayed job. It owns the delay
// arithmetic and the job payload; the queue owns execution.
type Scheduler struct {
	queue       queue.Queue
	calc        *TimeCalculator
	log         logger.Logger
	attempts    int
	backoffBase time.Duration
	now         func() time.Time
}

func New(q queue.Queue, calc *TimeCalculator, log logger.Logger, attempts int, backoffBase time.Duration) *Scheduler {
	return &Scheduler{
		queue:       q,
		calc:        calc,
		log:         log.WithFields(map[string]interface{}{"component": "scheduler"}),
		attempts:    attempts,
		backoffBase: backoffBase,
		now:         time.Now,
	}
}

// WithClock overrides the scheduler's clock. Tests use it to pin "now".
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// ScheduledTime delegates to the calculator.
func (s *Scheduler) ScheduledTime(entry models.Entry, user models.User) (time.Time, error) {
	return s.calc.ScheduledTime(entry, user)
}

// Schedule enqueues the reminder job. A scheduledAt already in the past
// yields delay 0 — the job fires immediately — because due dates entered in
// the past must still notify.
func (s *Scheduler) Schedule(ctx context.Context, notificationID uuid.UUID, entry models.Entry, userID uuid.UUID, scheduledAt time.Time) (Result, error) {
	payload := queue.Payload{
		NotificationID: notificationID,
		EntryID:        entry.ID,
		UserID:         userID,
		Metadata: queue.Metadata{
			ScheduledAt:      scheduledAt.UTC().Format(time.RFC3339),
			EntryDescription: entry.Description,
			EntryAmount:      entry.Amount,
			EntryDate:        entry.Date.UTC().Format(time.RFC3339),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("marshal job payload: %w", err)
	}

	delay := scheduledAt.Sub(s.now())
	if delay < 0 {
		delay = 0
	}

	jobID, err := s.queue.Enqueue(ctx, body, queue.Options{
		Delay:       delay,
		Attempts:    s.attempts,
		BackoffBase: s.backoffBase,
	})
	if err != nil {
		return Result{}, errs.NewEnqueueFailedError(err)
	}

	s.log.Debug("reminder job enqueued", map[string]interface{}{
		"notificationId": notificationID.String(),
		"jobId":          jobID,
		"delayMs":        delay.Milliseconds(),
	})

	return Result{JobID: jobID, ScheduledAt: scheduledAt}, nil
}

// Cancel removes a scheduled job by handle. A handle that no longer resolves
// means the job already fired or expired; cancelling it is a successful
// no-op.
func (s *Scheduler) Cancel(ctx context.Context, jobID string) error {
	_, err := s.queue.Get(ctx, jobID)
	if errors.Is(err, queue.ErrJobNotFound) {
		s.log.Debug("job already consumed, nothing to cancel", map[string]interface{}{"jobId": jobID})
		return nil
	}
	if err != nil {
		return errs.NewQueueCancelFailedError(jobID, err)
	}

	if err := s.queue.Cancel(ctx, jobID); err != nil {
		if errors.Is(err, queue.ErrJobNotFound) {
			// Fired between the lookup and the removal.
			return nil
		}
		return errs.NewQueueCancelFailedError(jobID, err)
	}
	return nil
}
