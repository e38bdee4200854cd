// Package notification implements the notification state machine: create,
// cancel, and send.
//
// Pending is the only non-terminal status. Every transition out of it goes
// through a conditional update keyed on the expected prior status, so a
// cancel racing a send settles on the database row: whichever transition
// commits first wins, and cancelled always blocks a later send.
package notification

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	errs "finance-notifier/internal/common/errors"
	"finance-notifier/internal/common/logger"
	"finance-notifier/internal/common/metrics"
	"finance-notifier/internal/mailer"
	"finance-notifier/internal/models"
	"finance-notifier/internal/scheduler"
	"finance-notifier/internal/store"
)

type notificationStore interface {
	Create(ctx context.Context, n models.Notification) (models.Notification, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.Notification, error)
	GetPendingByEntryID(ctx context.Context, entryID uuid.UUID) (models.Notification, error)
	UpdateJobID(ctx context.Context, id uuid.UUID, jobID string) error
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to models.Status) (bool, error)
	MarkSentIf(ctx context.Context, id uuid.UUID, sentAt time.Time) (bool, error)
	CancelByEntryID(ctx context.Context, entryID uuid.UUID) (bool, error)
}

type entryStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (models.Entry, error)
}

type userStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (models.User, error)
}

type jobScheduler interface {
	ScheduledTime(entry models.Entry, user models.User) (time.Time, error)
	Schedule(ctx context.Context, notificationID uuid.UUID, entry models.Entry, userID uuid.UUID, scheduledAt time.Time) (scheduler.Result, error)
	Cancel(ctx context.Context, jobID string) error
}

// SendResult reports the outcome of one delivery attempt. Sent=false with a
// nil error means the notification was legitimately skipped, not that
// delivery failed.
type SendResult struct {
	Sent      bool
	MessageID string
}

// Service wires the state machine to its collaborators.
type Service struct {
	notifications notificationStore
	entries       entryStore
	users         userStore
	scheduler     jobScheduler
	mailer        mailer.Mailer
	log           logger.Logger
	now           func() time.Time
}

func NewService(
	notifications notificationStore,
	entries entryStore,
	users userStore,
	sched jobScheduler,
	m mailer.Mailer,
	log logger.Logger,
) *Service {
	return &Service{
		notifications: notifications,
		entries:       entries,
		users:         users,
		scheduler:     sched,
		mailer:        m,
		log:           log.WithFields(map[string]interface{}{"component": "notification-service"}),
		now:           time.Now,
	}
}

// WithClock overrides the service clock. Tests use it to pin "now".
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create validates, persists, and schedules a reminder for an entry. The
// caller guarantees any prior pending notification for the entry was already
// cancelled.
func (s *Service) Create(ctx context.Context, entry models.Entry, user models.User) (models.Notification, error) {
	if !user.NotificationsEnabled {
		return models.Notification{}, errs.NewNotificationsDisabledError(user.ID.String())
	}

	scheduledAt, err := s.scheduler.ScheduledTime(entry, user)
	if err != nil {
		return models.Notification{}, err
	}

	now := s.now()
	if scheduledAt.Before(now) {
		return models.Notification{}, errs.NewScheduleInPastError(scheduledAt, now)
	}

	n := models.Notification{
		ID:          uuid.New(),
		EntryID:     entry.ID,
		UserID:      user.ID,
		ScheduledAt: scheduledAt,
		Status:      models.StatusPending,
	}

	created, err := s.notifications.Create(ctx, n)
	if err != nil {
		return models.Notification{}, errs.NewStorageError("create", err)
	}

	res, err := s.scheduler.Schedule(ctx, created.ID, entry, user.ID, scheduledAt)
	if err != nil {
		return models.Notification{}, err
	}

	// If this second write fails the record stays pending with no job id —
	// an orphan reconciled by operational tooling, not here.
	if err := s.notifications.UpdateJobID(ctx, created.ID, res.JobID); err != nil {
		return models.Notification{}, errs.NewStorageError("update job id", err)
	}
	created.JobID = res.JobID

	metrics.NotificationsScheduled.Inc()
	s.log.Info("notification scheduled", map[string]interface{}{
		"notificationId": created.ID.String(),
		"entryId":        entry.ID.String(),
		"scheduledAt":    scheduledAt.Format(time.RFC3339),
		"jobId":          res.JobID,
	})

	return created, nil
}

// Cancel cancels the entry's pending notification. Cancelling an entry that
// has nothing scheduled is a successful no-op. Queue removal is best effort;
// the database transition is authoritative.
func (s *Service) Cancel(ctx context.Context, entryID uuid.UUID) error {
	n, err := s.notifications.GetPendingByEntryID(ctx, entryID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return errs.NewStorageError("get pending by entry", err)
	}

	if n.JobID != "" {
		if err := s.scheduler.Cancel(ctx, n.JobID); err != nil {
			// A job that cannot be removed may simply have fired already;
			// the cancelled row blocks its send either way.
			s.log.WithError(err).Warn("failed to remove queued job, cancelling record anyway", map[string]interface{}{
				"notificationId": n.ID.String(),
				"jobId":          n.JobID,
			})
		}
	}

	cancelled, err := s.notifications.CancelByEntryID(ctx, entryID)
	if err != nil {
		return errs.NewStorageError("cancel by entry", err)
	}
	if cancelled {
		metrics.NotificationsCancelled.WithLabelValues("requested").Inc()
		s.log.Info("notification cancelled", map[string]interface{}{
			"notificationId": n.ID.String(),
			"entryId":        entryID.String(),
		})
	}

	return nil
}

// Send delivers the reminder for a fired job. Terminal-state and not-found
// errors are fatal for the invocation and must not be retried; a failed
// email send leaves the record pending so the runner's retry policy gets
// another attempt.
func (s *Service) Send(ctx context.Context, notificationID, entryID, userID uuid.UUID) (SendResult, error) {
	n, err := s.notifications.GetByID(ctx, notificationID)
	if errors.Is(err, store.ErrNotFound) {
		return SendResult{}, errs.NewNotificationNotFoundError(notificationID.String())
	}
	if err != nil {
		return SendResult{}, errs.NewStorageError("get by id", err)
	}

	if n.Status.Terminal() {
		if n.Status == models.StatusSent {
			return SendResult{}, errs.NewAlreadySentError(notificationID.String())
		}
		return SendResult{}, errs.NewAlreadyCancelledError(notificationID.String())
	}

	entry, err := s.entries.GetByID(ctx, entryID)
	if errors.Is(err, store.ErrNotFound) {
		return SendResult{}, errs.NewEntryNotFoundError(entryID.String())
	}
	if err != nil {
		return SendResult{}, errs.NewStorageError("get entry", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return SendResult{}, errs.NewUserNotFoundError(userID.String())
	}
	if err != nil {
		return SendResult{}, errs.NewStorageError("get user", err)
	}

	// Disabled after scheduling but before firing: a legitimate outcome,
	// not a failure.
	if !user.NotificationsEnabled {
		if _, err := s.notifications.UpdateStatusIf(ctx, n.ID, models.StatusPending, models.StatusCancelled); err != nil {
			return SendResult{}, errs.NewStorageError("cancel disabled", err)
		}
		metrics.NotificationsCancelled.WithLabelValues("disabled").Inc()
		s.log.Info("reminder skipped, notifications disabled", map[string]interface{}{
			"notificationId": n.ID.String(),
			"userId":         userID.String(),
		})
		return SendResult{Sent: false}, nil
	}

	msg := mailer.BuildReminder(entry, user)

	start := s.now()
	delivery, err := s.mailer.Send(ctx, msg)
	if err != nil {
		return SendResult{}, errs.NewEmailSendFailedError(err)
	}
	metrics.SendDuration.Observe(time.Since(start).Seconds())

	sent, err := s.notifications.MarkSentIf(ctx, n.ID, s.now())
	if err != nil {
		return SendResult{}, errs.NewStorageError("mark sent", err)
	}
	if !sent {
		// A concurrent writer committed between the status check and this
		// write; re-read to tell a duplicate firing from a cancel.
		s.log.Warn("notification left pending during delivery", map[string]interface{}{
			"notificationId": n.ID.String(),
		})
		if current, rerr := s.notifications.GetByID(ctx, n.ID); rerr == nil && current.Status == models.StatusSent {
			return SendResult{}, errs.NewAlreadySentError(n.ID.String())
		}
		return SendResult{}, errs.NewAlreadyCancelledError(n.ID.String())
	}

	metrics.NotificationsSent.Inc()
	s.log.Info("reminder sent", map[string]interface{}{
		"notificationId": n.ID.String(),
		"messageId":      delivery.MessageID,
	})

	return SendResult{Sent: true, MessageID: delivery.MessageID}, nil
}
