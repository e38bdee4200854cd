// Package notification provides the durable notification repository.
//
// Status transitions are conditional UPDATEs keyed on the expected prior
// status, so concurrent cancel/send invocations race on the database row
// rather than on an application-level read-then-write.
package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"finance-notifier/internal/models"
	"finance-notifier/internal/store"
)

// Store is the Postgres-backed notification repository.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create inserts a new pending notification and returns it with timestamps
// populated.
func (s *Store) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	query := `
		INSERT INTO notifications (id, entry_id, user_id, scheduled_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6);
	`

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, query, n.ID, n.EntryID, n.UserID, n.ScheduledAt, n.Status, now)
	if err != nil {
		return models.Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}

	n.CreatedAt = now
	n.UpdatedAt = now
	return n, nil
}

// GetByID retrieves a notification by its id.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (models.Notification, error) {
	query := `
		SELECT id, entry_id, user_id, scheduled_at, COALESCE(job_id, ''), status, sent_at, created_at, updated_at
		FROM notifications
		WHERE id = $1 AND deleted_at IS NULL;
	`

	return s.scanOne(s.db.QueryRowContext(ctx, query, id))
}

// GetPendingByEntryID retrieves the entry's pending notification, if any.
// The entry-uniqueness invariant means there is at most one.
func (s *Store) GetPendingByEntryID(ctx context.Context, entryID uuid.UUID) (models.Notification, error) {
	query := `
		SELECT id, entry_id, user_id, scheduled_at, COALESCE(job_id, ''), status, sent_at, created_at, updated_at
		FROM notifications
		WHERE entry_id = $1 AND status = $2 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1;
	`

	return s.scanOne(s.db.QueryRowContext(ctx, query, entryID, models.StatusPending))
}

// UpdateJobID persists the queue handle on a freshly created notification.
func (s *Store) UpdateJobID(ctx context.Context, id uuid.UUID, jobID string) error {
	query := `
		UPDATE notifications
		SET job_id = $1, updated_at = $2
		WHERE id = $3;
	`

	res, err := s.db.ExecContext(ctx, query, jobID, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update notification job id: %w", err)
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

// UpdateStatusIf atomically transitions the notification from the expected
// status to the new one. It reports false when the row was not in the
// expected status, meaning a concurrent writer won.
func (s *Store) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to models.Status) (bool, error) {
	query := `
		UPDATE notifications
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4;
	`

	res, err := s.db.ExecContext(ctx, query, to, time.Now().UTC(), id, from)
	if err != nil {
		return false, fmt.Errorf("failed to update notification status: %w", err)
	}

	rows, _ := res.RowsAffected()
	return rows > 0, nil
}

// MarkSentIf atomically transitions pending → sent and stamps sent_at.
// Reports false when the notification was no longer pending.
func (s *Store) MarkSentIf(ctx context.Context, id uuid.UUID, sentAt time.Time) (bool, error) {
	query := `
		UPDATE notifications
		SET status = $1, sent_at = $2, updated_at = $2
		WHERE id = $3 AND status = $4;
	`

	res, err := s.db.ExecContext(ctx, query, models.StatusSent, sentAt.UTC(), id, models.StatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to mark notification sent: %w", err)
	}

	rows, _ := res.RowsAffected()
	return rows > 0, nil
}

// CancelByEntryID atomically cancels the entry's pending notification.
// Reports false when there was nothing pending to cancel.
func (s *Store) CancelByEntryID(ctx context.Context, entryID uuid.UUID) (bool, error) {
	query := `
		UPDATE notifications
		SET status = $1, updated_at = $2
		WHERE entry_id = $3 AND status = $4;
	`

	res, err := s.db.ExecContext(ctx, query, models.StatusCancelled, time.Now().UTC(), entryID, models.StatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to cancel notification: %w", err)
	}

	rows, _ := res.RowsAffected()
	return rows > 0, nil
}

// DeleteCancelledOlderThan hard-deletes cancelled notifications whose last
// update predates the cutoff, returning the number of rows removed.
func (s *Store) DeleteCancelledOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM notifications
		WHERE status = $1 AND updated_at < $2;
	`

	res, err := s.db.ExecContext(ctx, query, models.StatusCancelled, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete cancelled notifications: %w", err)
	}

	return res.RowsAffected()
}

func (s *Store) scanOne(row *sql.Row) (models.Notification, error) {
	var n models.Notification
	err := row.Scan(
		&n.ID, &n.EntryID, &n.UserID, &n.ScheduledAt,
		&n.JobID, &n.Status, &n.SentAt, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Notification{}, store.ErrNotFound
		}
		return models.Notification{}, fmt.Errorf("failed to scan notification: %w", err)
	}
	return n, nil
}
