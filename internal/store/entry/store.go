// Package entry provides read access to financial entries. Entry CRUD is
// owned by the entry-management subsystem; this core only loads the fields
// the reminder needs.
package entry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"finance-notifier/internal/models"
	"finance-notifier/internal/store"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetByID retrieves an entry by its id.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (models.Entry, error) {
	query := `
		SELECT id, user_id, description, amount, type, date, notification_time_minutes
		FROM entries
		WHERE id = $1;
	`

	var e models.Entry
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.UserID, &e.Description, &e.Amount, &e.Type, &e.Date, &e.NotificationTimeMinutes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Entry{}, store.ErrNotFound
		}
		return models.Entry{}, fmt.Errorf("failed to get entry: %w", err)
	}
	return e, nil
}
