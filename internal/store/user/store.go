// Package user provides read access to notification recipients.
package user

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

// GetByID retrieves a user by their id.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	query := `
		SELECT id, name, email, notifications_enabled, notification_time_minutes, COALESCE(timezone, '')
		FROM users
		WHERE id = $1;
	`

	var u models.User
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.NotificationsEnabled, &u.NotificationTimeMinutes, &u.Timezone,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, store.ErrNotFound
		}
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}
