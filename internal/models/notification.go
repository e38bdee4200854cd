// internal/models/notification.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a notification. Pending is the only
// non-terminal state; once a notification leaves it, it never returns.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition is permitted from s.
func (s Status) Terminal() bool {
	return s == StatusSent || s == StatusCancelled
}

// Notification is a scheduled reminder for a financial entry's due date.
//
// ScheduledAt is computed once at creation and never changes; rescheduling
// an entry cancels the old notification and creates a new one. JobID is the
// opaque handle into the delayed-job queue and is only meaningful while the
// notification is pending.
type Notification struct {
	ID          uuid.UUID  `json:"id"`
	EntryID     uuid.UUID  `json:"entryId"`
	UserID      uuid.UUID  `json:"userId"`
	ScheduledAt time.Time  `json:"scheduledAt"`
	JobID       string     `json:"jobId,omitempty"`
	Status      Status     `json:"status"`
	SentAt      *time.Time `json:"sentAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
}
