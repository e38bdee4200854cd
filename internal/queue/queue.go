// Package queue defines the delayed-job port the notification pipeline
// schedules through. The runner behind it is at-least-once: a job fires one
// or more times, never zero, absent permanent infrastructure loss.
package queue

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrJobNotFound is returned when a job handle does not resolve, typically
// because the job already fired and was consumed.
var ErrJobNotFound = errors.New("job not found")

// Options control a single enqueue: how long to wait before the job becomes
// due, and the retry policy the runner applies after handler failures.
type Options struct {
	Delay       time.Duration
	Attempts    int
	BackoffBase time.Duration
}

// Job is a unit of delayed work held by the queue. Attempt is 1-based and
// incremented by the runner on every retry.
type Job struct {
	ID          string
	Payload     []byte
	RunAt       time.Time
	Attempt     int
	Attempts    int
	BackoffBase time.Duration
}

// Queue is the delayed-job port: enqueue with delay, cancel by handle,
// retrieve by handle.
type Queue interface {
	Enqueue(ctx context.Context, payload []byte, opts Options) (string, error)
	Cancel(ctx context.Context, jobID string) error
	Get(ctx context.Context, jobID string) (*Job, error)
}

// Payload is the job payload contract for entry reminders.
type Payload struct {
	NotificationID uuid.UUID `json:"notificationId"`
	EntryID        uuid.UUID `json:"entryId"`
	UserID         uuid.UUID `json:"userId"`
	Metadata       Metadata  `json:"metadata"`
}

// Metadata carries denormalized entry details so the reminder email can be
// rendered even if rendering inputs are needed before repository loads.
type Metadata struct {
	ScheduledAt      string  `json:"scheduledAt"` // ISO-8601
	EntryDescription string  `json:"entryDescription"`
	EntryAmount      float64 `json:"entryAmount"`
	EntryDate        string  `json:"entryDate"` // ISO-8601
}
