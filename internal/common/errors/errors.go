// Package errors provides standardized error handling for the notification pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Validation errors: rejected synchronously at creation, never retried.
	ErrCodeNotificationsDisabled ErrorCode = "NOTIFICATIONS_DISABLED"
	ErrCodeScheduleInPast        ErrorCode = "SCHEDULE_IN_PAST"

	// Not-found errors: fatal for the job invocation, data will never appear.
	ErrCodeNotificationNotFound ErrorCode = "NOTIFICATION_NOT_FOUND"
	ErrCodeEntryNotFound        ErrorCode = "ENTRY_NOT_FOUND"
	ErrCodeUserNotFound         ErrorCode = "USER_NOT_FOUND"

	// Already-terminal errors: expected race outcomes, logged and not retried.
	ErrCodeAlreadySent      ErrorCode = "ALREADY_SENT"
	ErrCodeAlreadyCancelled ErrorCode = "ALREADY_CANCELLED"

	// Transient infrastructure errors: propagated, eligible for retry.
	ErrCodeEnqueueFailed     ErrorCode = "ENQUEUE_FAILED"
	ErrCodeQueueCancelFailed ErrorCode = "QUEUE_CANCEL_FAILED"
	ErrCodeStorageFailed     ErrorCode = "STORAGE_FAILED"
	ErrCodeEmailSendFailed   ErrorCode = "EMAIL_SEND_FAILED"

	// Malformed job payload: the job is corrupt, retrying cannot help.
	ErrCodeJobPayloadInvalid ErrorCode = "JOB_PAYLOAD_INVALID"

	// Misconfiguration, e.g. an unknown time zone identifier.
	ErrCodeInvalidTimezone ErrorCode = "INVALID_TIMEZONE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// CodeOf extracts the error code from err, or "" if err is not a StandardError.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsRetryable reports whether the job runner should retry after err.
// Unknown error types are treated as retryable so transient failures from
// lower layers get the benefit of the doubt.
func IsRetryable(err error) bool {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return true
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// ==========================
// Error Constructors
// ==========================

// NewNotificationsDisabledError creates a non-retryable validation error.
func NewNotificationsDisabledError(userID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationsDisabled,
		Message:   "User has notifications disabled",
		Details:   fmt.Sprintf("userId: %s", userID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewScheduleInPastError creates a non-retryable validation error for a fire
// time that had already fully elapsed at creation.
func NewScheduleInPastError(scheduledAt, now time.Time) *StandardError {
	return &StandardError{
		Code:      ErrCodeScheduleInPast,
		Message:   "Computed notification time is in the past",
		Details:   fmt.Sprintf("scheduledAt: %s, now: %s", scheduledAt.Format(time.RFC3339), now.Format(time.RFC3339)),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationNotFoundError creates a non-retryable not-found error.
func NewNotificationNotFoundError(notificationID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationNotFound,
		Message:   "Notification not found",
		Details:   fmt.Sprintf("notificationId: %s", notificationID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEntryNotFoundError creates a non-retryable not-found error.
func NewEntryNotFoundError(entryID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEntryNotFound,
		Message:   "Entry not found",
		Details:   fmt.Sprintf("entryId: %s", entryID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUserNotFoundError creates a non-retryable not-found error.
func NewUserNotFoundError(userID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUserNotFound,
		Message:   "User not found",
		Details:   fmt.Sprintf("userId: %s", userID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAlreadySentError creates a non-retryable terminal-state error.
func NewAlreadySentError(notificationID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAlreadySent,
		Message:   "Notification was already sent",
		Details:   fmt.Sprintf("notificationId: %s", notificationID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAlreadyCancelledError creates a non-retryable terminal-state error.
func NewAlreadyCancelledError(notificationID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAlreadyCancelled,
		Message:   "Notification was already cancelled",
		Details:   fmt.Sprintf("notificationId: %s", notificationID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEnqueueFailedError creates a retryable queue error.
func NewEnqueueFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEnqueueFailed,
		Message:   "Failed to enqueue delayed job",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewQueueCancelFailedError creates a retryable queue error.
func NewQueueCancelFailedError(jobID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueueCancelFailed,
		Message:   "Failed to remove delayed job from queue",
		Details:   fmt.Sprintf("jobId: %s, error: %s", jobID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewStorageError creates a retryable storage error.
func NewStorageError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageFailed,
		Message:   "Notification storage operation failed",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewEmailSendFailedError creates a retryable delivery error. The notification
// stays pending so the job runner's retry policy gets another attempt.
func NewEmailSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmailSendFailed,
		Message:   "Reminder email delivery failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewJobPayloadInvalidError creates a non-retryable payload error.
func NewJobPayloadInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeJobPayloadInvalid,
		Message:   "Job payload failed contract validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidTimezoneError creates a non-retryable configuration error.
func NewInvalidTimezoneError(zone string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTimezone,
		Message:   "Unknown time zone identifier",
		Details:   fmt.Sprintf("zone: %s, error: %s", zone, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}
