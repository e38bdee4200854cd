// internal/common/errors/errors_test.go
package errors

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "validation error", err: NewNotificationsDisabledError("u1"), want: false},
		{name: "past schedule", err: NewScheduleInPastError(time.Now(), time.Now()), want: false},
		{name: "not found", err: NewNotificationNotFoundError("n1"), want: false},
		{name: "already sent", err: NewAlreadySentError("n1"), want: false},
		{name: "already cancelled", err: NewAlreadyCancelledError("n1"), want: false},
		{name: "corrupt payload", err: NewJobPayloadInvalidError("bad"), want: false},
		{name: "invalid timezone", err: NewInvalidTimezoneError("Mars/Base", errors.New("unknown")), want: false},
		{name: "enqueue failure", err: NewEnqueueFailedError(errors.New("redis down")), want: true},
		{name: "storage failure", err: NewStorageError("create", errors.New("db down")), want: true},
		{name: "delivery failure", err: NewEmailSendFailedError(errors.New("throttled")), want: true},
		{name: "wrapped standard error", err: fmt.Errorf("handler: %w", NewAlreadySentError("n1")), want: false},
		{name: "plain error defaults retryable", err: errors.New("who knows"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeAlreadySent, CodeOf(NewAlreadySentError("n1")))
	assert.Equal(t, ErrCodeStorageFailed, CodeOf(fmt.Errorf("wrap: %w", NewStorageError("get", errors.New("db")))))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("db down")
	err := NewStorageError("create", cause)
	assert.ErrorIs(t, err, cause)
}

func TestIsCode(t *testing.T) {
	err := NewEnqueueFailedError(errors.New("redis down"))
	assert.True(t, IsCode(err, ErrCodeEnqueueFailed))
	assert.False(t, IsCode(err, ErrCodeStorageFailed))
	assert.False(t, IsCode(nil, ErrCodeStorageFailed))
}
