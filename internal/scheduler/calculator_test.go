// internal/scheduler/calculator_test.go
package scheduler

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "finance-notifier/internal/common/errors"
	"finance-notifier/internal/models"
)

func intPtr(v int) *int { return &v }

func TestScheduledTime_LeadPrecedence(t *testing.T) {
	calc := NewTimeCalculator(DefaultLeadMinutes, "UTC")
	due := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		entryLead *int
		userLead  *int
		expected  time.Time
	}{
		{
			name:      "entry lead wins over user lead",
			entryLead: intPtr(45),
			userLead:  intPtr(15),
			expected:  time.Date(2025, 1, 15, 9, 15, 0, 0, time.UTC),
		},
		{
			name:     "user lead applies when entry has none",
			userLead: intPtr(15),
			expected: time.Date(2025, 1, 15, 9, 45, 0, 0, time.UTC),
		},
		{
			name:     "default lead applies when neither is set",
			expected: time.Date(2025, 1, 15, 9, 55, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := models.Entry{
				ID:                      uuid.New(),
				Date:                    due,
				NotificationTimeMinutes: tt.entryLead,
			}
			user := models.User{
				ID:                      uuid.New(),
				NotificationTimeMinutes: tt.userLead,
				Timezone:                "UTC",
			}

			got, err := calc.ScheduledTime(entry, user)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.expected), "got %s, want %s", got, tt.expected)
		})
	}
}

func TestScheduledTime_SaoPauloLead30(t *testing.T) {
	calc := NewTimeCalculator(DefaultLeadMinutes, DefaultTimezone)

	entry := models.Entry{
		ID:   uuid.New(),
		Date: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
	}
	user := models.User{
		ID:                      uuid.New(),
		NotificationTimeMinutes: intPtr(30),
		Timezone:                "America/Sao_Paulo",
	}

	got, err := calc.ScheduledTime(entry, user)
	require.NoError(t, err)

	want := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)
	assert.True(t, got.Equal(want), "got %s, want %s", got, want)
	assert.Equal(t, time.UTC, got.Location())
}

func TestScheduledTime_TimezoneChangesResultAcrossDST(t *testing.T) {
	// Subtracting three hours across the US spring-forward transition lands on
	// a different instant than the same subtraction in UTC: the wall clock in
	// New York skips 02:00-03:00 that night.
	calc := NewTimeCalculator(DefaultLeadMinutes, "UTC")
	due := time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		timezone string
		expected time.Time
	}{
		{
			name:     "UTC",
			timezone: "UTC",
			expected: time.Date(2025, 3, 9, 5, 0, 0, 0, time.UTC),
		},
		{
			name:     "America/New_York",
			timezone: "America/New_York",
			expected: time.Date(2025, 3, 9, 6, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := models.Entry{
				ID:                      uuid.New(),
				Date:                    due,
				NotificationTimeMinutes: intPtr(180),
			}
			user := models.User{ID: uuid.New(), Timezone: tt.timezone}

			got, err := calc.ScheduledTime(entry, user)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.expected), "got %s, want %s", got, tt.expected)
		})
	}
}

func TestScheduledTime_DefaultTimezoneFallback(t *testing.T) {
	calc := NewTimeCalculator(DefaultLeadMinutes, "America/Sao_Paulo")

	entry := models.Entry{
		ID:   uuid.New(),
		Date: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
	}
	user := models.User{ID: uuid.New(), NotificationTimeMinutes: intPtr(30)}

	got, err := calc.ScheduledTime(entry, user)
	require.NoError(t, err)

	want := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)
	assert.True(t, got.Equal(want))
}

func TestScheduledTime_InvalidTimezone(t *testing.T) {
	calc := NewTimeCalculator(DefaultLeadMinutes, DefaultTimezone)

	entry := models.Entry{ID: uuid.New(), Date: time.Now()}
	user := models.User{ID: uuid.New(), Timezone: "Mars/Olympus_Mons"}

	_, err := calc.ScheduledTime(entry, user)
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrCodeInvalidTimezone))
	assert.False(t, errs.IsRetryable(err))
}
