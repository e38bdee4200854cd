// internal/cleanup/cleanup_test.go
package cleanup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance-notifier/internal/common/logger"
)

type mockStore struct {
	DeleteFunc func(ctx context.Context, cutoff time.Time) (int64, error)
	cutoffs    []time.Time
}

func (m *mockStore) DeleteCancelledOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	m.cutoffs = append(m.cutoffs, cutoff)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, cutoff)
	}
	return 0, nil
}

func TestRunOnce_CutoffFromRetention(t *testing.T) {
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	store := &mockStore{
		DeleteFunc: func(ctx context.Context, cutoff time.Time) (int64, error) {
			return 4, nil
		},
	}

	c := NewCleaner(store, 30*24*time.Hour, time.Hour, logger.NewTestLogger(t)).
		WithClock(func() time.Time { return now })

	deleted, err := c.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)

	require.Len(t, store.cutoffs, 1)
	assert.True(t, store.cutoffs[0].Equal(time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)))
}

func TestRunOnce_SecondRunFindsNothing(t *testing.T) {
	remaining := int64(4)
	store := &mockStore{
		DeleteFunc: func(ctx context.Context, cutoff time.Time) (int64, error) {
			deleted := remaining
			remaining = 0
			return deleted, nil
		},
	}

	c := NewCleaner(store, 30*24*time.Hour, time.Hour, logger.NewTestLogger(t))

	first, err := c.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), first)

	second, err := c.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second, "an immediate rerun must be a no-op")
}

func TestRunOnce_StoreFailure(t *testing.T) {
	store := &mockStore{
		DeleteFunc: func(ctx context.Context, cutoff time.Time) (int64, error) {
			return 0, errors.New("db down")
		},
	}

	c := NewCleaner(store, 30*24*time.Hour, time.Hour, logger.NewNoOpLogger())

	_, err := c.RunOnce(context.Background())
	assert.Error(t, err)
}
