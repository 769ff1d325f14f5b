package ratelimit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dvalfre/urlshortener/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockStore returns a scripted count or error.
type mockStore struct {
	count int64
	err   error
	calls int
}

func (m *mockStore) Record(_ context.Context, _ string, _ time.Duration) (int64, error) {
	m.calls++

	if m.err != nil {
		return 0, m.err
	}

	m.count++

	return m.count, nil
}

func TestSlidingWindowLimiter(t *testing.T) {
	t.Run("allows requests under the limit", func(t *testing.T) {
		limiter := ratelimit.NewSlidingWindowLimiter(&mockStore{}, 3, time.Minute)

		for i := 0; i < 3; i++ {
			allowed, err := limiter.Allow(context.Background(), "client")

			require.NoError(t, err)
			assert.True(t, allowed)
		}
	})

	t.Run("blocks requests over the limit", func(t *testing.T) {
		store := &mockStore{}
		limiter := ratelimit.NewSlidingWindowLimiter(store, 2, time.Minute)

		for i := 0; i < 2; i++ {
			allowed, err := limiter.Allow(context.Background(), "client")
			require.NoError(t, err)
			require.True(t, allowed)
		}

		allowed, err := limiter.Allow(context.Background(), "client")

		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("propagates store errors", func(t *testing.T) {
		storeErr := errors.New("store down")
		limiter := ratelimit.NewSlidingWindowLimiter(&mockStore{err: storeErr}, 2, time.Minute)

		allowed, err := limiter.Allow(context.Background(), "client")

		assert.ErrorIs(t, err, storeErr)
		assert.False(t, allowed)
	})
}
