package ratelimit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/serroba/shortener-go/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockStore counts requests per key in memory.
type mockStore struct {
	counts map[string]int64
	err    error
}

func newMockStore() *mockStore {
	return &mockStore{counts: make(map[string]int64)}
}

func (m *mockStore) Record(_ context.Context, key string, _ time.Duration) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}

	m.counts[key]++

	return m.counts[key], nil
}

func TestLimiter_Allow(t *testing.T) {
	t.Run("allows requests under the limit", func(t *testing.T) {
		limiter := ratelimit.NewLimiter(newMockStore(), []ratelimit.LimitConfig{
			{Window: time.Minute, Max: 3},
		})

		for i := range 3 {
			allowed, exceeded, err := limiter.Allow(context.Background(), "client", nil)

			require.NoError(t, err)
			assert.True(t, allowed, "request %d should be allowed", i+1)
			assert.Nil(t, exceeded)
		}
	})

	t.Run("denies requests over the limit", func(t *testing.T) {
		limiter := ratelimit.NewLimiter(newMockStore(), []ratelimit.LimitConfig{
			{Window: time.Minute, Max: 2},
		})

		for range 2 {
			_, _, err := limiter.Allow(context.Background(), "client", nil)
			require.NoError(t, err)
		}

		allowed, exceeded, err := limiter.Allow(context.Background(), "client", nil)

		require.NoError(t, err)
		assert.False(t, allowed)
		require.NotNil(t, exceeded)
		assert.Equal(t, int64(3), exceeded.Count)
		assert.Equal(t, time.Minute, exceeded.Config.Window)
	})

	t.Run("endpoint limits override the defaults", func(t *testing.T) {
		limiter := ratelimit.NewLimiter(newMockStore(), []ratelimit.LimitConfig{
			{Window: time.Minute, Max: 100},
		})

		endpointLimits := []ratelimit.LimitConfig{
			{Window: time.Minute, Max: 1},
		}

		allowed, _, err := limiter.Allow(context.Background(), "client", endpointLimits)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, exceeded, err := limiter.Allow(context.Background(), "client", endpointLimits)
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.NotNil(t, exceeded)
	})

	t.Run("enforces every configured window", func(t *testing.T) {
		limiter := ratelimit.NewLimiter(newMockStore(), []ratelimit.LimitConfig{
			{Window: time.Minute, Max: 100},
			{Window: time.Hour, Max: 2},
		})

		for range 2 {
			allowed, _, err := limiter.Allow(context.Background(), "client", nil)
			require.NoError(t, err)
			assert.True(t, allowed)
		}

		allowed, exceeded, err := limiter.Allow(context.Background(), "client", nil)

		require.NoError(t, err)
		assert.False(t, allowed)
		require.NotNil(t, exceeded)
		assert.Equal(t, time.Hour, exceeded.Config.Window)
	})

	t.Run("tracks clients independently", func(t *testing.T) {
		limiter := ratelimit.NewLimiter(newMockStore(), []ratelimit.LimitConfig{
			{Window: time.Minute, Max: 1},
		})

		allowed, _, err := limiter.Allow(context.Background(), "client-a", nil)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, _, err = limiter.Allow(context.Background(), "client-b", nil)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("propagates store errors", func(t *testing.T) {
		store := newMockStore()
		store.err = errors.New("store error")
		limiter := ratelimit.NewLimiter(store, []ratelimit.LimitConfig{
			{Window: time.Minute, Max: 10},
		})

		allowed, exceeded, err := limiter.Allow(context.Background(), "client", nil)

		require.Error(t, err)
		assert.False(t, allowed)
		assert.Nil(t, exceeded)
	})
}
