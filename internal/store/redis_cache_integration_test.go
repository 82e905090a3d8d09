//go:build integration

package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortener-go/internal/shortener"
	"github.com/serroba/shortener-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

func newTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: getRedisAddr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	return client
}

// countingRepo wraps a Repository and counts FindByCode calls so cache hits
// are observable.
type countingRepo struct {
	shortener.Repository
	findByCodeCalls int
}

func (c *countingRepo) FindByCode(ctx context.Context, code shortener.Code) (*shortener.Mapping, error) {
	c.findByCodeCalls++

	return c.Repository.FindByCode(ctx, code)
}

func TestRedisCacheStore(t *testing.T) {
	client := newTestRedisClient(t)
	ctx := context.Background()

	t.Run("insert writes through and warms the cache", func(t *testing.T) {
		inner := &countingRepo{Repository: store.NewMemoryStore()}
		cached := store.NewRedisCacheStore(inner, client, time.Minute)

		m := newMapping("rdtst1", "https://example.com/cached")
		defer client.Del(ctx, "mapping:rdtst1")

		require.NoError(t, cached.Insert(ctx, m))

		got, err := cached.FindByCode(ctx, "rdtst1")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/cached", got.OriginalURL)
		assert.Equal(t, m.ID, got.ID)

		// Served from cache, not the inner store.
		assert.Zero(t, inner.findByCodeCalls)
	})

	t.Run("cache miss falls through and populates the cache", func(t *testing.T) {
		inner := &countingRepo{Repository: store.NewMemoryStore()}

		// Insert directly into the inner store so the cache is cold.
		m := newMapping("rdtst2", "https://example.com/cold")
		require.NoError(t, inner.Repository.Insert(ctx, m))

		cached := store.NewRedisCacheStore(inner, client, time.Minute)
		defer client.Del(ctx, "mapping:rdtst2")

		got, err := cached.FindByCode(ctx, "rdtst2")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/cold", got.OriginalURL)
		assert.Equal(t, 1, inner.findByCodeCalls)

		_, err = cached.FindByCode(ctx, "rdtst2")
		require.NoError(t, err)
		assert.Equal(t, 1, inner.findByCodeCalls)
	})

	t.Run("unknown code returns ErrNotFound", func(t *testing.T) {
		inner := &countingRepo{Repository: store.NewMemoryStore()}
		cached := store.NewRedisCacheStore(inner, client, time.Minute)

		got, err := cached.FindByCode(ctx, "rdnone")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("dedup lookups and existence checks bypass the cache", func(t *testing.T) {
		inner := &countingRepo{Repository: store.NewMemoryStore()}
		cached := store.NewRedisCacheStore(inner, client, time.Minute)

		m := newMapping("rdtst3", "https://example.com/bypass")
		defer client.Del(ctx, "mapping:rdtst3")

		require.NoError(t, cached.Insert(ctx, m))

		byURL, err := cached.FindByURL(ctx, "https://example.com/bypass")
		require.NoError(t, err)
		assert.Equal(t, shortener.Code("rdtst3"), byURL.Code)

		exists, err := cached.CodeExists(ctx, "rdtst3")
		require.NoError(t, err)
		assert.True(t, exists)
	})
}
