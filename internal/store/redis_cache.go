package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortener-go/internal/shortener"
)

// RedisCacheStore wraps a Repository with Redis caching on the resolve path.
// Only FindByCode reads the cache: dedup lookups, existence checks and
// inserts always hit the primary store, which stays the sole arbiter of
// uniqueness. Mappings are immutable, so a cached entry can never go stale.
type RedisCacheStore struct {
	store  shortener.Repository
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCacheStore creates a Redis-cached repository decorator.
func NewRedisCacheStore(store shortener.Repository, client *redis.Client, ttl time.Duration) *RedisCacheStore {
	return &RedisCacheStore{
		store:  store,
		client: client,
		prefix: "mapping:",
		ttl:    ttl,
	}
}

func (r *RedisCacheStore) FindByURL(ctx context.Context, url string) (*shortener.Mapping, error) {
	return r.store.FindByURL(ctx, url)
}

func (r *RedisCacheStore) CodeExists(ctx context.Context, code shortener.Code) (bool, error) {
	return r.store.CodeExists(ctx, code)
}

// Insert writes through to the primary store and, on success, warms the
// cache so a client can immediately resolve the code it just created.
func (r *RedisCacheStore) Insert(ctx context.Context, m *shortener.Mapping) error {
	if err := r.store.Insert(ctx, m); err != nil {
		return err
	}

	r.cache(ctx, m)

	return nil
}

func (r *RedisCacheStore) FindByCode(ctx context.Context, code shortener.Code) (*shortener.Mapping, error) {
	if m, err := r.fromCache(ctx, code); err == nil {
		return m, nil
	}

	m, err := r.store.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	r.cache(ctx, m)

	return m, nil
}

func (r *RedisCacheStore) fromCache(ctx context.Context, code shortener.Code) (*shortener.Mapping, error) {
	result, err := r.client.HGetAll(ctx, r.prefix+string(code)).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, shortener.ErrNotFound
	}

	m := &shortener.Mapping{
		OriginalURL: result["original_url"],
		Code:        code,
	}

	if raw, ok := result["id"]; ok {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			m.ID = id
		}
	}

	if raw, ok := result["created_at"]; ok {
		if nanos, err := strconv.ParseInt(raw, 10, 64); err == nil {
			m.CreatedAt = time.Unix(0, nanos).UTC()
		}
	}

	return m, nil
}

func (r *RedisCacheStore) cache(ctx context.Context, m *shortener.Mapping) {
	key := r.prefix + string(m.Code)

	pipe := r.client.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"id":           m.ID,
		"original_url": m.OriginalURL,
		"created_at":   m.CreatedAt.UnixNano(),
	})

	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	// Cache writes are best effort; the primary store already has the row.
	_, _ = pipe.Exec(ctx)
}

// Compile-time check.
var _ shortener.Repository = (*RedisCacheStore)(nil)
