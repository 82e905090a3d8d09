package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// MetadataKey is the key used to attach an EndpointConfig to a huma
// operation's metadata.
const MetadataKey = "rateLimit"

// LimitConfig is one sliding-window limit.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// EndpointConfig is per-endpoint rate limit configuration attached via
// operation metadata.
type EndpointConfig struct {
	// Limits replaces the default limits for this endpoint.
	Limits []LimitConfig

	// Disabled skips rate limiting entirely for this endpoint.
	Disabled bool
}

// Exceeded describes which limit was hit.
type Exceeded struct {
	Config LimitConfig
	Count  int64
}

// Limiter enforces sliding-window limits backed by a Store.
type Limiter struct {
	store         Store
	defaultLimits []LimitConfig
}

// NewLimiter creates a limiter with the given default limits, applied to
// endpoints that carry no limits of their own.
func NewLimiter(store Store, defaultLimits []LimitConfig) *Limiter {
	return &Limiter{
		store:         store,
		defaultLimits: defaultLimits,
	}
}

// Allow records a request under clientKey against every limit and reports
// whether all of them still hold. A nil or empty limits slice falls back to
// the default limits.
func (l *Limiter) Allow(ctx context.Context, clientKey string, limits []LimitConfig) (bool, *Exceeded, error) {
	if len(limits) == 0 {
		limits = l.defaultLimits
	}

	for _, limit := range limits {
		// Each window gets its own counter key.
		key := fmt.Sprintf("%s:%d", clientKey, limit.Window.Milliseconds())

		count, err := l.store.Record(ctx, key, limit.Window)
		if err != nil {
			return false, nil, err
		}

		if count > limit.Max {
			return false, &Exceeded{Config: limit, Count: count}, nil
		}
	}

	return true, nil, nil
}
