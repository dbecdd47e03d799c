// Package cache stores serialized provider responses for a bounded time so
// repeated score requests for the same place do not hit upstream APIs.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented TTL store. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// New returns a Redis cache when redisURL is set, otherwise an in-memory one.
func New(redisURL string) (Cache, error) {
	if redisURL == "" {
		return NewMemory(), nil
	}
	return NewRedis(redisURL)
}
