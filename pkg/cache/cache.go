// Package cache stores JSON-encoded values under string keys with a TTL.
// The catalog services use it to serve the product and category lists.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shashiranjanraj/kashvi-shop/pkg/logger"
	"github.com/shashiranjanraj/kashvi-shop/pkg/metrics"
)

// Store is the raw byte-level backend.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Driver() string
}

// Cache encodes values on top of a Store and records hit/miss metrics.
// The zero value and a nil *Cache are valid and never hit.
type Cache struct {
	store Store
}

// New wraps store.
func New(store Store) *Cache { return &Cache{store: store} }

// Nop returns a cache that never stores anything.
func Nop() *Cache { return &Cache{} }

// Get unmarshals the cached value into dest. It reports false on a miss,
// a decode error or a backend failure.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.store == nil {
		return false
	}

	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		logger.WithCtx(ctx).Warn("cache: get failed", "key", key, "error", err)
	}
	if !ok || err != nil {
		metrics.CacheMisses.WithLabelValues(c.store.Driver()).Inc()
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		metrics.CacheMisses.WithLabelValues(c.store.Driver()).Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues(c.store.Driver()).Inc()
	return true
}

// Set stores value under key for the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c == nil || c.store == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, key, data, ttl)
}

// Forget removes keys. Failures are logged, not returned: a stale entry
// expires with its TTL.
func (c *Cache) Forget(ctx context.Context, keys ...string) {
	if c == nil || c.store == nil || len(keys) == 0 {
		return
	}
	if err := c.store.Del(ctx, keys...); err != nil {
		logger.WithCtx(ctx).Warn("cache: forget failed", "keys", keys, "error", err)
	}
}

// Remember returns the cached value for key, or calls fn, caches its result
// and returns it.
func Remember[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	var out T
	if c.Get(ctx, key, &out) {
		return out, nil
	}
	out, err := fn()
	if err != nil {
		return out, err
	}
	if err := c.Set(ctx, key, out, ttl); err != nil {
		logger.WithCtx(ctx).Warn("cache: set failed", "key", key, "error", err)
	}
	return out, nil
}
