// Package cache provides a bounded in-process cache with per-namespace TTLs,
// LRU eviction and periodic expiry sweeps.
//
// Entries are held in a single map guarded by one mutex. When an insert of a
// new key would exceed the configured capacity, the least recently used entry
// is evicted first. Expired entries are removed lazily on read and eagerly by
// Cleanup, which a background janitor invokes on a fixed interval between
// Start and Stop.
package cache

import (
	"context"
	"time"
)

// Cache is a bounded in-process key/value store with expiration
type Cache interface {
	// Get returns the live value for key. Expired entries are removed and
	// reported as misses
	Get(key string) (any, bool)

	// Set stores value under key with the TTL resolved from the namespace
	// policies, falling back to the configured default
	Set(key string, value any)

	// SetWithTTL stores value under key with an explicit TTL
	// A ttl <= 0 falls back to namespace policy resolution
	SetWithTTL(key string, value any, ttl time.Duration)

	// GetOrLoad returns the cached value for key, invoking loader on a miss.
	// Concurrent misses for the same key share a single loader call. A
	// successful load is stored with ttl; a failed load is returned to every
	// waiter and nothing is cached
	GetOrLoad(ctx context.Context, key string, loader LoaderFunc, ttl time.Duration) (any, error)

	// Delete removes key. It is a no-op when the key is absent
	Delete(key string)

	// Clear empties the store and resets the hit, miss and set counters
	Clear()

	// Cleanup removes every expired entry and returns the number removed
	Cleanup() int

	// InvalidatePattern removes every key matching the regular expression
	// and returns the number removed
	InvalidatePattern(pattern string) (int, error)

	// WarmUp preloads the given entries concurrently. Failed fetches are
	// logged and skipped; WarmUp returns once every fetcher has settled
	WarmUp(ctx context.Context, entries []WarmupEntry)

	// Stats returns a point-in-time view of the store
	Stats() Stats

	// Start launches the background janitor. Calling Start twice is a no-op
	Start()

	// Stop cancels the janitor and waits for it to exit
	// It can be called multiple times safely
	Stop()
}

// LoaderFunc loads the value for a key on a cache miss
type LoaderFunc func(ctx context.Context) (any, error)

// Option customizes a Cache created by New
type Option func(*memoryCache)

// WithMetrics attaches a metrics sink. The default is NopMetrics
func WithMetrics(m Metrics) Option {
	return func(c *memoryCache) {
		if m != nil {
			c.metrics = m
		}
	}
}

// GetAs returns the value for key asserted to T.
// It reports false when the key is absent, expired, or holds a value of a
// different type.
func GetAs[T any](c Cache, key string) (T, bool) {
	v, ok := c.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, false
	}
	return t, true
}
