package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lingualoop/go-core/routine"
)

// WarmupEntry describes a single cache key to preload
type WarmupEntry struct {
	// Key is the cache key to populate
	Key string
	// TTL overrides the resolved TTL when > 0
	TTL time.Duration
	// Fetch loads the value to cache
	Fetch func(ctx context.Context) (any, error)
}

// WarmUp preloads the given entries concurrently. Each fetcher runs in its
// own goroutine; a failed or missing fetcher is logged and skipped without
// affecting the others. WarmUp returns once every fetcher has settled.
func (c *memoryCache) WarmUp(ctx context.Context, entries []WarmupEntry) {
	if len(entries) == 0 {
		return
	}

	start := time.Now()
	r := routine.New(c.log)
	for _, we := range entries {
		r.GoNamed(c.name+"-warmup", func() {
			if we.Fetch == nil {
				c.log.Warn("warmup entry has no fetcher",
					zap.String("cache", c.name),
					zap.String("key", we.Key),
				)
				return
			}
			value, err := we.Fetch(ctx)
			if err != nil {
				c.log.Warn("warmup fetch failed",
					zap.String("cache", c.name),
					zap.String("key", we.Key),
					zap.Error(err),
				)
				return
			}
			c.SetWithTTL(we.Key, value, we.TTL)
		})
	}
	r.Wait()

	c.log.Info("cache warmup finished",
		zap.String("cache", c.name),
		zap.Int("entries", len(entries)),
		zap.Duration("elapsed", time.Since(start)),
	)
}
