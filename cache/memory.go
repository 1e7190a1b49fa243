package cache

import (
	"context"
	"regexp"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/lingualoop/go-core/logger"
	"github.com/lingualoop/go-core/routine"
)

// entry is the stored form of a value. All fields are guarded by the
// owning cache's mutex.
type entry struct {
	value         any
	expiresAt     time.Time
	createdAt     time.Time
	lastAccessed  time.Time
	accessCount   uint64
	estimatedSize int64
}

// expired reports whether the entry is logically absent at now
func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.After(now)
}

// touch records a successful read
func (e *entry) touch(now time.Time) {
	e.lastAccessed = now
	e.accessCount++
}

// memoryCache implements the Cache interface
type memoryCache struct {
	// Dependencies
	log     logger.Logger
	metrics Metrics

	// Configuration
	name            string
	maxSize         int
	defaultTTL      time.Duration
	cleanupInterval time.Duration
	resolver        *TTLResolver

	// Runtime state
	mu      sync.Mutex
	entries map[string]*entry
	hits    uint64
	misses  uint64
	sets    uint64

	flight singleflight.Group

	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
}

// New creates a Cache backed by an in-process map
// It returns an error if the configuration is invalid
// Call Start() to run the background janitor; without it expired entries are
// only removed lazily on read
func New(log logger.Logger, cfg *Config, opts ...Option) (Cache, error) {
	// Use default config if not provided
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg.MergeDefaults()
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &memoryCache{
		log:             log,
		metrics:         NopMetrics{},
		name:            cfg.Name,
		maxSize:         cfg.MaxSize,
		defaultTTL:      cfg.DefaultTTL,
		cleanupInterval: cfg.CleanupInterval,
		resolver:        NewTTLResolver(cfg.Policies),
		entries:         make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get returns the live value for key
// An expired entry is deleted and reported as a miss
func (c *memoryCache) Get(key string) (any, bool) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		c.metrics.Miss(c.name)
		return nil, false
	}
	if e.expired(now) {
		delete(c.entries, key)
		c.metrics.Expiration(c.name)
		c.misses++
		c.metrics.Miss(c.name)
		return nil, false
	}
	e.touch(now)
	c.hits++
	c.metrics.Hit(c.name)
	return e.value, true
}

// lookup returns the live value for key without touching any bookkeeping
func (c *memoryCache) lookup(key string) (any, bool) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || e.expired(now) {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the TTL resolved from the namespace
// policies, falling back to the configured default
func (c *memoryCache) Set(key string, value any) {
	c.SetWithTTL(key, value, 0)
}

// SetWithTTL stores value under key. A ttl <= 0 falls back to namespace
// policy resolution and then to the configured default.
// Overwriting an existing key fully replaces the entry, bookkeeping included,
// and never triggers eviction. Inserting a new key at capacity evicts exactly
// one entry first.
func (c *memoryCache) SetWithTTL(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		if resolved, ok := c.resolver.Resolve(key); ok {
			ttl = resolved
		} else {
			ttl = c.defaultTTL
		}
	}

	now := time.Now()
	e := &entry{
		value:         value,
		expiresAt:     now.Add(ttl),
		createdAt:     now,
		lastAccessed:  now,
		estimatedSize: estimateSize(value),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	c.entries[key] = e
	c.sets++
	c.metrics.Set(c.name)
}

// evictOldest removes the single entry with the minimum lastAccessed
// timestamp. Full scan, O(n) in store size; the caller must hold the lock.
func (c *memoryCache) evictOldest() {
	var (
		oldestKey    string
		oldestAccess time.Time
		found        bool
	)
	for key, e := range c.entries {
		if !found || e.lastAccessed.Before(oldestAccess) {
			oldestKey = key
			oldestAccess = e.lastAccessed
			found = true
		}
	}
	if !found {
		return
	}
	delete(c.entries, oldestKey)
	c.metrics.Eviction(c.name)
	c.log.Debug("evicted least recently used entry",
		zap.String("cache", c.name),
		zap.String("key", oldestKey),
	)
}

// Delete removes key. It is a no-op when the key is absent
func (c *memoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear empties the store and resets the hit, miss and set counters
func (c *memoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
	c.hits = 0
	c.misses = 0
	c.sets = 0
}

// Cleanup removes every expired entry and returns the number removed
func (c *memoryCache) Cleanup() int {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
			c.metrics.Expiration(c.name)
			removed++
		}
	}
	return removed
}

// InvalidatePattern removes every key matching the regular expression and
// returns the number removed
func (c *memoryCache) InvalidatePattern(pattern string) (int, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return 0, ErrInvalidPattern(pattern, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if re.MatchString(key) {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 {
		c.log.Debug("invalidated entries by pattern",
			zap.String("cache", c.name),
			zap.String("pattern", pattern),
			zap.Int("removed", removed),
		)
	}
	return removed, nil
}

// GetOrLoad returns the cached value for key, invoking loader on a miss
// Concurrent misses for the same key share a single loader call
func (c *memoryCache) GetOrLoad(ctx context.Context, key string, loader LoaderFunc, ttl time.Duration) (any, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}
	if loader == nil {
		return nil, ErrNilLoader
	}

	value, err, _ := c.flight.Do(key, func() (any, error) {
		// a queued call may find the key filled by the flight it waited on
		if value, ok := c.lookup(key); ok {
			return value, nil
		}
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		c.SetWithTTL(key, value, ttl)
		return value, nil
	})
	if err != nil {
		return nil, ErrLoad(key, err)
	}
	return value, nil
}

// Start launches the background janitor
// Calling Start more than once is a no-op
func (c *memoryCache) Start() {
	c.startOnce.Do(func() {
		c.ctx, c.cancel = context.WithCancel(context.Background())
		c.done = make(chan struct{})

		routine.GoNamedWithContext(c.ctx, c.log, c.name+"-janitor", func(ctx context.Context) {
			defer close(c.done)
			ticker := time.NewTicker(c.cleanupInterval)
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					if removed := c.Cleanup(); removed > 0 {
						c.log.Debug("removed expired entries",
							zap.String("cache", c.name),
							zap.Int("removed", removed),
						)
					}
				case <-ctx.Done():
					c.log.Info("stopping janitor", zap.String("cache", c.name))
					return
				}
			}
		})
	})
}

// Stop cancels the janitor and waits for it to exit
// It can be called multiple times safely
func (c *memoryCache) Stop() {
	c.stopOnce.Do(func() {
		if c.cancel == nil {
			return
		}
		c.cancel()
		<-c.done
	})
}
