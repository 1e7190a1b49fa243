package cache

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/lingualoop/go-core/logger"
)

func newTestLogger(t *testing.T) logger.Logger {
	log, err := logger.New(&logger.Config{
		Level:    "debug",
		Encoding: "console",
	})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return log
}

func newTestCache(t *testing.T, cfg *Config, opts ...Option) Cache {
	t.Helper()
	c, err := New(newTestLogger(t), cfg, opts...)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	return c
}

// countingMetrics records events for assertions
type countingMetrics struct {
	hits, misses, sets, evictions, expirations atomic.Int64
}

func (m *countingMetrics) Hit(string)        { m.hits.Add(1) }
func (m *countingMetrics) Miss(string)       { m.misses.Add(1) }
func (m *countingMetrics) Set(string)        { m.sets.Add(1) }
func (m *countingMetrics) Eviction(string)   { m.evictions.Add(1) }
func (m *countingMetrics) Expiration(string) { m.expirations.Add(1) }

func TestNew_NilConfig(t *testing.T) {
	// the default config has no name, which is required
	_, err := New(newTestLogger(t), nil)
	if err == nil {
		t.Fatal("expected error for nil config without name")
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"missing name", &Config{}, true},
		{"negative max size", &Config{Name: "test", MaxSize: -1}, true},
		{"negative default ttl", &Config{Name: "test", DefaultTTL: -time.Second}, true},
		{"negative cleanup interval", &Config{Name: "test", CleanupInterval: -time.Second}, true},
		{"policy without prefix", &Config{Name: "test", Policies: []NamespacePolicy{{TTL: time.Minute}}}, true},
		{"policy without ttl", &Config{Name: "test", Policies: []NamespacePolicy{{Prefix: "x:"}}}, true},
		{"valid with defaults merged", &Config{Name: "test"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(newTestLogger(t), tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSetGet(t *testing.T) {
	c := newTestCache(t, &Config{Name: "test"})

	c.Set("greeting", "hello")

	got, ok := c.Get("greeting")
	if !ok {
		t.Fatal("expected hit for stored key")
	}
	if got != "hello" {
		t.Errorf("Get() = %v, want %q", got, "hello")
	}
}

func TestGet_Miss(t *testing.T) {
	c := newTestCache(t, &Config{Name: "test"})

	if _, ok := c.Get("absent"); ok {
		t.Error("expected miss for absent key")
	}

	stats := c.Stats()
	if stats.TotalMisses != 1 {
		t.Errorf("TotalMisses = %d, want 1", stats.TotalMisses)
	}
}

func TestGet_ExpiredEntryIsRemoved(t *testing.T) {
	c := newTestCache(t, &Config{Name: "test"})

	c.SetWithTTL("ephemeral", "v", 20*time.Millisecond)
	time.Sleep(40 * time.Millisecond)

	if _, ok := c.Get("ephemeral"); ok {
		t.Fatal("expected miss for expired key")
	}

	stats := c.Stats()
	if stats.Size != 0 {
		t.Errorf("Size = %d, want 0 after lazy removal", stats.Size)
	}
	if stats.TotalMisses != 1 {
		t.Errorf("TotalMisses = %d, want 1", stats.TotalMisses)
	}
}

func TestSet_OverwriteReplacesEntry(t *testing.T) {
	c := newTestCache(t, &Config{Name: "test"})

	c.Set("key", "old")
	c.Get("key")

	c.Set("key", "new")

	got, ok := c.Get("key")
	if !ok || got != "new" {
		t.Fatalf("Get() = %v, %v, want %q, true", got, ok, "new")
	}

	// the overwrite discarded the old entry's access count, so the only
	// recorded access is the read above
	stats := c.Stats()
	if stats.AverageAccessCount != 1 {
		t.Errorf("AverageAccessCount = %v, want 1 after overwrite", stats.AverageAccessCount)
	}
}

func TestEviction_RemovesLeastRecentlyUsed(t *testing.T) {
	metrics := &countingMetrics{}
	c := newTestCache(t, &Config{Name: "test", MaxSize: 3}, WithMetrics(metrics))

	c.Set("a", 1)
	time.Sleep(5 * time.Millisecond)
	c.Set("b", 2)
	time.Sleep(5 * time.Millisecond)
	c.Set("c", 3)
	time.Sleep(5 * time.Millisecond)

	// refresh a and c so b holds the oldest lastAccessed
	c.Get("a")
	time.Sleep(5 * time.Millisecond)
	c.Get("c")
	time.Sleep(5 * time.Millisecond)

	c.Set("d", 4)

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted as least recently used")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("expected %s to survive eviction", key)
		}
	}
	if got := c.Stats().Size; got != 3 {
		t.Errorf("Size = %d, want 3", got)
	}
	if got := metrics.evictions.Load(); got != 1 {
		t.Errorf("evictions = %d, want exactly 1", got)
	}
}

func TestEviction_UpdateNeverEvicts(t *testing.T) {
	metrics := &countingMetrics{}
	c := newTestCache(t, &Config{Name: "test", MaxSize: 2}, WithMetrics(metrics))

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10)

	if got := metrics.evictions.Load(); got != 0 {
		t.Errorf("evictions = %d, want 0 for update of existing key", got)
	}
	for _, key := range []string{"a", "b"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("expected %s to be present", key)
		}
	}
}

func TestDelete(t *testing.T) {
	c := newTestCache(t, &Config{Name: "test"})

	c.Set("key", "value")
	c.Delete("key")

	if _, ok := c.Get("key"); ok {
		t.Error("expected miss after delete")
	}

	// deleting an absent key must not panic
	c.Delete("never-existed")
}

func TestClear_ResetsCounters(t *testing.T) {
	c := newTestCache(t, &Config{Name: "test"})

	c.Set("a", 1)
	c.Get("a")
	c.Get("absent")

	c.Clear()

	stats := c.Stats()
	if stats.Size != 0 {
		t.Errorf("Size = %d, want 0", stats.Size)
	}
	if stats.TotalHits != 0 || stats.TotalMisses != 0 || stats.TotalSets != 0 {
		t.Errorf("counters = %d/%d/%d, want all 0 after clear",
			stats.TotalHits, stats.TotalMisses, stats.TotalSets)
	}
	if stats.HitRate != 0 {
		t.Errorf("HitRate = %v, want 0 after clear", stats.HitRate)
	}
}

func TestCleanup_RemovesOnlyExpired(t *testing.T) {
	c := newTestCache(t, &Config{Name: "test"})

	c.SetWithTTL("short-1", 1, 20*time.Millisecond)
	c.SetWithTTL("short-2", 2, 20*time.Millisecond)
	c.SetWithTTL("long", 3, time.Minute)

	time.Sleep(40 * time.Millisecond)

	if removed := c.Cleanup(); removed != 2 {
		t.Errorf("Cleanup() = %d, want 2", removed)
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("expected unexpired key to survive cleanup")
	}
	if got := c.Stats().Size; got != 1 {
		t.Errorf("Size = %d, want 1", got)
	}
}

func TestInvalidatePattern(t *testing.T) {
	c := newTestCache(t, &Config{Name: "test"})

	c.Set("course:1", "a")
	c.Set("course:2", "b")
	c.Set("lesson:9", "c")

	removed, err := c.InvalidatePattern("^course:")
	if err != nil {
		t.Fatalf("InvalidatePattern() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if _, ok := c.Get("lesson:9"); !ok {
		t.Error("expected non-matching key to survive")
	}
	if _, ok := c.Get("course:1"); ok {
		t.Error("expected matching key to be removed")
	}
}

func TestInvalidatePattern_BadRegex(t *testing.T) {
	c := newTestCache(t, &Config{Name: "test"})

	c.Set("key", "value")

	removed, err := c.InvalidatePattern("[")
	if err == nil {
		t.Fatal("expected error for invalid pattern")
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
	if _, ok := c.Get("key"); !ok {
		t.Error("expected store to be untouched on pattern error")
	}
}

func TestStats_HitRate(t *testing.T) {
	c := newTestCache(t, &Config{Name: "test"})

	if got := c.Stats().HitRate; got != 0 {
		t.Errorf("HitRate = %v, want 0 before any request", got)
	}

	c.Set("key", "value")
	c.Get("key")
	c.Get("key")
	c.Get("key")
	c.Get("absent")

	if got := c.Stats().HitRate; got != 75 {
		t.Errorf("HitRate = %v, want 75", got)
	}
}

func TestStats_MemoryUsage(t *testing.T) {
	c := newTestCache(t, &Config{Name: "test"})

	// "abcd" serializes to 6 bytes including quotes
	c.Set("key", "abcd")

	if got := c.Stats().MemoryUsage; got != 6*sizeOverheadFactor {
		t.Errorf("MemoryUsage = %d, want %d", got, 6*sizeOverheadFactor)
	}
}

func TestStats_MemoryUsageFallback(t *testing.T) {
	c := newTestCache(t, &Config{Name: "test"})

	// channels cannot be serialized
	c.Set("key", make(chan int))

	if got := c.Stats().MemoryUsage; got != fallbackEntrySize {
		t.Errorf("MemoryUsage = %d, want fallback %d", got, fallbackEntrySize)
	}
}

func TestStats_EntryAges(t *testing.T) {
	c := newTestCache(t, &Config{Name: "test"})

	c.Set("old", 1)
	time.Sleep(30 * time.Millisecond)
	c.Set("new", 2)

	stats := c.Stats()
	if stats.OldestEntryAge <= stats.NewestEntryAge {
		t.Errorf("OldestEntryAge = %v, NewestEntryAge = %v, want oldest > newest",
			stats.OldestEntryAge, stats.NewestEntryAge)
	}
	if stats.NewestEntryAge < 0 {
		t.Errorf("NewestEntryAge = %v, want >= 0", stats.NewestEntryAge)
	}
}

func TestJanitor_SweepsExpiredEntries(t *testing.T) {
	c := newTestCache(t, &Config{Name: "test", CleanupInterval: 20 * time.Millisecond})

	c.SetWithTTL("ephemeral", "v", 10*time.Millisecond)

	c.Start()
	defer c.Stop()

	time.Sleep(60 * time.Millisecond)

	// the janitor must have removed the entry without any read touching it
	if got := c.Stats().Size; got != 0 {
		t.Errorf("Size = %d, want 0 after janitor sweep", got)
	}
}

func TestJanitor_StopIsIdempotent(t *testing.T) {
	c := newTestCache(t, &Config{Name: "test", CleanupInterval: 10 * time.Millisecond})

	c.Start()
	c.Start()
	c.Stop()
	c.Stop()
}

func TestJanitor_StopWithoutStart(t *testing.T) {
	c := newTestCache(t, &Config{Name: "test"})
	c.Stop()
}

func TestMetrics_Events(t *testing.T) {
	metrics := &countingMetrics{}
	c := newTestCache(t, &Config{Name: "test", MaxSize: 1}, WithMetrics(metrics))

	c.Set("a", 1)
	c.Get("a")
	c.Get("absent")
	c.Set("b", 2) // evicts a

	c.SetWithTTL("b", 2, 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	c.Cleanup()

	if got := metrics.hits.Load(); got != 1 {
		t.Errorf("hits = %d, want 1", got)
	}
	if got := metrics.misses.Load(); got != 1 {
		t.Errorf("misses = %d, want 1", got)
	}
	if got := metrics.sets.Load(); got != 3 {
		t.Errorf("sets = %d, want 3", got)
	}
	if got := metrics.evictions.Load(); got != 1 {
		t.Errorf("evictions = %d, want 1", got)
	}
	if got := metrics.expirations.Load(); got != 1 {
		t.Errorf("expirations = %d, want 1", got)
	}
}

func TestPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewPrometheusMetrics(reg)

	metrics.Hit("test")
	metrics.Hit("test")
	metrics.Miss("test")
	metrics.Set("test")
	metrics.Eviction("test")
	metrics.Expiration("test")

	if got := testutil.ToFloat64(metrics.hits.WithLabelValues("test")); got != 2 {
		t.Errorf("cache_hits_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.misses.WithLabelValues("test")); got != 1 {
		t.Errorf("cache_misses_total = %v, want 1", got)
	}
}

func TestGetAs(t *testing.T) {
	c := newTestCache(t, &Config{Name: "test"})

	c.Set("count", 42)

	got, ok := GetAs[int](c, "count")
	if !ok || got != 42 {
		t.Errorf("GetAs[int]() = %v, %v, want 42, true", got, ok)
	}

	if _, ok := GetAs[string](c, "count"); ok {
		t.Error("expected false for mismatched type")
	}
	if _, ok := GetAs[int](c, "absent"); ok {
		t.Error("expected false for absent key")
	}
}
