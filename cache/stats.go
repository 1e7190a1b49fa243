package cache

import (
	"encoding/json"
	"time"
)

const (
	// sizeOverheadFactor scales the serialized length of a value to account
	// for in-memory encoding overhead
	sizeOverheadFactor = 2
	// fallbackEntrySize is the estimate for values that cannot be serialized
	fallbackEntrySize = 1024
)

// Stats is a point-in-time view of the store.
// Size counts physical entries and may include expired entries not yet swept.
// MemoryUsage is advisory; it sums the per-entry serialized-size estimates
// and plays no part in eviction decisions.
type Stats struct {
	Size               int
	HitRate            float64
	TotalHits          uint64
	TotalMisses        uint64
	TotalSets          uint64
	MemoryUsage        int64
	AverageAccessCount float64
	OldestEntryAge     time.Duration
	NewestEntryAge     time.Duration
}

// Stats returns a point-in-time view of the store
func (c *memoryCache) Stats() Stats {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Size:        len(c.entries),
		HitRate:     hitRate(c.hits, c.misses),
		TotalHits:   c.hits,
		TotalMisses: c.misses,
		TotalSets:   c.sets,
	}
	if len(c.entries) == 0 {
		return s
	}

	var (
		totalAccess uint64
		oldest      time.Time
		newest      time.Time
		first       = true
	)
	for _, e := range c.entries {
		s.MemoryUsage += e.estimatedSize
		totalAccess += e.accessCount
		if first {
			oldest = e.createdAt
			newest = e.createdAt
			first = false
			continue
		}
		if e.createdAt.Before(oldest) {
			oldest = e.createdAt
		}
		if e.createdAt.After(newest) {
			newest = e.createdAt
		}
	}
	s.AverageAccessCount = float64(totalAccess) / float64(len(c.entries))
	s.OldestEntryAge = now.Sub(oldest)
	s.NewestEntryAge = now.Sub(newest)
	return s
}

// hitRate returns the hit percentage, 0 when no requests were recorded
func hitRate(hits, misses uint64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// estimateSize approximates a value's in-memory footprint from its
// serialized length
func estimateSize(v any) int64 {
	b, err := json.Marshal(v)
	if err != nil {
		return fallbackEntrySize
	}
	return int64(len(b)) * sizeOverheadFactor
}
