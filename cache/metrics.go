package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics receives cache lifecycle events
// Implementations must be safe for concurrent use
type Metrics interface {
	// Hit records a lookup served from the store
	Hit(cache string)
	// Miss records a lookup that found no live entry
	Miss(cache string)
	// Set records a stored value
	Set(cache string)
	// Eviction records an entry removed to make room for a new key
	Eviction(cache string)
	// Expiration records an entry removed because its TTL elapsed
	Expiration(cache string)
}

// NopMetrics discards all events
type NopMetrics struct{}

func (NopMetrics) Hit(string)        {}
func (NopMetrics) Miss(string)       {}
func (NopMetrics) Set(string)        {}
func (NopMetrics) Eviction(string)   {}
func (NopMetrics) Expiration(string) {}

// PrometheusMetrics exports cache events as prometheus counters labeled by
// cache name
type PrometheusMetrics struct {
	hits        *prometheus.CounterVec
	misses      *prometheus.CounterVec
	sets        *prometheus.CounterVec
	evictions   *prometheus.CounterVec
	expirations *prometheus.CounterVec
}

// NewPrometheusMetrics registers the cache counters on reg
// A nil reg falls back to the default registerer
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	labels := []string{"cache"}

	return &PrometheusMetrics{
		hits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Number of lookups served from the cache.",
		}, labels),
		misses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Number of lookups that found no live entry.",
		}, labels),
		sets: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_sets_total",
			Help: "Number of values stored in the cache.",
		}, labels),
		evictions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Number of entries evicted to make room for new keys.",
		}, labels),
		expirations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_expirations_total",
			Help: "Number of entries removed because their TTL elapsed.",
		}, labels),
	}
}

func (m *PrometheusMetrics) Hit(cache string)        { m.hits.WithLabelValues(cache).Inc() }
func (m *PrometheusMetrics) Miss(cache string)       { m.misses.WithLabelValues(cache).Inc() }
func (m *PrometheusMetrics) Set(cache string)        { m.sets.WithLabelValues(cache).Inc() }
func (m *PrometheusMetrics) Eviction(cache string)   { m.evictions.WithLabelValues(cache).Inc() }
func (m *PrometheusMetrics) Expiration(cache string) { m.expirations.WithLabelValues(cache).Inc() }
