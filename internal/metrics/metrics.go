// Package metrics holds the Prometheus collectors for the parse cache and the
// query engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors groups every codenav metric. A nil *Collectors is valid and
// records nothing, so components can take one unconditionally.
type Collectors struct {
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	CacheEvictions prometheus.Counter
	CacheEntries   prometheus.Gauge
	ParseDuration  *prometheus.HistogramVec
	QueryDuration  *prometheus.HistogramVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer to
// expose them through promhttp.Handler, or a fresh registry in tests.
func New(reg prometheus.Registerer) *Collectors {
	factory := promauto.With(reg)
	return &Collectors{
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "codenav_cache_hits_total",
			Help: "Total number of parse cache lookups served from a live entry.",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "codenav_cache_misses_total",
			Help: "Total number of parse cache lookups that required a parse.",
		}),
		CacheEvictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "codenav_cache_evictions_total",
			Help: "Total number of cache entries released by LRU eviction.",
		}),
		CacheEntries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "codenav_cache_entries",
			Help: "Current number of parsed files held in the cache.",
		}),
		ParseDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "codenav_parse_seconds",
			Help:    "Time spent parsing and extracting symbols from a source file.",
			Buckets: prometheus.DefBuckets,
		}, []string{"language"}),
		QueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "codenav_query_seconds",
			Help:    "Time spent answering a navigation query.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

func (c *Collectors) Hit() {
	if c != nil {
		c.CacheHits.Inc()
	}
}

func (c *Collectors) Miss() {
	if c != nil {
		c.CacheMisses.Inc()
	}
}

func (c *Collectors) Evicted(n int) {
	if c != nil && n > 0 {
		c.CacheEvictions.Add(float64(n))
	}
}

// SetEntries records the current cache population.
func (c *Collectors) SetEntries(n int) {
	if c != nil {
		c.CacheEntries.Set(float64(n))
	}
}

// ObserveParse records a fill for language that started at start.
func (c *Collectors) ObserveParse(language string, start time.Time) {
	if c != nil {
		c.ParseDuration.WithLabelValues(language).Observe(time.Since(start).Seconds())
	}
}

// ObserveQuery records an engine operation that started at start.
func (c *Collectors) ObserveQuery(operation string, start time.Time) {
	if c != nil {
		c.QueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
