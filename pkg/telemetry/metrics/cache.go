package metrics

import "github.com/prometheus/client_golang/prometheus"

// CacheMetrics tracks rule cache behavior.
//
// Metrics:
//   - meridian_rule_cache_hits_total
//   - meridian_rule_cache_misses_total
//   - meridian_rule_cache_load_failures_total
//   - meridian_rule_cache_entries
type CacheMetrics struct {
	hitsTotal         prometheus.Counter
	missesTotal       prometheus.Counter
	loadFailuresTotal prometheus.Counter
	entries           prometheus.Gauge
}

func newCacheMetrics(cfg Config, registry *prometheus.Registry) *CacheMetrics {
	cm := &CacheMetrics{
		hitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "rule_cache_hits_total",
			Help:      "Total number of rule cache hits",
		}),

		missesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "rule_cache_misses_total",
			Help:      "Total number of rule cache misses",
		}),

		loadFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "rule_cache_load_failures_total",
			Help:      "Total number of rule load or reload failures",
		}),

		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "rule_cache_entries",
			Help:      "Number of resolved rule graphs currently cached",
		}),
	}

	registry.MustRegister(
		cm.hitsTotal,
		cm.missesTotal,
		cm.loadFailuresTotal,
		cm.entries,
	)

	return cm
}

func (cm *CacheMetrics) recordHit()         { cm.hitsTotal.Inc() }
func (cm *CacheMetrics) recordMiss()        { cm.missesTotal.Inc() }
func (cm *CacheMetrics) recordLoadFailure() { cm.loadFailuresTotal.Inc() }
func (cm *CacheMetrics) updateSize(n int)   { cm.entries.Set(float64(n)) }
