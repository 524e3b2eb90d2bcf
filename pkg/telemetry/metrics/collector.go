package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config contains configuration for the metrics collector.
type Config struct {
	// Enabled toggles metric recording. When false all Record methods
	// are no-ops.
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	Namespace string `yaml:"namespace"`

	// EvaluationDurationBuckets overrides the default histogram buckets.
	EvaluationDurationBuckets []float64 `yaml:"evaluation_duration_buckets"`
}

// DefaultConfig returns the default metrics configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		Namespace: "meridian",
	}
}

// Collector owns the Prometheus registry and all metric vectors.
//
// Rule paths are the only unbounded label source, so a cardinality limiter
// folds excess paths into "other" before they reach the registry.
type Collector struct {
	config   Config
	registry *prometheus.Registry

	evaluation *EvaluationMetrics
	cache      *CacheMetrics
	audit      *AuditMetrics

	limiter *cardinalityLimiter
}

// NewCollector creates a collector and registers all metrics with the given
// registry. A nil registry gets a fresh one.
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "meridian"
	}
	if len(cfg.EvaluationDurationBuckets) == 0 {
		// Evaluations should finish inside 10ms.
		cfg.EvaluationDurationBuckets = prometheus.ExponentialBuckets(0.000001, 2, 15) // 1µs to 16ms
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
		limiter:  newCardinalityLimiter(1000),
	}

	c.evaluation = newEvaluationMetrics(cfg, registry)
	c.cache = newCacheMetrics(cfg, registry)
	c.audit = newAuditMetrics(cfg, registry)

	return c
}

// RecordEvaluation records a completed decision evaluation.
// Outcome is "success" or "error".
func (c *Collector) RecordEvaluation(rulePath, outcome string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	if !c.limiter.allow(fmt.Sprintf("eval:%s", rulePath)) {
		rulePath = "other"
	}
	c.evaluation.record(rulePath, outcome, duration)
}

// RecordNodeCount records how many nodes an evaluation visited.
func (c *Collector) RecordNodeCount(rulePath string, nodes int) {
	if !c.config.Enabled {
		return
	}
	if !c.limiter.allow(fmt.Sprintf("eval:%s", rulePath)) {
		rulePath = "other"
	}
	c.evaluation.recordNodes(rulePath, nodes)
}

// RecordCacheHit records a rule cache hit.
func (c *Collector) RecordCacheHit() {
	if !c.config.Enabled {
		return
	}
	c.cache.recordHit()
}

// RecordCacheMiss records a rule cache miss.
func (c *Collector) RecordCacheMiss() {
	if !c.config.Enabled {
		return
	}
	c.cache.recordMiss()
}

// RecordCacheLoadFailure records a rule load or reload failure.
func (c *Collector) RecordCacheLoadFailure() {
	if !c.config.Enabled {
		return
	}
	c.cache.recordLoadFailure()
}

// UpdateCacheSize updates the cached-rules gauge.
func (c *Collector) UpdateCacheSize(size int) {
	if !c.config.Enabled {
		return
	}
	c.cache.updateSize(size)
}

// RecordAuditStored records a persisted audit record.
func (c *Collector) RecordAuditStored() {
	if !c.config.Enabled {
		return
	}
	c.audit.recordStored()
}

// RecordAuditDropped records an audit record dropped by backpressure.
func (c *Collector) RecordAuditDropped() {
	if !c.config.Enabled {
		return
	}
	c.audit.recordDropped()
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// cardinalityLimiter caps the number of distinct label sets a vector can
// accumulate so an abusive caller cannot blow up scrape size.
type cardinalityLimiter struct {
	max     int
	current map[string]struct{}
	mu      sync.RWMutex
}

func newCardinalityLimiter(max int) *cardinalityLimiter {
	return &cardinalityLimiter{
		max:     max,
		current: make(map[string]struct{}),
	}
}

func (cl *cardinalityLimiter) allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[labelSet]; exists {
		return true
	}
	if len(cl.current) >= cl.max {
		return false
	}
	cl.current[labelSet] = struct{}{}
	return true
}
