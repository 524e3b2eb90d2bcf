package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EvaluationMetrics tracks decision evaluation throughput and latency.
//
// Metrics:
//   - meridian_evaluations_total: evaluations by rule path and outcome
//   - meridian_evaluation_duration_seconds: evaluation latency histogram
//   - meridian_evaluation_nodes: nodes visited per evaluation
type EvaluationMetrics struct {
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration *prometheus.HistogramVec
	evaluationNodes    *prometheus.HistogramVec
}

func newEvaluationMetrics(cfg Config, registry *prometheus.Registry) *EvaluationMetrics {
	em := &EvaluationMetrics{
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "evaluations_total",
				Help:      "Total number of decision evaluations",
			},
			[]string{"rule_path", "outcome"},
		),

		evaluationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of decision evaluation in seconds",
				Buckets:   cfg.EvaluationDurationBuckets,
			},
			[]string{"rule_path"},
		),

		evaluationNodes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "evaluation_nodes",
				Help:      "Number of graph nodes visited per evaluation",
				Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250, 500},
			},
			[]string{"rule_path"},
		),
	}

	registry.MustRegister(
		em.evaluationsTotal,
		em.evaluationDuration,
		em.evaluationNodes,
	)

	return em
}

func (em *EvaluationMetrics) record(rulePath, outcome string, duration time.Duration) {
	em.evaluationsTotal.WithLabelValues(rulePath, outcome).Inc()
	em.evaluationDuration.WithLabelValues(rulePath).Observe(duration.Seconds())
}

func (em *EvaluationMetrics) recordNodes(rulePath string, nodes int) {
	em.evaluationNodes.WithLabelValues(rulePath).Observe(float64(nodes))
}
