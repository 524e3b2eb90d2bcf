package metrics

import "github.com/prometheus/client_golang/prometheus"

// AuditMetrics tracks the audit trail pipeline.
//
// Metrics:
//   - meridian_audit_records_total: records handed to the recorder
//   - meridian_audit_dropped_total: records dropped under backpressure
type AuditMetrics struct {
	storedTotal  prometheus.Counter
	droppedTotal prometheus.Counter
}

func newAuditMetrics(cfg Config, registry *prometheus.Registry) *AuditMetrics {
	am := &AuditMetrics{
		storedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "audit_records_total",
			Help:      "Total number of audit records accepted for storage",
		}),

		droppedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "audit_dropped_total",
			Help:      "Total number of audit records dropped under backpressure",
		}),
	}

	registry.MustRegister(am.storedTotal, am.droppedTotal)

	return am
}

func (am *AuditMetrics) recordStored()  { am.storedTotal.Inc() }
func (am *AuditMetrics) recordDropped() { am.droppedTotal.Inc() }
