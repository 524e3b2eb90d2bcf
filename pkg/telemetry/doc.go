// Package telemetry groups the observability subsystems for Meridian.
//
// # Components
//
//   - logging: structured logging (log/slog) with PII redaction
//   - metrics: Prometheus metrics for evaluations, the rule cache, and the audit trail
//   - health: liveness and readiness endpoints
//
// Decision evaluation is hot-path code, so every recording call is cheap:
// metric updates are pre-registered vectors and disabled-level log calls
// return before formatting.
package telemetry
