// Package metrics exposes Prometheus metrics for the decision engine.
//
// Three metric families are tracked:
//
//   - evaluation: decision counts by rule path and outcome, plus a duration
//     histogram with buckets tuned for sub-10ms evaluations
//   - cache: rule cache hits, misses, reload failures, and entry count
//   - audit: recorded and dropped audit records
//
// All metrics live in a dedicated registry so tests can assert on scrape
// output without cross-talk from the default registry.
package metrics
