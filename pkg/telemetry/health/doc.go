// Package health implements liveness and readiness probes.
//
// Liveness only reports that the process is up. Readiness runs the
// registered component checks (rule cache, audit storage) concurrently with
// a per-check timeout and returns 503 when any component is unhealthy.
package health
