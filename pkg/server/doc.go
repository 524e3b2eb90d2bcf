// Package server wires the decision service HTTP surface: evaluation and
// rule management endpoints, health probes, the metrics endpoint, and the
// middleware chain, with graceful shutdown on SIGTERM.
package server
