// Package middleware provides the HTTP middleware chain for the decision
// service: panic recovery, request logging, correlation IDs, CORS, and
// per-request timeouts.
//
// The chain is applied outermost-first:
//
//	recovery → logging → correlation id → CORS → timeout → handler
package middleware
