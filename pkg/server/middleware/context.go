package middleware

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// CorrelationIDKey stores the request correlation ID.
	CorrelationIDKey contextKey = "correlation_id"

	// StartTimeKey stores the request start time for latency calculation.
	StartTimeKey contextKey = "start_time"
)
