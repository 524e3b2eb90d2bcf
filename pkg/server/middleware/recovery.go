package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"decisionhq/meridian/pkg/server/api"
)

// RecoveryMiddleware recovers from panics in handlers and returns a 500 in
// the standard error envelope. The panic and stack trace are logged; the
// client never sees internal details.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				correlationID := GetCorrelationID(r.Context())

				slog.ErrorContext(r.Context(), "panic in handler",
					"error", err,
					"correlation_id", correlationID,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				errResp := api.NewServerError("an internal error occurred")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(errResp)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
