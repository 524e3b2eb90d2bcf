package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"decisionhq/meridian/pkg/server/api"
)

// TimeoutMiddleware bounds handler execution with context.WithTimeout. When
// the deadline passes before the handler finishes, a 504 envelope is written
// and the handler's context is cancelled.
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			done := make(chan struct{})
			go func() {
				defer close(done)
				next.ServeHTTP(w, r.WithContext(ctx))
			}()

			select {
			case <-done:
				return

			case <-ctx.Done():
				if ctx.Err() == context.DeadlineExceeded {
					errResp := api.NewErrorResponse(
						"request timed out",
						api.ErrorTypeTimeout,
						api.CodeEvaluationFailed,
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusGatewayTimeout)
					_ = json.NewEncoder(w).Encode(errResp)
				}
			}
		})
	}
}
