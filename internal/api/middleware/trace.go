package middleware

import (
	"net/http"

	"github.com/taskdeck/taskdeck-api/internal/api/shared"
)

// TraceIDHeader is the header clients may use to supply their own
// request ID, and the header every response echoes it back on.
const TraceIDHeader = "X-Request-ID"

// TraceMiddleware attaches a trace ID to the request context and echoes
// it on the response. An inbound X-Request-ID is honored so callers can
// correlate across systems; otherwise a fresh ID is generated.
// This middleware should be applied early in the middleware chain to ensure
// that all subsequent handlers have access to the trace ID.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceIDHeader)
		if traceID == "" {
			traceID = shared.NewTraceID()
		}

		// Store the trace ID in the context for handlers and error payloads
		ctx := shared.WithTraceID(r.Context(), traceID)

		// Echo the trace ID on every response
		w.Header().Set(TraceIDHeader, traceID)

		// Continue with the updated context
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
