package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
)

// RequestLogger returns a middleware that logs one line when a request
// starts and one when it completes, carrying the trace ID so both can be
// correlated with handler logs. It also places the request-scoped logger
// in the context for downstream handlers.
func RequestLogger(baseLogger *slog.Logger) func(http.Handler) http.Handler {
	if baseLogger == nil {
		baseLogger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := baseLogger
			if traceID := shared.GetTraceID(r.Context()); traceID != "" {
				log = log.With(slog.String("trace_id", traceID))
			}

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			// Wrap the writer so the final status code is observable
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			ctx := logger.WithLogger(r.Context(), log)
			start := time.Now()

			next.ServeHTTP(ww, r.WithContext(ctx))

			log.Info("request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		})
	}
}
