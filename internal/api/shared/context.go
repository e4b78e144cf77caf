package shared

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ContextKey is the key type for values this package stores in a request
// context.
type ContextKey string

const (
	// TraceIDKey holds the request's trace ID.
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the trace ID size in bytes; IDs render as twice
	// as many hex characters.
	TraceIDLength = 16
)

// WithTraceID returns a context carrying traceID, which error responses
// and log lines use to correlate a request.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID returns the trace ID stored in ctx, or "" when there is none.
func GetTraceID(ctx context.Context) string {
	if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// NewTraceID returns a fresh random trace ID as 32 hex characters. When
// crypto/rand cannot supply the bytes, the ID degrades to a time-based
// one; the function never returns a static or empty value.
func NewTraceID() string {
	b := make([]byte, TraceIDLength)
	n, err := rand.Read(b)
	if err != nil || n != TraceIDLength {
		slog.Error("failed to generate secure random trace ID",
			"error", err,
			"bytes_read", n,
			"bytes_requested", TraceIDLength,
			"fallback", "time-based generation")
		return generateFallbackTraceID()
	}

	return hex.EncodeToString(b)
}

// generateFallbackTraceID builds a trace ID without drawing fresh entropy
// from crypto/rand. A time-based UUID comes first; if even that fails, the
// ID is assembled from three timestamp reads so concurrent requests in the
// same nanosecond window still diverge.
func generateFallbackTraceID() string {
	if id, err := uuid.NewUUID(); err == nil {
		return hex.EncodeToString(id[:])
	}

	b := make([]byte, TraceIDLength)
	binary.BigEndian.PutUint64(b[:8], uint64(time.Now().UnixNano()))
	binary.BigEndian.PutUint32(b[8:12], uint32(time.Now().Nanosecond()))
	binary.BigEndian.PutUint32(b[12:16], uint32(time.Now().Unix()))

	return hex.EncodeToString(b)
}
