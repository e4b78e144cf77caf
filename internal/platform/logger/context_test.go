package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLoggerRoundTrip(t *testing.T) {
	log, buf := GetTestLogger(t)

	ctx := WithLogger(context.Background(), log)
	got := FromContext(ctx)

	require.Same(t, log, got, "FromContext should return the logger stored in the context")

	got.Info("hello from context")
	AssertLogContains(t, buf, "hello from context")
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()),
		"FromContext should fall back to the default logger")

	// A nil context must not panic
	//nolint:staticcheck // Deliberately passing nil to exercise the fallback
	assert.Same(t, slog.Default(), FromContext(nil))
}

func TestFromContextOrDefault(t *testing.T) {
	ctxLogger, _ := GetTestLogger(t)
	fallback, _ := GetTestLogger(t)

	// Context logger wins when present
	ctx := WithLogger(context.Background(), ctxLogger)
	assert.Same(t, ctxLogger, FromContextOrDefault(ctx, fallback))

	// Provided fallback wins when the context is bare
	assert.Same(t, fallback, FromContextOrDefault(context.Background(), fallback))

	// Process default is the last resort
	assert.Same(t, slog.Default(), FromContextOrDefault(context.Background(), nil))
}
