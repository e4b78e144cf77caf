// Package logger configures the application's structured logging on top of
// log/slog: JSON output with a configurable level, plus helpers for
// carrying request-scoped loggers through a context.Context.
package logger
