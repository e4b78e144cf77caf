package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/pressly/goose/v3"

	"github.com/taskdeck/taskdeck-api/internal/platform/postgres"
)

// slogGooseLogger adapts the goose logger interface to slog so migration
// output lands in the structured log stream.
type slogGooseLogger struct{}

// Printf implements the goose.Logger Printf method by forwarding messages to slog.Info
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements the goose.Logger Fatalf method by forwarding error messages
// to slog.Error. Unlike the standard Fatalf behavior, this does NOT call
// os.Exit; the error is returned to main which handles the exit consistently.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

// runMigrationCommand executes a single migration command against the given
// database connection and returns once it completes.
func runMigrationCommand(db *sql.DB, databaseURL, command string) error {
	goose.SetLogger(&slogGooseLogger{})

	slog.Info("Executing migrations",
		"command", command,
		"database", maskDatabaseURL(databaseURL))

	if err := postgres.RunMigrations(db, command); err != nil {
		return fmt.Errorf("migration command %q failed: %w", command, err)
	}

	slog.Info("Migration command completed", "command", command)
	return nil
}

// maskDatabaseURL masks the password in a database URL for safe logging.
func maskDatabaseURL(dbURL string) string {
	// Parse the URL
	parsedURL, err := url.Parse(dbURL)
	if err != nil {
		return "invalid-url"
	}

	// Mask the password if user info exists
	if parsedURL.User != nil {
		username := parsedURL.User.Username()
		parsedURL.User = url.UserPassword(username, "****")
		return parsedURL.String()
	}

	return dbURL
}
