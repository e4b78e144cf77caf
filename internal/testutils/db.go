// Package testutils provides shared helpers for integration tests that
// exercise a real PostgreSQL database. Tests acquire a migrated connection
// with GetTestDBWithT and run against a rolled-back transaction via WithTx,
// which keeps parallel tests isolated and leaves no data behind.
//
// The test database is located through TASKDECK_TEST_DATABASE_URL, falling
// back to TASKDECK_DATABASE_URL and then DATABASE_URL. When none of these
// are set the integration tests are skipped, so the suite stays runnable in
// environments without a database.
package testutils

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver

	"github.com/taskdeck/taskdeck-api/internal/platform/postgres"
)

// migrateOnce ensures the embedded migrations run only once per process,
// even when many parallel tests request a connection.
var (
	migrateOnce sync.Once
	migrateErr  error
)

// testDatabaseURL returns the connection string for the integration test
// database, or the empty string when none is configured.
func testDatabaseURL() string {
	for _, key := range []string{
		"TASKDECK_TEST_DATABASE_URL",
		"TASKDECK_DATABASE_URL",
		"DATABASE_URL",
	} {
		if url := os.Getenv(key); url != "" {
			return url
		}
	}
	return ""
}

// GetTestDBWithT opens a connection to the configured test database, applies
// the embedded migrations once per process, and registers cleanup so callers
// never close the connection themselves. The calling test is skipped when no
// test database is configured; a configured but unreachable database fails
// the test rather than hiding a broken environment.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	url := testDatabaseURL()
	if url == "" {
		t.Skip("skipping integration test: no test database configured " +
			"(set TASKDECK_TEST_DATABASE_URL)")
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		t.Fatalf("Failed to open test database connection: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := db.Close(); closeErr != nil {
			t.Logf("Warning: failed to close test database connection: %v", closeErr)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("Test database ping failed: %v", err)
	}

	migrateOnce.Do(func() {
		migrateErr = postgres.RunMigrations(db, "up")
	})
	if migrateErr != nil {
		t.Fatalf("Failed to migrate test database: %v", migrateErr)
	}

	return db
}

// WithTx runs fn inside a transaction that is always rolled back, so each
// test observes its own writes without persisting them. This makes parallel
// tests safe even when they touch the same tables.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			t.Logf("Warning: failed to roll back transaction: %v", rbErr)
		}
	}()

	fn(t, tx)
}
