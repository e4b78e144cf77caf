package postgres

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

// migrationsFS holds the SQL migration files compiled into the binary so
// deployments never depend on the source tree being present.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations executes the given goose command against the embedded
// migration files. Supported commands are up, down, reset, status and
// version.
func RunMigrations(db *sql.DB, command string) error {
	if db == nil {
		return fmt.Errorf("database connection is required for migrations")
	}

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	switch command {
	case "up":
		return goose.Up(db, "migrations")
	case "down":
		return goose.Down(db, "migrations")
	case "reset":
		return goose.Reset(db, "migrations")
	case "status":
		return goose.Status(db, "migrations")
	case "version":
		return goose.Version(db, "migrations")
	default:
		return fmt.Errorf("unknown migration command: %q", command)
	}
}
