// Package main implements the entry point for the taskdeck API server,
// a task-management backend exposing task CRUD, bulk operations, and
// batch grouping over a REST surface.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"

	"github.com/joho/godotenv"
)

// version is surfaced by the health endpoint and the startup log line.
// Overridable at build time via -ldflags "-X main.version=...".
var version = "0.1.0"

// main wires configuration, logging, the database connection, and the
// service layer together, then either runs a migration command or starts
// the HTTP server.
func main() {
	migrateCmd := flag.String(
		"migrate",
		"",
		"run a migration command (up|down|reset|status|version) and exit",
	)
	flag.Parse()

	// A local .env file is a development convenience; its absence is fine.
	if err := godotenv.Load(); err == nil {
		slog.Debug("Loaded environment from .env file")
	}

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

// run holds the startup logic so main stays a thin shell around it and
// errors funnel through a single exit path.
func run(migrateCmd string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	appLogger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return err
	}

	// Migration-only invocation: run the command, close up, exit.
	if migrateCmd != "" {
		defer func() {
			if err := db.Close(); err != nil {
				appLogger.Error("Error closing database connection", "error", err)
			}
		}()
		return runMigrationCommand(db, cfg.Database.URL, migrateCmd)
	}

	// Apply pending migrations before accepting traffic.
	if err := runMigrationCommand(db, cfg.Database.URL, "up"); err != nil {
		return err
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		return err
	}

	appLogger.Info("Starting taskdeck API server", "version", version)
	return app.Run(context.Background())
}
