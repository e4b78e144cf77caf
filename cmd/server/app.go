package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/taskdeck/taskdeck-api/internal/config"
	"github.com/taskdeck/taskdeck-api/internal/platform/postgres"
	"github.com/taskdeck/taskdeck-api/internal/service"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// application bundles the dependencies the server needs at runtime, so
// wiring happens in one place and cleanup can release everything on
// shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	taskStore  store.TaskStore
	batchStore store.BatchStore

	taskService  service.TaskService
	batchService service.BatchService
}

// newApplication wires stores, repository adapters, and services on top of
// the already-established config, logger, and database connection.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	app.batchStore = postgres.NewPostgresBatchStore(db, logger)

	// Repository adapters bind the stores to the services' transactional
	// repository interfaces.
	taskRepo := service.NewTaskRepositoryAdapter(app.taskStore, db)
	batchRepo := service.NewBatchRepositoryAdapter(app.batchStore, db)

	var err error
	app.taskService, err = service.NewTaskService(taskRepo, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	// The batch service needs the task repository too because batch
	// creation persists tasks in the same transaction.
	app.batchService, err = service.NewBatchService(batchRepo, taskRepo, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run builds the router and serves HTTP until shutdown.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup releases application resources at the end of a run.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
