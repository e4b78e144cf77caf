package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/taskdeck/taskdeck-api/internal/api"
	apimiddleware "github.com/taskdeck/taskdeck-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. It accepts the application dependencies to create handlers
// and register routes. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	// Create a router
	r := chi.NewRouter()

	// Apply standard middleware. Trace runs before the request logger so
	// every log line carries the trace ID.
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)
	r.Use(apimiddleware.RequestLogger(app.logger))

	// Create API handlers using the application's services
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	batchHandler := api.NewBatchHandler(app.batchService, app.logger)
	healthHandler := api.NewHealthHandler(app.db, version, app.logger)

	// Health check endpoint
	r.Get("/health", healthHandler.Health)

	// Register routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", taskHandler.CreateTask)
			r.Get("/", taskHandler.ListTasks)

			// Bulk routes are registered ahead of the id routes so
			// "bulk" is never parsed as a task id
			r.Put("/bulk", taskHandler.BulkUpdateTasks)
			r.Delete("/bulk", taskHandler.BulkDeleteTasks)

			r.Get("/{id}", taskHandler.GetTask)
			r.Put("/{id}", taskHandler.UpdateTask)
			r.Delete("/{id}", taskHandler.DeleteTask)
		})

		r.Route("/batches", func(r chi.Router) {
			r.Post("/", batchHandler.CreateBatch)
			r.Get("/", batchHandler.ListBatches)

			// Registered ahead of the id route so "latest" is never
			// parsed as a batch id
			r.Get("/latest", batchHandler.GetLatestBatch)
			r.Get("/{id}", batchHandler.GetBatch)
		})
	})

	return r
}
