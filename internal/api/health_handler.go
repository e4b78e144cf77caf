package api

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/redact"
)

// healthCheckTimeout caps how long the database ping may take before the
// service reports itself degraded.
const healthCheckTimeout = 2 * time.Second

// HealthResponse describes the service health report.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

// HealthHandler reports liveness of the API and its database connection.
type HealthHandler struct {
	db      *sql.DB
	version string
	logger  *slog.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *sql.DB, version string, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for HealthHandler")
	}

	return &HealthHandler{
		db:      db,
		version: version,
		logger:  logger.With(slog.String("component", "health_handler")),
	}
}

// Health handles GET /health requests.
// The endpoint always answers 200; a failing database turns the status
// to degraded rather than failing the request, so load balancers can
// distinguish "down" from "up but unhealthy".
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:   "healthy",
		Version:  h.version,
		Database: "healthy",
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn("database ping failed", slog.String("error", redact.Error(err)))
		response.Status = "degraded"
		response.Database = "unhealthy"
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}
