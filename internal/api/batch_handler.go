package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/redact"
	"github.com/taskdeck/taskdeck-api/internal/service"
)

// CreateBatchRequest represents the request body for creating a task batch.
// The batch's session_id is the source of truth for grouping: it overrides
// any session carried by the individual task inputs.
type CreateBatchRequest struct {
	SessionID *uuid.UUID          `json:"session_id"`
	Reason    *string             `json:"reason"`
	Tasks     []CreateTaskRequest `json:"tasks" validate:"required,min=1,dive"`
}

// BatchResponse represents the response data for a task batch
type BatchResponse struct {
	ID        string         `json:"id"`
	SessionID *uuid.UUID     `json:"session_id"`
	Reason    *string        `json:"reason"`
	CreatedAt time.Time      `json:"created_at"`
	Tasks     []TaskResponse `json:"tasks"`
}

// BatchListResponse is the envelope for batch list requests.
type BatchListResponse struct {
	Items []BatchResponse `json:"items"`
	ListMeta
}

// BatchHandler handles batch-related HTTP requests
type BatchHandler struct {
	batchService service.BatchService
	logger       *slog.Logger
}

// NewBatchHandler creates a new BatchHandler
func NewBatchHandler(batchService service.BatchService, logger *slog.Logger) *BatchHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for BatchHandler")
	}

	return &BatchHandler{
		batchService: batchService,
		logger:       logger.With(slog.String("component", "batch_handler")),
	}
}

// CreateBatch handles POST /api/v1/batches requests.
// The batch and all of its tasks are created in one transaction.
func (h *BatchHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	// Get logger from context or use default
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	// Parse request body
	var req CreateBatchRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Invalid request format")
		return
	}

	// Validate request, including every task input
	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(
			w, r, http.StatusUnprocessableEntity, SanitizeValidationError(err), err)
		return
	}

	// Convert request to service input
	input := service.CreateBatchInput{
		SessionID: req.SessionID,
		Reason:    req.Reason,
		Tasks:     make([]domain.CreateTaskInput, 0, len(req.Tasks)),
	}
	for _, taskReq := range req.Tasks {
		input.Tasks = append(input.Tasks, taskReq.toCreateInput())
	}

	// Create the batch and its tasks atomically
	batch, err := h.batchService.CreateBatch(r.Context(), input)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to create batch")
		return
	}

	// Return response with 201 Created status
	log.Debug("task batch created",
		slog.String("batch_id", batch.ID.String()),
		slog.Int("task_count", len(batch.Tasks)))
	shared.RespondWithJSON(w, r, http.StatusCreated, batchToResponse(batch))
}

// GetBatch handles GET /api/v1/batches/{id} requests
func (h *BatchHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	// Extract batch ID from URL path
	batchID, err := getPathUUID(r, "id")
	if err != nil {
		log.Warn("invalid batch ID", slog.String("error", err.Error()))
		respondWithServiceError(w, r, err, "")
		return
	}

	// Get batch from service, tasks attached in insertion order
	batch, err := h.batchService.GetBatch(r.Context(), batchID)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to retrieve batch")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, batchToResponse(batch))
}

// ListBatches handles GET /api/v1/batches requests.
// Batches are always returned newest first.
func (h *BatchHandler) ListBatches(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	// Parse and validate query parameters
	params, err := parseBatchListParams(r)
	if err != nil {
		log.Warn("invalid list parameters", slog.String("error", err.Error()))
		respondWithServiceError(w, r, err, "")
		return
	}

	// Get one page of batches from the service
	batches, total, err := h.batchService.ListBatches(r.Context(), params)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to list batches")
		return
	}

	response := BatchListResponse{
		Items:    batchesToResponses(batches),
		ListMeta: NewListMeta(total, params.Page),
	}
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// GetLatestBatch handles GET /api/v1/batches/latest requests.
// When no batch exists the response is 200 with a null body, not a 404:
// an empty collection is a normal state, not a missing resource.
func (h *BatchHandler) GetLatestBatch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	// Parse the optional session filter
	sessionID, err := parseSessionID(r)
	if err != nil {
		log.Warn("invalid session ID", slog.String("error", err.Error()))
		respondWithServiceError(w, r, err, "")
		return
	}

	// Get the most recent batch from the service
	batch, err := h.batchService.GetLatestBatch(r.Context(), sessionID)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to retrieve latest batch")
		return
	}

	if batch == nil {
		log.Debug("no batches exist for latest lookup")
		shared.RespondWithJSON(w, r, http.StatusOK, nil)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, batchToResponse(batch))
}

// batchToResponse converts a domain.TaskBatch to a BatchResponse
func batchToResponse(batch *domain.TaskBatch) BatchResponse {
	return BatchResponse{
		ID:        batch.ID.String(),
		SessionID: batch.SessionID,
		Reason:    batch.Reason,
		CreatedAt: batch.CreatedAt,
		Tasks:     tasksToResponses(batch.Tasks),
	}
}

// batchesToResponses converts a batch slice, always yielding a non-nil
// slice so empty collections serialize as [] rather than null.
func batchesToResponses(batches []*domain.TaskBatch) []BatchResponse {
	responses := make([]BatchResponse, 0, len(batches))
	for _, batch := range batches {
		responses = append(responses, batchToResponse(batch))
	}
	return responses
}
