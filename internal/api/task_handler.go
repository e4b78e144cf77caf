// Package api provides HTTP handlers for the API.
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

// CreateTaskRequest represents the request body for creating a new task
type CreateTaskRequest struct {
	Title       string     `json:"title"       validate:"required,min=1,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	Status      *string    `json:"status"      validate:"omitempty,oneof=pending in_progress completed"`
	Priority    *string    `json:"priority"    validate:"omitempty,oneof=high medium low"`
	DueDate     *time.Time `json:"due_date"`
	SessionID   *uuid.UUID `json:"session_id"`
}

// toCreateInput converts the request into a domain input.
func (req CreateTaskRequest) toCreateInput() domain.CreateTaskInput {
	input := domain.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		SessionID:   req.SessionID,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		input.Priority = &priority
	}
	return input
}

// UpdateTaskRequest represents the request body for a partial task update.
// Omitted fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"       validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	Status      *string    `json:"status"      validate:"omitempty,oneof=pending in_progress completed"`
	Priority    *string    `json:"priority"    validate:"omitempty,oneof=high medium low"`
	DueDate     *time.Time `json:"due_date"`
}

// toUpdateInput converts the request into a domain partial update.
func (req UpdateTaskRequest) toUpdateInput() domain.UpdateTaskInput {
	input := domain.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		input.Priority = &priority
	}
	return input
}

// BulkUpdateTaskItem pairs a task ID with the partial update to apply to it.
type BulkUpdateTaskItem struct {
	ID uuid.UUID `json:"id" validate:"required"`
	UpdateTaskRequest
}

// BulkUpdateTasksRequest represents the request body for a bulk task update
type BulkUpdateTasksRequest struct {
	Tasks []BulkUpdateTaskItem `json:"tasks" validate:"required,min=1,dive"`
}

// BulkUpdateTasksResponse lists the tasks that were actually updated.
// IDs that matched no task are silently absent.
type BulkUpdateTasksResponse struct {
	Updated []TaskResponse `json:"updated"`
}

// BulkDeleteTasksRequest represents the request body for a bulk task delete
type BulkDeleteTasksRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
}

// BulkDeleteTasksResponse reports how many tasks were actually deleted.
type BulkDeleteTasksResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /api/v1/tasks requests
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	// Get logger from context or use default
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	// Parse request body
	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Invalid request format")
		return
	}

	// Validate request
	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(
			w, r, http.StatusUnprocessableEntity, SanitizeValidationError(err), err)
		return
	}

	// Create task
	task, err := h.taskService.CreateTask(r.Context(), req.toCreateInput())
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to create task")
		return
	}

	// Return response with 201 Created status
	log.Debug("task created", slog.String("task_id", task.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// GetTask handles GET /api/v1/tasks/{id} requests
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	// Extract task ID from URL path
	taskID, err := getPathUUID(r, "id")
	if err != nil {
		log.Warn("invalid task ID", slog.String("error", err.Error()))
		respondWithServiceError(w, r, err, "")
		return
	}

	// Get task from service
	task, err := h.taskService.GetTask(r.Context(), taskID)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to retrieve task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// ListTasks handles GET /api/v1/tasks requests
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	// Parse and validate query parameters
	params, err := parseTaskListParams(r)
	if err != nil {
		log.Warn("invalid list parameters", slog.String("error", err.Error()))
		respondWithServiceError(w, r, err, "")
		return
	}

	// Get one page of tasks from the service
	tasks, total, err := h.taskService.ListTasks(r.Context(), params)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to list tasks")
		return
	}

	response := TaskListResponse{
		Items:    tasksToResponses(tasks),
		ListMeta: NewListMeta(total, params.Page),
	}
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// UpdateTask handles PUT /api/v1/tasks/{id} requests.
// The update is semantically partial: omitted fields stay unchanged.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	// Extract task ID from URL path
	taskID, err := getPathUUID(r, "id")
	if err != nil {
		log.Warn("invalid task ID", slog.String("error", err.Error()))
		respondWithServiceError(w, r, err, "")
		return
	}

	// Parse request body
	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", taskID.String()))
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Invalid request format")
		return
	}

	// Validate request
	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", taskID.String()))
		shared.RespondWithErrorAndLog(
			w, r, http.StatusUnprocessableEntity, SanitizeValidationError(err), err)
		return
	}

	// Apply the partial update
	task, err := h.taskService.UpdateTask(r.Context(), taskID, req.toUpdateInput())
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to update task")
		return
	}

	log.Debug("task updated", slog.String("task_id", task.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /api/v1/tasks/{id} requests
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	// Extract task ID from URL path
	taskID, err := getPathUUID(r, "id")
	if err != nil {
		log.Warn("invalid task ID", slog.String("error", err.Error()))
		respondWithServiceError(w, r, err, "")
		return
	}

	// Delete task
	if err := h.taskService.DeleteTask(r.Context(), taskID); err != nil {
		respondWithServiceError(w, r, err, "Failed to delete task")
		return
	}

	// Return 204 No Content on successful deletion
	log.Debug("task deleted", slog.String("task_id", taskID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// BulkUpdateTasks handles PUT /api/v1/tasks/bulk requests.
// IDs that match no task are skipped; the response carries only the tasks
// that were actually updated.
func (h *TaskHandler) BulkUpdateTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	// Parse request body
	var req BulkUpdateTasksRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Invalid request format")
		return
	}

	// Validate request, including every item's partial update
	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(
			w, r, http.StatusUnprocessableEntity, SanitizeValidationError(err), err)
		return
	}

	// Convert request items to service updates
	updates := make([]service.BulkTaskUpdate, 0, len(req.Tasks))
	for _, item := range req.Tasks {
		updates = append(updates, service.BulkTaskUpdate{
			ID:    item.ID,
			Input: item.toUpdateInput(),
		})
	}

	// Apply all updates in one transaction
	tasks, err := h.taskService.BulkUpdateTasks(r.Context(), updates)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to update tasks")
		return
	}

	log.Debug("tasks bulk updated",
		slog.Int("requested", len(req.Tasks)),
		slog.Int("updated", len(tasks)))
	shared.RespondWithJSON(w, r, http.StatusOK, BulkUpdateTasksResponse{
		Updated: tasksToResponses(tasks),
	})
}

// BulkDeleteTasks handles DELETE /api/v1/tasks/bulk requests.
// IDs that match no task are not errors; they are simply not counted.
func (h *TaskHandler) BulkDeleteTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	// Parse request body
	var req BulkDeleteTasksRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Invalid request format")
		return
	}

	// Validate request
	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(
			w, r, http.StatusUnprocessableEntity, SanitizeValidationError(err), err)
		return
	}

	// Delete all matching tasks
	count, err := h.taskService.BulkDeleteTasks(r.Context(), req.IDs)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to delete tasks")
		return
	}

	log.Debug("tasks bulk deleted",
		slog.Int("requested", len(req.IDs)),
		slog.Int64("deleted", count))
	shared.RespondWithJSON(w, r, http.StatusOK, BulkDeleteTasksResponse{
		DeletedCount: count,
	})
}
