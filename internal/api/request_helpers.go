package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// getPathUUID extracts a UUID from the URL path parameters.
// It parses and validates the UUID, handling common error cases.
//
// Parameters:
//   - r: The HTTP request
//   - paramName: The name of the path parameter to extract
//
// Returns:
//   - (uuid.UUID, nil): The parsed UUID if valid
//   - (uuid.UUID{}, error): A zero UUID and appropriate error if parameter is missing or invalid
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	// Extract parameter from URL path using chi router
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	// Parse parameter as UUID
	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// parsePage reads the 1-indexed page query parameter, defaulting to 1
// when absent.
func parsePage(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, nil
	}

	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError("page", "must be an integer", domain.ErrValidation)
	}
	if page < 1 {
		return 0, domain.NewValidationError("page", "must be at least 1", domain.ErrValidation)
	}

	return page, nil
}

// parseSessionID reads the optional session_id query parameter.
// A missing parameter yields a nil ID without error.
func parseSessionID(r *http.Request) (*uuid.UUID, error) {
	raw := r.URL.Query().Get("session_id")
	if raw == "" {
		return nil, nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domain.NewValidationError("session_id", "has invalid format", domain.ErrInvalidID)
	}

	return &id, nil
}

// parseTaskListParams assembles task list query parameters, applying the
// default sort (updated_at descending) and rejecting unknown enum values
// before anything reaches the store.
func parseTaskListParams(r *http.Request) (store.TaskListParams, error) {
	page, err := parsePage(r)
	if err != nil {
		return store.TaskListParams{}, err
	}

	params := store.TaskListParams{
		Page:   page,
		SortBy: store.TaskSortUpdatedAt,
		Order:  store.SortDesc,
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.TaskStatus(raw)
		if !status.IsValid() {
			return store.TaskListParams{}, domain.NewValidationError(
				"status", "must be one of pending, in_progress, completed", domain.ErrValidation)
		}
		params.Status = &status
	}

	sessionID, err := parseSessionID(r)
	if err != nil {
		return store.TaskListParams{}, err
	}
	params.SessionID = sessionID

	if raw := r.URL.Query().Get("sort_by"); raw != "" {
		sortBy := store.TaskSortField(raw)
		if !sortBy.IsValid() {
			return store.TaskListParams{}, domain.NewValidationError(
				"sort_by", "is not a sortable field", domain.ErrValidation)
		}
		params.SortBy = sortBy
	}

	if raw := r.URL.Query().Get("order"); raw != "" {
		order := store.SortOrder(raw)
		if !order.IsValid() {
			return store.TaskListParams{}, domain.NewValidationError(
				"order", "must be asc or desc", domain.ErrValidation)
		}
		params.Order = order
	}

	return params, nil
}

// parseBatchListParams assembles batch list query parameters. Batches are
// always returned newest first, so only page and session filter apply.
func parseBatchListParams(r *http.Request) (store.BatchListParams, error) {
	page, err := parsePage(r)
	if err != nil {
		return store.BatchListParams{}, err
	}

	sessionID, err := parseSessionID(r)
	if err != nil {
		return store.BatchListParams{}, err
	}

	return store.BatchListParams{
		Page:      page,
		SessionID: sessionID,
	}, nil
}
