package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/service"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{
			name:           "nil error",
			err:            nil,
			expectedStatus: http.StatusInternalServerError, // Default to 500 for nil error
		},
		{
			name:           "task not found",
			err:            service.ErrTaskNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "wrapped task not found",
			err:            fmt.Errorf("failed to load task: %w", service.ErrTaskNotFound),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "batch not found",
			err:            service.ErrBatchNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "store-level task not found",
			err:            store.ErrTaskNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "store-level batch not found",
			err:            store.ErrBatchNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "domain validation error",
			err:            domain.ErrValidation,
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "specific domain validation error",
			err:            domain.ErrEmptyTaskTitle,
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "invalid ID error",
			err:            domain.ErrInvalidID,
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "invalid entity error",
			err:            store.ErrInvalidEntity,
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "unknown error",
			err:            errors.New("unknown error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := MapErrorToStatusCode(tt.err)
			assert.Equal(t, tt.expectedStatus, status)
		})
	}
}

// TestMapErrorToStatusCodeWithWrappedErrors verifies that classification
// looks through the service and store wrapper types.
func TestMapErrorToStatusCodeWithWrappedErrors(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{
			name:           "field validation error with defaulted cause",
			err:            domain.NewValidationError("title", "cannot be empty", nil),
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "field validation error carrying invalid ID cause",
			err: domain.NewValidationError(
				"session_id",
				"has invalid format",
				domain.ErrInvalidID,
			),
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "task service error wrapping not found",
			err: service.NewTaskServiceError(
				"get_task",
				"task not found",
				store.ErrTaskNotFound,
			),
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "task service error wrapping validation",
			err: service.NewTaskServiceError(
				"create_task",
				"invalid task data",
				domain.ErrEmptyTaskTitle,
			),
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "batch service error wrapping not found",
			err: service.NewBatchServiceError(
				"get_batch",
				"batch not found",
				store.ErrBatchNotFound,
			),
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "store error wrapping invalid entity",
			err: store.NewStoreError(
				"task",
				"create",
				"validation failed",
				store.ErrInvalidEntity,
			),
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "store error with no specific wrapped error",
			err: store.NewStoreError(
				"task",
				"update",
				"database error",
				errors.New("connection refused"),
			),
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name: "deeply nested error",
			err: fmt.Errorf(
				"outer: %w",
				fmt.Errorf(
					"middle: %w",
					service.NewTaskServiceError("get_task", "lookup failed", store.ErrTaskNotFound),
				),
			),
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := MapErrorToStatusCode(tt.err)
			assert.Equal(t, tt.expectedStatus, status)
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedMessage string
	}{
		{
			name:            "nil error",
			err:             nil,
			expectedMessage: "An unexpected error occurred",
		},
		{
			name:            "task not found",
			err:             service.ErrTaskNotFound,
			expectedMessage: "Task not found",
		},
		{
			name:            "wrapped task not found",
			err:             fmt.Errorf("failed to load: %w", store.ErrTaskNotFound),
			expectedMessage: "Task not found",
		},
		{
			name:            "batch not found",
			err:             service.ErrBatchNotFound,
			expectedMessage: "Batch not found",
		},
		{
			name:            "empty title",
			err:             domain.ErrEmptyTaskTitle,
			expectedMessage: "Invalid title: cannot be empty",
		},
		{
			name:            "title too long",
			err:             domain.ErrTaskTitleTooLong,
			expectedMessage: "Invalid title: must be at most 255 characters",
		},
		{
			name:            "description too long",
			err:             domain.ErrTaskDescriptionTooLong,
			expectedMessage: "Invalid description: must be at most 1000 characters",
		},
		{
			name:            "invalid status",
			err:             domain.ErrInvalidTaskStatus,
			expectedMessage: "Invalid status: must be one of pending, in_progress, completed",
		},
		{
			name:            "invalid priority",
			err:             domain.ErrInvalidTaskPriority,
			expectedMessage: "Invalid priority: must be one of high, medium, low",
		},
		{
			name:            "batch without tasks",
			err:             domain.ErrEmptyBatchTasks,
			expectedMessage: "Invalid tasks: batch requires at least one task",
		},
		{
			name:            "invalid entity",
			err:             store.ErrInvalidEntity,
			expectedMessage: "Invalid entity data",
		},
		{
			name:            "bare validation sentinel",
			err:             domain.ErrValidation,
			expectedMessage: "Validation error",
		},
		{
			name:            "invalid ID sentinel",
			err:             domain.ErrInvalidID,
			expectedMessage: "Validation error",
		},
		{
			name:            "unknown error",
			err:             errors.New("database error: connection refused"),
			expectedMessage: "An unexpected error occurred", // Database error details are hidden
		},
		{
			name: "wrapped database error with SQL details",
			err: fmt.Errorf(
				"SQL error: %w",
				errors.New("syntax error at line 42 in SELECT * FROM tasks"),
			),
			expectedMessage: "An unexpected error occurred", // SQL details are hidden
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message := GetSafeErrorMessage(tt.err)
			assert.Equal(t, tt.expectedMessage, message)

			// Verify no sensitive details are leaked
			if tt.err != nil && tt.expectedMessage == "An unexpected error occurred" {
				assert.NotContains(
					t,
					message,
					tt.err.Error(),
					"Error message should not contain the actual error",
				)
			}
		})
	}
}

// TestGetSafeErrorMessageWithFieldErrors verifies that field-level
// validation errors carry their own wording, taking precedence over the
// sentinel mapping.
func TestGetSafeErrorMessageWithFieldErrors(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedMessage string
	}{
		{
			name:            "field error with defaulted cause",
			err:             domain.NewValidationError("page", "must be at least 1", nil),
			expectedMessage: "Invalid page: must be at least 1",
		},
		{
			name: "field error carrying invalid ID cause",
			err: domain.NewValidationError(
				"session_id",
				"has invalid format",
				domain.ErrInvalidID,
			),
			expectedMessage: "Invalid session_id: has invalid format",
		},
		{
			name: "wrapped field error",
			err: fmt.Errorf(
				"failed to parse request: %w",
				domain.NewValidationError("id", "is required", domain.ErrValidation),
			),
			expectedMessage: "Invalid id: is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message := GetSafeErrorMessage(tt.err)
			assert.Equal(t, tt.expectedMessage, message)
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedMessage string
	}{
		{
			name:            "missing required field",
			err:             shared.Validate.Struct(CreateTaskRequest{}),
			expectedMessage: "Invalid Title: required field",
		},
		{
			name: "field too long",
			err: shared.Validate.Struct(CreateTaskRequest{
				Title: strings.Repeat("a", 256),
			}),
			expectedMessage: "Invalid Title: too long",
		},
		{
			name: "invalid enum value",
			err: shared.Validate.Struct(CreateTaskRequest{
				Title:  "Valid title",
				Status: strPtr("done"),
			}),
			expectedMessage: "Invalid Status: invalid value",
		},
		{
			name: "multiple failures joined in field order",
			err: shared.Validate.Struct(CreateTaskRequest{
				Priority: strPtr("urgent"),
			}),
			expectedMessage: "Invalid Title: required field; Invalid Priority: invalid value",
		},
		{
			name: "empty bulk delete list",
			err: shared.Validate.Struct(BulkDeleteTasksRequest{
				IDs: []uuid.UUID{},
			}),
			expectedMessage: "Invalid IDs: too short",
		},
		{
			name:            "non-validator error",
			err:             errors.New("some other kind of error"),
			expectedMessage: "Validation error",
		},
		{
			name:            "nil error",
			err:             nil,
			expectedMessage: "Validation error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message := SanitizeValidationError(tt.err)
			assert.Equal(t, tt.expectedMessage, message)

			// The raw validator error names struct paths; those must not leak
			if tt.err != nil {
				assert.NotContains(t, message, "CreateTaskRequest")
				assert.NotContains(t, message, "Error:Field validation")
			}
		})
	}
}

// TestSanitizeValidationErrorNestedItems verifies that failures inside
// bulk update items report the leaf field, not the struct path.
func TestSanitizeValidationErrorNestedItems(t *testing.T) {
	err := shared.Validate.Struct(BulkUpdateTasksRequest{
		Tasks: []BulkUpdateTaskItem{
			{
				ID: uuid.New(),
				UpdateTaskRequest: UpdateTaskRequest{
					Status: strPtr("abandoned"),
				},
			},
		},
	})
	require.Error(t, err)

	message := SanitizeValidationError(err)
	assert.Equal(t, "Invalid Status: invalid value", message)
	assert.NotContains(t, message, "Tasks[0]")
}

func TestRespondWithServiceError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		fallbackMessage string
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "unknown error uses the fallback",
			err:             errors.New("pq: connection refused"),
			fallbackMessage: "Failed to create task",
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "Failed to create task",
		},
		{
			name:            "unknown error without fallback",
			err:             errors.New("pq: connection refused"),
			fallbackMessage: "",
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "An unexpected error occurred",
		},
		{
			name:            "not found keeps its own message",
			err:             service.ErrTaskNotFound,
			fallbackMessage: "Failed to retrieve task",
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "Task not found",
		},
		{
			name:            "validation keeps its own message",
			err:             domain.ErrInvalidTaskStatus,
			fallbackMessage: "Failed to update task",
			expectedStatus:  http.StatusUnprocessableEntity,
			expectedMessage: "Invalid status: must be one of pending, in_progress, completed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
			rr := httptest.NewRecorder()

			respondWithServiceError(rr, req, tt.err, tt.fallbackMessage)

			assert.Equal(t, tt.expectedStatus, rr.Code)

			var resp shared.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedMessage, resp.Error)
			assert.NotContains(t, resp.Error, "pq:")
		})
	}
}
