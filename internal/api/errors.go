package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/service"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrBatchNotFound),
		errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrBatchNotFound):
		return http.StatusNotFound

	// Validation errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusUnprocessableEntity

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	// Handle nil error
	if err == nil {
		return "An unexpected error occurred"
	}

	// Field-level validation failures carry their own safe wording
	var fieldErr *domain.ValidationError
	if errors.As(err, &fieldErr) {
		return fmt.Sprintf("Invalid %s: %s", fieldErr.Field, fieldErr.Message)
	}

	// Map specific error types to user-friendly messages
	switch {
	// Not found errors
	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, service.ErrBatchNotFound),
		errors.Is(err, store.ErrBatchNotFound):
		return "Batch not found"

	// Validation errors
	case errors.Is(err, domain.ErrEmptyTaskTitle):
		return "Invalid title: cannot be empty"

	case errors.Is(err, domain.ErrTaskTitleTooLong):
		return "Invalid title: must be at most 255 characters"

	case errors.Is(err, domain.ErrTaskDescriptionTooLong):
		return "Invalid description: must be at most 1000 characters"

	case errors.Is(err, domain.ErrInvalidTaskStatus):
		return "Invalid status: must be one of pending, in_progress, completed"

	case errors.Is(err, domain.ErrInvalidTaskPriority):
		return "Invalid priority: must be one of high, medium, low"

	case errors.Is(err, domain.ErrEmptyBatchTasks):
		return "Invalid tasks: batch requires at least one task"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return "Validation error"

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns request validation failures into a
// user-friendly message naming the offending field(s), without exposing
// internal struct paths.
func SanitizeValidationError(err error) string {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		parts := make([]string, 0, len(fieldErrors))
		for _, fe := range fieldErrors {
			parts = append(parts, fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag())))
		}
		return strings.Join(parts, "; ")
	}

	// Fall back to a generic validation error message
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// respondWithServiceError maps the error to a status code and safe message
// and writes the response. fallbackMessage replaces the generic 500 text so
// each operation can name what failed without exposing the cause.
func respondWithServiceError(
	w http.ResponseWriter,
	r *http.Request,
	err error,
	fallbackMessage string,
) {
	statusCode := MapErrorToStatusCode(err)
	safeMessage := GetSafeErrorMessage(err)

	if statusCode == http.StatusInternalServerError && fallbackMessage != "" {
		safeMessage = fallbackMessage
	}

	// Log the full error details but only send the sanitized message to the client
	shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
}
