package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// Common request/response structures

// TaskResponse represents the response data for a task. Absent optional
// values serialize as null.
type TaskResponse struct {
	ID          string     `json:"id"`
	SessionID   *uuid.UUID `json:"session_id"`
	BatchID     *uuid.UUID `json:"batch_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ListMeta carries the pagination envelope shared by all list responses.
type ListMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// NewListMeta computes the pagination envelope for one page of a
// collection holding total items at the fixed page size.
func NewListMeta(total int64, page int) ListMeta {
	totalPages := int((total + store.PageSize - 1) / store.PageSize)
	return ListMeta{
		Total:      total,
		Page:       page,
		Limit:      store.PageSize,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// TaskListResponse is the envelope for task list requests.
type TaskListResponse struct {
	Items []TaskResponse `json:"items"`
	ListMeta
}

// taskToResponse converts a domain.Task to a TaskResponse
func taskToResponse(task *domain.Task) TaskResponse {
	var priority *string
	if task.Priority != nil {
		p := string(*task.Priority)
		priority = &p
	}

	return TaskResponse{
		ID:          task.ID.String(),
		SessionID:   task.SessionID,
		BatchID:     task.BatchID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    priority,
		DueDate:     task.DueDate,
		CompletedAt: task.CompletedAt,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// tasksToResponses converts a task slice, always yielding a non-nil slice
// so empty collections serialize as [] rather than null.
func tasksToResponses(tasks []*domain.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, taskToResponse(task))
	}
	return responses
}
