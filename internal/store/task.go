package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// TaskSortField identifies a column tasks can be ordered by.
type TaskSortField string

// Sortable task fields
const (
	TaskSortUpdatedAt TaskSortField = "updated_at"
	TaskSortCreatedAt TaskSortField = "created_at"
	TaskSortDueDate   TaskSortField = "due_date"
	TaskSortPriority  TaskSortField = "priority"
	TaskSortStatus    TaskSortField = "status"
)

// IsValid checks if the field is a recognized sort key.
func (f TaskSortField) IsValid() bool {
	switch f {
	case TaskSortUpdatedAt, TaskSortCreatedAt, TaskSortDueDate, TaskSortPriority, TaskSortStatus:
		return true
	default:
		return false
	}
}

// SortOrder is the direction of a sort.
type SortOrder string

// Sort directions
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// IsValid checks if the order is a recognized direction.
func (o SortOrder) IsValid() bool {
	return o == SortAsc || o == SortDesc
}

// TaskListParams describes a task list query: a 1-indexed page, optional
// conjunctive equality filters, and a sort key with direction. Callers
// must validate Page >= 1 before building params; the store treats that
// as a precondition.
type TaskListParams struct {
	Page      int
	Status    *domain.TaskStatus
	SessionID *uuid.UUID
	SortBy    TaskSortField
	Order     SortOrder
}

// Offset returns the row offset for the params' page at the fixed page size.
func (p TaskListParams) Offset() int {
	return (p.Page - 1) * PageSize
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// It handles domain validation internally.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List retrieves one page of tasks matching the params' filters in the
	// params' order, plus the total number of matching rows (unpaginated).
	// Returns an empty slice when the page is past the end.
	List(ctx context.Context, params TaskListParams) ([]*domain.Task, int64, error)

	// Update saves changes to an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	// Returns validation errors if the task data is invalid.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteMany removes every task whose ID appears in ids and reports
	// how many rows were actually deleted. IDs with no matching row are
	// skipped, not errors.
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) TaskStore
}
