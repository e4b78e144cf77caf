package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// TaskRepository defines the repository interface for the task service.
// This is aligned with store.TaskStore to ensure proper separation of concerns.
type TaskRepository interface {
	// Create saves a new task to the store
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List retrieves one page of tasks matching the params along with the
	// total count across all pages
	List(ctx context.Context, params store.TaskListParams) ([]*domain.Task, int64, error)

	// Update saves changes to an existing task
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by its ID
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteMany removes every task whose ID appears in ids and reports
	// how many rows were deleted
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) TaskRepository

	// DB returns the underlying database connection
	DB() *sql.DB
}

// BulkTaskUpdate pairs a task ID with the partial update to apply to it.
type BulkTaskUpdate struct {
	ID    uuid.UUID
	Input domain.UpdateTaskInput
}

// TaskService provides task-related operations
type TaskService interface {
	// CreateTask creates a new task from the given input
	CreateTask(ctx context.Context, input domain.CreateTaskInput) (*domain.Task, error)

	// GetTask retrieves a task by its ID
	GetTask(ctx context.Context, taskID uuid.UUID) (*domain.Task, error)

	// ListTasks retrieves one page of tasks along with the total count
	ListTasks(ctx context.Context, params store.TaskListParams) ([]*domain.Task, int64, error)

	// UpdateTask applies a partial update to an existing task and returns
	// the updated task
	UpdateTask(ctx context.Context, taskID uuid.UUID, input domain.UpdateTaskInput) (*domain.Task, error)

	// BulkUpdateTasks applies partial updates to several tasks atomically.
	// IDs that match no task are skipped; the updated tasks are returned
	// in request order.
	BulkUpdateTasks(ctx context.Context, updates []BulkTaskUpdate) ([]*domain.Task, error)

	// DeleteTask removes a task by its ID
	DeleteTask(ctx context.Context, taskID uuid.UUID) error

	// BulkDeleteTasks removes every task whose ID appears in ids and
	// reports how many were deleted. IDs that match no task are skipped.
	BulkDeleteTasks(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// TaskServiceError wraps errors from the task service with context.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "create_task", "bulk_update_tasks")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
// It returns known sentinel errors directly without wrapping.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	// Check for service-defined sentinel errors
	if errors.Is(err, ErrTaskNotFound) {
		return ErrTaskNotFound
	}

	// Check for store-level sentinel errors that should be mapped to service-level ones
	if errors.Is(err, store.ErrTaskNotFound) {
		return ErrTaskNotFound
	}

	// If not a sentinel to be returned directly, wrap it
	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	taskRepo TaskRepository
	logger   *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(taskRepo TaskRepository, logger *slog.Logger) (TaskService, error) {
	// Validate dependencies
	if taskRepo == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "taskRepo cannot be nil",
			Err:       nil,
		}
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		taskRepo: taskRepo,
		logger:   logger.With("component", "task_service"),
	}, nil
}

// CreateTask creates a new task from the given input.
// Uses a transaction for the task creation to ensure atomicity.
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	input domain.CreateTaskInput,
) (*domain.Task, error) {
	// 1. Build the domain task, applying defaults and validating
	task, err := domain.NewTask(input)
	if err != nil {
		s.logger.Warn("failed to create task object",
			"error", err,
			"title", input.Title)
		return nil, NewTaskServiceError("create_task", "failed to create task object", err)
	}

	// 2. Save the task to the database using a transaction
	err = store.RunInTransaction(ctx, s.taskRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.taskRepo.WithTx(tx)

		if err := txRepo.Create(ctx, task); err != nil {
			s.logger.Error("failed to create task in transaction",
				"error", err,
				"task_id", task.ID)
			return NewTaskServiceError("create_task", "failed to save task to database", err)
		}
		return nil
	})

	if err != nil {
		// Error is already wrapped in the transaction
		return nil, err
	}

	s.logger.Info("task created successfully",
		"task_id", task.ID,
		"status", task.Status)

	return task, nil
}

// GetTask retrieves a task by its ID
func (s *taskServiceImpl) GetTask(ctx context.Context, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Debug("task not found",
				"task_id", taskID)
			return nil, ErrTaskNotFound
		}

		s.logger.Error("failed to retrieve task",
			"error", err,
			"task_id", taskID)
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}

	s.logger.Debug("retrieved task successfully",
		"task_id", taskID,
		"status", task.Status)

	return task, nil
}

// ListTasks retrieves one page of tasks along with the total count
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	params store.TaskListParams,
) ([]*domain.Task, int64, error) {
	tasks, total, err := s.taskRepo.List(ctx, params)
	if err != nil {
		s.logger.Error("failed to list tasks",
			"error", err,
			"page", params.Page)
		return nil, 0, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}

	s.logger.Debug("listed tasks successfully",
		"count", len(tasks),
		"total", total,
		"page", params.Page)

	return tasks, total, nil
}

// UpdateTask applies a partial update to an existing task and returns the
// updated task. The read-modify-write cycle runs in a transaction to
// ensure atomicity.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	taskID uuid.UUID,
	input domain.UpdateTaskInput,
) (*domain.Task, error) {
	var updated *domain.Task

	err := store.RunInTransaction(ctx, s.taskRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.taskRepo.WithTx(tx)

		task, err := txRepo.GetByID(ctx, taskID)
		if err != nil {
			if errors.Is(err, store.ErrTaskNotFound) {
				s.logger.Debug("task not found for update",
					"task_id", taskID)
				return ErrTaskNotFound
			}
			s.logger.Error("failed to retrieve task for update",
				"error", err,
				"task_id", taskID)
			return NewTaskServiceError("update_task", "failed to retrieve task", err)
		}

		if err := task.ApplyUpdate(input); err != nil {
			s.logger.Warn("task update rejected by validation",
				"error", err,
				"task_id", taskID)
			return NewTaskServiceError("update_task", "invalid task update", err)
		}

		if err := txRepo.Update(ctx, task); err != nil {
			s.logger.Error("failed to save updated task",
				"error", err,
				"task_id", taskID)
			return NewTaskServiceError("update_task", "failed to save task", err)
		}

		updated = task
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("task updated successfully",
		"task_id", taskID,
		"status", updated.Status)

	return updated, nil
}

// BulkUpdateTasks applies partial updates to several tasks in a single
// transaction. IDs that match no task are skipped rather than failing the
// whole request; a validation failure on any update aborts and rolls back
// everything.
func (s *taskServiceImpl) BulkUpdateTasks(
	ctx context.Context,
	updates []BulkTaskUpdate,
) ([]*domain.Task, error) {
	var results []*domain.Task

	err := store.RunInTransaction(ctx, s.taskRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.taskRepo.WithTx(tx)
		results = make([]*domain.Task, 0, len(updates))

		for _, update := range updates {
			task, err := txRepo.GetByID(ctx, update.ID)
			if err != nil {
				if errors.Is(err, store.ErrTaskNotFound) {
					s.logger.Debug("skipping missing task in bulk update",
						"task_id", update.ID)
					continue
				}
				s.logger.Error("failed to retrieve task in bulk update",
					"error", err,
					"task_id", update.ID)
				return NewTaskServiceError("bulk_update_tasks", "failed to retrieve task", err)
			}

			if err := task.ApplyUpdate(update.Input); err != nil {
				s.logger.Warn("bulk update rejected by validation",
					"error", err,
					"task_id", update.ID)
				return NewTaskServiceError("bulk_update_tasks", "invalid task update", err)
			}

			if err := txRepo.Update(ctx, task); err != nil {
				s.logger.Error("failed to save task in bulk update",
					"error", err,
					"task_id", update.ID)
				return NewTaskServiceError("bulk_update_tasks", "failed to save task", err)
			}

			results = append(results, task)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("bulk task update completed",
		"requested", len(updates),
		"updated", len(results))

	return results, nil
}

// DeleteTask removes a task by its ID
func (s *taskServiceImpl) DeleteTask(ctx context.Context, taskID uuid.UUID) error {
	err := s.taskRepo.Delete(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Debug("task not found for deletion",
				"task_id", taskID)
			return ErrTaskNotFound
		}

		s.logger.Error("failed to delete task",
			"error", err,
			"task_id", taskID)
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	s.logger.Info("task deleted successfully",
		"task_id", taskID)

	return nil
}

// BulkDeleteTasks removes every task whose ID appears in ids. The delete
// runs as a single statement so no explicit transaction is needed.
func (s *taskServiceImpl) BulkDeleteTasks(ctx context.Context, ids []uuid.UUID) (int64, error) {
	deleted, err := s.taskRepo.DeleteMany(ctx, ids)
	if err != nil {
		s.logger.Error("failed to delete tasks in bulk",
			"error", err,
			"requested", len(ids))
		return 0, NewTaskServiceError("bulk_delete_tasks", "failed to delete tasks", err)
	}

	s.logger.Info("bulk task delete completed",
		"requested", len(ids),
		"deleted", deleted)

	return deleted, nil
}
