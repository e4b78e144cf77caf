package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// BatchRepository defines the repository interface for the batch service.
// This is aligned with store.BatchStore to ensure proper separation of concerns.
type BatchRepository interface {
	// Create saves a new batch row to the store
	Create(ctx context.Context, batch *domain.TaskBatch) error

	// GetByID retrieves a batch by its unique ID with its tasks attached
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskBatch, error)

	// List retrieves one page of batches newest first along with the total
	// count across all pages
	List(ctx context.Context, params store.BatchListParams) ([]*domain.TaskBatch, int64, error)

	// GetLatest retrieves the most recently created batch, optionally
	// restricted to a session
	GetLatest(ctx context.Context, sessionID *uuid.UUID) (*domain.TaskBatch, error)

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) BatchRepository

	// DB returns the underlying database connection
	DB() *sql.DB
}

// CreateBatchInput carries the caller-supplied fields for a new batch and
// the tasks to create inside it.
type CreateBatchInput struct {
	SessionID *uuid.UUID
	Reason    *string
	Tasks     []domain.CreateTaskInput
}

// BatchService provides task batch operations
type BatchService interface {
	// CreateBatch atomically creates a batch and all of its tasks
	CreateBatch(ctx context.Context, input CreateBatchInput) (*domain.TaskBatch, error)

	// GetBatch retrieves a batch by its ID with its tasks attached
	GetBatch(ctx context.Context, batchID uuid.UUID) (*domain.TaskBatch, error)

	// ListBatches retrieves one page of batches newest first along with
	// the total count
	ListBatches(ctx context.Context, params store.BatchListParams) ([]*domain.TaskBatch, int64, error)

	// GetLatestBatch retrieves the most recently created batch, optionally
	// restricted to a session. Returns (nil, nil) when no batch exists.
	GetLatestBatch(ctx context.Context, sessionID *uuid.UUID) (*domain.TaskBatch, error)
}

// BatchServiceError wraps errors from the batch service with context.
type BatchServiceError struct {
	// Operation is the operation that failed (e.g., "create_batch", "get_latest_batch")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for BatchServiceError.
func (e *BatchServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("batch service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("batch service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *BatchServiceError) Unwrap() error {
	return e.Err
}

// NewBatchServiceError creates a new BatchServiceError.
// It returns known sentinel errors directly without wrapping.
func NewBatchServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	// Check for service-defined sentinel errors
	if errors.Is(err, ErrBatchNotFound) {
		return ErrBatchNotFound
	}

	// Check for store-level sentinel errors that should be mapped to service-level ones
	if errors.Is(err, store.ErrBatchNotFound) {
		return ErrBatchNotFound
	}

	// If not a sentinel to be returned directly, wrap it
	return &BatchServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// batchServiceImpl implements the BatchService interface
type batchServiceImpl struct {
	batchRepo BatchRepository
	taskRepo  TaskRepository
	logger    *slog.Logger
}

// NewBatchService creates a new BatchService. The task repository is
// required because batch creation persists the batch's tasks within the
// same transaction as the batch row.
// It returns an error if any of the required dependencies are nil.
func NewBatchService(
	batchRepo BatchRepository,
	taskRepo TaskRepository,
	logger *slog.Logger,
) (BatchService, error) {
	// Validate dependencies
	if batchRepo == nil {
		return nil, &BatchServiceError{
			Operation: "create_service",
			Message:   "batchRepo cannot be nil",
			Err:       nil,
		}
	}
	if taskRepo == nil {
		return nil, &BatchServiceError{
			Operation: "create_service",
			Message:   "taskRepo cannot be nil",
			Err:       nil,
		}
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &batchServiceImpl{
		batchRepo: batchRepo,
		taskRepo:  taskRepo,
		logger:    logger.With("component", "batch_service"),
	}, nil
}

// CreateBatch atomically creates a batch and all of its tasks. The batch
// is the source of truth for grouping, so every task takes the batch's
// session ID regardless of what its input carried. If any task fails
// validation or persistence, the whole batch rolls back.
func (s *batchServiceImpl) CreateBatch(
	ctx context.Context,
	input CreateBatchInput,
) (*domain.TaskBatch, error) {
	if len(input.Tasks) == 0 {
		s.logger.Warn("rejected batch with no tasks")
		return nil, NewBatchServiceError("create_batch", "batch requires tasks", domain.ErrEmptyBatchTasks)
	}

	// 1. Build the batch shell
	batch, err := domain.NewTaskBatch(input.SessionID, input.Reason)
	if err != nil {
		s.logger.Error("failed to create batch object",
			"error", err)
		return nil, NewBatchServiceError("create_batch", "failed to create batch object", err)
	}

	// 2. Build every task up front so validation failures surface before
	// any database work begins
	tasks := make([]*domain.Task, 0, len(input.Tasks))
	var prev time.Time
	for i, taskInput := range input.Tasks {
		// The batch's session overrides whatever the task input carried
		taskInput.SessionID = batch.SessionID

		task, err := domain.NewTask(taskInput)
		if err != nil {
			s.logger.Warn("rejected batch task during validation",
				"error", err,
				"index", i)
			return nil, NewBatchServiceError("create_batch", "invalid task in batch", err)
		}
		task.BatchID = &batch.ID

		// Creation timestamps order the tasks within the batch, so keep
		// them strictly increasing even when the clock does not advance
		// between iterations.
		if !task.CreatedAt.After(prev) {
			task.CreatedAt = prev.Add(time.Microsecond)
			task.UpdatedAt = task.CreatedAt
		}
		prev = task.CreatedAt

		tasks = append(tasks, task)
	}
	batch.Tasks = tasks

	// 3. Persist the batch row and every task in one transaction
	err = store.RunInTransaction(ctx, s.batchRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txBatchRepo := s.batchRepo.WithTx(tx)
		txTaskRepo := s.taskRepo.WithTx(tx)

		if err := txBatchRepo.Create(ctx, batch); err != nil {
			s.logger.Error("failed to create batch in transaction",
				"error", err,
				"batch_id", batch.ID)
			return NewBatchServiceError("create_batch", "failed to save batch to database", err)
		}

		for _, task := range batch.Tasks {
			if err := txTaskRepo.Create(ctx, task); err != nil {
				s.logger.Error("failed to create batch task in transaction",
					"error", err,
					"batch_id", batch.ID,
					"task_id", task.ID)
				return NewBatchServiceError("create_batch", "failed to save batch task to database", err)
			}
		}

		return nil
	})

	if err != nil {
		// Error is already wrapped in the transaction
		return nil, err
	}

	s.logger.Info("task batch created successfully",
		"batch_id", batch.ID,
		"task_count", len(batch.Tasks))

	return batch, nil
}

// GetBatch retrieves a batch by its ID with its tasks attached
func (s *batchServiceImpl) GetBatch(ctx context.Context, batchID uuid.UUID) (*domain.TaskBatch, error) {
	batch, err := s.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		if errors.Is(err, store.ErrBatchNotFound) {
			s.logger.Debug("batch not found",
				"batch_id", batchID)
			return nil, ErrBatchNotFound
		}

		s.logger.Error("failed to retrieve batch",
			"error", err,
			"batch_id", batchID)
		return nil, NewBatchServiceError("get_batch", "failed to retrieve batch", err)
	}

	s.logger.Debug("retrieved batch successfully",
		"batch_id", batchID,
		"task_count", len(batch.Tasks))

	return batch, nil
}

// ListBatches retrieves one page of batches newest first along with the
// total count
func (s *batchServiceImpl) ListBatches(
	ctx context.Context,
	params store.BatchListParams,
) ([]*domain.TaskBatch, int64, error) {
	batches, total, err := s.batchRepo.List(ctx, params)
	if err != nil {
		s.logger.Error("failed to list batches",
			"error", err,
			"page", params.Page)
		return nil, 0, NewBatchServiceError("list_batches", "failed to list batches", err)
	}

	s.logger.Debug("listed batches successfully",
		"count", len(batches),
		"total", total,
		"page", params.Page)

	return batches, total, nil
}

// GetLatestBatch retrieves the most recently created batch. The absence
// of any batch is not an error: it returns (nil, nil) so the API layer
// can distinguish "no batches yet" from a lookup failure.
func (s *batchServiceImpl) GetLatestBatch(
	ctx context.Context,
	sessionID *uuid.UUID,
) (*domain.TaskBatch, error) {
	batch, err := s.batchRepo.GetLatest(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrBatchNotFound) {
			s.logger.Debug("no batches exist for latest lookup")
			return nil, nil
		}

		s.logger.Error("failed to retrieve latest batch",
			"error", err)
		return nil, NewBatchServiceError("get_latest_batch", "failed to retrieve latest batch", err)
	}

	s.logger.Debug("retrieved latest batch successfully",
		"batch_id", batch.ID,
		"task_count", len(batch.Tasks))

	return batch, nil
}
