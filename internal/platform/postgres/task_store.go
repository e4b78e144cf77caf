package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface using a
// PostgreSQL database. It handles persistence operations for tasks.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction
// that implements the store.DBTX interface and a logger for recording
// operations. If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, log *slog.Logger) *PostgresTaskStore {
	// Validate inputs
	if db == nil {
		panic("db cannot be nil")
	}

	// Use provided logger or create default
	if log == nil {
		log = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: log.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx returns a new TaskStore instance that uses the provided transaction.
// This allows for transactional operations across multiple store interfaces.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskStore.Create. It validates the task before
// saving and inserts a new task row. Returns validation errors from the
// domain task if invalid, or store.ErrInvalidEntity if the referenced
// batch does not exist.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("creating new task",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)))

	// Validate the task before saving
	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during creation",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, session_id, batch_id, title, description,
			status, priority, due_date, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		nullUUID(task.SessionID),
		nullUUID(task.BatchID),
		task.Title,
		nullString(task.Description),
		string(task.Status),
		nullPriority(task.Priority),
		nullTime(task.DueDate),
		nullTime(task.CompletedAt),
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		// Check for foreign key violation (batch doesn't exist)
		if IsForeignKeyViolation(err) {
			log.Warn("attempted to create task with non-existent batch",
				slog.String("task_id", task.ID.String()))
			return fmt.Errorf("%w: referenced batch not found", store.ErrInvalidEntity)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// GetByID implements store.TaskStore.GetByID. It retrieves a task by its
// unique ID and returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("retrieving task by ID", slog.String("task_id", id.String()))

	query := fmt.Sprintf("SELECT %s FROM tasks WHERE id = $1", taskColumns)

	row, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}

		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	log.Debug("task retrieved successfully", slog.String("task_id", id.String()))
	return row.toDomain(), nil
}

// List implements store.TaskStore.List. It retrieves one page of tasks
// matching the params' filters in the requested order, along with the
// total number of matching tasks across all pages.
func (s *PostgresTaskStore) List(ctx context.Context, params store.TaskListParams) ([]*domain.Task, int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("listing tasks",
		slog.Int("page", params.Page),
		slog.String("sort_by", string(params.SortBy)),
		slog.String("order", string(params.Order)))

	where, args := buildTaskFilter(params)

	orderBy, err := buildTaskOrderBy(params.SortBy, params.Order)
	if err != nil {
		log.Warn("rejected task list with invalid sort",
			slog.String("error", err.Error()))
		return nil, 0, store.NewStoreError("task", "list", "invalid sort parameters", err)
	}

	// Count matching tasks across all pages before applying pagination
	countQuery := "SELECT COUNT(*) FROM tasks" + where

	var total int64
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count tasks", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM tasks%s%s LIMIT $%d OFFSET $%d",
		taskColumns, where, orderBy, len(args)+1, len(args)+2)
	args = append(args, store.PageSize, params.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Error("error closing rows", slog.String("error", cerr.Error()))
		}
	}()

	tasks := []*domain.Task{}
	for rows.Next() {
		row, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, 0, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, row.toDomain())
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("error iterating task rows: %w", err)
	}

	log.Debug("tasks listed successfully",
		slog.Int("count", len(tasks)),
		slog.Int64("total", total))
	return tasks, total, nil
}

// Update implements store.TaskStore.Update. It validates the task before
// saving and writes every mutable column. Returns store.ErrTaskNotFound
// if the task does not exist.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("updating task", slog.String("task_id", task.ID.String()))

	// Validate the task before saving
	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		UPDATE tasks
		SET session_id = $1, batch_id = $2, title = $3, description = $4,
			status = $5, priority = $6, due_date = $7, completed_at = $8,
			updated_at = $9
		WHERE id = $10
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		nullUUID(task.SessionID),
		nullUUID(task.BatchID),
		task.Title,
		nullString(task.Description),
		string(task.Status),
		nullPriority(task.Priority),
		nullTime(task.DueDate),
		nullTime(task.CompletedAt),
		task.UpdatedAt,
		task.ID,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("attempted to move task to non-existent batch",
				slog.String("task_id", task.ID.String()))
			return fmt.Errorf("%w: referenced batch not found", store.ErrInvalidEntity)
		}

		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		log.Debug("task not found for update", slog.String("task_id", task.ID.String()))
		return err
	}

	log.Info("task updated successfully", slog.String("task_id", task.ID.String()))
	return nil
}

// Delete implements store.TaskStore.Delete. It removes a task by its ID
// and returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("deleting task", slog.String("task_id", id.String()))

	query := "DELETE FROM tasks WHERE id = $1"

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		log.Debug("task not found for deletion", slog.String("task_id", id.String()))
		return err
	}

	log.Info("task deleted successfully", slog.String("task_id", id.String()))
	return nil
}

// DeleteMany implements store.TaskStore.DeleteMany. It removes every task
// whose ID appears in ids and returns the number of rows deleted. IDs
// that match no task are skipped without error.
func (s *PostgresTaskStore) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("deleting tasks in bulk", slog.Int("requested", len(ids)))

	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf("DELETE FROM tasks WHERE id IN (%s)", strings.Join(placeholders, ", "))

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to delete tasks in bulk", slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to delete tasks: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected for bulk delete",
			slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Info("tasks deleted in bulk",
		slog.Int("requested", len(ids)),
		slog.Int64("deleted", deleted))
	return deleted, nil
}
