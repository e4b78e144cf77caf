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

// PostgresBatchStore implements the store.BatchStore interface using a
// PostgreSQL database. It handles persistence operations for task batches.
type PostgresBatchStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBatchStore creates a new PostgreSQL implementation of the
// BatchStore interface. It accepts a database connection or transaction
// that implements the store.DBTX interface and a logger for recording
// operations. If logger is nil, a default logger will be used.
func NewPostgresBatchStore(db store.DBTX, log *slog.Logger) *PostgresBatchStore {
	// Validate inputs
	if db == nil {
		panic("db cannot be nil")
	}

	// Use provided logger or create default
	if log == nil {
		log = slog.Default()
	}

	return &PostgresBatchStore{
		db:     db,
		logger: log.With(slog.String("component", "batch_store")),
	}
}

// Ensure PostgresBatchStore implements store.BatchStore interface
var _ store.BatchStore = (*PostgresBatchStore)(nil)

// WithTx returns a new BatchStore instance that uses the provided transaction.
// This allows for transactional operations across multiple store interfaces.
func (s *PostgresBatchStore) WithTx(tx *sql.Tx) store.BatchStore {
	return &PostgresBatchStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.BatchStore.Create. It inserts the batch row
// only; the batch's tasks are persisted separately through the task store
// within the same transaction.
func (s *PostgresBatchStore) Create(ctx context.Context, batch *domain.TaskBatch) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("creating new task batch",
		slog.String("batch_id", batch.ID.String()),
		slog.Int("task_count", len(batch.Tasks)))

	// Validate the batch before saving
	if err := batch.Validate(); err != nil {
		log.Warn("batch validation failed during creation",
			slog.String("error", err.Error()),
			slog.String("batch_id", batch.ID.String()))
		return err
	}

	query := `
		INSERT INTO task_batches (id, session_id, reason, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		batch.ID,
		nullUUID(batch.SessionID),
		nullString(batch.Reason),
		batch.CreatedAt,
	)

	if err != nil {
		log.Error("failed to create task batch",
			slog.String("error", err.Error()),
			slog.String("batch_id", batch.ID.String()))
		return MapError(err)
	}

	log.Info("task batch created successfully",
		slog.String("batch_id", batch.ID.String()))
	return nil
}

// GetByID implements store.BatchStore.GetByID. It retrieves a batch by its
// unique ID with its tasks attached in creation order, and returns
// store.ErrBatchNotFound if the batch does not exist.
func (s *PostgresBatchStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskBatch, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("retrieving task batch by ID", slog.String("batch_id", id.String()))

	query := fmt.Sprintf("SELECT %s FROM task_batches WHERE id = $1", batchColumns)

	row, err := scanBatch(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task batch not found", slog.String("batch_id", id.String()))
			return nil, store.ErrBatchNotFound
		}

		log.Error("failed to get task batch by ID",
			slog.String("error", err.Error()),
			slog.String("batch_id", id.String()))
		return nil, fmt.Errorf("failed to get task batch: %w", err)
	}

	batch := row.toDomain()

	tasksByBatch, err := s.loadTasksForBatches(ctx, log, []uuid.UUID{batch.ID})
	if err != nil {
		return nil, err
	}
	if tasks, ok := tasksByBatch[batch.ID]; ok {
		batch.Tasks = tasks
	}

	log.Debug("task batch retrieved successfully",
		slog.String("batch_id", id.String()),
		slog.Int("task_count", len(batch.Tasks)))
	return batch, nil
}

// List implements store.BatchStore.List. It retrieves one page of batches
// newest first, each with its tasks attached in creation order, along
// with the total number of matching batches across all pages.
func (s *PostgresBatchStore) List(ctx context.Context, params store.BatchListParams) ([]*domain.TaskBatch, int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("listing task batches", slog.Int("page", params.Page))

	where, args := buildBatchFilter(params)

	// Count matching batches across all pages before applying pagination
	countQuery := "SELECT COUNT(*) FROM task_batches" + where

	var total int64
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count task batches", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to count task batches: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM task_batches%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		batchColumns, where, len(args)+1, len(args)+2)
	args = append(args, store.PageSize, params.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list task batches", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to list task batches: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Error("error closing rows", slog.String("error", cerr.Error()))
		}
	}()

	batches := []*domain.TaskBatch{}
	for rows.Next() {
		row, err := scanBatch(rows)
		if err != nil {
			log.Error("failed to scan task batch row", slog.String("error", err.Error()))
			return nil, 0, fmt.Errorf("failed to scan task batch row: %w", err)
		}
		batches = append(batches, row.toDomain())
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating task batch rows", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("error iterating task batch rows: %w", err)
	}

	// Attach tasks for the whole page with one query instead of one per batch
	ids := make([]uuid.UUID, len(batches))
	for i, batch := range batches {
		ids[i] = batch.ID
	}

	tasksByBatch, err := s.loadTasksForBatches(ctx, log, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, batch := range batches {
		if tasks, ok := tasksByBatch[batch.ID]; ok {
			batch.Tasks = tasks
		}
	}

	log.Debug("task batches listed successfully",
		slog.Int("count", len(batches)),
		slog.Int64("total", total))
	return batches, total, nil
}

// GetLatest implements store.BatchStore.GetLatest. It retrieves the most
// recently created batch, optionally restricted to a session, with its
// tasks attached in creation order. Returns store.ErrBatchNotFound when
// no batch matches.
func (s *PostgresBatchStore) GetLatest(ctx context.Context, sessionID *uuid.UUID) (*domain.TaskBatch, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("retrieving latest task batch")

	where, args := buildBatchFilter(store.BatchListParams{SessionID: sessionID})

	query := fmt.Sprintf("SELECT %s FROM task_batches%s ORDER BY created_at DESC LIMIT 1",
		batchColumns, where)

	row, err := scanBatch(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no task batches exist for latest lookup")
			return nil, store.ErrBatchNotFound
		}

		log.Error("failed to get latest task batch", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get latest task batch: %w", err)
	}

	batch := row.toDomain()

	tasksByBatch, err := s.loadTasksForBatches(ctx, log, []uuid.UUID{batch.ID})
	if err != nil {
		return nil, err
	}
	if tasks, ok := tasksByBatch[batch.ID]; ok {
		batch.Tasks = tasks
	}

	log.Debug("latest task batch retrieved",
		slog.String("batch_id", batch.ID.String()),
		slog.Int("task_count", len(batch.Tasks)))
	return batch, nil
}

// loadTasksForBatches fetches the tasks belonging to the given batches
// with a single query and groups them by batch ID. Tasks within each
// batch are ordered by creation time, which matches the order they were
// added to the batch.
func (s *PostgresBatchStore) loadTasksForBatches(ctx context.Context, log *slog.Logger, ids []uuid.UUID) (map[uuid.UUID][]*domain.Task, error) {
	tasksByBatch := make(map[uuid.UUID][]*domain.Task)
	if len(ids) == 0 {
		return tasksByBatch, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf("SELECT %s FROM tasks WHERE batch_id IN (%s) ORDER BY created_at ASC",
		taskColumns, strings.Join(placeholders, ", "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to load tasks for batches", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load tasks for batches: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Error("error closing rows", slog.String("error", cerr.Error()))
		}
	}()

	for rows.Next() {
		row, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		task := row.toDomain()
		if task.BatchID == nil {
			continue
		}
		tasksByBatch[*task.BatchID] = append(tasksByBatch[*task.BatchID], task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", slog.String("error", err.Error()))
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasksByBatch, nil
}
