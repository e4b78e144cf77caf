package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// BatchListParams describes a batch list query: a 1-indexed page and an
// optional session filter. Batches are always returned newest-first.
type BatchListParams struct {
	Page      int
	SessionID *uuid.UUID
}

// Offset returns the row offset for the params' page at the fixed page size.
func (p BatchListParams) Offset() int {
	return (p.Page - 1) * PageSize
}

// BatchStore defines the interface for task batch data persistence.
type BatchStore interface {
	// Create saves a new batch row to the store. The batch's owned tasks
	// are persisted separately through the TaskStore, normally inside the
	// same transaction.
	Create(ctx context.Context, batch *domain.TaskBatch) error

	// GetByID retrieves a batch by its unique ID, with its owned tasks
	// attached in insertion order.
	// Returns ErrBatchNotFound if the batch does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskBatch, error)

	// List retrieves one page of batches newest-first, optionally filtered
	// by session, plus the total number of matching rows. Each returned
	// batch carries its owned tasks in insertion order.
	List(ctx context.Context, params BatchListParams) ([]*domain.TaskBatch, int64, error)

	// GetLatest retrieves the single most recently created batch,
	// optionally filtered by session, with its owned tasks attached.
	// Returns ErrBatchNotFound when no batch matches.
	GetLatest(ctx context.Context, sessionID *uuid.UUID) (*domain.TaskBatch, error)

	// WithTx returns a new BatchStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) BatchStore
}
