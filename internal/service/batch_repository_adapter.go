package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// NewBatchRepositoryAdapter creates a new adapter that allows a store.BatchStore
// to be used where a BatchRepository is expected.
func NewBatchRepositoryAdapter(batchStore store.BatchStore, db *sql.DB) BatchRepository {
	return &batchRepositoryAdapter{
		batchStore: batchStore,
		db:         db,
	}
}

// batchRepositoryAdapter adapts a store.BatchStore to the BatchRepository interface
type batchRepositoryAdapter struct {
	batchStore store.BatchStore
	db         *sql.DB
}

// Create implements BatchRepository.Create
func (a *batchRepositoryAdapter) Create(ctx context.Context, batch *domain.TaskBatch) error {
	return a.batchStore.Create(ctx, batch)
}

// GetByID implements BatchRepository.GetByID
func (a *batchRepositoryAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskBatch, error) {
	return a.batchStore.GetByID(ctx, id)
}

// List implements BatchRepository.List
func (a *batchRepositoryAdapter) List(
	ctx context.Context,
	params store.BatchListParams,
) ([]*domain.TaskBatch, int64, error) {
	return a.batchStore.List(ctx, params)
}

// GetLatest implements BatchRepository.GetLatest
func (a *batchRepositoryAdapter) GetLatest(
	ctx context.Context,
	sessionID *uuid.UUID,
) (*domain.TaskBatch, error) {
	return a.batchStore.GetLatest(ctx, sessionID)
}

// WithTx implements BatchRepository.WithTx
func (a *batchRepositoryAdapter) WithTx(tx *sql.Tx) BatchRepository {
	return &batchRepositoryAdapter{
		batchStore: a.batchStore.WithTx(tx),
		db:         a.db,
	}
}

// DB implements BatchRepository.DB
func (a *batchRepositoryAdapter) DB() *sql.DB {
	return a.db
}
