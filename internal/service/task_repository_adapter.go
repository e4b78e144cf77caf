package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// NewTaskRepositoryAdapter creates a new adapter that allows a store.TaskStore
// to be used where a TaskRepository is expected.
func NewTaskRepositoryAdapter(taskStore store.TaskStore, db *sql.DB) TaskRepository {
	return &taskRepositoryAdapter{
		taskStore: taskStore,
		db:        db,
	}
}

// taskRepositoryAdapter adapts a store.TaskStore to the TaskRepository interface
type taskRepositoryAdapter struct {
	taskStore store.TaskStore
	db        *sql.DB
}

// Create implements TaskRepository.Create
func (a *taskRepositoryAdapter) Create(ctx context.Context, task *domain.Task) error {
	return a.taskStore.Create(ctx, task)
}

// GetByID implements TaskRepository.GetByID
func (a *taskRepositoryAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return a.taskStore.GetByID(ctx, id)
}

// List implements TaskRepository.List
func (a *taskRepositoryAdapter) List(
	ctx context.Context,
	params store.TaskListParams,
) ([]*domain.Task, int64, error) {
	return a.taskStore.List(ctx, params)
}

// Update implements TaskRepository.Update
func (a *taskRepositoryAdapter) Update(ctx context.Context, task *domain.Task) error {
	return a.taskStore.Update(ctx, task)
}

// Delete implements TaskRepository.Delete
func (a *taskRepositoryAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	return a.taskStore.Delete(ctx, id)
}

// DeleteMany implements TaskRepository.DeleteMany
func (a *taskRepositoryAdapter) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return a.taskStore.DeleteMany(ctx, ids)
}

// WithTx implements TaskRepository.WithTx
func (a *taskRepositoryAdapter) WithTx(tx *sql.Tx) TaskRepository {
	return &taskRepositoryAdapter{
		taskStore: a.taskStore.WithTx(tx),
		db:        a.db,
	}
}

// DB implements TaskRepository.DB
func (a *taskRepositoryAdapter) DB() *sql.DB {
	return a.db
}
