package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for TaskBatch
var (
	ErrEmptyBatchID    = fmt.Errorf("%w: batch ID cannot be empty", ErrValidation)
	ErrEmptyBatchTasks = fmt.Errorf("%w: batch requires at least one task", ErrValidation)
)

// TaskBatch groups tasks created together in a single operation. A batch
// is immutable after creation: it has no update or delete path, and its
// session ID is the source of truth for the session of every task it
// creates. Tasks holds the owned tasks in insertion order.
type TaskBatch struct {
	ID        uuid.UUID  `json:"id"`
	SessionID *uuid.UUID `json:"session_id"`
	Reason    *string    `json:"reason"`
	CreatedAt time.Time  `json:"created_at"`
	Tasks     []*Task    `json:"tasks"`
}

// NewTaskBatch creates a new TaskBatch with the given session ID and
// reason. It generates a new UUID for the batch ID and sets the creation
// timestamp. The task collection starts empty; the caller attaches tasks
// as it creates them.
// Returns an error if validation fails.
func NewTaskBatch(sessionID *uuid.UUID, reason *string) (*TaskBatch, error) {
	batch := &TaskBatch{
		ID:        uuid.New(),
		SessionID: sessionID,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
		Tasks:     make([]*Task, 0),
	}

	if err := batch.Validate(); err != nil {
		return nil, err
	}

	return batch, nil
}

// Validate checks if the TaskBatch has valid data.
// Returns an error if any field fails validation.
func (b *TaskBatch) Validate() error {
	if b.ID == uuid.Nil {
		return ErrEmptyBatchID
	}

	return nil
}
