package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewTaskBatch(t *testing.T) {
	t.Parallel() // Enable parallel execution
	sessionID := uuid.New()
	reason := "sprint planning"

	batch, err := NewTaskBatch(&sessionID, &reason)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if batch.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if batch.SessionID == nil || *batch.SessionID != sessionID {
		t.Errorf("Expected session ID %s, got %v", sessionID, batch.SessionID)
	}

	if batch.Reason == nil || *batch.Reason != reason {
		t.Errorf("Expected reason %q, got %v", reason, batch.Reason)
	}

	if batch.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	if batch.Tasks == nil {
		t.Error("Expected empty task collection, got nil")
	}

	if len(batch.Tasks) != 0 {
		t.Errorf("Expected 0 tasks, got %d", len(batch.Tasks))
	}

	// Both optional fields may be absent
	batch, err = NewTaskBatch(nil, nil)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if batch.SessionID != nil {
		t.Errorf("Expected nil session ID, got %v", batch.SessionID)
	}

	if batch.Reason != nil {
		t.Errorf("Expected nil reason, got %v", batch.Reason)
	}
}

func TestTaskBatchValidate(t *testing.T) {
	t.Parallel() // Enable parallel execution
	validBatch := TaskBatch{
		ID: uuid.New(),
	}

	// Test valid batch
	if err := validBatch.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	// Test invalid ID
	invalidBatch := validBatch
	invalidBatch.ID = uuid.Nil
	if err := invalidBatch.Validate(); err != ErrEmptyBatchID {
		t.Errorf("Expected error %v, got %v", ErrEmptyBatchID, err)
	}

	// Batch validation errors classify as ErrValidation
	if !errors.Is(ErrEmptyBatchTasks, ErrValidation) {
		t.Error("Expected batch validation errors to wrap ErrValidation")
	}
}
