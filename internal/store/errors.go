package store

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by every store implementation. Layers above
// storage classify failures with errors.Is against these instead of
// inspecting driver errors directly.
var (
	// ErrNotFound is the base sentinel for a missing entity. The
	// entity-specific variants below wrap it, so errors.Is against
	// ErrNotFound matches any of them.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate reports an insert that would collide with an existing row.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity reports an entity rejected by validation or by a
	// database constraint. The wrapped error carries the detail.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTaskNotFound reports a missing task.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)

	// ErrBatchNotFound reports a missing task batch.
	ErrBatchNotFound = fmt.Errorf("%w: task batch", ErrNotFound)
)

// IsNotFoundError reports whether err is ErrNotFound or one of the
// entity-specific variants wrapping it.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError names the entity and operation a storage failure belongs to,
// wrapping the cause so sentinel classification still works through it.
type StoreError struct {
	Entity    string
	Operation string
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Entity, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap exposes the cause for errors.Is and errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError builds a StoreError for the given entity and operation.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
