package service

import "errors"

// Sentinel errors callers classify with errors.Is. The API layer maps
// both to HTTP 404.
var (
	// ErrTaskNotFound reports that the requested task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrBatchNotFound reports that the requested task batch does not exist.
	ErrBatchNotFound = errors.New("task batch not found")
)
