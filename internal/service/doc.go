// Package service contains the application use cases for tasks and task
// batches. It orchestrates domain objects and the repositories defined in
// internal/store to fulfill the operations the API layer exposes.
//
// Services receive their dependencies through constructor injection and
// communicate with storage exclusively through repository interfaces, so
// the package never depends on a concrete database implementation.
// Operations that touch several rows (batch creation, bulk updates, the
// update read-modify-write cycle) run inside a single transaction via the
// repository's WithTx support.
//
// Errors crossing the service boundary are either service-level sentinels
// (ErrTaskNotFound, ErrBatchNotFound), passed-through domain validation
// errors, or TaskServiceError/BatchServiceError wrappers that preserve the
// cause chain for errors.Is and errors.As.
package service
