// Package store defines the persistence interfaces for tasks and task
// batches, plus the shared transaction helper. The interfaces keep the
// service layer independent of the concrete database technology; the
// PostgreSQL implementations live in internal/platform/postgres.
package store
