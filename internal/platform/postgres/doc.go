// Package postgres implements the store interfaces against PostgreSQL.
// It owns the SQL for the task and batch stores, the list-query clause
// construction (filtering, multi-key sorting with enum ordinals and
// NULLS LAST, pagination), driver error classification, and the embedded
// goose migrations.
package postgres
