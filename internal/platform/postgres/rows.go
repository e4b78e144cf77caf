package postgres

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// taskColumns is the column projection shared by every task query. Scan
// order must match the fields of taskRow.
const taskColumns = "id, session_id, batch_id, title, description, status, priority, due_date, completed_at, created_at, updated_at"

// batchColumns is the column projection shared by every task batch query.
const batchColumns = "id, session_id, reason, created_at"

// taskRow holds a scanned tasks row with nullable columns in their SQL
// representation, before conversion to the domain type.
type taskRow struct {
	id          uuid.UUID
	sessionID   uuid.NullUUID
	batchID     uuid.NullUUID
	title       string
	description sql.NullString
	status      string
	priority    sql.NullString
	dueDate     sql.NullTime
	completedAt sql.NullTime
	createdAt   time.Time
	updatedAt   time.Time
}

// scanTask scans a single row from the given scanner into a taskRow.
// It works with both *sql.Row and *sql.Rows.
func scanTask(row interface{ Scan(dest ...any) error }) (taskRow, error) {
	var r taskRow
	err := row.Scan(
		&r.id,
		&r.sessionID,
		&r.batchID,
		&r.title,
		&r.description,
		&r.status,
		&r.priority,
		&r.dueDate,
		&r.completedAt,
		&r.createdAt,
		&r.updatedAt,
	)
	return r, err
}

// toDomain converts a scanned row into a domain task, translating SQL null
// wrappers into optional pointer fields.
func (r taskRow) toDomain() *domain.Task {
	task := &domain.Task{
		ID:        r.id,
		Title:     r.title,
		Status:    domain.TaskStatus(r.status),
		CreatedAt: r.createdAt,
		UpdatedAt: r.updatedAt,
	}
	if r.sessionID.Valid {
		v := r.sessionID.UUID
		task.SessionID = &v
	}
	if r.batchID.Valid {
		v := r.batchID.UUID
		task.BatchID = &v
	}
	if r.description.Valid {
		v := r.description.String
		task.Description = &v
	}
	if r.priority.Valid {
		v := domain.TaskPriority(r.priority.String)
		task.Priority = &v
	}
	if r.dueDate.Valid {
		v := r.dueDate.Time
		task.DueDate = &v
	}
	if r.completedAt.Valid {
		v := r.completedAt.Time
		task.CompletedAt = &v
	}
	return task
}

// batchRow holds a scanned task_batches row before conversion to the
// domain type.
type batchRow struct {
	id        uuid.UUID
	sessionID uuid.NullUUID
	reason    sql.NullString
	createdAt time.Time
}

// scanBatch scans a single row from the given scanner into a batchRow.
func scanBatch(row interface{ Scan(dest ...any) error }) (batchRow, error) {
	var r batchRow
	err := row.Scan(
		&r.id,
		&r.sessionID,
		&r.reason,
		&r.createdAt,
	)
	return r, err
}

// toDomain converts a scanned row into a domain task batch. Tasks are not
// loaded here; callers attach them separately.
func (r batchRow) toDomain() *domain.TaskBatch {
	batch := &domain.TaskBatch{
		ID:        r.id,
		CreatedAt: r.createdAt,
		Tasks:     []*domain.Task{},
	}
	if r.sessionID.Valid {
		v := r.sessionID.UUID
		batch.SessionID = &v
	}
	if r.reason.Valid {
		v := r.reason.String
		batch.Reason = &v
	}
	return batch
}

// nullUUID converts an optional UUID pointer into its SQL representation.
func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

// nullString converts an optional string pointer into its SQL representation.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// nullTime converts an optional time pointer into its SQL representation.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// nullPriority converts an optional task priority into its SQL representation.
func nullPriority(p *domain.TaskPriority) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*p), Valid: true}
}
