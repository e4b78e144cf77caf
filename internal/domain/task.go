package domain

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// TaskPriority represents the urgency level of a task
type TaskPriority string

// Possible task priority values
const (
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityLow    TaskPriority = "low"
)

// Length limits enforced on task fields
const (
	MaxTaskTitleLength       = 255
	MaxTaskDescriptionLength = 1000
)

// Common validation errors for Task
var (
	ErrEmptyTaskID = fmt.Errorf("%w: task ID cannot be empty", ErrValidation)
	ErrEmptyTaskTitle = fmt.Errorf("%w: task title cannot be empty", ErrValidation)
	ErrTaskTitleTooLong = fmt.Errorf(
		"%w: task title cannot exceed %d characters", ErrValidation, MaxTaskTitleLength)
	ErrTaskDescriptionTooLong = fmt.Errorf(
		"%w: task description cannot exceed %d characters", ErrValidation, MaxTaskDescriptionLength)
	ErrInvalidTaskStatus   = fmt.Errorf("%w: invalid task status", ErrValidation)
	ErrInvalidTaskPriority = fmt.Errorf("%w: invalid task priority", ErrValidation)
)

// Task represents a unit of work tracked by the system. A task may be
// tagged with an external session, belong to at most one batch, and
// carries a derived completion timestamp that is non-nil exactly when
// the status is completed.
type Task struct {
	ID          uuid.UUID     `json:"id"`
	SessionID   *uuid.UUID    `json:"session_id"`
	BatchID     *uuid.UUID    `json:"batch_id"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	Status      TaskStatus    `json:"status"`
	Priority    *TaskPriority `json:"priority"`
	DueDate     *time.Time    `json:"due_date"`
	CompletedAt *time.Time    `json:"completed_at"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// CreateTaskInput carries the caller-supplied fields for a new task.
// Optional fields are pointers; nil means the field was not provided.
type CreateTaskInput struct {
	Title       string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	DueDate     *time.Time
	SessionID   *uuid.UUID
}

// UpdateTaskInput carries a partial update for an existing task.
// Nil fields are left unchanged. There is deliberately no way to clear
// description, priority, or due date back to absent once set; only
// completed_at has a clearing path, driven by status transitions.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	DueDate     *time.Time
}

// NewTask creates a new Task from the given input. It generates a new
// UUID, defaults the status to pending when unspecified, sets the
// creation/update timestamps, and sets CompletedAt when the task is
// created already completed.
// Returns an error if validation fails.
func NewTask(input CreateTaskInput) (*Task, error) {
	status := TaskStatusPending
	if input.Status != nil {
		status = *input.Status
	}

	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		SessionID:   input.SessionID,
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if status == TaskStatusCompleted {
		completedAt := now
		task.CompletedAt = &completedAt
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if utf8.RuneCountInString(t.Title) > MaxTaskTitleLength {
		return ErrTaskTitleTooLong
	}

	if t.Description != nil && utf8.RuneCountInString(*t.Description) > MaxTaskDescriptionLength {
		return ErrTaskDescriptionTooLong
	}

	if !t.Status.IsValid() {
		return ErrInvalidTaskStatus
	}

	if t.Priority != nil && !t.Priority.IsValid() {
		return ErrInvalidTaskPriority
	}

	return nil
}

// ApplyUpdate mutates the task in place with the provided partial update
// and bumps UpdatedAt. Status transitions maintain the completed_at
// invariant: moving into completed stamps CompletedAt with the current
// time, moving out of completed clears it, and re-asserting the current
// status or moving between non-completed statuses leaves it untouched.
// The update is validated before any field is mutated.
func (t *Task) ApplyUpdate(input UpdateTaskInput) error {
	if input.Title != nil {
		if *input.Title == "" {
			return ErrEmptyTaskTitle
		}
		if utf8.RuneCountInString(*input.Title) > MaxTaskTitleLength {
			return ErrTaskTitleTooLong
		}
	}

	if input.Description != nil &&
		utf8.RuneCountInString(*input.Description) > MaxTaskDescriptionLength {
		return ErrTaskDescriptionTooLong
	}

	if input.Status != nil && !input.Status.IsValid() {
		return ErrInvalidTaskStatus
	}

	if input.Priority != nil && !input.Priority.IsValid() {
		return ErrInvalidTaskPriority
	}

	now := time.Now().UTC()

	if input.Title != nil {
		t.Title = *input.Title
	}

	if input.Description != nil {
		t.Description = input.Description
	}

	if input.Priority != nil {
		t.Priority = input.Priority
	}

	if input.DueDate != nil {
		t.DueDate = input.DueDate
	}

	if input.Status != nil {
		previous := t.Status
		t.Status = *input.Status

		switch {
		case t.Status == TaskStatusCompleted && previous != TaskStatusCompleted:
			completedAt := now
			t.CompletedAt = &completedAt
		case t.Status != TaskStatusCompleted && previous == TaskStatusCompleted:
			t.CompletedAt = nil
		}
	}

	t.UpdatedAt = now
	return nil
}

// IsValid checks if the given status is a valid TaskStatus.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// IsValid checks if the given priority is a valid TaskPriority.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityHigh, TaskPriorityMedium, TaskPriorityLow:
		return true
	default:
		return false
	}
}
