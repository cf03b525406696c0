package domain

import (
	"errors"
	"time"
)

// TaskStatus represents the progress state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Common validation errors for Task
var (
	ErrEmptyTaskTitle    = errors.New("task title cannot be empty")
	ErrInvalidTaskStatus = errors.New("invalid task status")
	ErrInvalidTaskOwner  = errors.New("task owner ID must be a positive integer")
)

// TimestampLayout is the fixed second-precision wall-clock format used for
// task timestamps. Stored comparisons and sorts depend on this exact format,
// so every write path must bind timestamps formatted with this layout.
const TimestampLayout = "2006-01-02 15:04:05"

// Task represents a single user-owned work item.
// Description is nullable; OwnerID and ID are immutable after creation.
type Task struct {
	ID          int64      `json:"id"`
	OwnerID     int64      `json:"owner_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask creates a new Task owned by the given user.
// An empty status defaults to pending. Timestamps are set once at creation
// with second precision and identical created/updated values.
// Returns an error if validation fails.
func NewTask(ownerID int64, title string, description *string, status TaskStatus) (*Task, error) {
	if status == "" {
		status = TaskStatusPending
	}

	now := time.Now().UTC().Truncate(time.Second)
	task := &Task{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.OwnerID <= 0 {
		return ErrInvalidTaskOwner
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if !t.Status.IsValid() {
		return ErrInvalidTaskStatus
	}

	return nil
}

// Touch refreshes the UpdatedAt timestamp to the current second.
func (t *Task) Touch() {
	t.UpdatedAt = time.Now().UTC().Truncate(time.Second)
}

// IsValid reports whether the status is one of the allowed enum values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// ParseTaskStatus converts a raw string into a TaskStatus.
// The boolean result is false for any value outside the enum.
func ParseTaskStatus(raw string) (TaskStatus, bool) {
	status := TaskStatus(raw)
	return status, status.IsValid()
}
