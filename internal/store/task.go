package store

import (
	"context"

	"github.com/taskboard/taskboard-api/internal/domain"
)

// TaskSortField names a column accepted for sorting task listings.
// It is a closed set: implementations map each value to a fixed clause
// fragment and must reject anything outside it. Raw caller input never
// reaches query text.
type TaskSortField string

// Allow-listed sort fields.
const (
	TaskSortTitle     TaskSortField = "title"
	TaskSortStatus    TaskSortField = "status"
	TaskSortCreatedAt TaskSortField = "created_at"
	TaskSortUpdatedAt TaskSortField = "updated_at"
)

// ListTasksParams carries the validated filtering, sorting, and pagination
// parameters for a task listing. The handler is responsible for producing
// only allow-listed values here.
type ListTasksParams struct {
	// Status filters by task status when non-nil.
	Status *domain.TaskStatus

	// SortField and SortDesc define the ORDER BY clause.
	SortField TaskSortField
	SortDesc  bool

	Limit  int
	Offset int
}

// TaskUpdate carries the fields of a partial task update.
// A nil pointer means the field is left untouched; pointers to zero values
// are deliberate updates (and may still fail validation upstream).
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
}

// IsEmpty reports whether the update carries no fields at all.
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil
}

// TaskStore defines the interface for task data persistence.
// Every method takes the owner's verified user ID and is implicitly scoped
// to rows with a matching owner_id; there is no operation that can reach
// another owner's tasks.
type TaskStore interface {
	// Create inserts a new task and assigns its store-generated ID to
	// task.ID. The task must already carry its owner and timestamps.
	Create(ctx context.Context, task *domain.Task) error

	// List returns one page of the owner's tasks per the given parameters.
	List(ctx context.Context, ownerID int64, params ListTasksParams) ([]*domain.Task, error)

	// Count returns the total number of the owner's tasks matching the
	// optional status filter, independent of any page window.
	Count(ctx context.Context, ownerID int64, status *domain.TaskStatus) (int64, error)

	// GetByID retrieves one of the owner's tasks by ID.
	// Returns ErrTaskNotFound when the task is absent or owned by another user.
	GetByID(ctx context.Context, ownerID, taskID int64) (*domain.Task, error)

	// Update applies a partial update to one of the owner's tasks, always
	// refreshing updated_at, and returns the task re-read after the mutation.
	// Returns ErrTaskNotFound when the task is absent or owned by another user.
	Update(ctx context.Context, ownerID, taskID int64, update TaskUpdate) (*domain.Task, error)

	// Delete permanently removes one of the owner's tasks.
	// Returns ErrTaskNotFound when the task is absent or owned by another user.
	Delete(ctx context.Context, ownerID, taskID int64) error
}
