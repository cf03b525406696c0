package mocks

import (
	"context"

	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing.
// Each method delegates to the corresponding Fn field when set.
type MockTaskStore struct {
	CreateFn  func(ctx context.Context, task *domain.Task) error
	ListFn    func(ctx context.Context, ownerID int64, params store.ListTasksParams) ([]*domain.Task, error)
	CountFn   func(ctx context.Context, ownerID int64, status *domain.TaskStatus) (int64, error)
	GetByIDFn func(ctx context.Context, ownerID, taskID int64) (*domain.Task, error)
	UpdateFn  func(ctx context.Context, ownerID, taskID int64, update store.TaskUpdate) (*domain.Task, error)
	DeleteFn  func(ctx context.Context, ownerID, taskID int64) error
}

// Ensure MockTaskStore implements store.TaskStore
var _ store.TaskStore = (*MockTaskStore)(nil)

// Create implements the store.TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	return nil
}

// List implements the store.TaskStore interface
func (m *MockTaskStore) List(
	ctx context.Context,
	ownerID int64,
	params store.ListTasksParams,
) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, ownerID, params)
	}
	return nil, nil
}

// Count implements the store.TaskStore interface
func (m *MockTaskStore) Count(
	ctx context.Context,
	ownerID int64,
	status *domain.TaskStatus,
) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, ownerID, status)
	}
	return 0, nil
}

// GetByID implements the store.TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, ownerID, taskID int64) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, ownerID, taskID)
	}
	return nil, store.ErrTaskNotFound
}

// Update implements the store.TaskStore interface
func (m *MockTaskStore) Update(
	ctx context.Context,
	ownerID, taskID int64,
	update store.TaskUpdate,
) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, ownerID, taskID, update)
	}
	return nil, store.ErrTaskNotFound
}

// Delete implements the store.TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, ownerID, taskID int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, ownerID, taskID)
	}
	return store.ErrTaskNotFound
}
