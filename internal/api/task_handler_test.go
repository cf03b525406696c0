package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/taskboard-api/internal/api"
	"github.com/taskboard/taskboard-api/internal/api/shared"
	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/mocks"
	"github.com/taskboard/taskboard-api/internal/store"
)

const testUserID int64 = 42

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// newTaskRouter mounts the handler on the task routes the way the server does.
func newTaskRouter(taskStore store.TaskStore) *chi.Mux {
	handler := api.NewTaskHandler(taskStore, testLogger())

	r := chi.NewRouter()
	r.Route("/api/tasks", func(r chi.Router) {
		r.Get("/", handler.ListTasks)
		r.Post("/", handler.CreateTask)
		r.Patch("/{taskID}", handler.UpdateTask)
		r.Delete("/{taskID}", handler.DeleteTask)
	})
	return r
}

// authedRequest builds a request whose context already carries the verified
// user ID, as the auth middleware would have left it.
func authedRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, testUserID)
	return req.WithContext(ctx)
}

func mustDecode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func strPtr(s string) *string { return &s }

func sampleTask(id int64) *domain.Task {
	created := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	return &domain.Task{
		ID:          id,
		OwnerID:     testUserID,
		Title:       "write report",
		Description: strPtr("quarterly numbers"),
		Status:      domain.TaskStatusPending,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestListTasks_ParamNormalization(t *testing.T) {
	t.Parallel()

	pending := domain.TaskStatusPending

	testCases := []struct {
		name       string
		target     string
		wantParams store.ListTasksParams
		wantPage   int
		wantLimit  int
	}{
		{
			name:   "defaults",
			target: "/api/tasks",
			wantParams: store.ListTasksParams{
				SortField: store.TaskSortCreatedAt,
				SortDesc:  true,
				Limit:     10,
				Offset:    0,
			},
			wantPage:  1,
			wantLimit: 10,
		},
		{
			name:   "explicit page and limit",
			target: "/api/tasks?page=3&limit=5",
			wantParams: store.ListTasksParams{
				SortField: store.TaskSortCreatedAt,
				SortDesc:  true,
				Limit:     5,
				Offset:    10,
			},
			wantPage:  3,
			wantLimit: 5,
		},
		{
			name:   "malformed page and limit collapse to defaults",
			target: "/api/tasks?page=abc&limit=-5",
			wantParams: store.ListTasksParams{
				SortField: store.TaskSortCreatedAt,
				SortDesc:  true,
				Limit:     10,
				Offset:    0,
			},
			wantPage:  1,
			wantLimit: 10,
		},
		{
			name:   "oversized page and limit clamp without overflow",
			target: "/api/tasks?page=9223372036854775807&limit=9223372036854775807",
			wantParams: store.ListTasksParams{
				SortField: store.TaskSortCreatedAt,
				SortDesc:  true,
				Limit:     1_000_000,
				Offset:    999_999_000_000,
			},
			wantPage:  1_000_000,
			wantLimit: 1_000_000,
		},
		{
			name:   "valid status filter",
			target: "/api/tasks?status=pending",
			wantParams: store.ListTasksParams{
				Status:    &pending,
				SortField: store.TaskSortCreatedAt,
				SortDesc:  true,
				Limit:     10,
				Offset:    0,
			},
			wantPage:  1,
			wantLimit: 10,
		},
		{
			name:   "unknown status silently ignored",
			target: "/api/tasks?status=bogus",
			wantParams: store.ListTasksParams{
				SortField: store.TaskSortCreatedAt,
				SortDesc:  true,
				Limit:     10,
				Offset:    0,
			},
			wantPage:  1,
			wantLimit: 10,
		},
		{
			name:   "sort by title descending",
			target: "/api/tasks?sort=title:desc",
			wantParams: store.ListTasksParams{
				SortField: store.TaskSortTitle,
				SortDesc:  true,
				Limit:     10,
				Offset:    0,
			},
			wantPage:  1,
			wantLimit: 10,
		},
		{
			name:   "sort direction other than desc is ascending",
			target: "/api/tasks?sort=status:up",
			wantParams: store.ListTasksParams{
				SortField: store.TaskSortStatus,
				SortDesc:  false,
				Limit:     10,
				Offset:    0,
			},
			wantPage:  1,
			wantLimit: 10,
		},
		{
			name:   "sort field without direction is ascending",
			target: "/api/tasks?sort=updated_at",
			wantParams: store.ListTasksParams{
				SortField: store.TaskSortUpdatedAt,
				SortDesc:  false,
				Limit:     10,
				Offset:    0,
			},
			wantPage:  1,
			wantLimit: 10,
		},
		{
			name:   "unknown sort field falls back to default ordering",
			target: "/api/tasks?sort=owner_id:desc",
			wantParams: store.ListTasksParams{
				SortField: store.TaskSortCreatedAt,
				SortDesc:  true,
				Limit:     10,
				Offset:    0,
			},
			wantPage:  1,
			wantLimit: 10,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var gotParams store.ListTasksParams
			var gotOwnerID int64
			taskStore := &mocks.MockTaskStore{
				CountFn: func(_ context.Context, ownerID int64, status *domain.TaskStatus) (int64, error) {
					return 0, nil
				},
				ListFn: func(_ context.Context, ownerID int64, params store.ListTasksParams) ([]*domain.Task, error) {
					gotOwnerID = ownerID
					gotParams = params
					return nil, nil
				},
			}

			router := newTaskRouter(taskStore)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, authedRequest(http.MethodGet, tc.target, ""))

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, testUserID, gotOwnerID)
			assert.Equal(t, tc.wantParams, gotParams)

			body := mustDecode[api.ListTasksResponse](t, rr)
			assert.Equal(t, tc.wantPage, body.Page)
			assert.Equal(t, tc.wantLimit, body.Limit)
		})
	}
}

func TestListTasks_ResponseShape(t *testing.T) {
	t.Parallel()

	taskStore := &mocks.MockTaskStore{
		CountFn: func(_ context.Context, _ int64, _ *domain.TaskStatus) (int64, error) {
			return 27, nil
		},
		ListFn: func(_ context.Context, _ int64, _ store.ListTasksParams) ([]*domain.Task, error) {
			return []*domain.Task{sampleTask(7)}, nil
		},
	}

	router := newTaskRouter(taskStore)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(http.MethodGet, "/api/tasks?page=2&limit=1", ""))

	require.Equal(t, http.StatusOK, rr.Code)

	body := mustDecode[api.ListTasksResponse](t, rr)
	assert.Equal(t, 2, body.Page)
	assert.Equal(t, 1, body.Limit)
	assert.Equal(t, int64(27), body.Total)
	require.Len(t, body.Tasks, 1)

	task := body.Tasks[0]
	assert.Equal(t, int64(7), task.ID)
	assert.Equal(t, testUserID, task.OwnerID)
	assert.Equal(t, "write report", task.Title)
	require.NotNil(t, task.Description)
	assert.Equal(t, "quarterly numbers", *task.Description)
	assert.Equal(t, "pending", task.Status)
	assert.Equal(t, "2026-03-14 09:26:53", task.CreatedAt)
	assert.Equal(t, "2026-03-14 09:26:53", task.UpdatedAt)
}

func TestListTasks_EmptyPageIsAnArray(t *testing.T) {
	t.Parallel()

	router := newTaskRouter(&mocks.MockTaskStore{})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(http.MethodGet, "/api/tasks", ""))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"tasks":[]`)
}

func TestListTasks_StoreFaultIsGeneric500(t *testing.T) {
	t.Parallel()

	taskStore := &mocks.MockTaskStore{
		CountFn: func(_ context.Context, _ int64, _ *domain.TaskStatus) (int64, error) {
			return 0, assert.AnError
		},
	}

	router := newTaskRouter(taskStore)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(http.MethodGet, "/api/tasks", ""))

	require.Equal(t, http.StatusInternalServerError, rr.Code)

	body := mustDecode[shared.ErrorResponse](t, rr)
	assert.Equal(t, http.StatusInternalServerError, body.Code)
	assert.Equal(t, "Failed to retrieve tasks", body.Message)
	assert.NotContains(t, rr.Body.String(), assert.AnError.Error())
}

func TestCreateTask(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		body        string
		wantStatus  int
		wantMessage string
	}{
		{
			name:       "minimal valid task",
			body:       `{"title":"write report"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "full valid task",
			body:       `{"title":"write report","description":"quarterly numbers","status":"in_progress"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:        "missing title",
			body:        `{"description":"no title here"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Title is required",
		},
		{
			name:        "empty title",
			body:        `{"title":""}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Title is required",
		},
		{
			name:        "invalid status",
			body:        `{"title":"write report","status":"archived"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid status value",
		},
		{
			name:        "malformed body",
			body:        `{"title":`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid request format",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			taskStore := &mocks.MockTaskStore{
				CreateFn: func(_ context.Context, task *domain.Task) error {
					task.ID = 101
					return nil
				},
			}

			router := newTaskRouter(taskStore)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, authedRequest(http.MethodPost, "/api/tasks", tc.body))

			require.Equal(t, tc.wantStatus, rr.Code)

			if tc.wantStatus != http.StatusCreated {
				body := mustDecode[shared.ErrorResponse](t, rr)
				assert.Equal(t, tc.wantMessage, body.Message)
				return
			}

			body := mustDecode[api.CreateTaskResponse](t, rr)
			assert.True(t, body.Success)
			assert.Equal(t, "Task created successfully", body.Message)
			assert.Equal(t, int64(101), body.TaskID)
			assert.Equal(t, "write report", body.Title)
		})
	}
}

func TestCreateTask_DefaultsAndOwner(t *testing.T) {
	t.Parallel()

	var created *domain.Task
	taskStore := &mocks.MockTaskStore{
		CreateFn: func(_ context.Context, task *domain.Task) error {
			task.ID = 5
			created = task
			return nil
		},
	}

	router := newTaskRouter(taskStore)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(http.MethodPost, "/api/tasks", `{"title":"write report"}`))

	require.Equal(t, http.StatusCreated, rr.Code)
	require.NotNil(t, created)

	// Owner comes from the verified identity, never from the payload.
	assert.Equal(t, testUserID, created.OwnerID)
	assert.Equal(t, domain.TaskStatusPending, created.Status)
	assert.Nil(t, created.Description)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.Zero(t, created.CreatedAt.Nanosecond())

	body := mustDecode[api.CreateTaskResponse](t, rr)
	assert.Equal(t, "pending", body.Status)
	assert.Nil(t, body.Description)
}

func TestUpdateTask(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		taskID      string
		body        string
		storeErr    error
		wantStatus  int
		wantMessage string
		wantUpdate  *store.TaskUpdate
	}{
		{
			name:       "update single field",
			taskID:     "7",
			body:       `{"status":"completed"}`,
			wantStatus: http.StatusOK,
			wantUpdate: &store.TaskUpdate{Status: taskStatusPtr(domain.TaskStatusCompleted)},
		},
		{
			name:       "update all fields",
			taskID:     "7",
			body:       `{"title":"new title","description":"new desc","status":"in_progress"}`,
			wantStatus: http.StatusOK,
			wantUpdate: &store.TaskUpdate{
				Title:       strPtr("new title"),
				Description: strPtr("new desc"),
				Status:      taskStatusPtr(domain.TaskStatusInProgress),
			},
		},
		{
			name:        "empty update set",
			taskID:      "7",
			body:        `{}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "No fields to update provided",
		},
		{
			name:        "zero-length body is an empty update set",
			taskID:      "7",
			body:        "",
			wantStatus:  http.StatusBadRequest,
			wantMessage: "No fields to update provided",
		},
		{
			name:        "null fields count as omitted",
			taskID:      "7",
			body:        `{"title":null,"description":null,"status":null}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "No fields to update provided",
		},
		{
			name:        "empty title is invalid, not omitted",
			taskID:      "7",
			body:        `{"title":""}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Title cannot be empty",
		},
		{
			name:        "invalid status",
			taskID:      "7",
			body:        `{"status":"archived"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid status value",
		},
		{
			name:        "missing or foreign task",
			taskID:      "7",
			body:        `{"status":"completed"}`,
			storeErr:    store.ErrTaskNotFound,
			wantStatus:  http.StatusNotFound,
			wantMessage: "Task not found",
		},
		{
			name:        "non-numeric task id",
			taskID:      "abc",
			body:        `{"status":"completed"}`,
			wantStatus:  http.StatusNotFound,
			wantMessage: "Task not found",
		},
		{
			name:        "store fault",
			taskID:      "7",
			body:        `{"status":"completed"}`,
			storeErr:    assert.AnError,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Failed to update task",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var gotUpdate store.TaskUpdate
			taskStore := &mocks.MockTaskStore{
				UpdateFn: func(_ context.Context, ownerID, taskID int64, update store.TaskUpdate) (*domain.Task, error) {
					gotUpdate = update
					if tc.storeErr != nil {
						return nil, tc.storeErr
					}
					assert.Equal(t, testUserID, ownerID)
					assert.Equal(t, int64(7), taskID)
					return sampleTask(taskID), nil
				},
			}

			router := newTaskRouter(taskStore)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, authedRequest(http.MethodPatch, "/api/tasks/"+tc.taskID, tc.body))

			require.Equal(t, tc.wantStatus, rr.Code)

			if tc.wantMessage != "" {
				body := mustDecode[shared.ErrorResponse](t, rr)
				assert.Equal(t, tc.wantMessage, body.Message)
			}
			if tc.wantUpdate != nil {
				assert.Equal(t, *tc.wantUpdate, gotUpdate)
			}
			if tc.wantStatus == http.StatusOK {
				body := mustDecode[api.TaskResponse](t, rr)
				assert.Equal(t, int64(7), body.ID)
				assert.Equal(t, "2026-03-14 09:26:53", body.UpdatedAt)
			}
		})
	}
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		taskID      string
		storeErr    error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "success",
			taskID:      "7",
			wantStatus:  http.StatusOK,
			wantMessage: "Task deleted successfully",
		},
		{
			name:        "missing or foreign task",
			taskID:      "7",
			storeErr:    store.ErrTaskNotFound,
			wantStatus:  http.StatusNotFound,
			wantMessage: "Task not found",
		},
		{
			name:        "non-numeric task id",
			taskID:      "abc",
			wantStatus:  http.StatusNotFound,
			wantMessage: "Task not found",
		},
		{
			name:        "store fault",
			taskID:      "7",
			storeErr:    assert.AnError,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Failed to delete task",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			taskStore := &mocks.MockTaskStore{
				DeleteFn: func(_ context.Context, ownerID, taskID int64) error {
					assert.Equal(t, testUserID, ownerID)
					return tc.storeErr
				},
			}

			router := newTaskRouter(taskStore)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, authedRequest(http.MethodDelete, "/api/tasks/"+tc.taskID, ""))

			require.Equal(t, tc.wantStatus, rr.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tc.wantMessage, body["message"])
		})
	}
}

func TestTaskHandlers_MissingIdentity(t *testing.T) {
	t.Parallel()

	router := newTaskRouter(&mocks.MockTaskStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func taskStatusPtr(s domain.TaskStatus) *domain.TaskStatus { return &s }
