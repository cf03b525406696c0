package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taskboard/taskboard-api/internal/api/shared"
	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/platform/logger"
	"github.com/taskboard/taskboard-api/internal/store"
)

// Pagination defaults for task listings. The ceiling keeps
// (page-1)*limit well inside integer range; values beyond it can never
// address real rows.
const (
	defaultPage  = 1
	defaultLimit = 10
	maxPageParam = 1_000_000
)

// taskSortFields is the closed set of sort fields accepted from the sort
// query parameter. Anything else drops the sort clause entirely.
var taskSortFields = map[string]store.TaskSortField{
	"title":      store.TaskSortTitle,
	"status":     store.TaskSortStatus,
	"created_at": store.TaskSortCreatedAt,
	"updated_at": store.TaskSortUpdatedAt,
}

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskStore store.TaskStore, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskStore: taskStore,
		logger:    logger.With(slog.String("component", "task_handler")),
	}
}

// listQuery holds the normalized listing parameters after tolerant parsing.
type listQuery struct {
	page   int
	limit  int
	params store.ListTasksParams
}

// parseListQuery normalizes the listing query parameters. Parsing never
// rejects: malformed page/limit collapse to defaults, oversized values are
// clamped to the ceiling, a status outside the enum is ignored, and an
// unrecognized sort field falls back to the default ordering of created_at
// descending.
func parseListQuery(values url.Values) listQuery {
	page := min(shared.ParsePositiveInt(values.Get("page"), defaultPage), maxPageParam)
	limit := min(shared.ParsePositiveInt(values.Get("limit"), defaultLimit), maxPageParam)

	params := store.ListTasksParams{
		SortField: store.TaskSortCreatedAt,
		SortDesc:  true,
		Limit:     limit,
		Offset:    (page - 1) * limit,
	}

	if status, ok := domain.ParseTaskStatus(values.Get("status")); ok {
		params.Status = &status
	}

	if raw := values.Get("sort"); raw != "" {
		field, direction, _ := strings.Cut(raw, ":")
		if sortField, ok := taskSortFields[field]; ok {
			params.SortField = sortField
			// Descending only on the literal "desc"; anything else,
			// including omission, sorts ascending.
			params.SortDesc = direction == "desc"
		}
	}

	return listQuery{page: page, limit: limit, params: params}
}

// ListTasks handles GET /api/tasks requests.
// It returns one page of the authenticated user's tasks with the total
// count computed independently of the page window.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		log.Warn("user ID not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication token is required")
		return
	}

	query := parseListQuery(r.URL.Query())

	total, err := h.taskStore.Count(r.Context(), userID, query.params.Status)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to retrieve tasks", err)
		return
	}

	tasks, err := h.taskStore.List(r.Context(), userID, query.params)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to retrieve tasks", err)
		return
	}

	response := ListTasksResponse{
		Page:  query.page,
		Limit: query.limit,
		Total: total,
		Tasks: make([]TaskResponse, 0, len(tasks)),
	}
	for _, task := range tasks {
		response.Tasks = append(response.Tasks, taskToResponse(task))
	}

	log.Debug("listed tasks",
		slog.Int64("user_id", userID),
		slog.Int("page", query.page),
		slog.Int64("total", total))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// CreateTask handles POST /api/tasks requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		log.Warn("user ID not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication token is required")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.Title == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Title is required")
		return
	}

	if req.Status != "" {
		if _, ok := domain.ParseTaskStatus(req.Status); !ok {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid status value")
			return
		}
	}

	task, err := domain.NewTask(userID, req.Title, req.Description, domain.TaskStatus(req.Status))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(store.ErrInvalidEntity))
		return
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to create task", err)
		return
	}

	log.Debug("created task",
		slog.Int64("user_id", userID),
		slog.Int64("task_id", task.ID))

	// The response echoes the insert values; the row is not re-read.
	shared.RespondWithJSON(w, r, http.StatusCreated, CreateTaskResponse{
		Success:     true,
		Message:     "Task created successfully",
		TaskID:      task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
	})
}

// UpdateTask handles PATCH /api/tasks/{taskID} requests.
// Only fields present in the body are updated; updated_at is always
// refreshed. Absence and ownership mismatch are indistinguishable in the
// response.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		log.Warn("user ID not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication token is required")
		return
	}

	taskID, err := parseTaskID(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	// A zero-length body decodes to io.EOF; that is an empty update set,
	// not a malformed one, and gets the empty-set message below.
	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	update := store.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
	}

	if req.Title != nil && *req.Title == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Title cannot be empty")
		return
	}

	if req.Status != nil {
		status, ok := domain.ParseTaskStatus(*req.Status)
		if !ok {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid status value")
			return
		}
		update.Status = &status
	}

	if update.IsEmpty() {
		shared.RespondWithError(w, r, http.StatusBadRequest, "No fields to update provided")
		return
	}

	task, err := h.taskStore.Update(r.Context(), userID, taskID, update)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to update task", err)
		return
	}

	log.Debug("updated task",
		slog.Int64("user_id", userID),
		slog.Int64("task_id", taskID))
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /api/tasks/{taskID} requests.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		log.Warn("user ID not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication token is required")
		return
	}

	taskID, err := parseTaskID(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	if err := h.taskStore.Delete(r.Context(), userID, taskID); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to delete task", err)
		return
	}

	log.Debug("deleted task",
		slog.Int64("user_id", userID),
		slog.Int64("task_id", taskID))
	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{
		Message: "Task deleted successfully",
	})
}

// parseTaskID extracts the numeric task ID from the URL. A non-numeric or
// non-positive ID can never name an existing task, so callers treat the
// error as not found.
func parseTaskID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "taskID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}
