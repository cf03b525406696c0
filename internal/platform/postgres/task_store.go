package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/platform/logger"
	"github.com/taskboard/taskboard-api/internal/redact"
	"github.com/taskboard/taskboard-api/internal/store"
)

// taskColumns is the canonical select list for task rows.
const taskColumns = "id, owner_id, title, description, status, created_at, updated_at"

// taskSortColumns is the closed mapping from allow-listed sort fields to
// ORDER BY column fragments. Only values from this map are ever interpolated
// into query text; everything value-bearing uses bound parameters.
var taskSortColumns = map[store.TaskSortField]string{
	store.TaskSortTitle:     "title",
	store.TaskSortStatus:    "status",
	store.TaskSortCreatedAt: "created_at",
	store.TaskSortUpdatedAt: "updated_at",
}

// PostgresTaskStore implements the store.TaskStore interface using PostgreSQL.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx returns a store instance bound to the given transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) *PostgresTaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// formatTimestamp renders a timestamp in the fixed second-precision
// wall-clock format every task write path binds.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(domain.TimestampLayout)
}

// Create implements store.TaskStore.Create.
// It inserts the task and assigns the store-generated ID to task.ID.
// The response path deliberately builds on the insert values; there is no
// re-read here.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("owner_id", task.OwnerID))
		return err
	}

	query := `
		INSERT INTO tasks (owner_id, title, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		task.OwnerID,
		task.Title,
		nullableString(task.Description),
		task.Status,
		formatTimestamp(task.CreatedAt),
		formatTimestamp(task.UpdatedAt),
	).Scan(&task.ID)

	if err != nil {
		log.Error("failed to create task",
			slog.String("error", redact.Error(err)),
			slog.Int64("owner_id", task.OwnerID))
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.Int64("task_id", task.ID),
		slog.Int64("owner_id", task.OwnerID),
		slog.String("status", string(task.Status)))
	return nil
}

// buildListTasksQuery assembles the listing query and its bound arguments.
// Kept as a pure function so the clause assembly is testable without a
// database. An unrecognized sort field falls back to the default ordering
// (created_at descending).
func buildListTasksQuery(ownerID int64, params store.ListTasksParams) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT " + taskColumns + " FROM tasks WHERE owner_id = $1")
	args := []any{ownerID}

	if params.Status != nil {
		args = append(args, *params.Status)
		fmt.Fprintf(&sb, " AND status = $%d", len(args))
	}

	column, ok := taskSortColumns[params.SortField]
	desc := params.SortDesc
	if !ok {
		column = "created_at"
		desc = true
	}
	direction := "ASC"
	if desc {
		direction = "DESC"
	}
	sb.WriteString(" ORDER BY " + column + " " + direction)

	args = append(args, params.Limit)
	fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	args = append(args, params.Offset)
	fmt.Fprintf(&sb, " OFFSET $%d", len(args))

	return sb.String(), args
}

// buildCountTasksQuery assembles the count query, which shares the status
// filter with the listing but carries no ordering or page window.
func buildCountTasksQuery(ownerID int64, status *domain.TaskStatus) (string, []any) {
	query := "SELECT count(*) FROM tasks WHERE owner_id = $1"
	args := []any{ownerID}

	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	return query, args
}

// List implements store.TaskStore.List.
func (s *PostgresTaskStore) List(
	ctx context.Context,
	ownerID int64,
	params store.ListTasksParams,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := buildListTasksQuery(ownerID, params)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks",
			slog.String("error", redact.Error(err)),
			slog.Int64("owner_id", ownerID))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row",
				slog.String("error", redact.Error(err)),
				slog.Int64("owner_id", ownerID))
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows",
			slog.String("error", redact.Error(err)),
			slog.Int64("owner_id", ownerID))
		return nil, MapError(err)
	}

	return tasks, nil
}

// Count implements store.TaskStore.Count.
// The count is a single well-typed scan; any other result shape from the
// driver is surfaced as an error rather than unwrapped defensively.
func (s *PostgresTaskStore) Count(
	ctx context.Context,
	ownerID int64,
	status *domain.TaskStatus,
) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := buildCountTasksQuery(ownerID, status)

	var total int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		log.Error("failed to count tasks",
			slog.String("error", redact.Error(err)),
			slog.Int64("owner_id", ownerID))
		return 0, MapError(err)
	}

	return total, nil
}

// GetByID implements store.TaskStore.GetByID.
// The owner_id predicate makes absent and foreign-owned rows
// indistinguishable: both surface as store.ErrTaskNotFound.
func (s *PostgresTaskStore) GetByID(
	ctx context.Context,
	ownerID, taskID int64,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := "SELECT " + taskColumns + " FROM tasks WHERE id = $1 AND owner_id = $2"

	row := s.db.QueryRowContext(ctx, query, taskID, ownerID)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", taskID),
			slog.Int64("owner_id", ownerID))
		return nil, MapError(err)
	}

	return task, nil
}

// Update implements store.TaskStore.Update.
// Only fields present in the update are written; updated_at is always
// refreshed. The updated row is re-read after the mutation.
func (s *PostgresTaskStore) Update(
	ctx context.Context,
	ownerID, taskID int64,
	update store.TaskUpdate,
) (*domain.Task, error) {
	// The mutation and the re-read must observe the same row state, so both
	// run in one transaction when the store is backed by a connection pool.
	if db, ok := s.db.(*sql.DB); ok {
		var task *domain.Task
		err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
			var txErr error
			task, txErr = s.WithTx(tx).Update(ctx, ownerID, taskID, update)
			return txErr
		})
		if err != nil {
			return nil, err
		}
		return task, nil
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := buildUpdateTaskQuery(ownerID, taskID, update, time.Now())

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", taskID),
			slog.Int64("owner_id", ownerID))
		return nil, MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return nil, err
	}

	task, err := s.GetByID(ctx, ownerID, taskID)
	if err != nil {
		log.Error("failed to re-read task after update",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", taskID),
			slog.Int64("owner_id", ownerID))
		return nil, err
	}

	log.Info("task updated successfully",
		slog.Int64("task_id", taskID),
		slog.Int64("owner_id", ownerID))
	return task, nil
}

// buildUpdateTaskQuery assembles the partial UPDATE statement. updated_at is
// always part of the SET clause regardless of which fields changed.
func buildUpdateTaskQuery(
	ownerID, taskID int64,
	update store.TaskUpdate,
	now time.Time,
) (string, []any) {
	setClauses := make([]string, 0, 4)
	args := make([]any, 0, 6)

	if update.Title != nil {
		args = append(args, *update.Title)
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", len(args)))
	}
	if update.Description != nil {
		args = append(args, *update.Description)
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", len(args)))
	}
	if update.Status != nil {
		args = append(args, *update.Status)
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", len(args)))
	}

	args = append(args, formatTimestamp(now.UTC().Truncate(time.Second)))
	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", len(args)))

	args = append(args, taskID)
	idPos := len(args)
	args = append(args, ownerID)
	ownerPos := len(args)

	query := fmt.Sprintf(
		"UPDATE tasks SET %s WHERE id = $%d AND owner_id = $%d",
		strings.Join(setClauses, ", "),
		idPos,
		ownerPos,
	)

	return query, args
}

// Delete implements store.TaskStore.Delete. Removal is immediate and
// permanent; there is no soft-delete.
func (s *PostgresTaskStore) Delete(ctx context.Context, ownerID, taskID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := "DELETE FROM tasks WHERE id = $1 AND owner_id = $2"

	result, err := s.db.ExecContext(ctx, query, taskID, ownerID)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", taskID),
			slog.Int64("owner_id", ownerID))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task deleted successfully",
		slog.Int64("task_id", taskID),
		slog.Int64("owner_id", ownerID))
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanTask.
type scanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row in taskColumns order.
func scanTask(row scanner) (*domain.Task, error) {
	var (
		task        domain.Task
		description sql.NullString
		status      string
	)

	if err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&description,
		&status,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if description.Valid {
		task.Description = &description.String
	}
	task.Status = domain.TaskStatus(status)

	return &task, nil
}

// nullableString converts an optional string into its SQL representation.
func nullableString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}
