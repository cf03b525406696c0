package api

import (
	"github.com/taskboard/taskboard-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID int64 `json:"user_id"`

	// Token is the JWT used for API authorization
	Token string `json:"token"`
}

// CreateTaskRequest defines the payload for the task creation endpoint.
// Description and Status are optional.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
}

// UpdateTaskRequest defines the payload for the partial task update
// endpoint. A nil pointer means the field was absent from the request
// body, which is distinct from an explicit empty value.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// TaskResponse is the normalized representation of a task in responses.
// Identifiers stay numeric and timestamps use the fixed wall-clock format
// matching what is stored.
type TaskResponse struct {
	ID          int64   `json:"id"`
	OwnerID     int64   `json:"owner_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// ListTasksResponse defines the paginated task listing envelope.
type ListTasksResponse struct {
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Total int64          `json:"total"`
	Tasks []TaskResponse `json:"tasks"`
}

// CreateTaskResponse echoes the created fields plus the assigned
// identifier. It is built from the known insert values, not a re-read.
type CreateTaskResponse struct {
	Success     bool    `json:"success"`
	Message     string  `json:"message"`
	TaskID      int64   `json:"taskId"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
}

// MessageResponse is a bare confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// taskToResponse transforms a domain task into its response representation.
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		OwnerID:     task.OwnerID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt.UTC().Format(domain.TimestampLayout),
		UpdatedAt:   task.UpdatedAt.UTC().Format(domain.TimestampLayout),
	}
}
