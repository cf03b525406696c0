package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskboard/taskboard-api/internal/api"
	"github.com/taskboard/taskboard-api/internal/service/auth"
	"github.com/taskboard/taskboard-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error", err: nil, want: http.StatusInternalServerError},
		{name: "invalid credentials", err: auth.ErrInvalidCredentials, want: http.StatusUnauthorized},
		{name: "invalid token", err: auth.ErrInvalidToken, want: http.StatusForbidden},
		{name: "expired token", err: auth.ErrExpiredToken, want: http.StatusForbidden},
		{name: "task not found", err: store.ErrTaskNotFound, want: http.StatusNotFound},
		{name: "user not found", err: store.ErrUserNotFound, want: http.StatusNotFound},
		{name: "email exists", err: store.ErrEmailExists, want: http.StatusConflict},
		{name: "invalid entity", err: store.ErrInvalidEntity, want: http.StatusBadRequest},
		{
			name: "wrapped sentinel",
			err:  fmt.Errorf("updating: %w", store.ErrTaskNotFound),
			want: http.StatusNotFound,
		},
		{name: "unknown error", err: assert.AnError, want: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, api.MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil error", err: nil, want: "An unexpected error occurred"},
		{name: "invalid credentials", err: auth.ErrInvalidCredentials, want: "Invalid credentials"},
		{name: "expired token", err: auth.ErrExpiredToken, want: "Invalid or expired token"},
		{name: "task not found", err: store.ErrTaskNotFound, want: "Task not found"},
		{name: "email exists", err: store.ErrEmailExists, want: "Email already exists"},
		{
			name: "driver detail never leaks",
			err:  errors.New(`pq: duplicate key value violates unique constraint "tasks_pkey"`),
			want: "An unexpected error occurred",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := api.GetSafeErrorMessage(tc.err)
			assert.Equal(t, tc.want, got)
			if tc.err != nil {
				assert.NotContains(t, got, "pq:")
			}
		})
	}
}
