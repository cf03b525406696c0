package shared

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey is a private key type for context values set by this package
// and the API middleware.
type ContextKey string

// Context keys for request-scoped values
const (
	// UserIDContextKey is the context key for the verified numeric user ID.
	// The authorization middleware is the only writer; handlers are readers.
	UserIDContextKey ContextKey = "userID"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"
)

// SetTraceID adds a new random trace ID to the context.
// This is used for correlating log lines belonging to one request.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, uuid.NewString())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// UserIDFromContext extracts the verified user ID placed in the context by
// the authorization middleware.
// The boolean result is false when no verified identity is present.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(int64)
	return userID, ok
}
