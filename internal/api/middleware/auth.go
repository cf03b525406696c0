package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taskboard/taskboard-api/internal/api/shared"
	"github.com/taskboard/taskboard-api/internal/service/auth"
)

// AuthMiddleware provides JWT authentication for task-scoped routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate validates bearer tokens from the Authorization header and
// adds the verified numeric user ID to the request context.
//
// The status split is deliberate and load-bearing: a request with no token
// at all is 401, while a request that supplied a token that fails signature
// or expiry verification is 403. Clients rely on this distinction.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The credential is the second whitespace-separated token of the
		// header ("Bearer <token>"). A missing header, a bare scheme, or an
		// empty value all count as "no token supplied".
		parts := strings.Fields(r.Header.Get("Authorization"))
		if len(parts) < 2 || parts[1] == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication token is required")
			return
		}
		token := parts[1]

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			// A token was supplied but did not verify: always 403, never 401.
			shared.RespondWithError(w, r, http.StatusForbidden, "Invalid or expired token")
			return
		}

		// Add the verified user ID to the context
		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, claims.UserID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the verified user ID from the request context.
// Returns the user ID and a boolean indicating if it was found.
func GetUserID(r *http.Request) (int64, bool) {
	return shared.UserIDFromContext(r.Context())
}
