package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/taskboard/taskboard-api/internal/api/shared"
	"github.com/taskboard/taskboard-api/internal/platform/logger"
)

// Recoverer converts panics anywhere below it in the handler chain into the
// standard error body with a 500 status. The stack trace is logged
// internally and never reaches the client.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					// The connection is gone; nothing sensible to write.
					panic(rec)
				}

				log := logger.FromContext(r.Context())
				log.Error("panic recovered",
					slog.Any("panic", rec),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())))

				shared.RespondWithError(w, r, http.StatusInternalServerError, "Internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
