package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/daap14/roster/internal/api/response"
)

// Recovery is middleware that recovers from panics. API routes get a JSON
// error envelope, page routes a plain 500.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				requestID := GetRequestID(r.Context())
				slog.Error("panic recovered", "error", err, "requestId", requestID, "method", r.Method, "path", r.URL.Path)
				if strings.HasPrefix(r.URL.Path, "/api/") {
					response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", requestID)
					return
				}
				http.Error(w, "An unexpected error occurred", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
