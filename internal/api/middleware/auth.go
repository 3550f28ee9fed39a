package middleware

import (
	"net/http"

	"github.com/daap14/roster/internal/api/response"
	"github.com/daap14/roster/internal/auth"
)

// APIKeyHeader carries the raw API key on guarded requests.
const APIKeyHeader = "X-API-Key"

// RequireAPIKey rejects requests whose X-API-Key header does not match the
// configured key. When no key is configured every request passes.
func RequireAPIKey(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !authService.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			rawKey := r.Header.Get(APIKeyHeader)
			if rawKey == "" {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "API key is required", requestID)
				return
			}

			if err := authService.Authenticate(rawKey); err != nil {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid API key", requestID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// PageAuthRealm is announced on guarded page routes.
const PageAuthRealm = "roster"

// RequirePageKey guards the HTML form routes with the same key as
// RequireAPIKey. A form post cannot carry X-API-Key, so the key is also
// accepted as the HTTP Basic password, and a rejected request asks the
// browser for credentials. When no key is configured every request passes.
func RequirePageKey(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !authService.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawKey := r.Header.Get(APIKeyHeader)
			if rawKey == "" {
				_, rawKey, _ = r.BasicAuth()
			}

			if err := authService.Authenticate(rawKey); err != nil {
				w.Header().Set("WWW-Authenticate", `Basic realm="`+PageAuthRealm+`", charset="UTF-8"`)
				http.Error(w, "API key required", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
