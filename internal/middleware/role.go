package middleware

import (
	"log/slog"
	"net/http"

	"github.com/courtside/courtside/internal/auth"
	"github.com/courtside/courtside/internal/policy"
)

// RequireAdmin returns middleware that restricts a route to admin profiles.
// Must be applied after Session middleware. The role is re-read from the
// profiles table on every request rather than trusted from the token, so a
// revoked admin loses access as soon as the row changes. Check failures deny.
func RequireAdmin(roles policy.RoleGetter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := auth.SessionFromContext(r.Context())
			if sess == nil {
				writeSessionError(w)
				return
			}

			if !policy.IsUserAdmin(r.Context(), roles, logger, sess.UserID) {
				logger.Warn("admin access denied",
					slog.String("user_id", sess.UserID),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"admin access required"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
