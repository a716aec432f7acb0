package middleware

import (
	"log/slog"
	"net/http"

	"github.com/courtside/courtside/internal/auth"
	"github.com/courtside/courtside/internal/cache"
)

// SessionConfig holds configuration for the session middleware.
type SessionConfig struct {
	Logger   *slog.Logger
	Sessions *auth.Sessions
	Cache    *cache.Cache
}

// Session returns a middleware that authenticates requests from the session
// cookie (or a bearer token for non-browser clients). Verified identities are
// cached in Redis under the token digest so repeat requests skip signature
// verification. All failure modes produce the same 401 envelope to prevent
// probing.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.ExtractToken(r)
			if token == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeSessionError(w)
				return
			}

			digest := auth.QuickHash(token)

			// Cache hit - use cached session context
			if cfg.Cache != nil {
				if sess, _ := cfg.Cache.GetSessionContext(r.Context(), digest); sess != nil {
					ctx := auth.ContextWithSession(r.Context(), sess)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			sess, err := cfg.Sessions.Verify(token)
			if err != nil {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "invalid_token"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeSessionError(w)
				return
			}

			if cfg.Cache != nil {
				_ = cfg.Cache.SetSessionContext(r.Context(), digest, sess)
			}

			ctx := auth.ContextWithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeSessionError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeSessionError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
}
