// Package auth provides session and credential utilities.
package auth

import (
	"context"

	"github.com/courtside/courtside/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// sessionContextKey is the context key for storing SessionContext.
	sessionContextKey contextKey = "session_context"
)

// ContextWithSession adds SessionContext to the context.
func ContextWithSession(ctx context.Context, sess *model.SessionContext) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SessionFromContext retrieves SessionContext from the context.
// Returns nil if not present.
func SessionFromContext(ctx context.Context) *model.SessionContext {
	sess, ok := ctx.Value(sessionContextKey).(*model.SessionContext)
	if !ok {
		return nil
	}
	return sess
}

// UserIDFromContext is a convenience function to get the user ID from context.
// Returns empty string if not authenticated.
func UserIDFromContext(ctx context.Context) string {
	sess := SessionFromContext(ctx)
	if sess == nil {
		return ""
	}
	return sess.UserID
}
