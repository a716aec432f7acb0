// Package policy implements the coarse authorization checks.
// The backing store enforces no row-level visibility of its own, so every
// check here re-derives scoping from the caller's identity; "false" is the
// safe answer for both "not allowed" and "check failed".
package policy

import (
	"context"
	"log/slog"

	"github.com/courtside/courtside/internal/model"
)

// RoleGetter looks up the role column of a profile.
type RoleGetter interface {
	GetProfileRole(ctx context.Context, id string) (string, error)
}

// MembershipChecker reports conversation membership.
type MembershipChecker interface {
	IsConversationMember(ctx context.Context, conversationID, userID string) (bool, error)
}

// IsUserAdmin reports whether the profile identified by userID holds the
// admin role. It returns true only for an existing row whose role is exactly
// "admin". Lookup errors and missing rows are logged and reported as false;
// the function never propagates an error.
func IsUserAdmin(ctx context.Context, roles RoleGetter, logger *slog.Logger, userID string) bool {
	if userID == "" {
		return false
	}

	role, err := roles.GetProfileRole(ctx, userID)
	if err != nil {
		logger.Warn("admin role check failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return false
	}

	return role == model.RoleAdmin
}

// CanViewConversation reports whether a user may read a conversation.
// Membership is checked explicitly rather than trusted from the caller.
// Errors are reported as "no".
func CanViewConversation(ctx context.Context, members MembershipChecker, logger *slog.Logger, userID, conversationID string) bool {
	if userID == "" || conversationID == "" {
		return false
	}

	member, err := members.IsConversationMember(ctx, conversationID, userID)
	if err != nil {
		logger.Warn("conversation membership check failed",
			slog.String("user_id", userID),
			slog.String("conversation_id", conversationID),
			slog.String("error", err.Error()),
		)
		return false
	}

	return member
}
