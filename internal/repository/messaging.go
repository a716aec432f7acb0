package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/courtside/courtside/internal/model"
)

// Common errors for messaging repository operations.
var (
	ErrDraftNotFound = errors.New("draft not found")
)

// ListConversations returns the conversations visible to a user.
// The heavy lifting (membership join, unread counts, last-message projection)
// lives in the list_user_conversations SQL function so the visibility scoping
// is enforced in one place.
func (r *Repository) ListConversations(ctx context.Context, userID string) ([]model.Conversation, error) {
	query := `
		SELECT id, subject, last_message_at, last_message_text,
		       unread_count, participant_ids, created_at
		FROM list_user_conversations($1)
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	conversations := make([]model.Conversation, 0)
	for rows.Next() {
		var c model.Conversation
		var subject, lastText *string
		if err := rows.Scan(
			&c.ID,
			&subject,
			&c.LastMessageAt,
			&lastText,
			&c.UnreadCount,
			pq.Array(&c.ParticipantIDs),
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		c.Subject = deref(subject)
		c.LastMessageText = deref(lastText)
		conversations = append(conversations, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversations: %w", err)
	}

	return conversations, nil
}

// IsConversationMember reports whether a user belongs to a conversation.
func (r *Repository) IsConversationMember(ctx context.Context, conversationID, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM conversation_members
			WHERE conversation_id = $1 AND profile_id = $2
		)
	`

	var member bool
	if err := r.pool.QueryRow(ctx, query, conversationID, userID).Scan(&member); err != nil {
		return false, fmt.Errorf("failed to check conversation membership: %w", err)
	}

	return member, nil
}

// CreateDraft inserts a new draft for its author.
func (r *Repository) CreateDraft(ctx context.Context, draft *model.Draft) error {
	query := `
		INSERT INTO drafts (id, conversation_id, author_id, body, created_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		draft.ID,
		draft.ConversationID,
		draft.AuthorID,
		draft.Body,
		draft.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create draft: %w", err)
	}

	return nil
}

// GetDraft retrieves a draft by ID, scoped to its author.
func (r *Repository) GetDraft(ctx context.Context, id, authorID string) (*model.Draft, error) {
	query := `
		SELECT id, COALESCE(conversation_id::text, ''), author_id, body, created_at, updated_at
		FROM drafts
		WHERE id = $1 AND author_id = $2
	`

	var d model.Draft
	err := r.pool.QueryRow(ctx, query, id, authorID).Scan(
		&d.ID,
		&d.ConversationID,
		&d.AuthorID,
		&d.Body,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	return &d, nil
}

// DeleteDraft removes a draft scoped by its author. Deleting a draft that
// does not exist or belongs to someone else affects zero rows and is not an
// error; that mirrors a row-visibility-scoped delete.
func (r *Repository) DeleteDraft(ctx context.Context, id, authorID string) error {
	query := `DELETE FROM drafts WHERE id = $1 AND author_id = $2`

	if _, err := r.pool.Exec(ctx, query, id, authorID); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}

	return nil
}
