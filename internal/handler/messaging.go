package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/courtside/courtside/internal/auth"
	"github.com/courtside/courtside/internal/model"
)

// MessagingStore defines the messaging operations delegated to the store.
type MessagingStore interface {
	ListConversations(ctx context.Context, userID string) ([]model.Conversation, error)
	CreateDraft(ctx context.Context, draft *model.Draft) error
	DeleteDraft(ctx context.Context, id, authorID string) error
	IsConversationMember(ctx context.Context, conversationID, userID string) (bool, error)
}

// MessagingHandler handles the messaging delegate endpoints.
// Each endpoint is one round trip: resolve caller, delegate, reshape.
type MessagingHandler struct {
	store  MessagingStore
	logger *slog.Logger
}

// NewMessagingHandler creates a new MessagingHandler.
func NewMessagingHandler(store MessagingStore, logger *slog.Logger) *MessagingHandler {
	return &MessagingHandler{
		store:  store,
		logger: logger,
	}
}

// ListConversations returns the conversations visible to the caller.
// Visibility scoping happens in the delegate, keyed by the caller identity.
//
// GET /api/messaging/conversations
func (h *MessagingHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFromContext(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	conversations, err := h.store.ListConversations(r.Context(), sess.UserID)
	if err != nil {
		h.logger.Error("failed to list conversations",
			slog.String("error", err.Error()),
			slog.String("user_id", sess.UserID),
		)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"conversations": conversations})
}

// CreateDraft saves an unsent message for the caller.
//
// POST /api/messaging/drafts
func (h *MessagingHandler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFromContext(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req model.DraftCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Body) == "" {
		writeError(w, http.StatusBadRequest, "body is required")
		return
	}

	// A draft attached to a conversation requires membership in it.
	if req.ConversationID != "" {
		member, err := h.store.IsConversationMember(r.Context(), req.ConversationID, sess.UserID)
		if err != nil || !member {
			writeError(w, http.StatusBadRequest, "unknown conversation")
			return
		}
	}

	draft := &model.Draft{
		ID:             ulid.Make().String(),
		ConversationID: req.ConversationID,
		AuthorID:       sess.UserID,
		Body:           req.Body,
		CreatedAt:      time.Now(),
	}

	if err := h.store.CreateDraft(r.Context(), draft); err != nil {
		h.logger.Error("failed to create draft",
			slog.String("error", err.Error()),
			slog.String("user_id", sess.UserID),
		)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"draft": draft})
}

// DeleteDraft removes one of the caller's drafts. The delete is scoped by
// author in the delegate; deleting a draft the caller cannot see affects
// nothing and still reports ok, matching row-visibility semantics.
//
// DELETE /api/messaging/drafts/{id}
func (h *MessagingHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFromContext(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "draft id is required")
		return
	}

	if err := h.store.DeleteDraft(r.Context(), id, sess.UserID); err != nil {
		h.logger.Error("failed to delete draft",
			slog.String("error", err.Error()),
			slog.String("draft_id", id),
			slog.String("user_id", sess.UserID),
		)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
