package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/courtside/courtside/internal/auth"
	"github.com/courtside/courtside/internal/model"
	"github.com/courtside/courtside/internal/repository"
)

// AccessKeyStore is the persistence surface for access key management.
type AccessKeyStore interface {
	CreateAccessKey(ctx context.Context, key *model.AccessKey) error
	GetAccessKeyByID(ctx context.Context, id string) (*model.AccessKey, error)
	ListAccessKeysByProfile(ctx context.Context, profileID string) ([]*model.AccessKey, error)
	RevokeAccessKey(ctx context.Context, id string) error
	GetProfileByID(ctx context.Context, id string) (*model.Profile, error)
}

// AccessKeyHandler handles admin-only coach access key management.
// All routes are mounted behind the session and admin-role middleware.
type AccessKeyHandler struct {
	store  AccessKeyStore
	logger *slog.Logger
}

// NewAccessKeyHandler creates a new AccessKeyHandler.
func NewAccessKeyHandler(store AccessKeyStore, logger *slog.Logger) *AccessKeyHandler {
	return &AccessKeyHandler{
		store:  store,
		logger: logger,
	}
}

// Create mints a new access key for a coach profile.
// The plaintext key appears in this response and nowhere else.
//
// POST /api/admin/access-keys
func (h *AccessKeyHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.AccessKeyCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ProfileID == "" {
		writeError(w, http.StatusBadRequest, "profile_id is required")
		return
	}

	profile, err := h.store.GetProfileByID(ctx, req.ProfileID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		h.logger.Error("failed to load profile for access key", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to create access key")
		return
	}

	generated, err := auth.GenerateAccessKey()
	if err != nil {
		h.logger.Error("failed to generate access key", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to create access key")
		return
	}

	key := &model.AccessKey{
		ID:        ulid.Make().String(),
		ProfileID: profile.ID,
		KeyHash:   generated.Hash,
		KeyPrefix: generated.Prefix,
		Label:     req.Label,
		CreatedAt: time.Now(),
	}

	if err := h.store.CreateAccessKey(ctx, key); err != nil {
		h.logger.Error("failed to create access key", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to create access key")
		return
	}

	h.logger.Info("access key created",
		slog.String("key_id", key.ID),
		slog.String("key_prefix", key.KeyPrefix),
		slog.String("profile_id", key.ProfileID),
	)

	writeJSON(w, http.StatusCreated, model.AccessKeyCreateResponse{
		ID:        key.ID,
		Key:       generated.Plaintext,
		ProfileID: key.ProfileID,
		KeyPrefix: key.KeyPrefix,
		Label:     key.Label,
		CreatedAt: key.CreatedAt,
	})
}

// List returns the keys minted for a profile, without secrets.
//
// GET /api/admin/access-keys?profile_id=...
func (h *AccessKeyHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profileID := r.URL.Query().Get("profile_id")
	if profileID == "" {
		writeError(w, http.StatusBadRequest, "profile_id is required")
		return
	}

	keys, err := h.store.ListAccessKeysByProfile(ctx, profileID)
	if err != nil {
		h.logger.Error("failed to list access keys", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list access keys")
		return
	}

	responses := make([]model.AccessKeyResponse, 0, len(keys))
	for _, key := range keys {
		responses = append(responses, key.ToResponse())
	}

	writeJSON(w, http.StatusOK, map[string]any{"keys": responses})
}

// Revoke disables an access key. Unknown and already-revoked keys both
// return 404 so key IDs cannot be probed.
//
// DELETE /api/admin/access-keys/{key_id}
func (h *AccessKeyHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	keyID := r.PathValue("key_id")
	if keyID == "" {
		writeError(w, http.StatusBadRequest, "key_id is required")
		return
	}

	key, err := h.store.GetAccessKeyByID(ctx, keyID)
	if err != nil {
		writeError(w, http.StatusNotFound, "access key not found or already revoked")
		return
	}

	if key.IsRevoked() {
		writeError(w, http.StatusNotFound, "access key not found or already revoked")
		return
	}

	if err := h.store.RevokeAccessKey(ctx, keyID); err != nil {
		if errors.Is(err, repository.ErrAccessKeyNotFound) {
			writeError(w, http.StatusNotFound, "access key not found or already revoked")
			return
		}
		h.logger.Error("failed to revoke access key", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to revoke access key")
		return
	}

	h.logger.Info("access key revoked", slog.String("key_id", keyID))

	w.WriteHeader(http.StatusNoContent)
}
