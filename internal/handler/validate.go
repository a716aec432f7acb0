package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"

	"github.com/courtside/courtside/internal/model"
	"github.com/courtside/courtside/internal/repository"
)

// EmailLookup finds a profile by email address.
type EmailLookup interface {
	GetProfileByEmail(ctx context.Context, email string) (*model.Profile, error)
}

// ValidateHandler implements the parent-email pre-check for the signup form.
type ValidateHandler struct {
	store  EmailLookup
	logger *slog.Logger
}

// NewValidateHandler creates a new ValidateHandler.
func NewValidateHandler(store EmailLookup, logger *slog.Logger) *ValidateHandler {
	return &ValidateHandler{
		store:  store,
		logger: logger,
	}
}

type validateParentEmailRequest struct {
	Email string `json:"email"`
}

// ParentEmail checks whether a parent email looks usable before signup.
// This check is advisory and fails open: an internal error reports valid so
// the primary form is never blocked by an auxiliary lookup. Do not flip this
// to fail closed without a product decision.
//
// POST /api/validate-parent-email
func (h *ValidateHandler) ParentEmail(w http.ResponseWriter, r *http.Request) {
	var req validateParentEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeJSON(w, http.StatusOK, map[string]bool{"valid": false})
		return
	}

	// A parent email already attached to a competitor profile is flagged so
	// the form can ask for a different one.
	profile, err := h.store.GetProfileByEmail(r.Context(), req.Email)
	if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		h.logger.Warn("parent email lookup failed, reporting valid",
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
		return
	}

	if profile != nil && profile.Role == model.RoleCompetitor {
		writeJSON(w, http.StatusOK, map[string]bool{"valid": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}
