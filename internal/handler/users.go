package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/courtside/courtside/internal/auth"
	"github.com/courtside/courtside/internal/enums"
	"github.com/courtside/courtside/internal/model"
	"github.com/courtside/courtside/internal/repository"
)

// ProfileStore defines the profile operations used by user endpoints.
type ProfileStore interface {
	GetProfileByID(ctx context.Context, id string) (*model.Profile, error)
	ListAdmins(ctx context.Context) ([]model.AdminEntry, error)
	UpdateCompetitorProfile(ctx context.Context, id string, upd *repository.CompetitorProfileUpdate) error
}

// UsersHandler handles profile and directory endpoints.
type UsersHandler struct {
	store  ProfileStore
	logger *slog.Logger
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(store ProfileStore, logger *slog.Logger) *UsersHandler {
	return &UsersHandler{
		store:  store,
		logger: logger,
	}
}

// ListAdmins returns the admin directory for messaging clients.
//
// GET /api/users/admins
func (h *UsersHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFromContext(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	admins, err := h.store.ListAdmins(r.Context())
	if err != nil {
		h.logger.Error("failed to list admins", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"admins": admins})
}

// Me returns the caller's own profile.
//
// GET /api/users/me
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFromContext(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	profile, err := h.store.GetProfileByID(r.Context(), sess.UserID)
	if err != nil {
		h.logger.Error("failed to load profile",
			slog.String("error", err.Error()),
			slog.String("user_id", sess.UserID),
		)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"profile": profile})
}

// competitorUpdateRequest carries free-text competitor fields from the form.
// Pointers so an absent field is distinguishable from an explicit empty one;
// absent fields keep their stored value.
type competitorUpdateRequest struct {
	Grade       *string   `json:"grade"`
	Gender      *string   `json:"gender"`
	Track       *string   `json:"track"`
	Race        *string   `json:"race"`
	Ethnicities *[]string `json:"ethnicities"`
	DeviceType  *string   `json:"device_type"`
	IsAdult     *bool     `json:"is_adult"`
}

// UpdateMe normalizes and validates the provided competitor fields, merges
// them over the stored profile, and re-derives the division whenever the
// grade or adult status changed. Values outside the canonical sets are
// rejected, never invented.
//
// PATCH /api/users/me
func (h *UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFromContext(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req competitorUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	grade := ""
	if req.Grade != nil {
		grade = enums.NormalizeGrade(*req.Grade)
		if grade != "" && !enums.IsValidGrade(grade) {
			writeError(w, http.StatusBadRequest, "invalid grade: "+*req.Grade)
			return
		}
	}

	// Each provided enum field normalizes into its canonical set or the
	// request is rejected.
	var bad string
	gender := normalizeProvided(req.Gender, enums.IsValidGender, &bad)
	track := normalizeProvided(req.Track, enums.IsValidTrack, &bad)
	race := normalizeProvided(req.Race, enums.IsValidRace, &bad)
	device := normalizeProvided(req.DeviceType, enums.IsValidDeviceType, &bad)
	var ethnicities []string
	if req.Ethnicities != nil {
		ethnicities = make([]string, 0, len(*req.Ethnicities))
		for _, e := range *req.Ethnicities {
			ethnicities = append(ethnicities, normalizeInto(e, enums.IsValidEthnicity, &bad))
		}
	}
	if bad != "" {
		writeError(w, http.StatusBadRequest, "invalid value: "+bad)
		return
	}

	current, err := h.store.GetProfileByID(r.Context(), sess.UserID)
	if err != nil {
		h.logger.Error("failed to load profile for update",
			slog.String("error", err.Error()),
			slog.String("user_id", sess.UserID),
		)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	upd := &repository.CompetitorProfileUpdate{
		Grade:       current.Grade,
		Division:    current.Division,
		Gender:      current.Gender,
		Track:       current.Track,
		Race:        current.Race,
		Ethnicities: current.Ethnicities,
		DeviceType:  current.DeviceType,
		IsAdult:     current.IsAdult,
	}
	if req.Grade != nil {
		upd.Grade = grade
	}
	if req.IsAdult != nil {
		upd.IsAdult = *req.IsAdult
	}
	if gender != nil {
		upd.Gender = *gender
	}
	if track != nil {
		upd.Track = *track
	}
	if race != nil {
		upd.Race = *race
	}
	if device != nil {
		upd.DeviceType = *device
	}
	if req.Ethnicities != nil {
		upd.Ethnicities = ethnicities
	}

	// The division is never client-supplied; it follows the merged grade
	// and adult status.
	if req.Grade != nil || req.IsAdult != nil {
		upd.Division = ""
		if upd.Grade != "" || upd.IsAdult {
			d, ok := enums.DeriveDivisionFromGrade(upd.Grade, upd.IsAdult)
			if !ok {
				writeError(w, http.StatusBadRequest, "cannot derive division from grade: "+upd.Grade)
				return
			}
			upd.Division = d
		}
	}

	if err := h.store.UpdateCompetitorProfile(r.Context(), sess.UserID, upd); err != nil {
		h.logger.Error("failed to update profile",
			slog.String("error", err.Error()),
			slog.String("user_id", sess.UserID),
		)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// normalizeProvided normalizes an optional field, returning nil when the
// field was absent from the request.
func normalizeProvided(raw *string, valid func(string) bool, bad *string) *string {
	if raw == nil {
		return nil
	}
	v := normalizeInto(*raw, valid, bad)
	return &v
}

// normalizeInto normalizes a raw value and records it in *bad when it falls
// outside the canonical set. Empty input passes through untouched.
func normalizeInto(raw string, valid func(string) bool, bad *string) string {
	if raw == "" {
		return ""
	}
	v := enums.NormalizeEnumValue(raw)
	if !valid(v) && *bad == "" {
		*bad = raw
	}
	return v
}
