package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/courtside/courtside/internal/auth"
	"github.com/courtside/courtside/internal/config"
	"github.com/courtside/courtside/internal/features"
)

// AdminHandler provides the admin bootstrap and diagnostic endpoints.
type AdminHandler struct {
	cfg    *config.Config
	flags  *features.Flags
	logger *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(cfg *config.Config, flags *features.Flags, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		cfg:    cfg,
		flags:  flags,
		logger: logger,
	}
}

// verifyAccessRequest is the body for the admin bootstrap check.
type verifyAccessRequest struct {
	Hash string `json:"hash"`
}

// VerifyAccess gates the admin bootstrap flow: the client submits the SHA-256
// digest of the admin creation key and the server compares it against the
// configured digest in constant time. The endpoint performs no mutation and
// establishes no session.
//
// POST /api/admin/verify-access
func (h *AdminHandler) VerifyAccess(w http.ResponseWriter, r *http.Request) {
	var req verifyAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Hash == "" {
		writeError(w, http.StatusBadRequest, "hash is required")
		return
	}

	if h.cfg.AdminCreationKeyHash == "" {
		h.logger.Error("admin verify-access called without ADMIN_CREATION_KEY_HASH configured")
		writeError(w, http.StatusInternalServerError, "admin access not configured")
		return
	}

	if !auth.VerifyAdminKeyDigest(req.Hash, h.cfg.AdminCreationKeyHash) {
		h.logger.Warn("admin verify-access rejected",
			slog.String("ip", r.RemoteAddr),
		)
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"authorized": true})
}

// Debug reports which environment configuration is present. Secrets are
// reduced to presence booleans; only non-sensitive values are echoed.
//
// GET /api/debug
func (h *AdminHandler) Debug(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"app_env":  h.cfg.AppEnv,
		"base_url": h.cfg.BaseURL,
		"configured": map[string]bool{
			"database_url":            h.cfg.DatabaseURL != "",
			"redis_url":               h.cfg.RedisURL != "",
			"session_secret":          h.cfg.SessionSecret != "",
			"admin_creation_key_hash": h.cfg.AdminCreationKeyHash != "",
			"oauth_client_id":         h.cfg.OAuthClientID != "",
			"oauth_client_secret":     h.cfg.OAuthClientSecret != "",
			"roster_base_id":          h.cfg.RosterBaseID != "",
			"roster_access_token":     h.cfg.RosterAccessToken != "",
		},
		"features": h.flags.All(),
	}
	writeJSON(w, http.StatusOK, response)
}

// StatsResponse represents operational statistics.
type StatsResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
}

// Stats returns basic operational metadata. Admin only.
//
// GET /api/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatsResponse{
		Timestamp: time.Now().UTC(),
		Service:   "courtside",
		Version:   "1.0.0",
	})
}
