package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/courtside/courtside/internal/auth"
	"github.com/courtside/courtside/internal/cache"
	"github.com/courtside/courtside/internal/model"
)

// AccessKeyLookup finds candidate access keys and the profile behind one.
type AccessKeyLookup interface {
	GetAccessKeysByPrefix(ctx context.Context, prefix string) ([]*model.AccessKey, error)
	UpdateAccessKeyLastUsed(ctx context.Context, id string) error
	GetProfileByID(ctx context.Context, id string) (*model.Profile, error)
}

// TokenHandler exchanges a coach access key for a session token and ends
// sessions on logout.
type TokenHandler struct {
	store    AccessKeyLookup
	sessions *auth.Sessions
	cache    *cache.Cache
	secure   bool
	logger   *slog.Logger
}

// NewTokenHandler creates a new TokenHandler. secure controls the cookie's
// Secure attribute and should be true outside development.
func NewTokenHandler(store AccessKeyLookup, sessions *auth.Sessions, sessionCache *cache.Cache, secure bool, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{
		store:    store,
		sessions: sessions,
		cache:    sessionCache,
		secure:   secure,
		logger:   logger,
	}
}

type tokenRequest struct {
	AccessKey string `json:"access_key"`
}

// Exchange verifies an access key against its stored argon2 hash and issues
// a session. All rejection paths return the same 401 to prevent probing
// which prefixes exist.
//
// POST /api/auth/token
func (h *TokenHandler) Exchange(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.AccessKey == "" {
		writeError(w, http.StatusBadRequest, "access_key is required")
		return
	}

	parsed, err := auth.ParseAccessKey(req.AccessKey)
	if err != nil {
		h.reject(w, r, "invalid_format")
		return
	}

	keys, err := h.store.GetAccessKeysByPrefix(r.Context(), parsed.Prefix)
	if err != nil {
		h.logger.Error("access key lookup failed",
			slog.String("error", err.Error()),
		)
		h.reject(w, r, "lookup_error")
		return
	}

	// Verify against each candidate key (handles prefix collisions).
	var matched *model.AccessKey
	for _, k := range keys {
		ok, err := auth.VerifySecret(req.AccessKey, k.KeyHash)
		if err != nil {
			continue
		}
		if ok {
			matched = k
			break
		}
	}

	if matched == nil {
		h.reject(w, r, "invalid_key")
		return
	}

	profile, err := h.store.GetProfileByID(r.Context(), matched.ProfileID)
	if err != nil {
		h.logger.Error("profile load failed during token exchange",
			slog.String("error", err.Error()),
			slog.String("key_id", matched.ID),
		)
		h.reject(w, r, "profile_missing")
		return
	}

	sess := &model.SessionContext{
		UserID: profile.ID,
		Email:  profile.Email,
		Name:   profile.Name,
		Role:   profile.Role,
	}

	token, err := h.sessions.Issue(sess)
	if err != nil {
		h.logger.Error("failed to issue session token", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// Record usage out of the request path.
	go func() {
		_ = h.store.UpdateAccessKeyLastUsed(context.Background(), matched.ID)
	}()

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessions.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("access key exchanged",
		slog.String("key_id", matched.ID),
		slog.String("user_id", profile.ID),
	)

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Logout drops the caller's cached session context and expires the cookie.
// It answers 200 even without a session so clients can always reset.
//
// POST /api/auth/logout
func (h *TokenHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := auth.ExtractToken(r); token != "" && h.cache != nil {
		if err := h.cache.DeleteSessionContext(r.Context(), auth.QuickHash(token)); err != nil {
			h.logger.Warn("failed to drop cached session", slog.String("error", err.Error()))
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *TokenHandler) reject(w http.ResponseWriter, r *http.Request, reason string) {
	h.logger.Warn("token exchange rejected",
		slog.String("reason", reason),
		slog.String("ip", r.RemoteAddr),
	)
	writeError(w, http.StatusUnauthorized, "invalid access key")
}
