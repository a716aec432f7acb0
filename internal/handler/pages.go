package handler

import (
	"log/slog"
	"net/http"

	"github.com/courtside/courtside/internal/auth"
	"github.com/courtside/courtside/internal/model"
	"github.com/courtside/courtside/internal/policy"
)

// PagesHandler serves the minimal server-rendered pages with their
// authorization gates. The real UI is a separate frontend; these pages exist
// so the gates live server-side.
type PagesHandler struct {
	sessions *auth.Sessions
	roles    policy.RoleGetter
	logger   *slog.Logger
}

// NewPagesHandler creates a new PagesHandler.
func NewPagesHandler(sessions *auth.Sessions, roles policy.RoleGetter, logger *slog.Logger) *PagesHandler {
	return &PagesHandler{
		sessions: sessions,
		roles:    roles,
		logger:   logger,
	}
}

// Login renders the login page. Always public.
//
// GET /login
func (h *PagesHandler) Login(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, http.StatusOK, "<h1>Courtside</h1><p>Sign in with your team account.</p>")
}

// Dashboard requires a session; anonymous callers are sent to login.
//
// GET /dashboard
func (h *PagesHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(r)
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	writeHTML(w, http.StatusOK, "<h1>Dashboard</h1>")
}

// Admin is the two-step gate: no session redirects to login, a session
// without the admin role redirects to the dashboard, and only an admin row
// renders the console.
//
// GET /admin
func (h *PagesHandler) Admin(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(r)
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if !policy.IsUserAdmin(r.Context(), h.roles, h.logger, sess.UserID) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	writeHTML(w, http.StatusOK, "<h1>Admin Console</h1>")
}

// sessionFor resolves the caller's session from the request, or nil.
func (h *PagesHandler) sessionFor(r *http.Request) *model.SessionContext {
	token := auth.ExtractToken(r)
	if token == "" {
		return nil
	}
	sess, err := h.sessions.Verify(token)
	if err != nil {
		return nil
	}
	return sess
}

func writeHTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte("<!doctype html>" + body))
}
