package handler

import "net/http"

// AuthHandler serves the static auth route listing and the signin error
// forwarder. The OAuth handshake itself happens upstream at the identity
// provider.
type AuthHandler struct{}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// Index lists the auth sub-routes.
//
// GET /api/auth
func (h *AuthHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"routes": []string{
			"POST /api/auth/token",
			"POST /api/auth/logout",
			"GET /api/auth/signin/error",
		},
	})
}

// SigninError redirects to the error page, forwarding all query parameters
// verbatim.
//
// GET /api/auth/signin/error
func (h *AuthHandler) SigninError(w http.ResponseWriter, r *http.Request) {
	target := "/auth/error"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}
