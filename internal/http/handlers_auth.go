package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bistronome/resto-ui-api/internal/service"
)

// AuthHandlers provides HTTP handlers for session operations.
type AuthHandlers struct {
	Registry     *service.SessionRegistry
	CookieName   string
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// loginRequest is the login form payload.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles the credential login endpoint.
// POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_credentials",
			Err:     errors.New("email and password are required"),
		})
		return
	}

	entry, ok := GetEntryFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "no_session",
			Err:     errors.New("request has no session"),
		})
		return
	}

	ok, err := entry.Sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "login failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_failed",
			Err:     errors.New("login temporarily unavailable"),
		})
		return
	}
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"message": "Email ou mot de passe incorrect",
		})
		return
	}

	entry.Monitor.Start()

	session := entry.Sessions.Snapshot()
	WriteJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"user":       session.Principal,
		"last_login": session.LastLogin,
	})
}

// Logout handles the logout endpoint. Idempotent: logging out without a
// session succeeds.
// POST /api/auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if entry, ok := GetEntryFromContext(r.Context()); ok {
		h.Registry.Logout(r.Context(), entry.Handle)
	}
	clearSessionCookie(w, r, h.CookieName, h.CookieDomain)

	if isBrowserRequest(r) {
		redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
		http.Redirect(w, r, redirectURI, http.StatusFound)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Session returns the current session state.
// GET /api/auth/session.
func (h *AuthHandlers) Session(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if !session.Authenticated() {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          session.Principal,
		"session_id":    session.SessionID,
		"last_login":    session.LastLogin,
		"last_activity": session.LastActivity,
	})
}

// UpdateProfile merges profile fields into the signed-in principal.
// PATCH /api/auth/profile.
func (h *AuthHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var updates service.ProfileUpdate
	if !DecodeJSON(w, r, &updates) {
		return
	}
	if err := validateProfileUpdate(updates); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_profile", Err: err})
		return
	}

	entry, ok := GetEntryFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	updated, err := entry.Sessions.UpdateProfile(r.Context(), updates)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "profile_update_failed", Err: err})
		return
	}
	if !updated {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	session := entry.Sessions.Snapshot()
	WriteJSON(w, http.StatusOK, map[string]any{"success": true, "user": session.Principal})
}

// Notifications returns the session's recent toast notifications.
// GET /api/notifications?since=<RFC3339>.
func (h *AuthHandlers) Notifications(w http.ResponseWriter, r *http.Request) {
	entry, ok := GetEntryFromContext(r.Context())
	if !ok {
		WriteJSON(w, http.StatusOK, map[string]any{"notifications": []any{}})
		return
	}

	var since time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_since", Err: err})
			return
		}
		since = parsed
	}

	WriteJSON(w, http.StatusOK, map[string]any{"notifications": entry.Feed.Recent(since)})
}

// validateProfileUpdate applies the same field rules as user administration.
func validateProfileUpdate(updates service.ProfileUpdate) error {
	if updates.Nom != nil && strings.TrimSpace(*updates.Nom) == "" {
		return errors.New("nom cannot be empty")
	}
	if updates.Prenoms != nil && strings.TrimSpace(*updates.Prenoms) == "" {
		return errors.New("prenoms cannot be empty")
	}
	if updates.Email != nil && !strings.Contains(*updates.Email, "@") {
		return errors.New("invalid email")
	}
	if updates.Age != nil && (*updates.Age < 16 || *updates.Age > 99) {
		return errors.New("age must be between 16 and 99")
	}
	return nil
}

// safeRedirectPath allows only relative paths, falling back to root.
func safeRedirectPath(p string) string {
	if p == "" {
		return "/"
	}
	u, err := url.Parse(p)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return p
}
