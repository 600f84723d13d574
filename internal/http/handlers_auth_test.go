package httpx_test

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLogin_Success(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "admin@restaurant.com", "password": "admin123",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "admin@restaurant.com", user["email"])
	assert.Equal(t, "owner", user["role"])

	rec = s.do(t, http.MethodGet, "/api/auth/session", nil, nil)
	body = decodeBody(t, rec)
	assert.Equal(t, true, body["authenticated"])
	assert.NotEmpty(t, body["session_id"])
	assert.NotEmpty(t, body["last_login"])
}

func TestLogin_BadCredentials(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "admin@restaurant.com", "password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Email ou mot de passe incorrect", body["message"])
}

func TestLogin_MissingCredentials(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "  "}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing_credentials", decodeBody(t, rec)["error"])
}

func TestLogin_MalformedBody(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email": "admin@restaurant.com", "password": "admin123", "extra": true,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_json", decodeBody(t, rec)["error"])
}

func TestLogout_ClearsSessionAndCookie(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "admin@restaurant.com", "admin123")

	rec := s.do(t, http.MethodPost, "/api/auth/logout", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])
	assert.Nil(t, s.cookie, "the session cookie is expired on logout")

	rec = s.do(t, http.MethodGet, "/api/auth/session", nil, nil)
	assert.Equal(t, false, decodeBody(t, rec)["authenticated"])

	// Logging out again without a session still succeeds.
	rec = s.do(t, http.MethodPost, "/api/auth/logout", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogout_BrowserRedirects(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "admin@restaurant.com", "admin123")

	rec := s.do(t, http.MethodPost, "/api/auth/logout?redirect_uri=/login", nil, map[string]string{
		"Accept": "text/html",
	})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestLogout_RejectsAbsoluteRedirect(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "admin@restaurant.com", "admin123")

	rec := s.do(t, http.MethodPost, "/api/auth/logout?redirect_uri=https://evil.example/phish", nil, map[string]string{
		"Accept": "text/html",
	})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestUpdateProfile(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "admin@restaurant.com", "admin123")

	rec := s.do(t, http.MethodPatch, "/api/auth/profile", map[string]any{
		"prenoms": "Alexandre", "age": 36,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/auth/session", nil, nil)
	user := decodeBody(t, rec)["user"].(map[string]any)
	assert.Equal(t, "Alexandre", user["prenoms"])
	assert.Equal(t, float64(36), user["age"])
	assert.Equal(t, "owner", user["role"], "the role never changes through the profile")
}

func TestUpdateProfile_InvalidAge(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "admin@restaurant.com", "admin123")

	rec := s.do(t, http.MethodPatch, "/api/auth/profile", map[string]any{"age": 12}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_profile", decodeBody(t, rec)["error"])
}

func TestNotifications_ReportsIdleWarning(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "admin@restaurant.com", "admin123")

	cutoff := s.clock.Advance(25 * time.Minute)
	s.scheduler.Fire(cutoff)

	rec := s.do(t, http.MethodGet, "/api/notifications", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	notifications, ok := decodeBody(t, rec)["notifications"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, notifications)

	first := notifications[0].(map[string]any)
	assert.Equal(t, "session_expiring_soon", first["kind"])
	assert.Equal(t, "Session expirée bientôt", first["title"])
}

func TestNotifications_RejectsBadSince(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "admin@restaurant.com", "admin123")

	rec := s.do(t, http.MethodGet, "/api/notifications?since=yesterday", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_since", decodeBody(t, rec)["error"])
}

func TestSession_ExpiresAfterIdleTimeout(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "admin@restaurant.com", "admin123")

	cutoff := s.clock.Advance(30 * time.Minute)
	s.scheduler.Fire(cutoff)

	rec := s.do(t, http.MethodGet, "/api/auth/session", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["authenticated"])
}

func TestLoginView_ServedToAnonymous(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/login", nil, map[string]string{"Accept": "text/html"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Connexion")
}

func TestLoginView_AuthenticatedIsRedirected(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "admin@restaurant.com", "admin123")

	rec := s.do(t, http.MethodGet, "/login", nil, map[string]string{"Accept": "text/html"})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}
