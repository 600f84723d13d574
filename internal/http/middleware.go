package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/bistronome/resto-ui-api/internal/domain/auth"
	"github.com/bistronome/resto-ui-api/internal/service"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionParams groups what the session middleware needs.
type SessionParams struct {
	Registry     *service.SessionRegistry
	CookieName   string
	CookieDomain string
}

// WithSession returns a middleware that binds every request to its browser
// session. A request without a session cookie gets a fresh handle minted and
// set. Authenticated requests count as activity: the session's last-activity
// marker advances and the idle monitor's deadlines reset. Entries that are
// still unauthenticated when the request ends are released again, so
// anonymous traffic cannot grow the registry.
func WithSession(p SessionParams) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handle := ""
			if c, err := r.Cookie(p.CookieName); err == nil && c.Value != "" {
				handle = c.Value
			}
			if handle == "" {
				handle = p.Registry.NewHandle()
				setSessionCookie(w, r, cookieParams{
					Name:   p.CookieName,
					Value:  handle,
					Domain: p.CookieDomain,
				})
			}

			entry := p.Registry.Attach(r.Context(), handle)
			if entry == nil {
				// Registry disposed; the server is shutting down.
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			}

			if entry.Sessions.Authenticated() {
				entry.Sessions.TouchActivity()
				entry.Monitor.Activity()
			}
			defer p.Registry.Release(handle)

			next.ServeHTTP(w, r.WithContext(SetEntryInContext(r.Context(), entry)))
		})
	}
}

// RequireAuth returns a middleware that requires an authenticated session.
// Browser requests are redirected to the login view; API requests get 401 JSON.
func RequireAuth() func(http.Handler) http.Handler {
	return requireDecision(func(domainauth.Role) bool { return true }, false)
}

// RequireElevated returns a middleware that restricts a route to the owner.
func RequireElevated() func(http.Handler) http.Handler {
	return requireDecision(func(domainauth.Role) bool { return true }, true)
}

// RequireCapability returns a middleware that requires the given role
// capability. The no-session check always runs before the role check.
func RequireCapability(capability func(domainauth.Role) bool) func(http.Handler) http.Handler {
	return requireDecision(capability, false)
}

func requireDecision(
	capability func(domainauth.Role) bool,
	requireElevated bool,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := GetSessionFromContext(r.Context())

			decision := domainauth.Authorize(session, requireElevated)
			if decision == domainauth.DecisionAllowed && !capability(session.Role()) {
				decision = domainauth.DecisionDeniedInsufficientRole
			}

			switch decision {
			case domainauth.DecisionAllowed:
				next.ServeHTTP(w, r)
			case domainauth.DecisionDeniedNoSession:
				if isBrowserRequest(r) {
					redirectToLogin(w, r)
					return
				}
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
			case domainauth.DecisionDeniedInsufficientRole:
				if isBrowserRequest(r) {
					writeRestrictedPage(w)
					return
				}
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "insufficient_permissions",
					Err:     errors.New("insufficient permissions"),
				})
			}
		})
	}
}

// RedirectAuthenticated sends already-authenticated users visiting the login
// view to the dashboard.
func RedirectAuthenticated(target string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetSessionFromContext(r.Context()).Authenticated() {
				http.Redirect(w, r, target, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// isBrowserRequest reports whether the request came from a navigating browser
// rather than an API client.
func isBrowserRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html")
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	u := url.URL{Path: "/login"}
	q := url.Values{}
	if r.URL.Path != "/" && r.URL.Path != "/login" {
		q.Set("redirect_uri", r.URL.Path)
	}
	u.RawQuery = q.Encode()
	http.Redirect(w, r, u.String(), http.StatusFound)
}

// writeRestrictedPage renders the access-restricted page shown to signed-in
// users who lack the role for a view.
func writeRestrictedPage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html lang="fr">
<head><meta charset="utf-8"><title>Accès Restreint</title></head>
<body>
<h1>Accès Restreint</h1>
<p>Vous n'avez pas les droits nécessaires pour accéder à cette page.</p>
<p><a href="/">Retour au tableau de bord</a></p>
</body>
</html>`))
}

// writeLoginPage renders the minimal login view used when the SPA assets are
// not deployed in front of the API. It posts the credentials as JSON to the
// login endpoint and follows the redirect_uri hint on success.
func writeLoginPage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html lang="fr">
<head><meta charset="utf-8"><title>Connexion</title></head>
<body>
<h1>Connexion</h1>
<form id="login">
<label>Email <input type="email" name="email" required></label>
<label>Mot de passe <input type="password" name="password" required></label>
<button type="submit">Se connecter</button>
</form>
<p id="message"></p>
<script>
document.getElementById("login").addEventListener("submit", async function (ev) {
  ev.preventDefault();
  var form = new FormData(ev.target);
  var res = await fetch("/api/auth/login", {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify({email: form.get("email"), password: form.get("password")})
  });
  var body = await res.json();
  if (body.success) {
    var target = new URLSearchParams(location.search).get("redirect_uri") || "/";
    location.assign(target);
  } else {
    document.getElementById("message").textContent = body.message || "Connexion impossible";
  }
});
</script>
</body>
</html>`))
}

// cookieParams groups values needed to set the session cookie.
type cookieParams struct {
	Name   string
	Value  string
	Domain string
}

// setSessionCookie sets the opaque session handle cookie. Secure is derived
// from the request so local development over plain HTTP keeps working.
func setSessionCookie(w http.ResponseWriter, r *http.Request, p cookieParams) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{
		Name:     p.Name,
		Value:    p.Value,
		Path:     "/",
		Domain:   p.Domain,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie clears the session handle cookie. It mirrors the key
// attributes used when setting it to maximize compatibility during deletion.
func clearSessionCookie(w http.ResponseWriter, r *http.Request, name, domain string) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   domain,
		HttpOnly: true,
		Secure:   isSecure,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}
