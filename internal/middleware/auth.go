package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mediscan/mediscan/internal/auth"
)

// SessionCookieName carries the opaque session token.
const SessionCookieName = "session"

// GateConfig classifies routes the gate lets through unauthenticated.
// Pages are matched exactly; API routes by prefix. The asymmetry is load-bearing:
// the auth API namespace must stay reachable pre-authentication while the rest
// of /api/ must not.
type GateConfig struct {
	PublicPages       []string
	PublicAPIPrefixes []string
}

// DefaultGateConfig returns the route classification for the application.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		PublicPages:       []string{"/", "/login", "/register"},
		PublicAPIPrefixes: []string{"/api/auth/login", "/api/auth/register"},
	}
}

// AuthGate enforces the session contract before any protected handler runs.
// Allowed requests are forwarded unchanged: no identity is injected, handlers
// re-resolve the same cookie when they need the user.
func AuthGate(cfg GateConfig, svc *auth.Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			for _, page := range cfg.PublicPages {
				if path == page {
					next.ServeHTTP(w, r)
					return
				}
			}
			for _, prefix := range cfg.PublicAPIPrefixes {
				if strings.HasPrefix(path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				rejectUnauthorized(w, r, "Unauthorized")
				return
			}

			user, err := svc.CurrentUser(cookie.Value)
			if err != nil {
				// A store failure is a rejection, never a pass-through, and is
				// surfaced distinctly from bad credentials.
				logger.Error("session resolution failed", "error", err, "path", path)
				rejectInternal(w, r)
				return
			}
			if user == nil {
				rejectUnauthorized(w, r, "Invalid session")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/")
}

func rejectUnauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	if isAPIPath(r.URL.Path) {
		writeJSONError(w, http.StatusUnauthorized, msg)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func rejectInternal(w http.ResponseWriter, r *http.Request) {
	if isAPIPath(r.URL.Path) {
		writeJSONError(w, http.StatusInternalServerError, "Authentication error")
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
