package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mediscan/mediscan/internal/auth"
	"github.com/mediscan/mediscan/internal/middleware"
	"github.com/mediscan/mediscan/internal/model"
)

func parseIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	return strconv.ParseInt(idStr, 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// requireUser re-resolves the caller from the session cookie. The gate has
// already rejected anonymous requests for protected routes, but handlers that
// need the user object resolve it themselves rather than trusting anything
// injected upstream.
func requireUser(r *http.Request, svc *auth.Service) (*model.User, error) {
	token := ""
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		token = cookie.Value
	}
	return svc.RequireAuth(token)
}
