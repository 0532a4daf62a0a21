package api

import (
	"net/http"
	"strings"

	"padelpoint/internal/auth"
)

// requireAuth verifies the bearer token, resolves the staff account and
// stores a Session in the request context.
func (s *HTTPServer) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := auth.ParseToken(s.cfg.Server.JWTSecret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		// The account must still exist; tokens outlive staff turnover.
		user, err := s.db.GetUserByUsername(r.Context(), claims.Username)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unknown account")
			return
		}

		session := &auth.Session{
			UserID:   user.ID,
			Username: user.Username,
			Role:     user.Role,
			FullName: user.FullName,
		}
		next(w, r.WithContext(auth.WithSession(r.Context(), session)))
	}
}

// requireAdmin rejects non-admin sessions. Used inside handlers that serve
// both roles on different methods.
func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if !auth.FromContext(r.Context()).IsAdmin() {
		writeError(w, http.StatusForbidden, "admin role required")
		return false
	}
	return true
}
