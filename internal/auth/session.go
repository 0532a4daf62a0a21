package auth

import (
	"context"

	"padelpoint/internal/models"
)

// Session is the explicit authenticated identity for one request. There is
// no process-wide token state: the JWT middleware builds a Session and
// passes it through the request context.
type Session struct {
	UserID   int64
	Username string
	Role     string
	FullName string
}

// IsAdmin reports whether the session user has the admin role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == models.RoleAdmin
}

type sessionKey struct{}

// WithSession returns a context carrying the session.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the request session, or nil for anonymous requests.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
