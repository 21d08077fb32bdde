package auth

import (
	"context"

	"garage-backend/internal/models"
)

// Session identifies the signed-in user for the lifetime of one request.
// It is built by the auth middleware and passed explicitly through the context.
type Session struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == models.RoleAdmin
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying s
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session stored in ctx, if any
func SessionFrom(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}

// UserIDFrom returns the signed-in user's id, or 0 when there is no session
func UserIDFrom(ctx context.Context) int {
	if s, ok := SessionFrom(ctx); ok {
		return s.UserID
	}
	return 0
}
