package middleware

import (
	"context"
	"net/http"
	"strings"

	"garage-backend/internal/auth"
	"garage-backend/internal/models"
	"garage-backend/internal/permissions"
	"garage-backend/pkg/utils"
)

// UserLookup loads the current state of a user
type UserLookup interface {
	GetUser(ctx context.Context, id int) (*models.User, error)
}

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	users      UserLookup
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		users:      users,
	}
}

// Authenticate validates the bearer token and stores an auth.Session in the
// request context. Role and active flag come from the database so changes
// apply without waiting for the token to expire.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.Error(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.Error(w, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := m.jwtManager.ValidateToken(parts[1])
		if err != nil {
			utils.Error(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		user, err := m.users.GetUser(r.Context(), claims.UserID)
		if err != nil {
			utils.Error(w, http.StatusUnauthorized, "User not found")
			return
		}
		if !user.IsActive {
			utils.Error(w, http.StatusForbidden, "Tài khoản đã bị khóa. Vui lòng liên hệ quản trị viên.")
			return
		}

		session := &auth.Session{UserID: user.ID, Username: user.Username, Role: user.Role}
		recordSession(r.Context(), session)
		next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
	})
}

// RequirePage allows the request only when the session's role can open page.
// It must run after Authenticate.
func RequirePage(page string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := auth.SessionFrom(r.Context())
			if !ok {
				utils.Error(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !permissions.CanAccess(session.Role, page) {
				utils.Error(w, http.StatusForbidden, "Bạn không có quyền truy cập chức năng này")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyPage allows the request when the role can open at least one of pages
func RequireAnyPage(pages ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := auth.SessionFrom(r.Context())
			if !ok {
				utils.Error(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			for _, page := range pages {
				if permissions.CanAccess(session.Role, page) {
					next.ServeHTTP(w, r)
					return
				}
			}
			utils.Error(w, http.StatusForbidden, "Bạn không có quyền truy cập chức năng này")
		})
	}
}
