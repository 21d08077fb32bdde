package handlers

import (
	"net/http"

	"garage-backend/internal/auth"
	"garage-backend/internal/middleware"
	"garage-backend/internal/models"
	"garage-backend/internal/permissions"
	"garage-backend/internal/services"
)

type AuthHandler struct {
	Service *services.UserService
}

func NewAuthHandler(s *services.UserService) *AuthHandler {
	return &AuthHandler{Service: s}
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}

	resp, _, err := h.Service.Authenticate(r.Context(), req, middleware.ClientIP(r), r.UserAgent())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, resp)
}

// Logout records the logout time; the client discards its token
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.SessionFrom(r.Context())
	h.Service.Logout(r.Context(), session)
	writeResult(w, http.StatusOK, "Đã đăng xuất", nil)
}

// Navigation lists the pages the signed-in role may open
func (h *AuthHandler) Navigation(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFrom(r.Context())
	if !ok {
		writeError(w, &services.ValidationError{Field: "session", Message: "Authentication required"})
		return
	}

	writeJSON(w, map[string]interface{}{
		"user":  session,
		"pages": permissions.AccessiblePages(session.Role),
	})
}
