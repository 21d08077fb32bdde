package handlers

import (
	"net/http"

	"garage-backend/internal/auth"
	"garage-backend/internal/models"
	"garage-backend/internal/services"
)

type UserHandler struct {
	Service *services.UserService
}

func NewUserHandler(s *services.UserService) *UserHandler {
	return &UserHandler{Service: s}
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, users)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.Service.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, user)
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.Service.CreateUser(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusCreated, "Tạo người dùng thành công", user)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req models.UpdateUserRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, err)
		return
	}

	session, _ := auth.SessionFrom(r.Context())
	if err := h.Service.UpdateUser(r.Context(), id, req, session); err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusOK, "Cập nhật người dùng thành công", nil)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	session, _ := auth.SessionFrom(r.Context())
	if err := h.Service.DeleteUser(r.Context(), id, session); err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusOK, "Xóa người dùng thành công", nil)
}

// LoginLogs handles GET /api/users/login-logs?limit=N
func (h *UserHandler) LoginLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.ListLoginLogs(r.Context(), queryInt(r, "limit", 0)))
}
