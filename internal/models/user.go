package models

import "time"

// Roles
const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Token string   `json:"token"`
	User  *User    `json:"user"`
	Pages []string `json:"pages"`
}

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,min=4"`
	Role     string `json:"role" validate:"required,oneof=ADMIN STAFF"`
}

// UpdateUserRequest represents the request body for updating a user
type UpdateUserRequest struct {
	Password string `json:"password,omitempty" validate:"omitempty,min=4"` // Optional
	Role     string `json:"role" validate:"required,oneof=ADMIN STAFF"`
	IsActive bool   `json:"is_active"`
}
