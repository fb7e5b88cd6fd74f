package dto

import (
	"time"

	"github.com/yigit/semesterhub/internal/app/models"
)

// CreateUserRequest represents the admin form for a new account
type CreateUserRequest struct {
	Name     string          `json:"name" validate:"required,max=255" example:"Jane Doe"`
	Email    string          `json:"email" validate:"required,email,max=255" example:"jane@college.edu"`
	Password string          `json:"password" validate:"required,min=8" example:"secret123"`
	Role     models.RoleType `json:"role" validate:"required,oneof=user super_admin" example:"user"`
}

// UpdateUserRequest represents user update data; an empty password keeps the current one
type UpdateUserRequest struct {
	Name     string          `json:"name" validate:"required,max=255"`
	Email    string          `json:"email" validate:"required,email,max=255"`
	Password string          `json:"password" validate:"omitempty,min=8"`
	Role     models.RoleType `json:"role" validate:"required,oneof=user super_admin"`
}

// UserResponse represents a user without credentials
type UserResponse struct {
	ID        int64           `json:"id" example:"1"`
	Name      string          `json:"name" example:"Jane Doe"`
	Email     string          `json:"email" example:"jane@college.edu"`
	Role      models.RoleType `json:"role" example:"user"`
	IsAdmin   bool            `json:"is_admin"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewUserResponse maps a user
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsAdmin:   u.IsAdmin(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserListResponse represents a page of users
type UserListResponse struct {
	Users      []UserResponse `json:"users"`
	Pagination PaginationInfo `json:"pagination"`
}
