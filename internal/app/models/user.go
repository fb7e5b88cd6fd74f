package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Name      string    `json:"name" db:"name" example:"Jane Doe"`
	Email     string    `json:"email" db:"email" example:"jane@college.edu"`
	Password  string    `json:"-" db:"password"`
	Role      RoleType  `json:"role" db:"role" example:"user"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsAdmin reports whether the user holds the super_admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// Principal returns the request principal for this user
func (u *User) Principal() *Principal {
	return &Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
}
