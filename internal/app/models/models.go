package models

import "io"

// RoleType defines the user role type
type RoleType string

const (
	RoleUser       RoleType = "user"
	RoleSuperAdmin RoleType = "super_admin"
)

// Valid reports whether r is a known role
func (r RoleType) Valid() bool {
	return r == RoleUser || r == RoleSuperAdmin
}

// Principal is the authenticated actor behind a request. A nil *Principal
// stands for an anonymous caller.
type Principal struct {
	UserID int64
	Email  string
	Role   RoleType
}

// IsAdmin reports whether the principal may mutate catalog content.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleSuperAdmin
}

// Upload is a file received with a create or update request.
type Upload struct {
	Filename string
	Size     int64
	Content  io.ReadSeeker
}

// ContentFilter narrows catalog listings. Search is applied in the service
// layer as a case-insensitive substring match over display fields.
type ContentFilter struct {
	SemesterID *int64
	Search     string
}
