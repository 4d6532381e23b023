package model

import "time"

// Role names are stable identifiers referenced by route declarations.
// They must match the seeded rows exactly; typos here would silently
// deny (or grant) access, so every consumer uses these constants.
const (
	RoleSuperAdmin = "SuperAdministrador"
	RoleAdmin      = "Administrador"
	RoleUser       = "Usuario"
)

// Role is a named authorization label grantable to a user.
type Role struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Enable     bool      `json:"enable"`
	CreatedAt  time.Time `json:"created_at"`
	CreatedBy  string    `json:"created_by"`
	ModifiedAt time.Time `json:"modified_at"`
	ModifiedBy string    `json:"modified_by"`
}

// UserRole associates one user with one role. Each assignment is
// independently audited.
type UserRole struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	RoleID    int64     `json:"role_id"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`
}
