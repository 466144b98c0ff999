package models

import "time"

// Role enumerates dashboard permissions.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCashier   Role = "cashier"
	RoleInventory Role = "inventory"
)

// User is the profile row attached to an authenticated identity.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	IsActive  bool       `json:"is_active"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// UserUpdate carries the profile fields an administrator may change.
type UserUpdate struct {
	Name     *string `json:"name,omitempty" binding:"omitnil,min=1"`
	Role     *Role   `json:"role,omitempty" binding:"omitnil,oneof=admin cashier inventory"`
	IsActive *bool   `json:"is_active,omitempty"`
}
