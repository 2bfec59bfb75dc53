package users

import (
	"time"

	"opsdesk/internal/rbac"
)

// User is the flat account record. PasswordHash never leaves this package in
// API responses; handlers serialize through their own response types.
type User struct {
	ID           string
	Name         string
	Email        string
	Role         rbac.Role
	PasswordHash []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Update carries optional field changes; nil means "leave as is".
type Update struct {
	Name  *string
	Email *string
	Role  *rbac.Role
}
