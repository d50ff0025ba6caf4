package models

import (
	"time"

	"github.com/google/uuid"
)

// Roles a user account can carry. ADMIN is never self-registered; it is
// provisioned out-of-band by cmd/createadmin.
const (
	RoleBuyer = "BUYER"
	RoleAgent = "AGENT"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Phone        string    `json:"phone" db:"phone"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize in JSON
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ValidSignupRole reports whether a role may be chosen at signup.
func ValidSignupRole(role string) bool {
	return role == RoleBuyer || role == RoleAgent
}
