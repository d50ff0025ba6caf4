package models

import (
	"time"

	"github.com/google/uuid"
)

// Property listing statuses. A listing enters the marketplace as DRAFT or
// PENDING and only an admin review moves it to APPROVED or REJECTED.
const (
	PropertyStatusDraft    = "DRAFT"
	PropertyStatusPending  = "PENDING"
	PropertyStatusApproved = "APPROVED"
	PropertyStatusRejected = "REJECTED"
)

// Review actions an admin may take on a PENDING listing.
const (
	ReviewActionApprove = "APPROVED"
	ReviewActionReject  = "REJECTED"
)

type Property struct {
	ID              uuid.UUID `json:"id" db:"id"`
	AgentID         uuid.UUID `json:"agent_id" db:"agent_id"`
	Title           string    `json:"title" db:"title"`
	Description     *string   `json:"description" db:"description"`
	Price           float64   `json:"price" db:"price"`
	Location        string    `json:"location" db:"location"`
	Dimensions      *string   `json:"dimensions" db:"dimensions"`
	Images          []string  `json:"images" db:"images"`
	Status          string    `json:"status" db:"status"`
	RejectionReason *string   `json:"rejection_reason,omitempty" db:"rejection_reason"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// PropertySearchFilter holds search and pagination criteria for the public
// property list.
type PropertySearchFilter struct {
	Query  string `json:"query,omitempty"` // Matches title and location
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// PropertyUpdate carries the mutable listing fields. Nil fields are left
// untouched; status is never changed through an update.
type PropertyUpdate struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Location    *string  `json:"location"`
	Dimensions  *string  `json:"dimensions"`
}
