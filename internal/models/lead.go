package models

import (
	"time"

	"github.com/google/uuid"
)

// Lead statuses. No ordering is enforced between them; an agent can move a
// lead from any status to any other.
const (
	LeadStatusNew       = "NEW"
	LeadStatusContacted = "CONTACTED"
	LeadStatusQualified = "QUALIFIED"
	LeadStatusLost      = "LOST"
)

type Lead struct {
	ID         uuid.UUID `json:"id" db:"id"`
	PropertyID uuid.UUID `json:"property_id" db:"property_id"`
	Name       string    `json:"name" db:"name"`
	Email      string    `json:"email" db:"email"`
	Phone      string    `json:"phone" db:"phone"`
	Message    string    `json:"message" db:"message"`
	Status     string    `json:"status" db:"status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// ValidLeadStatus reports whether status is one of the known lead statuses.
func ValidLeadStatus(status string) bool {
	switch status {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusLost:
		return true
	}
	return false
}
