package services

import (
	"context"
	"strings"
	"time"

	"realview/internal/common"
	"realview/internal/models"
	"realview/internal/repositories"

	"github.com/google/uuid"
)

type LeadInput struct {
	PropertyID string `json:"property_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Message    string `json:"message"`
}

type LeadService interface {
	Create(ctx context.Context, input *LeadInput) (*models.Lead, error)
	List(ctx context.Context, requesterID uuid.UUID, requesterRole string, limit, offset int) ([]*models.Lead, int64, error)
	UpdateStatus(ctx context.Context, leadID, requesterID uuid.UUID, requesterRole, status string) error
}

type leadService struct {
	leadRepo repositories.LeadRepository
}

func NewLeadService(leadRepo repositories.LeadRepository) LeadService {
	return &leadService{leadRepo: leadRepo}
}

// Create records a buyer inquiry. No authentication and no ownership check;
// the foreign key is what rejects an unknown property id.
func (s *leadService) Create(ctx context.Context, input *LeadInput) (*models.Lead, error) {
	propertyID, err := common.ValidateUUIDParam(input.PropertyID, "property_id")
	if err != nil {
		return nil, &ValidationError{Field: "property_id", Message: err.Error()}
	}
	if err := common.ValidateRequiredString(input.Name, "name"); err != nil {
		return nil, &ValidationError{Field: "name", Message: err.Error()}
	}
	if err := common.ValidateEmail(input.Email); err != nil {
		return nil, &ValidationError{Field: "email", Message: err.Error()}
	}

	lead := &models.Lead{
		ID:         uuid.New(),
		PropertyID: propertyID,
		Name:       strings.TrimSpace(input.Name),
		Email:      strings.TrimSpace(input.Email),
		Phone:      strings.TrimSpace(input.Phone),
		Message:    strings.TrimSpace(input.Message),
		Status:     models.LeadStatusNew,
		CreatedAt:  time.Now(),
	}

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// List returns every lead for an admin and only leads on owned properties
// for an agent. The agent filter lives in the SQL join, not here.
func (s *leadService) List(ctx context.Context, requesterID uuid.UUID, requesterRole string, limit, offset int) ([]*models.Lead, int64, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	if requesterRole == models.RoleAdmin {
		return s.leadRepo.ListAll(ctx, limit, offset)
	}
	return s.leadRepo.ListByAgent(ctx, requesterID, limit, offset)
}

// UpdateStatus moves a lead to any valid status; there is no ordering
// between lead statuses.
func (s *leadService) UpdateStatus(ctx context.Context, leadID, requesterID uuid.UUID, requesterRole, status string) error {
	status = strings.ToUpper(strings.TrimSpace(status))
	if !models.ValidLeadStatus(status) {
		return &ValidationError{Field: "status", Message: "status must be one of NEW, CONTACTED, QUALIFIED, LOST"}
	}

	if requesterRole == models.RoleAdmin {
		return s.leadRepo.UpdateStatus(ctx, leadID, status)
	}
	return s.leadRepo.UpdateStatusByAgent(ctx, leadID, requesterID, status)
}
