package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"realview/internal/common"
	"realview/internal/models"
	"realview/internal/repositories"
	"realview/internal/services"

	"github.com/labstack/echo/v4"
)

// LeadHandlers handles buyer inquiry HTTP requests
type LeadHandlers struct {
	leadSvc services.LeadService
}

func NewLeadHandlers(leadSvc services.LeadService) *LeadHandlers {
	return &LeadHandlers{leadSvc: leadSvc}
}

// CreateLead records an inquiry against a property. No authentication
// required.
func (h *LeadHandlers) CreateLead(c echo.Context) error {
	ctx := c.Request().Context()

	var req services.LeadInput
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	lead, err := h.leadSvc.Create(ctx, &req)
	if err != nil {
		var vErr *services.ValidationError
		switch {
		case errors.As(err, &vErr):
			return common.SendValidationError(c, vErr.Field, vErr.Message)
		case errors.Is(err, repositories.ErrNotFound):
			return common.SendNotFoundError(c, "Property")
		default:
			log.Printf("ERROR: failed to create lead: %v", err)
			return common.SendServerError(c, "Failed to create lead")
		}
	}

	return c.JSON(http.StatusCreated, lead)
}

// ListLeads shows an admin everything and an agent only leads on their own
// properties.
func (h *LeadHandlers) ListLeads(c echo.Context) error {
	ctx := c.Request().Context()

	requesterID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "User not authenticated")
	}
	requesterRole, _ := common.GetUserRoleFromContext(ctx)

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	leads, total, err := h.leadSvc.List(ctx, requesterID, requesterRole, limit, offset)
	if err != nil {
		log.Printf("ERROR: failed to list leads: %v", err)
		return common.SendServerError(c, "Failed to fetch leads")
	}
	if leads == nil {
		leads = []*models.Lead{}
	}

	return c.JSON(http.StatusOK, ListResponse{Data: leads, Total: total, Limit: limit, Offset: offset})
}

// UpdateLeadStatusRequest is the status change payload.
type UpdateLeadStatusRequest struct {
	Status string `json:"status"`
}

// UpdateLeadStatus moves a lead between statuses; agents are join-filtered
// to their own properties' leads.
func (h *LeadHandlers) UpdateLeadStatus(c echo.Context) error {
	ctx := c.Request().Context()

	requesterID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "User not authenticated")
	}
	requesterRole, _ := common.GetUserRoleFromContext(ctx)

	id, err := common.ValidateUUIDParam(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdateLeadStatusRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := h.leadSvc.UpdateStatus(ctx, id, requesterID, requesterRole, req.Status); err != nil {
		var vErr *services.ValidationError
		switch {
		case errors.As(err, &vErr):
			return common.SendValidationError(c, vErr.Field, vErr.Message)
		case errors.Is(err, repositories.ErrNotFound):
			return common.SendNotFoundError(c, "Lead")
		default:
			log.Printf("ERROR: failed to update lead %s: %v", id, err)
			return common.SendServerError(c, "Failed to update lead")
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Lead updated"})
}
