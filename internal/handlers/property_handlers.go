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

// PropertyHandlers handles property listing HTTP requests
type PropertyHandlers struct {
	propertySvc services.PropertyService
}

func NewPropertyHandlers(propertySvc services.PropertyService) *PropertyHandlers {
	return &PropertyHandlers{propertySvc: propertySvc}
}

// ListResponse is the paginated list envelope.
type ListResponse struct {
	Data   any   `json:"data"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// ListProperties returns the public marketplace: approved listings only,
// newest first, with optional search on title and location.
func (h *PropertyHandlers) ListProperties(c echo.Context) error {
	ctx := c.Request().Context()

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	filter := &models.PropertySearchFilter{
		Query:  c.QueryParam("search"),
		Limit:  limit,
		Offset: offset,
	}

	properties, total, err := h.propertySvc.ListApproved(ctx, filter)
	if err != nil {
		log.Printf("ERROR: failed to list properties: %v", err)
		return common.SendServerError(c, "Failed to fetch properties")
	}
	if properties == nil {
		properties = []*models.Property{}
	}

	return c.JSON(http.StatusOK, ListResponse{Data: properties, Total: total, Limit: filter.Limit, Offset: filter.Offset})
}

// GetProperty returns one listing. Non-approved listings read as absent to
// anyone but the owning agent or an admin.
func (h *PropertyHandlers) GetProperty(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUIDParam(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	requesterID, _ := common.GetUserIDFromContext(ctx)
	requesterRole, _ := common.GetUserRoleFromContext(ctx)

	property, err := h.propertySvc.GetVisible(ctx, id, requesterID, requesterRole)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "Property")
		}
		log.Printf("ERROR: failed to fetch property %s: %v", id, err)
		return common.SendServerError(c, "Failed to fetch property")
	}

	return c.JSON(http.StatusOK, property)
}

// ListMyProperties returns the requesting agent's own listings, every
// status included, rejection reasons visible.
func (h *PropertyHandlers) ListMyProperties(c echo.Context) error {
	ctx := c.Request().Context()

	agentID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "User not authenticated")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	properties, err := h.propertySvc.ListByAgent(ctx, agentID, limit, offset)
	if err != nil {
		log.Printf("ERROR: failed to list agent properties: %v", err)
		return common.SendServerError(c, "Failed to fetch properties")
	}
	if properties == nil {
		properties = []*models.Property{}
	}

	return c.JSON(http.StatusOK, map[string]any{"data": properties})
}

// CreateProperty accepts a multipart form: listing fields plus up to five
// image files under the "images" key.
func (h *PropertyHandlers) CreateProperty(c echo.Context) error {
	ctx := c.Request().Context()

	agentID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "User not authenticated")
	}

	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return common.SendValidationError(c, "price", "price must be a number")
	}

	input := &services.PropertyInput{
		Title:    c.FormValue("title"),
		Price:    price,
		Location: c.FormValue("location"),
	}
	if v := c.FormValue("description"); v != "" {
		input.Description = &v
	}
	if v := c.FormValue("dimensions"); v != "" {
		input.Dimensions = &v
	}

	var images []services.ImageUpload
	form, err := c.MultipartForm()
	if err == nil && form != nil {
		files := form.File["images"]
		if len(files) > services.MaxListingImages {
			return common.SendValidationError(c, "images", "at most 5 images allowed")
		}
		for _, fh := range files {
			src, err := fh.Open()
			if err != nil {
				return common.SendServerError(c, "Failed to read uploaded image")
			}
			defer src.Close()
			images = append(images, services.ImageUpload{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Reader:      src,
				Size:        fh.Size,
			})
		}
	}

	property, err := h.propertySvc.Create(ctx, agentID, input, images)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			return common.SendValidationError(c, vErr.Field, vErr.Message)
		}
		log.Printf("ERROR: failed to create property: %v", err)
		return common.SendServerError(c, "Failed to create property")
	}

	return c.JSON(http.StatusCreated, property)
}

// UpdateProperty mutates listing fields. Ownership is enforced inside the
// data layer; a listing owned by someone else reads as absent.
func (h *PropertyHandlers) UpdateProperty(c echo.Context) error {
	ctx := c.Request().Context()

	agentID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "User not authenticated")
	}

	id, err := common.ValidateUUIDParam(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var update models.PropertyUpdate
	if err := c.Bind(&update); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	property, err := h.propertySvc.Update(ctx, id, agentID, &update)
	if err != nil {
		var vErr *services.ValidationError
		switch {
		case errors.As(err, &vErr):
			return common.SendValidationError(c, vErr.Field, vErr.Message)
		case errors.Is(err, repositories.ErrNotFound):
			return common.SendNotFoundError(c, "Property")
		default:
			log.Printf("ERROR: failed to update property %s: %v", id, err)
			return common.SendServerError(c, "Failed to update property")
		}
	}

	return c.JSON(http.StatusOK, property)
}

func (h *PropertyHandlers) DeleteProperty(c echo.Context) error {
	ctx := c.Request().Context()

	agentID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "User not authenticated")
	}

	id, err := common.ValidateUUIDParam(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.propertySvc.Delete(ctx, id, agentID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "Property")
		}
		log.Printf("ERROR: failed to delete property %s: %v", id, err)
		return common.SendServerError(c, "Failed to delete property")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Property deleted"})
}

// SubmitProperty sends a DRAFT or REJECTED listing back into review.
func (h *PropertyHandlers) SubmitProperty(c echo.Context) error {
	ctx := c.Request().Context()

	agentID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "User not authenticated")
	}

	id, err := common.ValidateUUIDParam(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	property, err := h.propertySvc.Submit(ctx, id, agentID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return common.SendNotFoundError(c, "Property")
		case errors.Is(err, services.ErrNotPending):
			return common.SendConflictError(c, "Listing cannot be submitted from its current status")
		default:
			log.Printf("ERROR: failed to submit property %s: %v", id, err)
			return common.SendServerError(c, "Failed to submit property")
		}
	}

	return c.JSON(http.StatusOK, property)
}

// ReviewRequest is the admin review payload.
type ReviewRequest struct {
	Action string `json:"action"`
	Reason string `json:"reason,omitempty"`
}

// ReviewProperty applies the admin decision to a PENDING listing.
func (h *PropertyHandlers) ReviewProperty(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUIDParam(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	property, err := h.propertySvc.Review(ctx, id, req.Action, req.Reason)
	if err != nil {
		var vErr *services.ValidationError
		switch {
		case errors.As(err, &vErr):
			return common.SendValidationError(c, vErr.Field, vErr.Message)
		case errors.Is(err, repositories.ErrNotFound):
			return common.SendNotFoundError(c, "Property")
		case errors.Is(err, services.ErrNotPending):
			return common.SendConflictError(c, "Listing is not awaiting review")
		default:
			log.Printf("ERROR: failed to review property %s: %v", id, err)
			return common.SendServerError(c, "Failed to review property")
		}
	}

	return c.JSON(http.StatusOK, property)
}
