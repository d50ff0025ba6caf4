package handlers

import (
	"errors"
	"log"
	"net/http"

	"realview/internal/common"
	"realview/internal/repositories"

	"github.com/labstack/echo/v4"
)

// ProfileHandlers serves the authenticated user's own record.
type ProfileHandlers struct {
	userRepo repositories.UserRepository
}

func NewProfileHandlers(userRepo repositories.UserRepository) *ProfileHandlers {
	return &ProfileHandlers{userRepo: userRepo}
}

// Me returns the current user's profile.
func (h *ProfileHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "User not authenticated")
	}

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "User")
		}
		log.Printf("ERROR: failed to fetch profile: %v", err)
		return common.SendServerError(c, "Profile fetch failed")
	}

	return c.JSON(http.StatusOK, user)
}

// UpdateProfileRequest carries the editable profile fields. Email and role
// are immutable.
type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (h *ProfileHandlers) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "User not authenticated")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return common.SendValidationError(c, "name", err.Error())
	}
	if err := common.ValidatePhone(req.Phone); err != nil {
		return common.SendValidationError(c, "phone", err.Error())
	}

	if err := h.userRepo.UpdateProfile(ctx, userID, req.Name, req.Phone); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "User")
		}
		log.Printf("ERROR: failed to update profile: %v", err)
		return common.SendServerError(c, "Profile update failed")
	}

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("ERROR: failed to reload profile: %v", err)
		return common.SendServerError(c, "Profile update failed")
	}
	return c.JSON(http.StatusOK, user)
}
