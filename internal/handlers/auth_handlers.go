package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"realview/internal/common"
	"realview/internal/models"
	"realview/internal/repositories"
	"realview/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService services.AuthService
}

func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	models.TokenResponse
	User *models.User `json:"user"`
}

func clientKey(c echo.Context, email string) string {
	return strings.ToLower(strings.TrimSpace(email)) + ":" + c.RealIP()
}

// Signup handles user registration. ADMIN cannot self-register.
func (h *AuthHandlers) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req services.SignupInput
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	user, err := h.authService.Signup(ctx, &req)
	if err != nil {
		var vErr *services.ValidationError
		switch {
		case errors.As(err, &vErr):
			return common.SendValidationError(c, vErr.Field, vErr.Message)
		case errors.Is(err, repositories.ErrEmailTaken):
			return common.SendConflictError(c, "Email already exists")
		default:
			log.Printf("ERROR: signup failed: %v", err)
			return common.SendServerError(c, "Failed to create user")
		}
	}

	return c.JSON(http.StatusCreated, user)
}

// Login handles buyer and agent login. Admin accounts are pointed at the
// admin endpoint and never receive a token here.
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return common.SendClientError(c, "Email and password are required")
	}

	token, user, err := h.authService.Login(ctx, req.Email, req.Password, req.Role, clientKey(c, req.Email))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return common.SendUnauthorizedError(c, "Invalid email or password")
		case errors.Is(err, services.ErrUseAdminEndpoint):
			return common.SendForbiddenError(c, "Use the admin login endpoint")
		case errors.Is(err, services.ErrTooManyAttempts):
			return common.SendRateLimitedError(c)
		default:
			log.Printf("ERROR: login failed: %v", err)
			return common.SendServerError(c, "Login failed")
		}
	}

	return c.JSON(http.StatusOK, LoginResponse{TokenResponse: *token, User: user})
}

// AdminLogin issues the short-lived elevated token. All failures share one
// generic message.
func (h *AuthHandlers) AdminLogin(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return common.SendClientError(c, "Email and password are required")
	}

	token, user, err := h.authService.AdminLogin(ctx, req.Email, req.Password, clientKey(c, req.Email))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return common.SendUnauthorizedError(c, "Invalid credentials")
		case errors.Is(err, services.ErrTooManyAttempts):
			return common.SendRateLimitedError(c)
		default:
			log.Printf("ERROR: admin login failed: %v", err)
			return common.SendServerError(c, "Login failed")
		}
	}

	return c.JSON(http.StatusOK, LoginResponse{TokenResponse: *token, User: user})
}

// ForgotPasswordRequest represents the forgot-password payload
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword accepts any email and answers identically whether or not
// an account exists.
func (h *AuthHandlers) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()

	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateEmail(req.Email); err != nil {
		return common.SendValidationError(c, "email", err.Error())
	}

	if err := h.authService.ForgotPassword(ctx, req.Email); err != nil {
		log.Printf("ERROR: forgot password failed: %v", err)
		return common.SendServerError(c, "Request failed")
	}

	return c.JSON(http.StatusAccepted, map[string]string{
		"message": "If an account exists for that email, a reset link has been sent",
	})
}

// ResetPasswordRequest represents the reset-password payload
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (h *AuthHandlers) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()

	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Token == "" {
		return common.SendValidationError(c, "token", "token is required")
	}

	if err := h.authService.ResetPassword(ctx, req.Token, req.NewPassword); err != nil {
		var vErr *services.ValidationError
		switch {
		case errors.As(err, &vErr):
			return common.SendValidationError(c, vErr.Field, vErr.Message)
		case errors.Is(err, services.ErrInvalidToken):
			return common.SendClientError(c, "Invalid or expired token")
		default:
			log.Printf("ERROR: password reset failed: %v", err)
			return common.SendServerError(c, "Reset failed")
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Password reset successfully"})
}
