package common

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey       contextKey = "user_id"
	UserRoleKey     contextKey = "user_role"
	TokenPurposeKey contextKey = "token_purpose"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]string{
		field: message,
	}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", "Validation failed", details))
}

// SendClientError sends a client error response
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", message, nil))
}

// SendServerError sends a server error response
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", message, nil))
}

// SendNotFoundError sends a not found error response
func SendNotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", fmt.Sprintf("%s not found", resource), nil))
}

// SendUnauthorizedError sends an unauthorized error response
func SendUnauthorizedError(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, CreateErrorResponse("UNAUTHORIZED", message, nil))
}

// SendForbiddenError sends a forbidden error response
func SendForbiddenError(c echo.Context, message string) error {
	return c.JSON(http.StatusForbidden, CreateErrorResponse("FORBIDDEN", message, nil))
}

// SendConflictError sends a conflict error response
func SendConflictError(c echo.Context, message string) error {
	return c.JSON(http.StatusConflict, CreateErrorResponse("CONFLICT", message, nil))
}

// SendRateLimitedError sends a rate limited error response
func SendRateLimitedError(c echo.Context) error {
	return c.JSON(http.StatusTooManyRequests, CreateErrorResponse("RATE_LIMITED", "Too many attempts, try again later", nil))
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^(?:\+233|0)\d{9}$`)
)

// ValidateEmail validates email shape. Comparison elsewhere is done on the
// lowercased form; storage keeps the original casing.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email is required")
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePhone validates phone numbers against the regional format
// (+233XXXXXXXXX or 0XXXXXXXXX).
func ValidatePhone(phone string) error {
	if strings.TrimSpace(phone) == "" {
		return fmt.Errorf("phone is required")
	}
	if !phonePattern.MatchString(phone) {
		return fmt.Errorf("invalid phone number format")
	}
	return nil
}

// ValidatePassword enforces the password policy: at least 8 characters with
// one uppercase, one lowercase, one digit and one symbol.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		return fmt.Errorf("password must contain an uppercase letter, a lowercase letter, a digit and a symbol")
	}
	return nil
}

// ValidateRequiredString validates required string fields
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidatePositivePrice validates listing prices
func ValidatePositivePrice(price float64) error {
	if price <= 0 {
		return fmt.Errorf("price must be positive")
	}
	if price > 1000000000.00 {
		return fmt.Errorf("price cannot exceed 1,000,000,000")
	}
	return nil
}

// ValidateUUIDParam parses a path parameter as a UUID.
func ValidateUUIDParam(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", fieldName)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s is not a valid id", fieldName)
	}
	return id, nil
}

// ValidatePaginationParams clamps pagination parameters to sane bounds.
func ValidatePaginationParams(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20 // Default
	}
	if limit > 100 {
		limit = 100 // Maximum
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// SanitizeSearchQuery strips LIKE wildcards from user-supplied search text.
// Queries are parameterized; this only keeps wildcards out of the pattern.
func SanitizeSearchQuery(query string) string {
	query = strings.ReplaceAll(query, "%", "")
	query = strings.ReplaceAll(query, "_", "")
	if len(query) > 100 {
		query = query[:100]
	}
	return strings.TrimSpace(query)
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetUserRoleFromContext extracts the user role from the request context
func GetUserRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(UserRoleKey).(string)
	return role, ok
}

// GetTokenPurposeFromContext extracts the token purpose from the request context
func GetTokenPurposeFromContext(ctx context.Context) (string, bool) {
	purpose, ok := ctx.Value(TokenPurposeKey).(string)
	return purpose, ok
}

// WithIdentity attaches the authenticated identity to a context.
func WithIdentity(ctx context.Context, userID uuid.UUID, role, tokenPurpose string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	ctx = context.WithValue(ctx, UserRoleKey, role)
	return context.WithValue(ctx, TokenPurposeKey, tokenPurpose)
}
