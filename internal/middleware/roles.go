package middleware

import (
	"net/http"

	"realview/internal/common"
	"realview/internal/models"
	"realview/internal/services"

	"github.com/labstack/echo/v4"
)

// RequireRole gates a route to an allow-list of roles. It runs after
// JWTMiddleware and only reads the identity that middleware attached.
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			role, ok := common.GetUserRoleFromContext(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}

			for _, allowed := range allowedRoles {
				if role == allowed {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
		}
	}
}

// RequireAdmin is the single-role case, tightened further: the role must be
// ADMIN and the token must be one issued by the admin login endpoint.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			role, ok := common.GetUserRoleFromContext(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}
			purpose, _ := common.GetTokenPurposeFromContext(ctx)
			if role != models.RoleAdmin || purpose != services.TokenPurposeAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "Admins only")
			}
			return next(c)
		}
	}
}
