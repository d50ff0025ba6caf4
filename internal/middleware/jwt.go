package middleware

import (
	"net/http"
	"strings"

	"realview/internal/common"
	"realview/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// JWTMiddleware extracts the bearer token, verifies it and attaches the
// resolved identity to the request context. Missing, malformed, tampered and
// expired tokens all produce the same 401.
func JWTMiddleware(tokenSvc services.TokenService) echo.MiddlewareFunc {
	return jwtMiddleware(tokenSvc, false)
}

// OptionalJWTMiddleware is JWTMiddleware for public routes whose response
// depends on who is asking: no header means anonymous, a bad header is still
// rejected.
func OptionalJWTMiddleware(tokenSvc services.TokenService) echo.MiddlewareFunc {
	return jwtMiddleware(tokenSvc, true)
}

func jwtMiddleware(tokenSvc services.TokenService, optional bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				if optional {
					return next(c)
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token format")
			}

			claims, err := tokenSvc.Verify(tokenString, services.TokenPurposeSession)
			if err != nil {
				claims, err = tokenSvc.Verify(tokenString, services.TokenPurposeAdmin)
			}
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			ctx := common.WithIdentity(c.Request().Context(), userID, claims.Role, claims.Purpose)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
