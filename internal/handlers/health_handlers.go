package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// HealthHandlers handles health check endpoints
type HealthHandlers struct {
	db *pgxpool.Pool
}

func NewHealthHandlers(db *pgxpool.Pool) *HealthHandlers {
	return &HealthHandlers{db: db}
}

// HealthCheck is the basic liveness probe.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck reports whether the service can serve traffic.
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.checkDatabase(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "Database unavailable",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}

func (h *HealthHandlers) checkDatabase(ctx context.Context) error {
	_, err := h.db.Exec(ctx, "SELECT 1")
	return err
}
