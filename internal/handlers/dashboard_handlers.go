package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"realview/internal/caching"
	"realview/internal/models"
	"realview/internal/repositories"

	"github.com/labstack/echo/v4"
)

const statsCacheTTL = 5 * time.Minute

// DashboardHandlers serves the read-only count aggregations behind the
// admin and user dashboards.
type DashboardHandlers struct {
	userRepo     repositories.UserRepository
	propertyRepo repositories.PropertyRepository
	leadRepo     repositories.LeadRepository
	cacheSvc     caching.CacheService
}

func NewDashboardHandlers(userRepo repositories.UserRepository, propertyRepo repositories.PropertyRepository, leadRepo repositories.LeadRepository, cacheSvc caching.CacheService) *DashboardHandlers {
	return &DashboardHandlers{
		userRepo:     userRepo,
		propertyRepo: propertyRepo,
		leadRepo:     leadRepo,
		cacheSvc:     cacheSvc,
	}
}

// AdminStats computes the admin analytics counters.
func (h *DashboardHandlers) AdminStats(ctx context.Context) (map[string]int64, error) {
	totalUsers, err := h.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalAgents, err := h.userRepo.CountByRole(ctx, models.RoleAgent)
	if err != nil {
		return nil, err
	}
	totalBuyers, err := h.userRepo.CountByRole(ctx, models.RoleBuyer)
	if err != nil {
		return nil, err
	}
	totalProperties, err := h.propertyRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalLeads, err := h.leadRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return map[string]int64{
		"totalUsers":      totalUsers,
		"totalAgents":     totalAgents,
		"totalBuyers":     totalBuyers,
		"totalProperties": totalProperties,
		"totalLeads":      totalLeads,
	}, nil
}

// RefreshAdminStats recomputes and caches the admin analytics. Also invoked
// from the background scheduler.
func (h *DashboardHandlers) RefreshAdminStats(ctx context.Context) (map[string]int64, error) {
	stats, err := h.AdminStats(ctx)
	if err != nil {
		return nil, err
	}
	if cacheErr := h.cacheSvc.SetStats(ctx, "admin", stats, statsCacheTTL); cacheErr != nil {
		log.Printf("WARN: failed to cache admin stats: %v", cacheErr)
	}
	return stats, nil
}

// GetAdminAnalytics serves the admin dashboard counters, cache first.
func (h *DashboardHandlers) GetAdminAnalytics(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.cacheSvc.GetStats(ctx, "admin")
	if err != nil {
		log.Printf("WARN: stats cache read failed: %v", err)
	}
	if stats == nil {
		stats, err = h.RefreshAdminStats(ctx)
		if err != nil {
			log.Printf("ERROR: failed to compute admin analytics: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch analytics")
		}
	}

	return c.JSON(http.StatusOK, stats)
}

// GetDashboardStats serves the basic counters any authenticated dashboard
// shows.
func (h *DashboardHandlers) GetDashboardStats(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.cacheSvc.GetStats(ctx, "dashboard")
	if err != nil {
		log.Printf("WARN: stats cache read failed: %v", err)
	}
	if stats == nil {
		properties, err := h.propertyRepo.Count(ctx)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Dashboard fetch failed")
		}
		leads, err := h.leadRepo.Count(ctx)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Dashboard fetch failed")
		}
		users, err := h.userRepo.Count(ctx)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Dashboard fetch failed")
		}
		stats = map[string]int64{"properties": properties, "leads": leads, "users": users}
		if cacheErr := h.cacheSvc.SetStats(ctx, "dashboard", stats, statsCacheTTL); cacheErr != nil {
			log.Printf("WARN: failed to cache dashboard stats: %v", cacheErr)
		}
	}

	return c.JSON(http.StatusOK, stats)
}
