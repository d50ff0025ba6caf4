package background

import (
	"context"
	"log"
	"sync"
	"time"

	"realview/internal/handlers"
	"realview/internal/services"

	"github.com/go-co-op/gocron/v2"
)

const staleDraftAge = 30 * 24 * time.Hour

// JobScheduler manages recurring background jobs.
type JobScheduler struct {
	scheduler   gocron.Scheduler
	dashboard   *handlers.DashboardHandlers
	propertySvc services.PropertyService
	jobs        map[string]gocron.Job
	mu          sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(dashboard *handlers.DashboardHandlers, propertySvc services.PropertyService) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:   scheduler,
		dashboard:   dashboard,
		propertySvc: propertySvc,
		jobs:        make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	// Admin analytics refresh - every 5 minutes
	statsJob, err := js.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(js.refreshAdminStats),
		gocron.WithName("admin-stats-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create stats refresh job: %v", err)
	} else {
		js.jobs["admin-stats-refresh"] = statsJob
	}

	// Stale draft cleanup - daily
	reaperJob, err := js.scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(js.reapStaleDrafts),
		gocron.WithName("stale-draft-reaper"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create stale draft reaper job: %v", err)
	} else {
		js.jobs["stale-draft-reaper"] = reaperJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

// refreshAdminStats recomputes platform counters so the analytics
// endpoint serves warm cache entries.
func (js *JobScheduler) refreshAdminStats() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := js.dashboard.RefreshAdminStats(ctx); err != nil {
		log.Printf("Failed to refresh admin stats: %v", err)
		return err
	}
	return nil
}

// reapStaleDrafts removes draft listings untouched for over 30 days.
func (js *JobScheduler) reapStaleDrafts() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-staleDraftAge)
	removed, err := js.propertySvc.ReapStaleDrafts(ctx, cutoff)
	if err != nil {
		log.Printf("Failed to reap stale drafts: %v", err)
		return err
	}
	if removed > 0 {
		log.Printf("Removed %d stale draft listings", removed)
	}
	return nil
}

// GetJobStatus returns information about scheduled jobs
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}

	return map[string]interface{}{
		"total_jobs": len(js.jobs),
		"jobs":       names,
	}
}
