package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"realview/internal/caching"
	"realview/internal/config"
	"realview/internal/handlers"
	"realview/internal/jobs/background"
	"realview/internal/middleware"
	"realview/internal/models"
	"realview/internal/repositories"
	"realview/internal/services"
	"realview/pkg/database"
)

func main() {
	ctx := context.Background()

	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(ctx, databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generated secret for development
		log.Printf("WARNING: JWT_SECRET not set, using generated secret")
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"
	minioBucket := os.Getenv("MINIO_BUCKET")
	if minioBucket == "" {
		minioBucket = "realview-listings"
	}

	storageSvc, err := services.NewMinioStorage(minioEndpoint, minioAccessKey, minioSecretKey, minioBucket, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize storage service: %v", err)
	}
	if err := storageSvc.EnsureBucketExists(ctx); err != nil {
		log.Fatalf("Failed to ensure storage bucket: %v", err)
	}

	// Mailer configuration
	mailerConfigPath := os.Getenv("MAILER_CONFIG")
	if mailerConfigPath == "" {
		mailerConfigPath = "configs/mailer.toml"
	}
	mailerCfg, err := config.LoadMailerConfig(mailerConfigPath)
	if err != nil {
		log.Fatalf("Failed to load mailer config: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	propertyRepo := repositories.NewPropertyRepo(pool)
	leadRepo := repositories.NewLeadRepo(pool)

	// Cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Services
	tokenSvc := services.NewTokenService(jwtSecret)
	mailerSvc := services.NewHTTPMailer(mailerCfg)
	authSvc := services.NewAuthService(userRepo, tokenSvc, cacheSvc, mailerSvc)
	propertySvc := services.NewPropertyService(propertyRepo, storageSvc, cacheSvc)
	leadSvc := services.NewLeadService(leadRepo)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authSvc)
	propertyHandlers := handlers.NewPropertyHandlers(propertySvc)
	leadHandlers := handlers.NewLeadHandlers(leadSvc)
	profileHandlers := handlers.NewProfileHandlers(userRepo)
	dashboardHandlers := handlers.NewDashboardHandlers(userRepo, propertyRepo, leadRepo, cacheSvc)
	healthHandlers := handlers.NewHealthHandlers(pool)

	// Background jobs
	scheduler := background.NewJobScheduler(dashboardHandlers, propertySvc)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer scheduler.Stop()

	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/signup", authHandlers.Signup)
	auth.POST("/login", authHandlers.Login)
	auth.POST("/admin/login", authHandlers.AdminLogin)
	auth.POST("/forgot-password", authHandlers.ForgotPassword)
	auth.POST("/reset-password", authHandlers.ResetPassword)

	// Public catalog routes
	e.GET("/properties", propertyHandlers.ListProperties)
	e.GET("/properties/:id", propertyHandlers.GetProperty, middleware.OptionalJWTMiddleware(tokenSvc))
	e.POST("/leads", leadHandlers.CreateLead)

	// Authenticated routes
	authed := e.Group("", middleware.JWTMiddleware(tokenSvc))
	authed.GET("/me", profileHandlers.Me)
	authed.PUT("/me", profileHandlers.UpdateProfile)
	authed.GET("/dashboard/stats", dashboardHandlers.GetDashboardStats)

	// Agent routes
	agent := authed.Group("", middleware.RequireRole(models.RoleAgent))
	agent.GET("/agent/properties", propertyHandlers.ListMyProperties)
	agent.POST("/properties", propertyHandlers.CreateProperty)
	agent.PATCH("/properties/:id", propertyHandlers.UpdateProperty)
	agent.DELETE("/properties/:id", propertyHandlers.DeleteProperty)
	agent.POST("/properties/:id/submit", propertyHandlers.SubmitProperty)

	// Lead management for agents and admins
	leads := authed.Group("", middleware.RequireRole(models.RoleAgent, models.RoleAdmin))
	leads.GET("/leads", leadHandlers.ListLeads)
	leads.PATCH("/leads/:id/status", leadHandlers.UpdateLeadStatus)

	// Admin routes require an admin-scoped token
	admin := authed.Group("/admin", middleware.RequireAdmin())
	admin.PATCH("/properties/:id/review", propertyHandlers.ReviewProperty)
	admin.GET("/analytics", dashboardHandlers.GetAdminAnalytics)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Fatal(e.Start(":" + port))
}
