// Command createadmin provisions an ADMIN account. Admin accounts cannot
// be created through the signup endpoint.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/google/uuid"

	"realview/internal/common"
	"realview/internal/models"
	"realview/internal/repositories"
	"realview/internal/services"
	"realview/pkg/database"
)

func main() {
	name := flag.String("name", "", "admin display name")
	email := flag.String("email", "", "admin email address")
	phone := flag.String("phone", "", "admin phone number")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	if *name == "" || *email == "" || *phone == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := common.ValidateEmail(*email); err != nil {
		log.Fatalf("Invalid email: %v", err)
	}
	if err := common.ValidatePhone(*phone); err != nil {
		log.Fatalf("Invalid phone: %v", err)
	}
	if err := common.ValidatePassword(*password); err != nil {
		log.Fatalf("Invalid password: %v", err)
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}

	hash, err := services.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	userRepo := repositories.NewUserRepo(pool)
	admin := &models.User{
		ID:           uuid.New(),
		Name:         *name,
		Email:        *email,
		Phone:        *phone,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}

	if err := userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			log.Fatalf("An account with email %s already exists", *email)
		}
		log.Fatalf("Failed to create admin: %v", err)
	}

	log.Printf("Admin account created: %s (%s)", admin.Email, admin.ID)
}
