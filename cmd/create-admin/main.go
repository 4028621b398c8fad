package main

import (
	"flag"
	"fmt"
	"log"

	"eventease/internal/config"
	"eventease/internal/database"
	"eventease/internal/models"
	"eventease/internal/repositories"
	"eventease/internal/utils"
)

// create-admin provisions an administrator account. Admins cannot be
// created through signup, so this is the only way to mint one.
func main() {
	email := flag.String("email", "", "Admin email address")
	name := flag.String("name", "Administrator", "Admin display name")
	password := flag.String("password", "", "Admin password")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("Both -email and -password are required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	userRepo := repositories.NewUserRepository(db.DB)

	if existing, err := userRepo.GetByEmail(*email); err == nil {
		fmt.Printf("User %s already exists with ID %d\n", existing.Email, existing.ID)
		if existing.Role == models.RoleAdmin {
			return
		}
		if err := userRepo.UpdateRole(existing.ID, models.RoleAdmin); err != nil {
			log.Fatalf("Failed to promote user to admin: %v", err)
		}
		fmt.Println("Promoted existing user to admin")
		return
	}

	hasher := utils.NewHasher(uint32(cfg.Auth.HashMemoryKiB), uint32(cfg.Auth.HashIterations), uint8(cfg.Auth.HashParallelism))
	hash, err := hasher.Hash(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user, err := userRepo.Create(*email, hash, *name, models.RoleAdmin)
	if err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
	fmt.Printf("Created admin user %s with ID %d\n", user.Email, user.ID)
}
