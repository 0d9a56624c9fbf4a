package main

import (
	"log"
	"os"

	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/config"
	"github.com/Zeeion12/Gudang-Hoda-Plafon/internal/model"
	"github.com/Zeeion12/Gudang-Hoda-Plafon/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Operational escape hatch: resets the admin password directly in the
// database. Usage: reset-password [email] [new-password]
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	email := cfg.AdminEmail
	newPassword := cfg.AdminPassword
	if len(os.Args) > 1 {
		email = os.Args[1]
	}
	if len(os.Args) > 2 {
		newPassword = os.Args[2]
	}

	var user model.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		log.Fatalf("User %s not found in database: %v", email, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	if err := db.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		log.Fatalf("Failed to update password in DB: %v", err)
	}

	log.Printf("Password for %s has been reset", email)
}
