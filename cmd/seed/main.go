package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/equiptrack/backend/internal/database"
	"github.com/equiptrack/backend/internal/models"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// UserData represents the structure of users in the seed file
type UserData struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// EquipmentData represents the structure of equipment in the seed file
type EquipmentData struct {
	Name         string `json:"name"`
	SerialNumber string `json:"serialNumber"`
	Category     string `json:"category"`
	Location     string `json:"location"`
	Description  string `json:"description"`
}

// JSONData represents the structure of the seed file
type JSONData struct {
	Users     []UserData      `json:"users"`
	Equipment []EquipmentData `json:"equipment"`
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Connect to database
	database.Connect()

	// Run migrations first
	log.Println("Running database migrations...")
	database.AutoMigrate()

	log.Println("Seeding database with sample data...")

	data, err := loadSeedData()
	if err != nil {
		log.Fatalf("Failed to load seed data: %v", err)
	}

	if err := seedUsers(data.Users); err != nil {
		log.Printf("Error seeding users: %v", err)
	}
	if err := seedEquipment(data.Equipment); err != nil {
		log.Printf("Error seeding equipment: %v", err)
	}

	log.Println("✅ Database seeding completed successfully!")
}

func loadSeedData() (*JSONData, error) {
	seedFile := os.Getenv("SEED_FILE")
	if seedFile == "" {
		seedFile = "data/initial-data.json"
	}

	raw, err := os.ReadFile(seedFile)
	if err != nil {
		return nil, err
	}

	var data JSONData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func seedUsers(users []UserData) error {
	for _, userData := range users {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(userData.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Error hashing password for %s: %v", userData.Email, err)
			continue
		}

		var role models.UserRole
		switch userData.Role {
		case "admin":
			role = models.RoleAdmin
		case "handler":
			role = models.RoleHandler
		case "technician":
			role = models.RoleTechnician
		case "student":
			role = models.RoleStudent
		default:
			log.Printf("Unknown role %s for user %s, defaulting to student", userData.Role, userData.Email)
			role = models.RoleStudent
		}

		user := models.User{
			Email:     userData.Email,
			Password:  string(hashedPassword),
			FirstName: userData.FirstName,
			LastName:  userData.LastName,
			Role:      role,
		}

		var existing models.User
		if err := database.DB.Where("email = ?", user.Email).First(&existing).Error; err != nil {
			if err := database.DB.Create(&user).Error; err != nil {
				log.Printf("Error creating user %s: %v", user.Email, err)
			} else {
				log.Printf("✅ Created user: %s (%s)", user.Email, user.Role)
			}
		} else {
			log.Printf("⚠️  User already exists: %s", user.Email)
		}
	}

	return nil
}

func seedEquipment(items []EquipmentData) error {
	for _, item := range items {
		equipment := models.Equipment{
			Name:         item.Name,
			SerialNumber: item.SerialNumber,
			Category:     item.Category,
			Location:     item.Location,
			Description:  item.Description,
			Status:       models.EquipmentAvailable,
		}

		var existing models.Equipment
		if err := database.DB.Where("serial_number = ?", equipment.SerialNumber).First(&existing).Error; err != nil {
			if err := database.DB.Create(&equipment).Error; err != nil {
				log.Printf("Error creating equipment %s: %v", equipment.Name, err)
			} else {
				log.Printf("✅ Created equipment: %s (%s)", equipment.Name, equipment.SerialNumber)
			}
		} else {
			log.Printf("⚠️  Equipment already exists: %s", equipment.SerialNumber)
		}
	}

	return nil
}
