package main

import (
	"log"
	"os"

	"forbill/internal/config"
	"forbill/internal/models"
	"forbill/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// Seeds the admin operator account and the launch provider set.
func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminPhone := os.Getenv("ADMIN_PHONE")

	if adminEmail == "" || adminPassword == "" || adminPhone == "" {
		log.Fatal("ADMIN_EMAIL, ADMIN_PASSWORD, and ADMIN_PHONE must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if repositories.DB != nil {
			sqlDB, err := repositories.DB.DB()
			if err != nil {
				log.Printf("⚠️ Failed to get SQL DB instance: %v", err)
			} else if err := sqlDB.Close(); err != nil {
				log.Printf("⚠️ Failed to close database connection: %v", err)
			}
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("⚠️ Failed to close Redis connection: %v", err)
			}
		}
	}()

	seedAdmin(adminEmail, adminPassword, adminPhone)
	seedProviders()
}

func seedAdmin(email, password, phone string) {
	var existing models.User
	if err := repositories.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Println("Admin user already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := models.User{
		Name:     "ForBill Admin",
		Email:    email,
		Password: string(hashed),
		Phone:    phone,
		Role:     "admin",
		IsActive: true,
	}
	if err := repositories.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}
	log.Println("✅ Admin account created successfully!")
}

func seedProviders() {
	providers := []models.Provider{
		{Name: "MTN Nigeria", Code: "mtn"},
		{Name: "Airtel Nigeria", Code: "airtel"},
		{Name: "Globacom", Code: "glo"},
		{Name: "9Mobile", Code: "9mobile"},
	}

	endpoint := config.GetEnv("VTU_API_ENDPOINT", "https://vtu.example.com/api/v1")
	apiKey := os.Getenv("VTU_API_KEY")
	secretKey := os.Getenv("VTU_SECRET_KEY")

	for _, p := range providers {
		var existing models.Provider
		if err := repositories.DB.Where("code = ?", p.Code).First(&existing).Error; err == nil {
			log.Printf("Provider %s already exists", p.Code)
			continue
		}

		p.APIEndpoint = endpoint
		p.APIKey = apiKey
		p.SecretKey = secretKey
		p.ServiceType = models.ProviderServiceBoth
		p.IsActive = true
		p.CommissionRate = 0.02
		p.Settings = models.JSON{
			"min_amount": 50,
			"max_amount": 50000,
		}

		if err := repositories.DB.Create(&p).Error; err != nil {
			log.Fatalf("Failed to seed provider %s: %v", p.Code, err)
		}
		log.Printf("✅ Seeded provider %s", p.Code)
	}
}
