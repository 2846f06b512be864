package database

import (
	"log"

	"foodshop-backend/internal/config"
	"foodshop-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}

	err = DB.AutoMigrate(
		// Reference data first; everything below points at it.
		&models.Unit{},
		&models.IngredientCategory{},
		&models.MenuCategory{},
		&models.DiningTable{},
		&models.Department{},
		&models.Position{},
		&models.Supplier{},
		&models.User{},
		&models.StaffProfile{},
		&models.Ingredient{},
		&models.InventoryLot{},
		&models.MenuItem{},
		&models.RecipeItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("Database connected, migration complete.")
}
