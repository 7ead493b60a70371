package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/littlelemon/restaurant-api/config"
	"github.com/littlelemon/restaurant-api/models"
	"github.com/littlelemon/restaurant-api/router"
	"github.com/littlelemon/restaurant-api/utils"
)

func init() {
	utils.InitLogger()

	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Printf("Warning: .env file not found: %v", err)
	}
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	r := router.SetupRouter(db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Category{},
		&models.MenuItem{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}

	// The two role groups must exist before membership management is usable.
	for _, name := range []string{models.GroupManager, models.GroupDeliveryCrew} {
		var group models.Group
		if err := db.FirstOrCreate(&group, models.Group{Name: name}).Error; err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed group %s: %v", name, err)
		}
	}

	utils.InfoLogger.Println("AutoMigrate completed.")
}
