package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB opens the database named by the environment. DB_DRIVER selects the
// backend: "mysql" (default) builds a DSN from DB_USER/DB_PASS/DB_HOST/
// DB_PORT/DB_NAME, "sqlite" opens DB_PATH (default restaurant.db).
func InitDB() (*gorm.DB, error) {
	switch os.Getenv("DB_DRIVER") {
	case "sqlite":
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "restaurant.db"
		}
		return gorm.Open(sqlite.Open(path), &gorm.Config{})
	default:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			getenv("DB_USER", "root"),
			os.Getenv("DB_PASS"),
			getenv("DB_HOST", "127.0.0.1"),
			getenv("DB_PORT", "3306"),
			getenv("DB_NAME", "restaurant"),
		)
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
