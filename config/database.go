package config

import (
	"fmt"
	"log"
	"os"

	"github.com/sabelo-news/api-go/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DSN returns DATABASE_URL, or a keyword/value string built from the DB_*
// variables. Both forms are understood by gorm and by lib/pq's listener.
func DSN() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	sslMode := os.Getenv("DB_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"), os.Getenv("DB_PORT"), sslMode)
}

func ConnectDatabase() (*gorm.DB, error) {
	return gorm.Open(postgres.Open(DSN()), &gorm.Config{})
}

func InitDB() *gorm.DB {
	db, err := ConnectDatabase()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// gen_random_uuid() is built in from Postgres 13; pgcrypto covers older servers.
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto").Error; err != nil {
		log.Printf("Could not enable pgcrypto: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.RefreshToken{}, &models.News{}, &models.Comment{}, &models.Ad{}); err != nil {
		log.Fatal("Failed to migrate models:", err)
	}

	if err := RunMigrations(db); err != nil {
		log.Fatal("Failed to run SQL migrations:", err)
	}

	return db
}
