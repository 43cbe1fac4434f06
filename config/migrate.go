package config

import (
	"fmt"
	"os"

	"github.com/pressly/goose"
	"gorm.io/gorm"
)

// MigrationsDir is where the SQL migrations (triggers and functions that
// AutoMigrate cannot express) live.
func MigrationsDir() string {
	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" {
		return dir
	}
	return "migrations"
}

// RunMigrations applies the pending goose migrations on the gorm connection.
func RunMigrations(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(sqlDB, MigrationsDir()); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
