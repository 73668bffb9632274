package database

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"minitwit/models"
)

const defaultSQLitePath = "./minitwit.db"

// Connect opens the database connection. SQLite is the default, with the
// file location taken from the DATABASE environment variable; when
// DB_HOST is set a remote PostgreSQL instance is used instead.
func Connect() (*gorm.DB, error) {
	if host := os.Getenv("DB_HOST"); host != "" {
		dsn := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=require",
			host,
			os.Getenv("DB_PORT"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
		)
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("error opening database: %w", err)
		}
		return db, nil
	}

	path := os.Getenv("DATABASE")
	if path == "" {
		path = defaultSQLitePath
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	return db, nil
}

// Migrate creates the minitwit tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Message{}, &models.Follower{})
}
