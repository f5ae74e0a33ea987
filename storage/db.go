// db.go is the canonical place for shared DB plumbing. It should not include
// any business logic, only connection setup and schema migration.
package storage

import (
	"fmt"
	"os"

	"github.com/hnchronicle/hnchronicle/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// GetDBConnection connects to the database specified by env.
func GetDBConnection() (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASS"), os.Getenv("DB_NAME"), os.Getenv("DB_PORT"))
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// DatabaseSetupAndMigration creates or updates the four tables the pipeline
// writes into.
func DatabaseSetupAndMigration(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.HNPost{},
		&model.HNComment{},
		&model.FilteredPost{},
		&model.Summary{},
	)
}
