package database

import (
	"fmt"
	"log"

	"github.com/whatshouldieat/backend/internal/models"
	"gorm.io/gorm"
)

// RunMigrations creates or updates the key-value table
func RunMigrations(db *gorm.DB) error {
	log.Printf("Running auto-migration for %s", db.Dialector.Name())
	if err := db.AutoMigrate(&models.KVEntry{}); err != nil {
		return fmt.Errorf("failed to migrate kv_entries: %w", err)
	}
	return nil
}

// RollbackMigrations drops the key-value table and everything stored in it
func RollbackMigrations(db *gorm.DB) error {
	log.Printf("Dropping kv_entries on %s", db.Dialector.Name())
	if err := db.Migrator().DropTable(&models.KVEntry{}); err != nil {
		return fmt.Errorf("failed to drop kv_entries: %w", err)
	}
	return nil
}
