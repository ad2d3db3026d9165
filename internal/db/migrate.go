package db

import (
	"fmt"

	"github.com/avelis/frontdesk/internal/models"
	"gorm.io/gorm"
)

// AllModels returns every GORM model Frontdesk persists.
func AllModels() []interface{} {
	return []interface{}{
		&models.SupportSession{},
		&models.TranscriptEntry{},
		&models.SupportTicket{},
	}
}

// AutoMigrate creates or updates all Frontdesk tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}
