package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AllModels returns all models for migration
// Note: WhiskyEntry and TagMaster must be migrated before TagLink, which references both
func AllModels() []interface{} {
	return []interface{}{
		&WhiskyEntry{},
		&TagMaster{},
		&TagLink{},
		&Category{},
	}
}

// AutoMigrate runs GORM auto-migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

// newID returns a fresh opaque identifier for a row.
func newID() string {
	return uuid.NewString()
}
