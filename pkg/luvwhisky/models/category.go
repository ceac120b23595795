package models

import (
	"time"

	"gorm.io/gorm"
)

// Category is an entry in the curated category list. Entries refer to
// categories by name only, so removing one leaves entries untouched.
type Category struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Order     int       `gorm:"column:sort_order;not null;default:0" json:"order"`
}

// BeforeCreate assigns the category id
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = newID()
	}
	return nil
}
