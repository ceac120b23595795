package models

import (
	"time"

	"gorm.io/gorm"
)

// WhiskyEntry is a single tasting note.
// Every optional field is nullable; updates replace the whole record.
type WhiskyEntry struct {
	ID           string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Title        string     `gorm:"not null" json:"title"`
	Slug         string     `gorm:"index;not null" json:"slug"`
	Distillery   *string    `json:"distillery"`
	Category     string     `gorm:"index;not null" json:"category"`
	Age          *int       `json:"age"`
	ABV          *float64   `gorm:"column:abv" json:"abv"`
	Rating       *float64   `json:"rating"`
	CoverImage   *string    `json:"cover_image"`
	Nose         *string    `json:"nose"`
	Palate       *string    `json:"palate"`
	Finish       *string    `json:"finish"`
	Impression   *string    `json:"impression"`
	Price        *int       `json:"price"`
	PurchaseDate *time.Time `json:"purchase_date"`
	Description  *string    `json:"description"`
	Notes        *string    `json:"notes"`

	// Relationships
	TagLinks []TagLink `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName overrides the default table name
func (WhiskyEntry) TableName() string {
	return "whiskies"
}

// BeforeCreate assigns the entry id
func (e *WhiskyEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = newID()
	}
	return nil
}

// TagNames returns the linked tag names in link order.
// TagLinks must be preloaded with their Tag.
func (e *WhiskyEntry) TagNames() []string {
	names := make([]string, 0, len(e.TagLinks))
	for _, link := range e.TagLinks {
		names = append(names, link.Tag.Name)
	}
	return names
}
