package models

import (
	"time"

	"gorm.io/gorm"
)

// TagMaster is the shared tag vocabulary. Rows are created the first time a
// name is used and are never removed when their last link goes away.
type TagMaster struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
}

// TableName overrides the default table name
func (TagMaster) TableName() string {
	return "tags"
}

// BeforeCreate assigns the tag id
func (t *TagMaster) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = newID()
	}
	return nil
}

// TagLink joins an entry to one tag. Links only change as part of an
// entry create, update or delete.
type TagLink struct {
	EntryID  string `gorm:"primaryKey;column:whisky_id;type:varchar(36)" json:"whisky_id"`
	TagID    string `gorm:"primaryKey;type:varchar(36)" json:"tag_id"`
	Position int    `gorm:"not null;default:0" json:"position"`

	// Relationships
	Tag TagMaster `gorm:"foreignKey:TagID;constraint:OnDelete:RESTRICT" json:"tag"`
}

// TableName overrides the default table name
func (TagLink) TableName() string {
	return "whisky_tags"
}
