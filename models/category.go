package models

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	BusinessID   string    `gorm:"type:varchar(36);not null;index" json:"business_id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	DisplayOrder int       `gorm:"not null;index" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = newID()
	}
	return nil
}
