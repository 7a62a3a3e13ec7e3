package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MenuItem struct {
	ID           string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	CategoryID   string          `gorm:"type:varchar(36);not null;index" json:"category_id"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL     *string         `gorm:"type:varchar(512)" json:"image_url"`
	Tags         []string        `gorm:"type:text;serializer:json" json:"tags"`
	DisplayOrder int             `gorm:"not null" json:"display_order"`
	IsAvailable  bool            `gorm:"not null" json:"is_available"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = newID()
	}
	if m.Tags == nil {
		m.Tags = []string{}
	}
	return nil
}
