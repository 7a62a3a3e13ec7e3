package models

import (
	"time"

	"gorm.io/gorm"
)

// Floor-plan coordinates are percentages of the canvas, never pixels.
const (
	PositionMin     = 0.0
	PositionMax     = 100.0
	DefaultPosition = 50.0
)

type Table struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	BusinessID string    `gorm:"type:varchar(36);not null;index" json:"business_id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Capacity   int       `gorm:"not null" json:"capacity"`
	Location   *string   `gorm:"type:varchar(255)" json:"location"`
	PositionX  float64   `gorm:"not null" json:"position_x"`
	PositionY  float64   `gorm:"not null" json:"position_y"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

func (t *Table) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = newID()
	}
	return nil
}
