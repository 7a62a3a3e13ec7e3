package models

import (
	"time"

	"gorm.io/gorm"
)

// TableScan is append-only. TableID deliberately has no foreign-key
// constraint: scans outlive the table they were recorded against.
type TableScan struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	TableID   string    `gorm:"type:varchar(36);not null;index" json:"table_id"`
	ScannedAt time.Time `gorm:"not null;index" json:"scanned_at"`
	UserAgent *string   `gorm:"type:text" json:"user_agent"`
	IPAddress *string   `gorm:"type:varchar(64)" json:"ip_address"`
}

func (s *TableScan) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = newID()
	}
	if s.ScannedAt.IsZero() {
		s.ScannedAt = time.Now().UTC()
	}
	return nil
}
