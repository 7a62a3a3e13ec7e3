package models

import (
	"sort"
	"time"

	"github.com/yeremiapane/qr-menu-builder/theme"
	"gorm.io/gorm"
)

// DaysOfWeek is the canonical key order for opening hours.
var DaysOfWeek = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// ContactInfo is stored flat on the business row.
type ContactInfo struct {
	Phone        *string `gorm:"type:varchar(64)" json:"phone"`
	Email        *string `gorm:"type:varchar(255)" json:"email"`
	Address      *string `gorm:"type:text" json:"address"`
	Website      *string `gorm:"type:varchar(512)" json:"website"`
	FacebookURL  *string `gorm:"type:varchar(512)" json:"facebook_url"`
	InstagramURL *string `gorm:"type:varchar(512)" json:"instagram_url"`
	TwitterURL   *string `gorm:"type:varchar(512)" json:"twitter_url"`
}

// Business is the tenant root. Exactly one exists per owning account.
type Business struct {
	ID          string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	OwnerID     string  `gorm:"type:varchar(64);not null;uniqueIndex" json:"owner_id"`
	Name        string  `gorm:"type:varchar(255);not null" json:"name"`
	Description *string `gorm:"type:text" json:"description"`
	LogoURL     *string `gorm:"type:varchar(512)" json:"logo_url"`
	FaviconURL  *string `gorm:"type:varchar(512)" json:"favicon_url"`

	theme.Attributes `gorm:"embedded"`
	ContactInfo      `gorm:"embedded"`

	OpeningHours     map[string]string `gorm:"type:text;serializer:json" json:"opening_hours"`
	ShowLogo         bool              `gorm:"not null" json:"show_logo"`
	ShowContactInfo  bool              `gorm:"not null" json:"show_contact_info"`
	ShowSocialLinks  bool              `gorm:"not null" json:"show_social_links"`
	ShowOpeningHours bool              `gorm:"not null" json:"show_opening_hours"`
	WifiPassword     *string           `gorm:"type:varchar(255)" json:"wifi_password"`
	AdditionalNotes  *string           `gorm:"type:text" json:"additional_notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Business) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = newID()
	}
	return nil
}

type DayHours struct {
	Day   string
	Hours string
}

// OrderedOpeningHours lists known weekdays first (monday..sunday), then any
// other keys alphabetically.
func (b *Business) OrderedOpeningHours() []DayHours {
	if len(b.OpeningHours) == 0 {
		return nil
	}
	out := make([]DayHours, 0, len(b.OpeningHours))
	known := make(map[string]bool, len(DaysOfWeek))
	for _, day := range DaysOfWeek {
		known[day] = true
		if h, ok := b.OpeningHours[day]; ok {
			out = append(out, DayHours{Day: day, Hours: h})
		}
	}
	var rest []string
	for day := range b.OpeningHours {
		if !known[day] {
			rest = append(rest, day)
		}
	}
	sort.Strings(rest)
	for _, day := range rest {
		out = append(out, DayHours{Day: day, Hours: b.OpeningHours[day]})
	}
	return out
}

func (c ContactInfo) HasContact() bool {
	return nonEmpty(c.Phone) || nonEmpty(c.Email) || nonEmpty(c.Address) || nonEmpty(c.Website)
}

func (c ContactInfo) HasSocial() bool {
	return nonEmpty(c.FacebookURL) || nonEmpty(c.InstagramURL) || nonEmpty(c.TwitterURL)
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}
