package controllers

import (
	"github.com/yeremiapane/qr-menu-builder/models"
	"github.com/yeremiapane/qr-menu-builder/services"
	"github.com/yeremiapane/qr-menu-builder/theme"
	"github.com/yeremiapane/qr-menu-builder/utils"
)

type ItemView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	ImageURL    *string  `json:"image_url"`
	Tags        []string `json:"tags"`
}

type SectionView struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Items []ItemView `json:"items"`
}

// PublicBusiness is what customers see of a business. Owner identity and
// settings stay on the admin side.
type PublicBusiness struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logo_url"`
	FaviconURL  *string `json:"favicon_url"`
	models.ContactInfo
	WifiPassword    *string `json:"wifi_password"`
	AdditionalNotes *string `json:"additional_notes"`
}

func newPublicBusiness(b *models.Business) *PublicBusiness {
	return &PublicBusiness{
		ID:              b.ID,
		Name:            b.Name,
		Description:     b.Description,
		LogoURL:         b.LogoURL,
		FaviconURL:      b.FaviconURL,
		ContactInfo:     b.ContactInfo,
		WifiPassword:    b.WifiPassword,
		AdditionalNotes: b.AdditionalNotes,
	}
}

// MenuView is the customer-facing menu. Only available items make it in.
type MenuView struct {
	Business    *PublicBusiness   `json:"business"`
	Sections    []SectionView     `json:"sections"`
	Table       *models.Table     `json:"table"`
	Tokens      theme.Tokens      `json:"theme"`
	Theme       *theme.Scope      `json:"-"`
	Preview     bool              `json:"preview"`
	Empty       bool              `json:"empty"`
	ShowLogo    bool              `json:"show_logo"`
	ShowContact bool              `json:"show_contact"`
	ShowSocial  bool              `json:"show_social"`
	Hours       []models.DayHours `json:"opening_hours"`
}

func newMenuView(bundle *services.MenuBundle, tokens theme.Tokens, preview bool) *MenuView {
	b := bundle.Business
	visible := bundle.VisibleSections()

	view := &MenuView{
		Business:    newPublicBusiness(b),
		Sections:    make([]SectionView, 0, len(visible)),
		Table:       bundle.Table,
		Tokens:      tokens,
		Preview:     preview,
		Empty:       len(visible) == 0,
		ShowLogo:    b.ShowLogo && b.LogoURL != nil,
		ShowContact: b.ShowContactInfo && b.HasContact(),
		ShowSocial:  b.ShowSocialLinks && b.HasSocial(),
	}
	if b.ShowOpeningHours {
		view.Hours = b.OrderedOpeningHours()
	}

	for _, s := range visible {
		section := SectionView{ID: s.Category.ID, Name: s.Category.Name, Items: make([]ItemView, 0, len(s.Items))}
		for _, item := range s.Items {
			section.Items = append(section.Items, ItemView{
				ID:          item.ID,
				Name:        item.Name,
				Description: item.Description,
				Price:       utils.FormatPrice(item.Price),
				ImageURL:    item.ImageURL,
				Tags:        item.Tags,
			})
		}
		view.Sections = append(view.Sections, section)
	}
	return view
}
