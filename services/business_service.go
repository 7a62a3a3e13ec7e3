package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yeremiapane/qr-menu-builder/models"
	"github.com/yeremiapane/qr-menu-builder/repositories"
	"github.com/yeremiapane/qr-menu-builder/theme"
	"github.com/yeremiapane/qr-menu-builder/utils"
)

// ErrAlreadyOnboarded is returned with the existing business when an owner
// onboards a second time.
var ErrAlreadyOnboarded = errors.New("business already exists for this account")

const (
	AssetLogo    = "logo"
	AssetFavicon = "favicon"
)

type OnboardInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
}

// CustomizationInput is a partial update of the business page. Nil pointers
// keep the stored value; blank strings clear it. A non-nil OpeningHours map
// replaces the stored one.
type CustomizationInput struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=255"`
	Description *string `json:"description"`

	theme.Attributes

	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	Address      *string `json:"address"`
	Website      *string `json:"website"`
	FacebookURL  *string `json:"facebook_url"`
	InstagramURL *string `json:"instagram_url"`
	TwitterURL   *string `json:"twitter_url"`

	OpeningHours map[string]string `json:"opening_hours" validate:"omitempty,dive,keys,oneof=monday tuesday wednesday thursday friday saturday sunday,endkeys,max=100"`

	ShowLogo         *bool `json:"show_logo"`
	ShowContactInfo  *bool `json:"show_contact_info"`
	ShowSocialLinks  *bool `json:"show_social_links"`
	ShowOpeningHours *bool `json:"show_opening_hours"`

	WifiPassword    *string `json:"wifi_password"`
	AdditionalNotes *string `json:"additional_notes"`
}

type DashboardStats struct {
	Categories int64 `json:"categories"`
	Items      int64 `json:"items"`
	Tables     int64 `json:"tables"`
}

type BusinessService struct {
	businesses repositories.BusinessRepository
	categories repositories.CategoryRepository
	items      repositories.MenuItemRepository
	tables     repositories.TableRepository
	storage    AssetStorage
}

func NewBusinessService(
	businesses repositories.BusinessRepository,
	categories repositories.CategoryRepository,
	items repositories.MenuItemRepository,
	tables repositories.TableRepository,
	storage AssetStorage,
) *BusinessService {
	return &BusinessService{
		businesses: businesses,
		categories: categories,
		items:      items,
		tables:     tables,
		storage:    storage,
	}
}

// Onboard creates the owner's single business with every section visible.
// An owner who already has one gets it back with ErrAlreadyOnboarded, whatever
// the input.
func (s *BusinessService) Onboard(ctx context.Context, ownerID string, in OnboardInput) (*models.Business, error) {
	if existing, err := s.businesses.GetByOwner(ctx, ownerID); err == nil {
		return existing, ErrAlreadyOnboarded
	} else if !utils.IsNotFound(err) {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	business := &models.Business{
		OwnerID:          ownerID,
		Name:             in.Name,
		Description:      trimOrNil(in.Description),
		ShowLogo:         true,
		ShowContactInfo:  true,
		ShowSocialLinks:  true,
		ShowOpeningHours: true,
	}
	if err := s.businesses.Create(ctx, business); err != nil {
		// Lost a race with a concurrent onboarding of the same owner.
		if existing, lookupErr := s.businesses.GetByOwner(ctx, ownerID); lookupErr == nil {
			return existing, ErrAlreadyOnboarded
		}
		return nil, err
	}
	utils.InfoLogger.WithFields(utils.TenantFields(business.ID)).WithField("owner_id", ownerID).Info("business onboarded")
	return business, nil
}

func (s *BusinessService) GetByOwner(ctx context.Context, ownerID string) (*models.Business, error) {
	return s.businesses.GetByOwner(ctx, ownerID)
}

func (s *BusinessService) GetByID(ctx context.Context, id string) (*models.Business, error) {
	return s.businesses.GetByID(ctx, id)
}

// ValidateStyle rejects unknown layout and width values. Blank means unset.
// Colors and font keys are never rejected.
func ValidateStyle(a theme.Attributes) error {
	if a.LayoutStyle != nil {
		if v := strings.TrimSpace(*a.LayoutStyle); v != "" && !theme.Layout(v).Valid() {
			return utils.NewValidationError("layout_style", fmt.Sprintf("must be one of %v", theme.Layouts))
		}
	}
	if a.MenuWidth != nil {
		if v := strings.TrimSpace(*a.MenuWidth); v != "" && !theme.Width(v).Valid() {
			return utils.NewValidationError("menu_width", fmt.Sprintf("must be one of %v", theme.Widths))
		}
	}
	return nil
}

func (s *BusinessService) UpdateCustomization(ctx context.Context, businessID string, in CustomizationInput) (*models.Business, error) {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := ValidateStyle(in.Attributes); err != nil {
		return nil, err
	}

	b, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		b.Name = *in.Name
	}
	setText(&b.Description, in.Description)

	setText(&b.PrimaryColor, in.PrimaryColor)
	setText(&b.BackgroundColor, in.BackgroundColor)
	setText(&b.TextColor, in.TextColor)
	setText(&b.CardBackgroundColor, in.CardBackgroundColor)
	setText(&b.FontFamily, in.FontFamily)
	setText(&b.HeadingFontFamily, in.HeadingFontFamily)
	setText(&b.LayoutStyle, in.LayoutStyle)
	setText(&b.MenuWidth, in.MenuWidth)

	setText(&b.Phone, in.Phone)
	setText(&b.Email, in.Email)
	setText(&b.Address, in.Address)
	setText(&b.Website, in.Website)
	setText(&b.FacebookURL, in.FacebookURL)
	setText(&b.InstagramURL, in.InstagramURL)
	setText(&b.TwitterURL, in.TwitterURL)

	if in.OpeningHours != nil {
		hours := make(map[string]string, len(in.OpeningHours))
		for day, h := range in.OpeningHours {
			if h = strings.TrimSpace(h); h != "" {
				hours[day] = h
			}
		}
		b.OpeningHours = hours
	}

	setFlag(&b.ShowLogo, in.ShowLogo)
	setFlag(&b.ShowContactInfo, in.ShowContactInfo)
	setFlag(&b.ShowSocialLinks, in.ShowSocialLinks)
	setFlag(&b.ShowOpeningHours, in.ShowOpeningHours)

	setText(&b.WifiPassword, in.WifiPassword)
	setText(&b.AdditionalNotes, in.AdditionalNotes)

	if err := s.businesses.Save(ctx, b); err != nil {
		return nil, err
	}
	utils.InfoLogger.WithFields(utils.TenantFields(b.ID)).Info("business customization saved")
	return b, nil
}

// SetBrandingAsset stores a logo or favicon at {businessID}/{kind}.{ext} and
// points the business at it. A previous file under another name is removed
// once the new URL is saved.
func (s *BusinessService) SetBrandingAsset(ctx context.Context, businessID, kind string, r io.Reader) (*models.Business, error) {
	if kind != AssetLogo && kind != AssetFavicon {
		return nil, utils.NewValidationError("kind", "must be logo or favicon")
	}
	b, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	data, ext, err := readImage(r)
	if err != nil {
		return nil, err
	}

	p := fmt.Sprintf("%s/%s.%s", b.ID, kind, ext)
	url, err := s.storage.Upload(ctx, p, data)
	if err != nil {
		return nil, err
	}

	current := b.LogoURL
	if kind == AssetFavicon {
		current = b.FaviconURL
	}
	replaced := current != nil && *current != url

	// The row keeps pointing at the old file until the new URL is stored.
	if err := s.businesses.UpdateFields(ctx, b.ID, map[string]interface{}{kind + "_url": url}); err != nil {
		if current == nil || replaced {
			s.deleteAsset(ctx, b.ID, url)
		}
		return nil, err
	}
	if replaced {
		s.deleteAsset(ctx, b.ID, *current)
	}
	if kind == AssetLogo {
		b.LogoURL = &url
	} else {
		b.FaviconURL = &url
	}
	return b, nil
}

func (s *BusinessService) RemoveBrandingAsset(ctx context.Context, businessID, kind string) (*models.Business, error) {
	if kind != AssetLogo && kind != AssetFavicon {
		return nil, utils.NewValidationError("kind", "must be logo or favicon")
	}
	b, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	current := b.LogoURL
	if kind == AssetFavicon {
		current = b.FaviconURL
	}
	if current == nil {
		return b, nil
	}
	if err := s.businesses.UpdateFields(ctx, b.ID, map[string]interface{}{kind + "_url": nil}); err != nil {
		return nil, err
	}
	s.deleteAsset(ctx, b.ID, *current)
	if kind == AssetLogo {
		b.LogoURL = nil
	} else {
		b.FaviconURL = nil
	}
	return b, nil
}

// deleteAsset is best effort; a stale file is not worth failing the request.
func (s *BusinessService) deleteAsset(ctx context.Context, businessID, url string) {
	p, ok := s.storage.PathFromURL(url)
	if !ok || !strings.HasPrefix(p, businessID+"/") {
		return
	}
	if err := s.storage.Delete(ctx, p); err != nil {
		utils.ErrorLogger.WithFields(utils.TenantFields(businessID)).Warnf("failed to delete asset %s: %v", p, err)
	}
}

// Stats uses count-only queries.
func (s *BusinessService) Stats(ctx context.Context, businessID string) (DashboardStats, error) {
	var (
		stats DashboardStats
		err   error
	)
	if stats.Categories, err = s.categories.Count(ctx, businessID); err != nil {
		return DashboardStats{}, err
	}
	if stats.Items, err = s.items.Count(ctx, businessID); err != nil {
		return DashboardStats{}, err
	}
	if stats.Tables, err = s.tables.Count(ctx, businessID); err != nil {
		return DashboardStats{}, err
	}
	return stats, nil
}

func setText(dst **string, src *string) {
	if src == nil {
		return
	}
	*dst = trimOrNil(src)
}

func setFlag(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
