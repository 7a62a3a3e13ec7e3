package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/qr-menu-builder/models"
	"github.com/yeremiapane/qr-menu-builder/repositories"
	"github.com/yeremiapane/qr-menu-builder/utils"
)

type CategoryInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

type ItemInput struct {
	CategoryID  string          `json:"category_id" validate:"required"`
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Tags        []string        `json:"tags"`
	IsAvailable *bool           `json:"is_available"`
}

type ItemUpdate struct {
	CategoryID  *string          `json:"category_id" validate:"omitnil,min=1"`
	Name        *string          `json:"name" validate:"omitnil,min=1,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Tags        []string         `json:"tags"`
	IsAvailable *bool            `json:"is_available"`
}

// AdminItem is the owner's view of an item. Unavailable items stay listed
// with a label.
type AdminItem struct {
	models.MenuItem
	FormattedPrice string `json:"formatted_price"`
	Status         string `json:"status"`
}

const (
	StatusAvailable   = "Available"
	StatusUnavailable = "Unavailable"
)

type CatalogService struct {
	categories repositories.CategoryRepository
	items      repositories.MenuItemRepository
	storage    AssetStorage
	now        func() time.Time
}

func NewCatalogService(categories repositories.CategoryRepository, items repositories.MenuItemRepository, storage AssetStorage) *CatalogService {
	return &CatalogService{categories: categories, items: items, storage: storage, now: time.Now}
}

// CreateCategory appends the category after its siblings.
func (s *CatalogService) CreateCategory(ctx context.Context, businessID string, in CategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	order, err := s.categories.NextOrder(ctx, businessID)
	if err != nil {
		return nil, err
	}
	category := &models.Category{BusinessID: businessID, Name: in.Name, DisplayOrder: order}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) ListCategories(ctx context.Context, businessID string) ([]models.Category, error) {
	return s.categories.List(ctx, businessID)
}

func (s *CatalogService) RenameCategory(ctx context.Context, businessID, id string, in CategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := s.categories.Rename(ctx, businessID, id, in.Name); err != nil {
		return nil, err
	}
	return s.categories.GetByID(ctx, businessID, id)
}

// DeleteCategory removes the category's items first and then the category.
// It returns how many items went with it.
func (s *CatalogService) DeleteCategory(ctx context.Context, businessID, id string) (int64, error) {
	if _, err := s.categories.GetByID(ctx, businessID, id); err != nil {
		return 0, err
	}
	removed, err := s.items.DeleteByCategory(ctx, businessID, id)
	if err != nil {
		return 0, err
	}
	if err := s.categories.Delete(ctx, businessID, id); err != nil {
		return removed, err
	}
	utils.InfoLogger.WithFields(utils.TenantFields(businessID)).
		WithField("category_id", id).Infof("category deleted with %d items", removed)
	return removed, nil
}

func (s *CatalogService) CreateItem(ctx context.Context, businessID string, in ItemInput) (*models.MenuItem, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}
	if _, err := s.categories.GetByID(ctx, businessID, in.CategoryID); err != nil {
		return nil, err
	}

	order, err := s.items.NextOrder(ctx, businessID, in.CategoryID)
	if err != nil {
		return nil, err
	}
	item := &models.MenuItem{
		CategoryID:   in.CategoryID,
		Name:         in.Name,
		Description:  strings.TrimSpace(in.Description),
		Price:        in.Price.Round(2),
		Tags:         NormalizeTags(in.Tags),
		DisplayOrder: order,
		IsAvailable:  true,
	}
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CatalogService) GetItem(ctx context.Context, businessID, id string) (*models.MenuItem, error) {
	return s.items.GetByID(ctx, businessID, id)
}

// UpdateItem applies the set fields. Moving an item to another category
// appends it there.
func (s *CatalogService) UpdateItem(ctx context.Context, businessID, id string, upd ItemUpdate) (*models.MenuItem, error) {
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		upd.Name = &name
	}
	if err := validateStruct(upd); err != nil {
		return nil, err
	}
	if upd.Price != nil {
		if err := validatePrice(*upd.Price); err != nil {
			return nil, err
		}
	}

	item, err := s.items.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if upd.CategoryID != nil && *upd.CategoryID != item.CategoryID {
		if _, err := s.categories.GetByID(ctx, businessID, *upd.CategoryID); err != nil {
			return nil, err
		}
		order, err := s.items.NextOrder(ctx, businessID, *upd.CategoryID)
		if err != nil {
			return nil, err
		}
		item.CategoryID = *upd.CategoryID
		item.DisplayOrder = order
	}
	if upd.Name != nil {
		item.Name = *upd.Name
	}
	if upd.Description != nil {
		item.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.Price != nil {
		item.Price = upd.Price.Round(2)
	}
	if upd.Tags != nil {
		item.Tags = NormalizeTags(upd.Tags)
	}
	if upd.IsAvailable != nil {
		item.IsAvailable = *upd.IsAvailable
	}

	if err := s.items.Save(ctx, businessID, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CatalogService) DeleteItem(ctx context.Context, businessID, id string) error {
	item, err := s.items.GetByID(ctx, businessID, id)
	if err != nil {
		return err
	}
	if err := s.items.Delete(ctx, businessID, id); err != nil {
		return err
	}
	if item.ImageURL != nil {
		s.deleteImage(ctx, businessID, *item.ImageURL)
	}
	return nil
}

// ListItems returns the admin listing, optionally for one category.
func (s *CatalogService) ListItems(ctx context.Context, businessID, categoryID string) ([]AdminItem, error) {
	var (
		items []models.MenuItem
		err   error
	)
	if categoryID != "" {
		items, err = s.items.ListByCategory(ctx, businessID, categoryID)
	} else {
		items, err = s.items.ListByBusiness(ctx, businessID)
	}
	if err != nil {
		return nil, err
	}

	out := make([]AdminItem, 0, len(items))
	for _, item := range items {
		status := StatusAvailable
		if !item.IsAvailable {
			status = StatusUnavailable
		}
		out = append(out, AdminItem{MenuItem: item, FormattedPrice: utils.FormatPrice(item.Price), Status: status})
	}
	return out, nil
}

// SetItemImage stores the image at {businessID}/{unix millis}.{ext}.
func (s *CatalogService) SetItemImage(ctx context.Context, businessID, id string, r io.Reader) (*models.MenuItem, error) {
	item, err := s.items.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	data, ext, err := readImage(r)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.Upload(ctx, fmt.Sprintf("%s/%d.%s", businessID, s.now().UnixMilli(), ext), data)
	if err != nil {
		return nil, err
	}
	previous := item.ImageURL
	item.ImageURL = &url
	if err := s.items.Save(ctx, businessID, item); err != nil {
		return nil, err
	}
	if previous != nil && *previous != url {
		s.deleteImage(ctx, businessID, *previous)
	}
	return item, nil
}

func (s *CatalogService) deleteImage(ctx context.Context, businessID, url string) {
	p, ok := s.storage.PathFromURL(url)
	if !ok || !strings.HasPrefix(p, businessID+"/") {
		return
	}
	if err := s.storage.Delete(ctx, p); err != nil {
		utils.ErrorLogger.WithFields(utils.TenantFields(businessID)).Warnf("failed to delete image %s: %v", p, err)
	}
}

// NormalizeTags trims tags, drops blanks and repeats, and keeps the order
// they were given in.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func validatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return utils.NewValidationError("price", "must not be negative")
	}
	if p.GreaterThanOrEqual(decimal.NewFromInt(100000000)) {
		return utils.NewValidationError("price", "is too large")
	}
	return nil
}
