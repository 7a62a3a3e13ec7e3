package repositories

import (
	"context"
	"database/sql"

	"github.com/yeremiapane/qr-menu-builder/models"
	"gorm.io/gorm"
)

// Menu items carry no business id. Every query reaches the tenant through
// the owning category.
type MenuItemRepository interface {
	Create(ctx context.Context, item *models.MenuItem) error
	GetByID(ctx context.Context, businessID, id string) (*models.MenuItem, error)
	ListByBusiness(ctx context.Context, businessID string) ([]models.MenuItem, error)
	ListByCategory(ctx context.Context, businessID, categoryID string) ([]models.MenuItem, error)
	NextOrder(ctx context.Context, businessID, categoryID string) (int, error)
	Save(ctx context.Context, businessID string, item *models.MenuItem) error
	Delete(ctx context.Context, businessID, id string) error
	DeleteByCategory(ctx context.Context, businessID, categoryID string) (int64, error)
	Count(ctx context.Context, businessID string) (int64, error)
}

type menuItemRepository struct {
	db *gorm.DB
}

func NewMenuItemRepository(db *gorm.DB) MenuItemRepository {
	return &menuItemRepository{db: db}
}

func (r *menuItemRepository) ownedCategories(ctx context.Context, businessID string) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Category{}).Select("id").Where("business_id = ?", businessID)
}

func (r *menuItemRepository) Create(ctx context.Context, item *models.MenuItem) error {
	return classify("create menu item", "menu item", item.ID, r.db.WithContext(ctx).Create(item).Error)
}

func (r *menuItemRepository) GetByID(ctx context.Context, businessID, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND category_id IN (?)", id, r.ownedCategories(ctx, businessID)).
		First(&item).Error
	if err != nil {
		return nil, classify("get menu item", "menu item", id, err)
	}
	return &item, nil
}

func (r *menuItemRepository) ListByBusiness(ctx context.Context, businessID string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.WithContext(ctx).
		Joins("JOIN categories ON categories.id = menu_items.category_id").
		Where("categories.business_id = ?", businessID).
		Order("menu_items.display_order ASC").Order("menu_items.created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, classify("list menu items", "menu item", "", err)
	}
	return items, nil
}

func (r *menuItemRepository) ListByCategory(ctx context.Context, businessID, categoryID string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND category_id IN (?)", categoryID, r.ownedCategories(ctx, businessID)).
		Order("display_order ASC").Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, classify("list menu items", "menu item", "", err)
	}
	return items, nil
}

// NextOrder is max(display_order)+1 within the category, or 0. A category
// of another business counts as empty.
func (r *menuItemRepository) NextOrder(ctx context.Context, businessID, categoryID string) (int, error) {
	var max sql.NullInt64
	err := r.db.WithContext(ctx).Model(&models.MenuItem{}).
		Where("category_id = ? AND category_id IN (?)", categoryID, r.ownedCategories(ctx, businessID)).
		Select("MAX(display_order)").
		Scan(&max).Error
	if err != nil {
		return 0, classify("next item order", "menu item", "", err)
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}

// Save writes every column of item. The item must already belong to the
// business, and so must its (possibly new) category.
func (r *menuItemRepository) Save(ctx context.Context, businessID string, item *models.MenuItem) error {
	if _, err := r.GetByID(ctx, businessID, item.ID); err != nil {
		return err
	}
	var owned int64
	err := r.ownedCategories(ctx, businessID).Where("id = ?", item.CategoryID).Count(&owned).Error
	if err != nil {
		return classify("save menu item", "menu item", item.ID, err)
	}
	if owned == 0 {
		return classify("save menu item", "category", item.CategoryID, gorm.ErrRecordNotFound)
	}
	return classify("save menu item", "menu item", item.ID, r.db.WithContext(ctx).Save(item).Error)
}

func (r *menuItemRepository) Delete(ctx context.Context, businessID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND category_id IN (?)", id, r.ownedCategories(ctx, businessID)).
		Delete(&models.MenuItem{})
	if res.Error != nil {
		return classify("delete menu item", "menu item", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return classify("delete menu item", "menu item", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *menuItemRepository) DeleteByCategory(ctx context.Context, businessID, categoryID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("category_id = ? AND category_id IN (?)", categoryID, r.ownedCategories(ctx, businessID)).
		Delete(&models.MenuItem{})
	return res.RowsAffected, classify("delete category items", "menu item", "", res.Error)
}

func (r *menuItemRepository) Count(ctx context.Context, businessID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.MenuItem{}).
		Joins("JOIN categories ON categories.id = menu_items.category_id").
		Where("categories.business_id = ?", businessID).
		Count(&n).Error
	return n, classify("count menu items", "menu item", "", err)
}
