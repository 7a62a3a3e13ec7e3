package repositories

import (
	"context"
	"database/sql"

	"github.com/yeremiapane/qr-menu-builder/models"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, businessID, id string) (*models.Category, error)
	List(ctx context.Context, businessID string) ([]models.Category, error)
	NextOrder(ctx context.Context, businessID string) (int, error)
	Rename(ctx context.Context, businessID, id, name string) error
	Delete(ctx context.Context, businessID, id string) error
	Count(ctx context.Context, businessID string) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return classify("create category", "category", category.ID, r.db.WithContext(ctx).Create(category).Error)
}

func (r *categoryRepository) GetByID(ctx context.Context, businessID, id string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", id, businessID).
		First(&category).Error
	if err != nil {
		return nil, classify("get category", "category", id, err)
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context, businessID string) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("display_order ASC").Order("created_at ASC").
		Find(&categories).Error
	if err != nil {
		return nil, classify("list categories", "category", "", err)
	}
	return categories, nil
}

// NextOrder is max(display_order)+1 among the business's categories, or 0
// when there are none.
func (r *categoryRepository) NextOrder(ctx context.Context, businessID string) (int, error) {
	var max sql.NullInt64
	err := r.db.WithContext(ctx).Model(&models.Category{}).
		Where("business_id = ?", businessID).
		Select("MAX(display_order)").
		Scan(&max).Error
	if err != nil {
		return 0, classify("next category order", "category", "", err)
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}

func (r *categoryRepository) Rename(ctx context.Context, businessID, id, name string) error {
	if _, err := r.GetByID(ctx, businessID, id); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Model(&models.Category{}).
		Where("id = ? AND business_id = ?", id, businessID).
		Update("name", name).Error
	return classify("rename category", "category", id, err)
}

func (r *categoryRepository) Delete(ctx context.Context, businessID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", id, businessID).
		Delete(&models.Category{})
	if res.Error != nil {
		return classify("delete category", "category", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return classify("delete category", "category", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *categoryRepository) Count(ctx context.Context, businessID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Where("business_id = ?", businessID).Count(&n).Error
	return n, classify("count categories", "category", "", err)
}
