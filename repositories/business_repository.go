package repositories

import (
	"context"

	"github.com/yeremiapane/qr-menu-builder/models"
	"gorm.io/gorm"
)

type BusinessRepository interface {
	Create(ctx context.Context, business *models.Business) error
	GetByID(ctx context.Context, id string) (*models.Business, error)
	GetByOwner(ctx context.Context, ownerID string) (*models.Business, error)
	Save(ctx context.Context, business *models.Business) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
}

type businessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) Create(ctx context.Context, business *models.Business) error {
	return classify("create business", "business", business.ID, r.db.WithContext(ctx).Create(business).Error)
}

func (r *businessRepository) GetByID(ctx context.Context, id string) (*models.Business, error) {
	var business models.Business
	if err := r.db.WithContext(ctx).First(&business, "id = ?", id).Error; err != nil {
		return nil, classify("get business", "business", id, err)
	}
	return &business, nil
}

func (r *businessRepository) GetByOwner(ctx context.Context, ownerID string) (*models.Business, error) {
	var business models.Business
	if err := r.db.WithContext(ctx).First(&business, "owner_id = ?", ownerID).Error; err != nil {
		return nil, classify("get business by owner", "business", "", err)
	}
	return &business, nil
}

func (r *businessRepository) Save(ctx context.Context, business *models.Business) error {
	return classify("save business", "business", business.ID, r.db.WithContext(ctx).Save(business).Error)
}

func (r *businessRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Business{}).Where("id = ?", id).Updates(fields)
	return classify("update business", "business", id, res.Error)
}
