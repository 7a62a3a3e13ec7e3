package repositories

import (
	"context"

	"github.com/yeremiapane/qr-menu-builder/models"
	"gorm.io/gorm"
)

type TableRepository interface {
	Create(ctx context.Context, table *models.Table) error
	GetByID(ctx context.Context, businessID, id string) (*models.Table, error)
	List(ctx context.Context, businessID string) ([]models.Table, error)
	ListActive(ctx context.Context, businessID string) ([]models.Table, error)
	Update(ctx context.Context, businessID, id string, fields map[string]interface{}) error
	UpdatePosition(ctx context.Context, businessID, id string, x, y float64) error
	ResetPositions(ctx context.Context, businessID string, x, y float64) (int64, error)
	Delete(ctx context.Context, businessID, id string) error
	Count(ctx context.Context, businessID string) (int64, error)
}

type tableRepository struct {
	db *gorm.DB
}

func NewTableRepository(db *gorm.DB) TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) Create(ctx context.Context, table *models.Table) error {
	return classify("create table", "table", table.ID, r.db.WithContext(ctx).Create(table).Error)
}

func (r *tableRepository) GetByID(ctx context.Context, businessID, id string) (*models.Table, error) {
	var table models.Table
	err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", id, businessID).
		First(&table).Error
	if err != nil {
		return nil, classify("get table", "table", id, err)
	}
	return &table, nil
}

func (r *tableRepository) List(ctx context.Context, businessID string) ([]models.Table, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("business_id = ?", businessID))
}

func (r *tableRepository) ListActive(ctx context.Context, businessID string) ([]models.Table, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("business_id = ? AND is_active = ?", businessID, true))
}

func (r *tableRepository) list(ctx context.Context, q *gorm.DB) ([]models.Table, error) {
	var tables []models.Table
	if err := q.Order("created_at ASC").Order("name ASC").Find(&tables).Error; err != nil {
		return nil, classify("list tables", "table", "", err)
	}
	return tables, nil
}

func (r *tableRepository) Update(ctx context.Context, businessID, id string, fields map[string]interface{}) error {
	return r.updateOne(ctx, "update table", businessID, id, fields)
}

func (r *tableRepository) UpdatePosition(ctx context.Context, businessID, id string, x, y float64) error {
	return r.updateOne(ctx, "update table position", businessID, id, map[string]interface{}{
		"position_x": x,
		"position_y": y,
	})
}

// updateOne treats zero affected rows as not-found only after checking the
// row exists; MySQL reports 0 when the new values equal the old ones.
func (r *tableRepository) updateOne(ctx context.Context, op, businessID, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Table{}).
		Where("id = ? AND business_id = ?", id, businessID).
		Updates(fields)
	if res.Error != nil {
		return classify(op, "table", id, res.Error)
	}
	if res.RowsAffected == 0 {
		_, err := r.GetByID(ctx, businessID, id)
		return err
	}
	return nil
}

func (r *tableRepository) ResetPositions(ctx context.Context, businessID string, x, y float64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Table{}).
		Where("business_id = ?", businessID).
		Updates(map[string]interface{}{"position_x": x, "position_y": y})
	return res.RowsAffected, classify("reset table positions", "table", "", res.Error)
}

func (r *tableRepository) Delete(ctx context.Context, businessID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", id, businessID).
		Delete(&models.Table{})
	if res.Error != nil {
		return classify("delete table", "table", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return classify("delete table", "table", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *tableRepository) Count(ctx context.Context, businessID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Table{}).Where("business_id = ?", businessID).Count(&n).Error
	return n, classify("count tables", "table", "", err)
}
