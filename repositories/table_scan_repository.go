package repositories

import (
	"context"
	"time"

	"github.com/yeremiapane/qr-menu-builder/models"
	"gorm.io/gorm"
)

// TableScanRepository is append and read only.
type TableScanRepository interface {
	Create(ctx context.Context, scan *models.TableScan) error
	CountByTables(ctx context.Context, tableIDs []string, from, to time.Time) (map[string]int64, error)
	CountForTable(ctx context.Context, tableID string) (int64, error)
	Recent(ctx context.Context, tableID string, limit int) ([]models.TableScan, error)
	ListByTables(ctx context.Context, tableIDs []string, from, to time.Time) ([]models.TableScan, error)
}

type tableScanRepository struct {
	db *gorm.DB
}

func NewTableScanRepository(db *gorm.DB) TableScanRepository {
	return &tableScanRepository{db: db}
}

func (r *tableScanRepository) Create(ctx context.Context, scan *models.TableScan) error {
	return classify("record scan", "table scan", "", r.db.WithContext(ctx).Create(scan).Error)
}

// CountByTables counts scans per table with scanned_at in [from, to].
// Tables without scans are absent from the map.
func (r *tableScanRepository) CountByTables(ctx context.Context, tableIDs []string, from, to time.Time) (map[string]int64, error) {
	counts := make(map[string]int64, len(tableIDs))
	if len(tableIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		TableID string
		Total   int64
	}
	err := r.db.WithContext(ctx).Model(&models.TableScan{}).
		Select("table_id, COUNT(*) AS total").
		Where("table_id IN ? AND scanned_at >= ? AND scanned_at <= ?", tableIDs, from.UTC(), to.UTC()).
		Group("table_id").
		Scan(&rows).Error
	if err != nil {
		return nil, classify("count scans", "table scan", "", err)
	}
	for _, row := range rows {
		counts[row.TableID] = row.Total
	}
	return counts, nil
}

func (r *tableScanRepository) CountForTable(ctx context.Context, tableID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.TableScan{}).Where("table_id = ?", tableID).Count(&n).Error
	return n, classify("count scans", "table scan", "", err)
}

func (r *tableScanRepository) Recent(ctx context.Context, tableID string, limit int) ([]models.TableScan, error) {
	var scans []models.TableScan
	err := r.db.WithContext(ctx).
		Where("table_id = ?", tableID).
		Order("scanned_at DESC").
		Limit(limit).
		Find(&scans).Error
	if err != nil {
		return nil, classify("recent scans", "table scan", "", err)
	}
	return scans, nil
}

func (r *tableScanRepository) ListByTables(ctx context.Context, tableIDs []string, from, to time.Time) ([]models.TableScan, error) {
	if len(tableIDs) == 0 {
		return nil, nil
	}
	var scans []models.TableScan
	err := r.db.WithContext(ctx).
		Where("table_id IN ? AND scanned_at >= ? AND scanned_at <= ?", tableIDs, from.UTC(), to.UTC()).
		Order("scanned_at DESC").
		Find(&scans).Error
	if err != nil {
		return nil, classify("list scans", "table scan", "", err)
	}
	return scans, nil
}
