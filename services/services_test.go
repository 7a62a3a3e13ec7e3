package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/qr-menu-builder/models"
	"github.com/yeremiapane/qr-menu-builder/repositories"
	"github.com/yeremiapane/qr-menu-builder/utils"
)

type testEnv struct {
	db         *gorm.DB
	businesses repositories.BusinessRepository
	categories repositories.CategoryRepository
	items      repositories.MenuItemRepository
	tables     repositories.TableRepository
	scans      repositories.TableScanRepository
	storage    *LocalStorage
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	utils.SetLogOutput(io.Discard)

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Business{}, &models.Category{}, &models.MenuItem{}, &models.Table{}, &models.TableScan{}))

	return &testEnv{
		db:         db,
		businesses: repositories.NewBusinessRepository(db),
		categories: repositories.NewCategoryRepository(db),
		items:      repositories.NewMenuItemRepository(db),
		tables:     repositories.NewTableRepository(db),
		scans:      repositories.NewTableScanRepository(db),
		storage:    NewLocalStorage(t.TempDir(), "/uploads"),
	}
}

func (e *testEnv) business(t *testing.T, owner string) *models.Business {
	t.Helper()
	b := &models.Business{OwnerID: owner, Name: owner, ShowLogo: true}
	require.NoError(t, e.businesses.Create(context.Background(), b))
	return b
}

func (e *testEnv) businessService() *BusinessService {
	return NewBusinessService(e.businesses, e.categories, e.items, e.tables, e.storage)
}

func (e *testEnv) catalog() *CatalogService {
	return NewCatalogService(e.categories, e.items, e.storage)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
