package database

import (
	"github.com/yeremiapane/qr-menu-builder/models"
	"github.com/yeremiapane/qr-menu-builder/utils"
	"gorm.io/gorm"
)

// Models lists every table owned by the application, parents first.
func Models() []interface{} {
	return []interface{}{
		&models.Business{},
		&models.Category{},
		&models.MenuItem{},
		&models.Table{},
		&models.TableScan{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		utils.ErrorLogger.Errorf("Failed to AutoMigrate: %v", err)
		return err
	}

	// Rows written before tags existed hold NULL.
	if err := db.Model(&models.MenuItem{}).Where("tags IS NULL OR tags = ''").
		Update("tags", gorm.Expr("'[]'")).Error; err != nil {
		utils.ErrorLogger.Printf("Error backfilling menu item tags: %v", err)
	}

	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
