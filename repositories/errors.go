package repositories

import (
	"errors"

	"github.com/yeremiapane/qr-menu-builder/utils"
	"gorm.io/gorm"
)

// classify turns gorm errors into the service error taxonomy.
func classify(op, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NewNotFoundError(resource, id)
	}
	return utils.Transient(op, err)
}
