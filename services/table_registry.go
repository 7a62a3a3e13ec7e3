package services

import (
	"context"
	"math"
	"strings"

	"github.com/yeremiapane/qr-menu-builder/models"
	"github.com/yeremiapane/qr-menu-builder/repositories"
	"github.com/yeremiapane/qr-menu-builder/utils"
)

type CreateTableInput struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Capacity int     `json:"capacity" validate:"required,gt=0"`
	Location *string `json:"location" validate:"omitnil,max=255"`
	IsActive *bool   `json:"is_active"`
}

// TableUpdate changes descriptive fields only. Nil fields are left alone; a
// blank location clears it.
type TableUpdate struct {
	Name     *string `json:"name" validate:"omitnil,min=1,max=255"`
	Capacity *int    `json:"capacity" validate:"omitnil,gt=0"`
	Location *string `json:"location" validate:"omitnil,max=255"`
	IsActive *bool   `json:"is_active"`
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PositionUpdate struct {
	TableID string  `json:"table_id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

type PositionFailure struct {
	TableID string `json:"table_id"`
	Error   string `json:"error"`
}

// BulkPositionResult lists what went through and what did not. Applied
// entries are never rolled back.
type BulkPositionResult struct {
	Updated []string          `json:"updated"`
	Failed  []PositionFailure `json:"failed"`
}

type TableRegistry struct {
	tables repositories.TableRepository
}

func NewTableRegistry(tables repositories.TableRepository) *TableRegistry {
	return &TableRegistry{tables: tables}
}

// Create places the table at the canvas center. It is active unless the
// input says otherwise.
func (r *TableRegistry) Create(ctx context.Context, businessID string, in CreateTableInput) (*models.Table, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Location = trimOrNil(in.Location)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	table := &models.Table{
		BusinessID: businessID,
		Name:       in.Name,
		Capacity:   in.Capacity,
		Location:   in.Location,
		PositionX:  models.DefaultPosition,
		PositionY:  models.DefaultPosition,
		IsActive:   true,
	}
	if in.IsActive != nil {
		table.IsActive = *in.IsActive
	}
	if err := r.tables.Create(ctx, table); err != nil {
		return nil, err
	}
	utils.InfoLogger.WithFields(utils.TenantFields(businessID)).WithField("table_id", table.ID).Info("table created")
	return table, nil
}

func (r *TableRegistry) Get(ctx context.Context, businessID, id string) (*models.Table, error) {
	return r.tables.GetByID(ctx, businessID, id)
}

func (r *TableRegistry) List(ctx context.Context, businessID string) ([]models.Table, error) {
	return r.tables.List(ctx, businessID)
}

func (r *TableRegistry) ListActive(ctx context.Context, businessID string) ([]models.Table, error) {
	return r.tables.ListActive(ctx, businessID)
}

func (r *TableRegistry) Update(ctx context.Context, businessID, id string, upd TableUpdate) (*models.Table, error) {
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		upd.Name = &name
	}
	if err := validateStruct(upd); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Capacity != nil {
		fields["capacity"] = *upd.Capacity
	}
	if upd.Location != nil {
		fields["location"] = trimOrNil(upd.Location)
	}
	if upd.IsActive != nil {
		fields["is_active"] = *upd.IsActive
	}
	if len(fields) > 0 {
		if err := r.tables.Update(ctx, businessID, id, fields); err != nil {
			return nil, err
		}
	}
	return r.tables.GetByID(ctx, businessID, id)
}

// UpdatePosition stores x and y clamped into [0,100]. Repeating a call with
// the same coordinates leaves the same state. NaN is rejected.
func (r *TableRegistry) UpdatePosition(ctx context.Context, businessID, id string, x, y float64) (Position, error) {
	pos, err := clampPosition(x, y)
	if err != nil {
		return Position{}, err
	}
	if err := r.tables.UpdatePosition(ctx, businessID, id, pos.X, pos.Y); err != nil {
		return Position{}, err
	}
	return pos, nil
}

// BulkUpdatePositions applies each entry on its own.
func (r *TableRegistry) BulkUpdatePositions(ctx context.Context, businessID string, updates []PositionUpdate) BulkPositionResult {
	res := BulkPositionResult{Updated: []string{}, Failed: []PositionFailure{}}
	for _, u := range updates {
		if _, err := r.UpdatePosition(ctx, businessID, u.TableID, u.X, u.Y); err != nil {
			res.Failed = append(res.Failed, PositionFailure{TableID: u.TableID, Error: err.Error()})
			continue
		}
		res.Updated = append(res.Updated, u.TableID)
	}
	if len(res.Failed) > 0 {
		utils.ErrorLogger.WithFields(utils.TenantFields(businessID)).
			Warnf("bulk position update: %d of %d entries failed", len(res.Failed), len(updates))
	}
	return res
}

// ResetAllPositions moves every table of the business back to the center.
// Callers must have confirmed the action.
func (r *TableRegistry) ResetAllPositions(ctx context.Context, businessID string) (int64, error) {
	return r.tables.ResetPositions(ctx, businessID, models.DefaultPosition, models.DefaultPosition)
}

// Delete removes the table. Its scans are kept as history.
func (r *TableRegistry) Delete(ctx context.Context, businessID, id string) error {
	if err := r.tables.Delete(ctx, businessID, id); err != nil {
		return err
	}
	utils.InfoLogger.WithFields(utils.TenantFields(businessID)).WithField("table_id", id).Info("table deleted")
	return nil
}

func clampPosition(x, y float64) (Position, error) {
	if math.IsNaN(x) {
		return Position{}, utils.NewValidationError("x", "must be a number")
	}
	if math.IsNaN(y) {
		return Position{}, utils.NewValidationError("y", "must be a number")
	}
	return Position{X: clamp(x), Y: clamp(y)}, nil
}

func clamp(v float64) float64 {
	return math.Min(models.PositionMax, math.Max(models.PositionMin, v))
}

func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
