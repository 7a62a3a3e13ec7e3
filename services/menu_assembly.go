package services

import (
	"context"

	"github.com/yeremiapane/qr-menu-builder/models"
	"github.com/yeremiapane/qr-menu-builder/repositories"
	"github.com/yeremiapane/qr-menu-builder/utils"
)

type MenuSection struct {
	Category models.Category   `json:"category"`
	Items    []models.MenuItem `json:"items"`
}

// MenuBundle is everything a menu render needs. Sections hold every item;
// customer-facing output goes through VisibleSections.
type MenuBundle struct {
	Business *models.Business `json:"business"`
	Sections []MenuSection    `json:"sections"`
	Table    *models.Table    `json:"table"`
}

// VisibleSections drops unavailable items, then sections left with nothing
// to show.
func (b *MenuBundle) VisibleSections() []MenuSection {
	out := make([]MenuSection, 0, len(b.Sections))
	for _, s := range b.Sections {
		items := make([]models.MenuItem, 0, len(s.Items))
		for _, item := range s.Items {
			if item.IsAvailable {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			continue
		}
		out = append(out, MenuSection{Category: s.Category, Items: items})
	}
	return out
}

func (b *MenuBundle) IsEmpty() bool {
	return len(b.VisibleSections()) == 0
}

type MenuAssembler struct {
	businesses repositories.BusinessRepository
	categories repositories.CategoryRepository
	items      repositories.MenuItemRepository
	tables     repositories.TableRepository
}

func NewMenuAssembler(
	businesses repositories.BusinessRepository,
	categories repositories.CategoryRepository,
	items repositories.MenuItemRepository,
	tables repositories.TableRepository,
) *MenuAssembler {
	return &MenuAssembler{businesses: businesses, categories: categories, items: items, tables: tables}
}

// Assemble loads the business, its ordered categories and items, and the
// table when tableID names one of this business's tables. Any other table id
// is ignored.
func (a *MenuAssembler) Assemble(ctx context.Context, businessID, tableID string) (*MenuBundle, error) {
	business, err := a.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	categories, err := a.categories.List(ctx, business.ID)
	if err != nil {
		return nil, err
	}
	items, err := a.items.ListByBusiness(ctx, business.ID)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string][]models.MenuItem, len(categories))
	for _, item := range items {
		byCategory[item.CategoryID] = append(byCategory[item.CategoryID], item)
	}
	sections := make([]MenuSection, 0, len(categories))
	for _, c := range categories {
		sections = append(sections, MenuSection{Category: c, Items: byCategory[c.ID]})
	}

	return &MenuBundle{
		Business: business,
		Sections: sections,
		Table:    a.resolveTable(ctx, business.ID, tableID),
	}, nil
}

func (a *MenuAssembler) resolveTable(ctx context.Context, businessID, tableID string) *models.Table {
	if tableID == "" {
		return nil
	}
	table, err := a.tables.GetByID(ctx, businessID, tableID)
	if err != nil {
		if !utils.IsNotFound(err) {
			utils.ErrorLogger.WithFields(utils.TenantFields(businessID)).
				WithField("table_id", tableID).Warnf("table lookup failed, rendering without table: %v", err)
		}
		return nil
	}
	return table
}
