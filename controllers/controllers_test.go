package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/qr-menu-builder/models"
	"github.com/yeremiapane/qr-menu-builder/qr"
	"github.com/yeremiapane/qr-menu-builder/services"
	"github.com/yeremiapane/qr-menu-builder/theme"
)

func strPtr(s string) *string { return &s }

func TestNewMenuViewHidesDisabledBlocks(t *testing.T) {
	business := &models.Business{
		ID:          "b1",
		Name:        "Cafe X",
		ContactInfo: models.ContactInfo{Phone: strPtr("555-0100")},
		OpeningHours: map[string]string{
			"sunday": "closed",
			"monday": "8-17",
		},
		ShowLogo:         true,
		ShowContactInfo:  true,
		ShowSocialLinks:  true,
		ShowOpeningHours: false,
	}
	bundle := &services.MenuBundle{
		Business: business,
		Sections: []services.MenuSection{
			{
				Category: models.Category{ID: "c1", Name: "Drinks"},
				Items: []models.MenuItem{
					{ID: "i1", Name: "Latte", Price: decimal.RequireFromString("4.5"), IsAvailable: true},
					{ID: "i2", Name: "Seasonal Tea", Price: decimal.NewFromInt(3)},
				},
			},
			{
				Category: models.Category{ID: "c2", Name: "Desserts"},
				Items:    []models.MenuItem{{ID: "i3", Name: "Pie", IsAvailable: false}},
			},
		},
	}

	view := newMenuView(bundle, theme.Defaults(), false)

	require.Len(t, view.Sections, 1)
	assert.Equal(t, "Drinks", view.Sections[0].Name)
	require.Len(t, view.Sections[0].Items, 1)
	assert.Equal(t, "$4.50", view.Sections[0].Items[0].Price)
	assert.False(t, view.Empty)
	assert.False(t, view.ShowLogo, "no logo uploaded")
	assert.True(t, view.ShowContact)
	assert.False(t, view.ShowSocial, "no social links set")
	assert.Nil(t, view.Hours)

	business.ShowOpeningHours = true
	view = newMenuView(bundle, theme.Defaults(), true)
	assert.True(t, view.Preview)
	assert.Equal(t, []models.DayHours{{Day: "monday", Hours: "8-17"}, {Day: "sunday", Hours: "closed"}}, view.Hours)
}

func TestNewMenuViewEmpty(t *testing.T) {
	view := newMenuView(&services.MenuBundle{Business: &models.Business{ID: "b1"}}, theme.Defaults(), false)
	assert.True(t, view.Empty)
	assert.NotNil(t, view.Sections)
}

func TestMenuViewJSONOmitsOwner(t *testing.T) {
	business := &models.Business{
		ID:          "b1",
		OwnerID:     "owner-secret",
		Name:        "Cafe X",
		ContactInfo: models.ContactInfo{Phone: strPtr("555-0100")},
	}
	raw, err := json.Marshal(newMenuView(&services.MenuBundle{Business: business}, theme.Defaults(), false))
	require.NoError(t, err)

	var out struct {
		Business map[string]interface{} `json:"business"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "Cafe X", out.Business["name"])
	assert.Equal(t, "555-0100", out.Business["phone"])
	assert.NotContains(t, out.Business, "owner_id")
	assert.NotContains(t, string(raw), "owner-secret")
}

func TestNewMenuViewNeverShowsUnavailableItems(t *testing.T) {
	cases := []struct {
		name string
		item models.MenuItem
	}{
		{"plain", models.MenuItem{Name: "Plain"}},
		{"free", models.MenuItem{Name: "Free", Price: decimal.Zero}},
		{"priced", models.MenuItem{Name: "Priced", Price: decimal.RequireFromString("12.99")}},
		{"tagged", models.MenuItem{Name: "Tagged", Price: decimal.NewFromInt(5), Tags: []string{"vegan", "spicy"}}},
		{"pictured", models.MenuItem{Name: "Pictured", ImageURL: strPtr("/uploads/b1/item.png")}},
		{"everything", models.MenuItem{
			Name:        "Everything",
			Description: "House special",
			Price:       decimal.RequireFromString("0.01"),
			Tags:        []string{"new"},
			ImageURL:    strPtr("https://cdn.example.com/x.jpg"),
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hidden := tc.item
			hidden.ID = "hidden"
			hidden.IsAvailable = false
			shown := models.MenuItem{ID: "shown", Name: "Latte", Price: decimal.NewFromInt(4), IsAvailable: true}

			only := &services.MenuBundle{
				Business: &models.Business{ID: "b1"},
				Sections: []services.MenuSection{{Category: models.Category{ID: "c1"}, Items: []models.MenuItem{hidden}}},
			}
			view := newMenuView(only, theme.Defaults(), false)
			assert.True(t, view.Empty)
			assert.Empty(t, view.Sections)
			assert.True(t, only.IsEmpty())

			mixed := &services.MenuBundle{
				Business: &models.Business{ID: "b1"},
				Sections: []services.MenuSection{{Category: models.Category{ID: "c1"}, Items: []models.MenuItem{hidden, shown}}},
			}
			view = newMenuView(mixed, theme.Defaults(), true)
			require.Len(t, view.Sections, 1)
			require.Len(t, view.Sections[0].Items, 1)
			assert.Equal(t, "shown", view.Sections[0].Items[0].ID)
		})
	}
}

func TestPreviewStoreScopedToBusiness(t *testing.T) {
	store := NewPreviewStore(NewPreviewCookieStore([]byte("0123456789abcdef0123456789abcdef"), false))
	attrs := theme.Attributes{PrimaryColor: strPtr("#ff0000")}

	w := httptest.NewRecorder()
	require.NoError(t, store.Save(w, httptest.NewRequest("POST", "/admin/business/preview", nil), "b1", attrs))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest("GET", "/menu/b1?preview=true", nil)
	req.AddCookie(cookies[0])

	got := store.Load(req, "b1")
	require.NotNil(t, got)
	assert.Equal(t, "#ff0000", *got.PrimaryColor)
	assert.Nil(t, store.Load(req, "b2"))

	assert.Nil(t, store.Load(httptest.NewRequest("GET", "/menu/b1", nil), "b1"))

	w = httptest.NewRecorder()
	require.NoError(t, store.Clear(w, req))
	cleared := w.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.True(t, cleared[0].MaxAge < 0)
	assert.Equal(t, http.SameSiteLaxMode, cleared[0].SameSite)
}

func TestSheetEntries(t *testing.T) {
	enc := qr.NewEncoder("https://menus.example.com")
	entries := SheetEntries(enc, []models.Table{
		{ID: "t1", BusinessID: "b1", Name: "Table 1", Capacity: 2},
		{ID: "t2", BusinessID: "b1", Name: "Patio", Capacity: 6, Location: strPtr("Terrace")},
	})

	require.Len(t, entries, 2)
	assert.Equal(t, qr.SheetEntry{Label: "Table 1", Subtitle: "Seats 2", URL: "https://menus.example.com/menu/b1?table=t1"}, entries[0])
	assert.Equal(t, "Terrace - Seats 6", entries[1].Subtitle)
}
