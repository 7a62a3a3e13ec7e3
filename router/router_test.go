package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/qr-menu-builder/config"
	"github.com/yeremiapane/qr-menu-builder/database"
	"github.com/yeremiapane/qr-menu-builder/middlewares"
	"github.com/yeremiapane/qr-menu-builder/models"
	"github.com/yeremiapane/qr-menu-builder/repositories"
	"github.com/yeremiapane/qr-menu-builder/router"
	"github.com/yeremiapane/qr-menu-builder/services"
	"github.com/yeremiapane/qr-menu-builder/utils"
)

const (
	testOrigin = "http://menu.test"
	testSecret = "test-secret"
)

type testApp struct {
	db     *gorm.DB
	engine *gin.Engine
	scans  *services.ScanLogger
}

func setupApp(t *testing.T, limiter *middlewares.RateLimiter) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.SetLogOutput(io.Discard)

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	cfg := &config.Config{
		PublicOrigin: testOrigin,
		JWTSecret:    testSecret,
		SessionKey:   "0123456789abcdef0123456789abcdef",
		UploadDir:    t.TempDir(),
	}
	scans := services.NewScanLogger(repositories.NewTableScanRepository(db), 16, 1)
	scans.Start()
	t.Cleanup(scans.Stop)

	return &testApp{db: db, engine: router.SetupRouter(db, cfg, scans, limiter), scans: scans}
}

func token(t *testing.T, owner string) string {
	t.Helper()
	tok, err := utils.GenerateOwnerToken([]byte(testSecret), owner, time.Hour)
	require.NoError(t, err)
	return tok
}

func (a *testApp) do(t *testing.T, method, path, tok string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp struct {
		Status  bool                   `json:"status"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Data
}

// onboard creates "Cafe X" with Drinks (Latte, hidden Seasonal Tea) and Table 5.
func onboard(t *testing.T, app *testApp, tok string) (businessID, tableID string) {
	t.Helper()
	w := app.do(t, "POST", "/admin/onboarding", tok, gin.H{"name": "Cafe X"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	businessID = decodeData(t, w)["business"].(map[string]interface{})["id"].(string)

	w = app.do(t, "POST", "/admin/categories", tok, gin.H{"name": "Drinks"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	categoryID := decodeData(t, w)["id"].(string)

	w = app.do(t, "POST", "/admin/items", tok, gin.H{"category_id": categoryID, "name": "Latte", "price": "4.5"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = app.do(t, "POST", "/admin/items", tok, gin.H{"category_id": categoryID, "name": "Seasonal Tea", "price": "3", "is_available": false})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = app.do(t, "POST", "/admin/tables", tok, gin.H{"name": "Table 5", "capacity": 4})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	table := decodeData(t, w)
	assert.Equal(t, 50.0, table["position_x"])
	assert.Equal(t, true, table["is_active"])
	tableID = table["id"].(string)
	assert.Equal(t, testOrigin+"/menu/"+businessID+"?table="+tableID, table["menu_url"])
	return businessID, tableID
}

func scanCount(t *testing.T, db *gorm.DB, tableID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.TableScan{}).Where("table_id = ?", tableID).Count(&n).Error)
	return n
}

func TestCustomerFlowRecordsOneScan(t *testing.T) {
	app := setupApp(t, nil)
	tok := token(t, "owner-1")
	businessID, tableID := onboard(t, app, tok)

	w := app.do(t, "GET", "/menu/"+businessID+"?table="+tableID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Cafe X")
	assert.Contains(t, body, "Drinks")
	assert.Contains(t, body, "Latte")
	assert.Contains(t, body, "$4.50")
	assert.NotContains(t, body, "Seasonal Tea")
	assert.Contains(t, body, "viewing the menu for Table 5")
	assert.Contains(t, body, `class="menu-theme layout-classic width-standard"`)
	assert.Contains(t, body, "--menu-primary:#8B5CF6;")

	// The JSON endpoint never records a visit.
	w = app.do(t, "GET", "/menu/"+businessID+"/data?table="+tableID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "owner-1")
	data := decodeData(t, w)
	business := data["business"].(map[string]interface{})
	assert.Equal(t, "Cafe X", business["name"])
	assert.NotContains(t, business, "owner_id")
	assert.NotContains(t, business, "primary_color")
	sections := data["sections"].([]interface{})
	require.Len(t, sections, 1)
	items := sections[0].(map[string]interface{})["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "$4.50", items[0].(map[string]interface{})["price"])

	app.scans.Stop()
	assert.Equal(t, int64(1), scanCount(t, app.db, tableID))
}

func TestMenuWithoutTableOrForeignTable(t *testing.T) {
	app := setupApp(t, nil)
	businessID, _ := onboard(t, app, token(t, "owner-1"))
	_, otherTable := onboard(t, app, token(t, "owner-2"))

	w := app.do(t, "GET", "/menu/"+businessID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "viewing the menu for")

	w = app.do(t, "GET", "/menu/"+businessID+"?table="+otherTable, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "viewing the menu for")

	app.scans.Stop()
	assert.Zero(t, scanCount(t, app.db, otherTable))
}

func TestUnknownMenu(t *testing.T) {
	app := setupApp(t, nil)

	w := app.do(t, "GET", "/menu/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Menu not found")

	w = app.do(t, "GET", "/menu/"+uuid.NewString()+"/data", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEmptyMenuShowsComingSoon(t *testing.T) {
	app := setupApp(t, nil)
	w := app.do(t, "POST", "/admin/onboarding", token(t, "owner-1"), gin.H{"name": "New Place"})
	require.Equal(t, http.StatusCreated, w.Code)
	businessID := decodeData(t, w)["business"].(map[string]interface{})["id"].(string)

	w = app.do(t, "GET", "/menu/"+businessID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Menu coming soon! Please check back later.")
}

func TestPreviewAppliesOverridesWithoutScan(t *testing.T) {
	app := setupApp(t, nil)
	tok := token(t, "owner-1")
	businessID, tableID := onboard(t, app, tok)

	w := app.do(t, "POST", "/admin/business/preview", tok, gin.H{"primary_color": "#ff0000", "layout_style": "grid"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decodeData(t, w)
	assert.Equal(t, testOrigin+"/menu/"+businessID+"?preview=true", data["preview_url"])
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = app.do(t, "GET", "/menu/"+businessID+"?preview=true&table="+tableID, "", nil, cookies...)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Preview Mode")
	assert.Contains(t, body, "--menu-primary:#ff0000;")
	assert.Contains(t, body, "layout-grid")

	// Stored style is untouched.
	w = app.do(t, "GET", "/menu/"+businessID, "", nil, cookies...)
	assert.Contains(t, w.Body.String(), "--menu-primary:#8B5CF6;")

	w = app.do(t, "POST", "/admin/business/preview", tok, gin.H{"layout_style": "masonry"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	app.scans.Stop()
	assert.Zero(t, scanCount(t, app.db, tableID))
}

func TestOwnerAccessAndOnboarding(t *testing.T) {
	app := setupApp(t, nil)

	w := app.do(t, "GET", "/admin/business", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	tok := token(t, "owner-1")
	w = app.do(t, "GET", "/admin/business", tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "/admin/onboarding", w.Header().Get("Location"))

	onboard(t, app, tok)

	for _, body := range []interface{}{gin.H{"name": "Again"}, gin.H{"name": ""}, gin.H{}} {
		w = app.do(t, "POST", "/admin/onboarding", tok, body)
		assert.Equal(t, http.StatusSeeOther, w.Code, "body %v", body)
		assert.Equal(t, "/admin/business", w.Header().Get("Location"))
	}

	req, err := http.NewRequest("POST", "/admin/onboarding", strings.NewReader(`{"name":`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	w = httptest.NewRecorder()
	app.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusSeeOther, w.Code, "malformed body")

	w = app.do(t, "GET", "/admin/business", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "Cafe X", data["business"].(map[string]interface{})["name"])
	assert.Equal(t, "classic", data["theme"].(map[string]interface{})["layout_style"])

	w = app.do(t, "GET", "/admin/dashboard/stats", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeData(t, w)
	assert.Equal(t, 1.0, stats["categories"])
	assert.Equal(t, 2.0, stats["items"])
	assert.Equal(t, 1.0, stats["tables"])
}

func TestTablesAreTenantScoped(t *testing.T) {
	app := setupApp(t, nil)
	_, tableID := onboard(t, app, token(t, "owner-1"))
	other := token(t, "owner-2")
	onboard(t, app, other)

	assert.Equal(t, http.StatusNotFound, app.do(t, "GET", "/admin/tables/"+tableID, other, nil).Code)
	assert.Equal(t, http.StatusNotFound, app.do(t, "PUT", "/admin/tables/"+tableID+"/position", other, gin.H{"x": 10, "y": 10}).Code)
	assert.Equal(t, http.StatusNotFound, app.do(t, "DELETE", "/admin/tables/"+tableID, other, nil).Code)
}

func TestFloorPlanEndpoints(t *testing.T) {
	app := setupApp(t, nil)
	tok := token(t, "owner-1")
	_, tableID := onboard(t, app, tok)

	w := app.do(t, "PUT", "/admin/tables/"+tableID+"/position", tok, gin.H{"x": 150, "y": -5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	pos := decodeData(t, w)
	assert.Equal(t, 100.0, pos["x"])
	assert.Equal(t, 0.0, pos["y"])

	w = app.do(t, "PUT", "/admin/tables/"+tableID+"/position", tok, gin.H{"x": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, "PUT", "/admin/tables/positions", tok, gin.H{"positions": []gin.H{
		{"table_id": tableID, "x": 20, "y": 30},
		{"table_id": uuid.NewString(), "x": 20, "y": 30},
	}})
	assert.Equal(t, http.StatusMultiStatus, w.Code)
	result := decodeData(t, w)
	assert.Equal(t, []interface{}{tableID}, result["updated"])
	assert.Len(t, result["failed"], 1)

	w = app.do(t, "POST", "/admin/tables/positions/reset", tok, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, "POST", "/admin/tables/positions/reset", tok, gin.H{"confirm": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, decodeData(t, w)["tables_reset"])

	w = app.do(t, "GET", "/admin/tables/"+tableID, tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	table := decodeData(t, w)["table"].(map[string]interface{})
	assert.Equal(t, 50.0, table["position_x"])
	assert.Equal(t, 50.0, table["position_y"])
}

func TestQRDownloads(t *testing.T) {
	app := setupApp(t, nil)
	tok := token(t, "owner-1")
	businessID, tableID := onboard(t, app, tok)

	w := app.do(t, "GET", "/admin/tables/"+tableID+"/qr?download=1", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, testOrigin+"/menu/"+businessID+"?table="+tableID, w.Header().Get("X-Menu-URL"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	w = app.do(t, "GET", "/admin/qr", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testOrigin+"/menu/"+businessID, w.Header().Get("X-Menu-URL"))
	assert.Empty(t, w.Header().Get("Content-Disposition"))

	w = app.do(t, "GET", "/admin/tables/qr-sheet", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))
}

func TestAnalyticsEndpoints(t *testing.T) {
	app := setupApp(t, nil)
	tok := token(t, "owner-1")
	businessID, tableID := onboard(t, app, tok)

	app.do(t, "GET", "/menu/"+businessID+"?table="+tableID, "", nil)
	app.do(t, "GET", "/menu/"+businessID+"?table="+tableID, "", nil)
	app.scans.Stop()
	require.Equal(t, int64(2), scanCount(t, app.db, tableID))

	w := app.do(t, "GET", "/admin/tables/analytics", tok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stats := decodeData(t, w)
	assert.Equal(t, 7.0, stats["days"])
	assert.Equal(t, 2.0, stats["total_scans"])
	assert.NotNil(t, stats["top_table"])

	assert.Equal(t, http.StatusBadRequest, app.do(t, "GET", "/admin/tables/analytics?days=5", tok, nil).Code)

	w = app.do(t, "GET", "/admin/tables/scans/export?days=30", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "table-scans-30d.xlsx")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestUploadsOnlyServeImages(t *testing.T) {
	app := setupApp(t, nil)
	w := app.do(t, "GET", "/uploads/secret.txt", "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, "GET", "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestPublicMenuIsRateLimited(t *testing.T) {
	app := setupApp(t, middlewares.NewRateLimiter(1, 2))
	id := uuid.NewString()

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, app.do(t, "GET", "/menu/"+id, "", nil).Code)
	}
	assert.Equal(t, []int{http.StatusNotFound, http.StatusNotFound, http.StatusTooManyRequests}, codes)
}
