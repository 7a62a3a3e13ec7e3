package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/qr-menu-builder/middlewares"
	"github.com/yeremiapane/qr-menu-builder/models"
	"github.com/yeremiapane/qr-menu-builder/qr"
	"github.com/yeremiapane/qr-menu-builder/services"
	"github.com/yeremiapane/qr-menu-builder/utils"
)

const defaultAnalyticsDays = 7

type TableController struct {
	Registry  *services.TableRegistry
	Analytics *services.AnalyticsService
	Encoder   qr.Encoder
}

func NewTableController(registry *services.TableRegistry, analytics *services.AnalyticsService, encoder qr.Encoder) *TableController {
	return &TableController{Registry: registry, Analytics: analytics, Encoder: encoder}
}

type tableView struct {
	models.Table
	MenuURL string `json:"menu_url"`
}

type tableDetailView struct {
	*services.TableDetail
	MenuURL string `json:"menu_url"`
}

func (tc *TableController) view(t models.Table) tableView {
	return tableView{Table: t, MenuURL: tc.Encoder.TableURL(t.BusinessID, t.ID)}
}

func (tc *TableController) ListTables(c *gin.Context) {
	tables, err := tc.Registry.List(c.Request.Context(), middlewares.CurrentBusiness(c).ID)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	out := make([]tableView, 0, len(tables))
	for _, t := range tables {
		out = append(out, tc.view(t))
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", out)
}

func (tc *TableController) CreateTable(c *gin.Context) {
	var in services.CreateTableInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	table, err := tc.Registry.Create(c.Request.Context(), middlewares.CurrentBusiness(c).ID, in)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", tc.view(*table))
}

// GetTable includes the scan history summary of the table.
func (tc *TableController) GetTable(c *gin.Context) {
	detail, err := tc.Analytics.TableDetail(c.Request.Context(), middlewares.CurrentBusiness(c).ID, c.Param("table_id"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", tableDetailView{
		TableDetail: detail,
		MenuURL:     tc.Encoder.TableURL(detail.Table.BusinessID, detail.Table.ID),
	})
}

func (tc *TableController) UpdateTable(c *gin.Context) {
	var in services.TableUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	table, err := tc.Registry.Update(c.Request.Context(), middlewares.CurrentBusiness(c).ID, c.Param("table_id"), in)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table updated", tc.view(*table))
}

func (tc *TableController) DeleteTable(c *gin.Context) {
	if err := tc.Registry.Delete(c.Request.Context(), middlewares.CurrentBusiness(c).ID, c.Param("table_id")); err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table deleted", nil)
}

type positionRequest struct {
	X *float64 `json:"x" binding:"required"`
	Y *float64 `json:"y" binding:"required"`
}

// UpdatePosition is the drag endpoint. It only touches the coordinates.
func (tc *TableController) UpdatePosition(c *gin.Context) {
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	pos, err := tc.Registry.UpdatePosition(c.Request.Context(), middlewares.CurrentBusiness(c).ID, c.Param("table_id"), *req.X, *req.Y)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Position updated", pos)
}

// BulkUpdatePositions answers 200 when everything applied and 207 when some
// entries failed; applied entries stay applied either way.
func (tc *TableController) BulkUpdatePositions(c *gin.Context) {
	var req struct {
		Positions []services.PositionUpdate `json:"positions" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	res := tc.Registry.BulkUpdatePositions(c.Request.Context(), middlewares.CurrentBusiness(c).ID, req.Positions)
	if len(res.Failed) > 0 {
		c.JSON(http.StatusMultiStatus, utils.JSONResponse{
			Status:  false,
			Message: fmt.Sprintf("%d of %d positions failed", len(res.Failed), len(req.Positions)),
			Data:    res,
		})
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Positions updated", res)
}

// ResetPositions needs {"confirm": true}; it moves every table to the center.
func (tc *TableController) ResetPositions(c *gin.Context) {
	var req struct {
		Confirm bool `json:"confirm"`
	}
	_ = c.ShouldBindJSON(&req)
	if !req.Confirm {
		utils.RespondError(c, http.StatusBadRequest, errors.New("resetting all positions requires confirm: true"))
		return
	}
	n, err := tc.Registry.ResetAllPositions(c.Request.Context(), middlewares.CurrentBusiness(c).ID)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Positions reset", gin.H{"tables_reset": n})
}

func (tc *TableController) TableQR(c *gin.Context) {
	table, err := tc.Registry.Get(c.Request.Context(), middlewares.CurrentBusiness(c).ID, c.Param("table_id"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	servePNG(c, tc.Encoder.TableURL(table.BusinessID, table.ID), fmt.Sprintf("table-qr-%s.png", table.ID))
}

// QRSheet returns a printable PDF with one code per active table.
func (tc *TableController) QRSheet(c *gin.Context) {
	business := middlewares.CurrentBusiness(c)
	tables, err := tc.Registry.ListActive(c.Request.Context(), business.ID)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	if len(tables) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("no active tables to print"))
		return
	}

	var buf bytes.Buffer
	if err := qr.Sheet(&buf, business.Name, SheetEntries(tc.Encoder, tables)); err != nil {
		utils.ErrorLogger.WithFields(utils.TenantFields(business.ID)).Errorf("failed to build qr sheet: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="table-qr-codes.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (tc *TableController) TableAnalytics(c *gin.Context) {
	days, err := daysParam(c)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	stats, err := tc.Analytics.TableAnalytics(c.Request.Context(), middlewares.CurrentBusiness(c).ID, days)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table analytics", stats)
}

func (tc *TableController) ExportScans(c *gin.Context) {
	days, err := daysParam(c)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := tc.Analytics.ExportScans(c.Request.Context(), middlewares.CurrentBusiness(c).ID, days, &buf); err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="table-scans-%dd.xlsx"`, days))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// SheetEntries labels each table for the printed sheet.
func SheetEntries(encoder qr.Encoder, tables []models.Table) []qr.SheetEntry {
	entries := make([]qr.SheetEntry, 0, len(tables))
	for _, t := range tables {
		subtitle := fmt.Sprintf("Seats %d", t.Capacity)
		if t.Location != nil {
			subtitle = *t.Location + " - " + subtitle
		}
		entries = append(entries, qr.SheetEntry{Label: t.Name, Subtitle: subtitle, URL: encoder.TableURL(t.BusinessID, t.ID)})
	}
	return entries
}

func daysParam(c *gin.Context) (int, error) {
	raw := c.Query("days")
	if raw == "" {
		return defaultAnalyticsDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, utils.NewValidationError("days", "must be a number")
	}
	return days, nil
}
