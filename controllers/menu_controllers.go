package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/unrolled/render"
	"github.com/yeremiapane/qr-menu-builder/services"
	"github.com/yeremiapane/qr-menu-builder/theme"
	"github.com/yeremiapane/qr-menu-builder/utils"
)

// ScanRecorder takes a visit without waiting for it to be stored.
type ScanRecorder interface {
	Log(tableID, userAgent string) bool
}

type MenuController struct {
	Assembler  *services.MenuAssembler
	Applicator *theme.Applicator
	Scans      ScanRecorder
	Render     *render.Render
	Previews   *PreviewStore
}

func NewMenuController(assembler *services.MenuAssembler, applicator *theme.Applicator, scans ScanRecorder, r *render.Render, previews *PreviewStore) *MenuController {
	return &MenuController{Assembler: assembler, Applicator: applicator, Scans: scans, Render: r, Previews: previews}
}

// ShowMenu renders /menu/:business_id. A table query parameter that belongs
// to the business records exactly one scan, except in preview mode.
func (mc *MenuController) ShowMenu(c *gin.Context) {
	view, ok := mc.load(c)
	if !ok {
		return
	}

	if view.Table != nil && !view.Preview {
		mc.Scans.Log(view.Table.ID, c.Request.UserAgent())
	}

	err := mc.Applicator.Apply(view.Tokens, func(scope *theme.Scope) error {
		view.Theme = scope
		return mc.Render.HTML(c.Writer, http.StatusOK, "menu", view)
	})
	if err != nil {
		utils.ErrorLogger.WithFields(utils.TenantFields(view.Business.ID)).Errorf("failed to render menu: %v", err)
	}
}

// MenuData is the JSON form of the same menu. It never records a scan.
func (mc *MenuController) MenuData(c *gin.Context) {
	view, ok := mc.loadJSON(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu", view)
}

func (mc *MenuController) load(c *gin.Context) (*MenuView, bool) {
	view, err := mc.build(c)
	if err == nil {
		return view, true
	}
	if utils.IsNotFound(err) {
		mc.renderStatus(c, http.StatusNotFound, "Menu not found", "This menu does not exist or is no longer available.")
		return nil, false
	}
	utils.ErrorLogger.WithField("business_id", c.Param("business_id")).Errorf("failed to load menu: %v", err)
	mc.renderStatus(c, http.StatusServiceUnavailable, "Menu unavailable", "Something went wrong loading this menu. Please try again.")
	return nil, false
}

func (mc *MenuController) loadJSON(c *gin.Context) (*MenuView, bool) {
	view, err := mc.build(c)
	if err != nil {
		utils.RespondServiceError(c, err)
		return nil, false
	}
	return view, true
}

func (mc *MenuController) build(c *gin.Context) (*MenuView, error) {
	preview := c.Query("preview") == "true"
	bundle, err := mc.Assembler.Assemble(c.Request.Context(), c.Param("business_id"), c.Query("table"))
	if err != nil {
		return nil, err
	}

	var override *theme.Attributes
	if preview && mc.Previews != nil {
		override = mc.Previews.Load(c.Request, bundle.Business.ID)
	}
	tokens := theme.Resolve(bundle.Business.Attributes, override)
	return newMenuView(bundle, tokens, preview), nil
}

func (mc *MenuController) renderStatus(c *gin.Context, status int, title, message string) {
	if err := mc.Render.HTML(c.Writer, status, "status", gin.H{"Title": title, "Message": message}); err != nil {
		utils.ErrorLogger.Errorf("failed to render status page: %v", err)
	}
}
