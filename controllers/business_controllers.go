package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/qr-menu-builder/middlewares"
	"github.com/yeremiapane/qr-menu-builder/models"
	"github.com/yeremiapane/qr-menu-builder/qr"
	"github.com/yeremiapane/qr-menu-builder/services"
	"github.com/yeremiapane/qr-menu-builder/theme"
	"github.com/yeremiapane/qr-menu-builder/utils"
)

type BusinessController struct {
	Service  *services.BusinessService
	Previews *PreviewStore
	Encoder  qr.Encoder
}

func NewBusinessController(svc *services.BusinessService, previews *PreviewStore, encoder qr.Encoder) *BusinessController {
	return &BusinessController{Service: svc, Previews: previews, Encoder: encoder}
}

type businessResponse struct {
	Business *models.Business `json:"business"`
	MenuURL  string           `json:"menu_url"`
	Theme    theme.Tokens     `json:"theme"`
}

// Onboard creates the caller's business. A second attempt redirects to the
// existing one.
func (bc *BusinessController) Onboard(c *gin.Context) {
	ownerID := middlewares.OwnerID(c)
	if _, err := bc.Service.GetByOwner(c.Request.Context(), ownerID); err == nil {
		c.Redirect(http.StatusSeeOther, "/admin/business")
		return
	} else if !utils.IsNotFound(err) {
		utils.RespondServiceError(c, err)
		return
	}

	var in services.OnboardInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	business, err := bc.Service.Onboard(c.Request.Context(), ownerID, in)
	if errors.Is(err, services.ErrAlreadyOnboarded) {
		c.Redirect(http.StatusSeeOther, "/admin/business")
		return
	}
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Business created", bc.describe(business))
}

func (bc *BusinessController) GetBusiness(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Business", bc.describe(middlewares.CurrentBusiness(c)))
}

func (bc *BusinessController) UpdateCustomization(c *gin.Context) {
	var in services.CustomizationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	business, err := bc.Service.UpdateCustomization(c.Request.Context(), middlewares.CurrentBusiness(c).ID, in)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customization saved", bc.describe(business))
}

// SetPreview stores unsaved style overrides for ?preview=true.
func (bc *BusinessController) SetPreview(c *gin.Context) {
	var attrs theme.Attributes
	if err := c.ShouldBindJSON(&attrs); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := services.ValidateStyle(attrs); err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	business := middlewares.CurrentBusiness(c)
	if err := bc.Previews.Save(c.Writer, c.Request, business.ID, attrs); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Preview ready", gin.H{
		"preview_url": bc.Encoder.MenuURL(business.ID) + "?preview=true",
		"theme":       theme.Resolve(business.Attributes, &attrs),
	})
}

func (bc *BusinessController) ClearPreview(c *gin.Context) {
	if err := bc.Previews.Clear(c.Writer, c.Request); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Preview cleared", nil)
}

// UploadAsset takes a multipart "file" for kind logo or favicon.
func (bc *BusinessController) UploadAsset(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	business, err := bc.Service.SetBrandingAsset(c.Request.Context(), middlewares.CurrentBusiness(c).ID, c.Param("kind"), file)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Asset uploaded", bc.describe(business))
}

func (bc *BusinessController) DeleteAsset(c *gin.Context) {
	business, err := bc.Service.RemoveBrandingAsset(c.Request.Context(), middlewares.CurrentBusiness(c).ID, c.Param("kind"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Asset removed", bc.describe(business))
}

func (bc *BusinessController) DashboardStats(c *gin.Context) {
	stats, err := bc.Service.Stats(c.Request.Context(), middlewares.CurrentBusiness(c).ID)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}

// BusinessQR serves the PNG for the business-level menu URL.
func (bc *BusinessController) BusinessQR(c *gin.Context) {
	business := middlewares.CurrentBusiness(c)
	servePNG(c, bc.Encoder.MenuURL(business.ID), fmt.Sprintf("menu-qr-%s.png", business.ID))
}

func (bc *BusinessController) describe(business *models.Business) businessResponse {
	return businessResponse{
		Business: business,
		MenuURL:  bc.Encoder.MenuURL(business.ID),
		Theme:    theme.Resolve(business.Attributes, nil),
	}
}
