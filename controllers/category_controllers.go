package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/qr-menu-builder/middlewares"
	"github.com/yeremiapane/qr-menu-builder/services"
	"github.com/yeremiapane/qr-menu-builder/utils"
)

type CategoryController struct {
	Catalog *services.CatalogService
}

func NewCategoryController(catalog *services.CatalogService) *CategoryController {
	return &CategoryController{Catalog: catalog}
}

func (cc *CategoryController) ListCategories(c *gin.Context) {
	categories, err := cc.Catalog.ListCategories(c.Request.Context(), middlewares.CurrentBusiness(c).ID)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of categories", categories)
}

func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var in services.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	category, err := cc.Catalog.CreateCategory(c.Request.Context(), middlewares.CurrentBusiness(c).ID, in)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

func (cc *CategoryController) UpdateCategory(c *gin.Context) {
	var in services.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	category, err := cc.Catalog.RenameCategory(c.Request.Context(), middlewares.CurrentBusiness(c).ID, c.Param("cat_id"), in)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	removed, err := cc.Catalog.DeleteCategory(c.Request.Context(), middlewares.CurrentBusiness(c).ID, c.Param("cat_id"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted", gin.H{"items_deleted": removed})
}
