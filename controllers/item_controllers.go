package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/qr-menu-builder/middlewares"
	"github.com/yeremiapane/qr-menu-builder/services"
	"github.com/yeremiapane/qr-menu-builder/utils"
)

type ItemController struct {
	Catalog *services.CatalogService
}

func NewItemController(catalog *services.CatalogService) *ItemController {
	return &ItemController{Catalog: catalog}
}

// ListItems is the admin listing; ?category_id= narrows it.
func (ic *ItemController) ListItems(c *gin.Context) {
	items, err := ic.Catalog.ListItems(c.Request.Context(), middlewares.CurrentBusiness(c).ID, c.Query("category_id"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of items", items)
}

func (ic *ItemController) CreateItem(c *gin.Context) {
	var in services.ItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	item, err := ic.Catalog.CreateItem(c.Request.Context(), middlewares.CurrentBusiness(c).ID, in)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Item created", item)
}

func (ic *ItemController) UpdateItem(c *gin.Context) {
	var in services.ItemUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	item, err := ic.Catalog.UpdateItem(c.Request.Context(), middlewares.CurrentBusiness(c).ID, c.Param("item_id"), in)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item updated", item)
}

func (ic *ItemController) DeleteItem(c *gin.Context) {
	if err := ic.Catalog.DeleteItem(c.Request.Context(), middlewares.CurrentBusiness(c).ID, c.Param("item_id")); err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item deleted", nil)
}

func (ic *ItemController) UploadImage(c *gin.Context) {
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

	item, err := ic.Catalog.SetItemImage(c.Request.Context(), middlewares.CurrentBusiness(c).ID, c.Param("item_id"), file)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Image uploaded", item)
}
