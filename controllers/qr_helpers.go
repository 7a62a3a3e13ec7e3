package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/qr-menu-builder/qr"
	"github.com/yeremiapane/qr-menu-builder/utils"
)

// servePNG renders url as a QR PNG. ?download=1 asks the browser to save it.
func servePNG(c *gin.Context, url, filename string) {
	png, err := qr.PNG(url)
	if err != nil {
		utils.ErrorLogger.Errorf("failed to encode qr for %s: %v", url, err)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if c.Query("download") == "1" {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	}
	c.Header("X-Menu-URL", url)
	c.Data(http.StatusOK, "image/png", png)
}
