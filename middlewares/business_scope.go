package middlewares

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/qr-menu-builder/models"
	"github.com/yeremiapane/qr-menu-builder/utils"
)

type BusinessLookup interface {
	GetByOwner(ctx context.Context, ownerID string) (*models.Business, error)
}

// RequireBusiness loads the owner's business so every admin handler below it
// works inside one tenant. Owners without a business are sent to onboarding.
func RequireBusiness(lookup BusinessLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID := OwnerID(c)
		if ownerID == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
			c.Abort()
			return
		}

		business, err := lookup.GetByOwner(c.Request.Context(), ownerID)
		if err != nil {
			if utils.IsNotFound(err) {
				c.Header("Location", "/admin/onboarding")
				utils.RespondError(c, http.StatusNotFound, errors.New("no business for this account, complete onboarding first"))
				c.Abort()
				return
			}
			utils.RespondServiceError(c, err)
			c.Abort()
			return
		}

		c.Set(businessKey, business)
		c.Next()
	}
}

// CurrentBusiness returns the business set by RequireBusiness.
func CurrentBusiness(c *gin.Context) *models.Business {
	if v, ok := c.Get(businessKey); ok {
		if b, ok := v.(*models.Business); ok {
			return b
		}
	}
	return nil
}
