package router

import (
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/qr-menu-builder/config"
	"github.com/yeremiapane/qr-menu-builder/controllers"
	"github.com/yeremiapane/qr-menu-builder/middlewares"
	"github.com/yeremiapane/qr-menu-builder/qr"
	"github.com/yeremiapane/qr-menu-builder/repositories"
	"github.com/yeremiapane/qr-menu-builder/services"
	"github.com/yeremiapane/qr-menu-builder/theme"
	"github.com/yeremiapane/qr-menu-builder/views"
	"gorm.io/gorm"
)

var imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// SetupRouter wires repositories, services and controllers. The scan logger
// is owned by the caller, which starts and stops it.
func SetupRouter(db *gorm.DB, cfg *config.Config, scans controllers.ScanRecorder, limiter *middlewares.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Only image files are served from the upload directory.
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/uploads/") &&
			!imageExtensions[strings.ToLower(path.Ext(c.Request.URL.Path))] {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	})
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())

	r.Static("/uploads", cfg.UploadDir)

	businessRepo := repositories.NewBusinessRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	itemRepo := repositories.NewMenuItemRepository(db)
	tableRepo := repositories.NewTableRepository(db)
	scanRepo := repositories.NewTableScanRepository(db)

	storage := services.NewLocalStorage(cfg.UploadDir, "/uploads")
	encoder := qr.NewEncoder(cfg.PublicOrigin)
	previews := controllers.NewPreviewStore(controllers.NewPreviewCookieStore([]byte(cfg.SessionKey), strings.HasPrefix(cfg.PublicOrigin, "https://")))

	businessSvc := services.NewBusinessService(businessRepo, categoryRepo, itemRepo, tableRepo, storage)
	catalogSvc := services.NewCatalogService(categoryRepo, itemRepo, storage)
	registry := services.NewTableRegistry(tableRepo)
	analytics := services.NewAnalyticsService(tableRepo, scanRepo)
	assembler := services.NewMenuAssembler(businessRepo, categoryRepo, itemRepo, tableRepo)

	menuCtrl := controllers.NewMenuController(assembler, theme.NewApplicator(), scans, views.NewRenderer(), previews)
	businessCtrl := controllers.NewBusinessController(businessSvc, previews, encoder)
	categoryCtrl := controllers.NewCategoryController(catalogSvc)
	itemCtrl := controllers.NewItemController(catalogSvc)
	tableCtrl := controllers.NewTableController(registry, analytics, encoder)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/menu")
	if limiter != nil {
		public.Use(limiter.RateLimit())
	}
	{
		public.GET("/:business_id", menuCtrl.ShowMenu)
		public.GET("/:business_id/data", menuCtrl.MenuData)
	}

	// ----------------------------------------------------------------
	//                      OWNER ROUTES
	// ----------------------------------------------------------------
	owner := r.Group("/admin")
	owner.Use(middlewares.OwnerAuth([]byte(cfg.JWTSecret)))
	owner.POST("/onboarding", businessCtrl.Onboard)

	admin := owner.Group("")
	admin.Use(middlewares.RequireBusiness(businessSvc))
	{
		admin.GET("/business", businessCtrl.GetBusiness)
		admin.PUT("/business/customization", businessCtrl.UpdateCustomization)
		admin.POST("/business/preview", businessCtrl.SetPreview)
		admin.DELETE("/business/preview", businessCtrl.ClearPreview)
		admin.POST("/business/assets/:kind", businessCtrl.UploadAsset)
		admin.DELETE("/business/assets/:kind", businessCtrl.DeleteAsset)
		admin.GET("/dashboard/stats", businessCtrl.DashboardStats)
		admin.GET("/qr", businessCtrl.BusinessQR)

		admin.GET("/categories", categoryCtrl.ListCategories)
		admin.POST("/categories", categoryCtrl.CreateCategory)
		admin.PATCH("/categories/:cat_id", categoryCtrl.UpdateCategory)
		admin.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

		admin.GET("/items", itemCtrl.ListItems)
		admin.POST("/items", itemCtrl.CreateItem)
		admin.PATCH("/items/:item_id", itemCtrl.UpdateItem)
		admin.DELETE("/items/:item_id", itemCtrl.DeleteItem)
		admin.POST("/items/:item_id/image", itemCtrl.UploadImage)

		tables := admin.Group("/tables")
		{
			tables.GET("", tableCtrl.ListTables)
			tables.POST("", tableCtrl.CreateTable)
			tables.PUT("/positions", tableCtrl.BulkUpdatePositions)
			tables.POST("/positions/reset", tableCtrl.ResetPositions)
			tables.GET("/qr-sheet", tableCtrl.QRSheet)
			tables.GET("/analytics", tableCtrl.TableAnalytics)
			tables.GET("/scans/export", tableCtrl.ExportScans)
			tables.GET("/:table_id", tableCtrl.GetTable)
			tables.PATCH("/:table_id", tableCtrl.UpdateTable)
			tables.DELETE("/:table_id", tableCtrl.DeleteTable)
			tables.PUT("/:table_id/position", tableCtrl.UpdatePosition)
			tables.GET("/:table_id/qr", tableCtrl.TableQR)
		}
	}

	return r
}
