package router

import (
	"github.com/gin-gonic/gin"
	"github.com/tallerix/taller-backend/config"
	"github.com/tallerix/taller-backend/internal/app/controller"
	"github.com/tallerix/taller-backend/internal/middleware"
)

type Router struct {
	ownerController     *controller.OwnerController
	materialController  *controller.MaterialController
	accessoryController *controller.AccessoryController
	pricingController   *controller.PricingController
	config              *config.Config
}

func NewRouter(
	ownerController *controller.OwnerController,
	materialController *controller.MaterialController,
	accessoryController *controller.AccessoryController,
	pricingController *controller.PricingController,
	cfg *config.Config,
) *Router {
	return &Router{
		ownerController:     ownerController,
		materialController:  materialController,
		accessoryController: accessoryController,
		pricingController:   pricingController,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "TALLERIX API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		owners := v1.Group("/owners")
		{
			owners.POST("", r.ownerController.CreateOwner)
			owners.GET("/:id", r.ownerController.GetOwner)
			owners.PUT("/:id/profit", r.ownerController.UpdateProfit)
		}

		materials := v1.Group("/materials")
		{
			materials.GET("", r.materialController.ListMaterials)
			materials.GET("/types", r.materialController.ListMaterialTypes)
			materials.GET("/:id", r.materialController.GetMaterial)
			materials.POST("", r.materialController.CreateMaterial)
			materials.PUT("/:id", r.materialController.UpdateMaterial)
			materials.DELETE("/:id", r.materialController.DeleteMaterial)
		}

		accessories := v1.Group("/accessories")
		{
			accessories.GET("", r.accessoryController.ListAccessories)
			accessories.POST("", r.accessoryController.CreateAccessory)
			accessories.GET("/:id", r.accessoryController.GetAccessory)
			accessories.PUT("/:id", r.accessoryController.UpdateAccessory)
			accessories.DELETE("/:id", r.accessoryController.DeleteAccessory)

			accessories.GET("/:id/materials", r.accessoryController.GetMaterials)
			accessories.POST("/:id/materials", r.accessoryController.AddMaterial)
			accessories.DELETE("/:id/materials/:linkId", r.accessoryController.RemoveMaterial)

			accessories.GET("/:id/components", r.accessoryController.GetComponents)
			accessories.PUT("/:id/components", r.accessoryController.ReplaceComponents)
			accessories.DELETE("/:id/components/:componentId", r.accessoryController.RemoveComponent)

			accessories.GET("/:id/pricing", r.pricingController.GetPricing)
			accessories.POST("/:id/pricing/recompute", r.pricingController.Recompute)
			accessories.GET("/:id/pricing/export", r.pricingController.Export)
		}

		pricing := v1.Group("/pricing")
		{
			pricing.POST("/refresh", r.pricingController.RefreshAll)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
