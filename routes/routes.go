package routes

import (
	"net/http"
	"time"

	"marketplace/handlers"
	"marketplace/middleware"
	"marketplace/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterVendorRoutes registers vendor account and listing management endpoints.
func RegisterVendorRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/vendors")
	{
		api.POST("/register", hb.RegisterVendorHandler)

		// Protected routes (Require Authentication)
		protected := api.Group("")
		protected.Use(middleware.JWTAuthVendorMiddleware(hb.VendorRepo, hb.AuthCache))
		protected.GET("/me", hb.GetMeHandler)
		protected.PATCH("/settings", hb.UpdateSettingsHandler)
		protected.GET("/dashboard", hb.DashboardHandler)
		protected.GET("/items/:itemType", hb.ListItemsHandler)
		protected.POST("/items/:itemType", hb.CreateItemHandler)
		protected.PATCH("/items/:itemType/:id/toggle-active", hb.ToggleActiveHandler)
	}
}

// RegisterAvailabilityRoutes registers the public availability queries.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/availability/:vendorID")
	{
		api.POST("/partybooking", hb.CheckPartyAvailabilityHandler)
		api.POST("/event", hb.CheckEventAvailabilityHandler)
		api.GET("/:itemType/schedule", hb.DayScheduleHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "dependencies": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterVendorRoutes(r, hb)
	RegisterAvailabilityRoutes(r, hb)
}
