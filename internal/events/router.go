package events

import (
	"stagehand/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupEventRoutes configures event routes
func SetupEventRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public reads
	public := rg.Group("/events")
	{
		public.GET("", controller.ListEvents)
		public.GET("/:id", controller.GetEvent)
	}

	// Admin configuration
	admin := rg.Group("/events")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("", controller.CreateEvent)
		admin.PUT("/:id", controller.UpdateEvent)
		admin.DELETE("/:id", controller.DeleteEvent)
	}
}
