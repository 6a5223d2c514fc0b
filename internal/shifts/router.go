package shifts

import (
	"stagehand/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupShiftRoutes configures shift catalog routes
func SetupShiftRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public reads
	public := rg.Group("/shifts")
	{
		public.GET("/:id", controller.GetShift)
		public.GET("/:id/availability", controller.GetAvailability)
	}

	// Shift listing under events; OptionalAuth-style: middleware is applied by
	// the caller, unauthenticated requests see public shifts only
	rg.GET("/events/:id/shifts", controller.ListShifts)

	// Admin configuration
	admin := rg.Group("/shifts")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("", controller.CreateShift)
		admin.PUT("/:id", controller.UpdateShift)
		admin.DELETE("/:id", controller.DeleteShift)
	}
}
