package waitlist

import (
	"stagehand/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupWaitlistRoutes configures waitlist view routes
func SetupWaitlistRoutes(rg *gin.RouterGroup, controller *Controller) {
	group := rg.Group("")
	group.Use(middleware.JWTAuth())
	{
		group.GET("/shifts/:id/waitlist", controller.GetQueue)
		group.GET("/registrations/:id/waitlist-position", controller.GetPosition)
	}
}
