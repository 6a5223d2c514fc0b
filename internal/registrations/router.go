package registrations

import (
	"stagehand/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRegistrationRoutes configures registration lifecycle routes
func SetupRegistrationRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public self-service: external registrants sign up with contact details,
	// cancel through the tokenized link. Authenticated members hit the same
	// signup route; middleware applied by the caller fills member identity.
	rg.POST("/shifts/:id/registrations", controller.Register)
	rg.POST("/cancel/:token", controller.CancelByToken)

	authed := rg.Group("/registrations")
	authed.Use(middleware.JWTAuth())
	{
		authed.GET("/:id", controller.GetRegistration)
		authed.DELETE("/:id", controller.Unregister)
	}

	admin := rg.Group("/shifts")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.GET("/:id/registrations", controller.ListByShift)
	}
}
