package productions

import (
	"stagehand/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupProductionRoutes configures production roster routes. The whole surface
// is staff-facing: reads need a member session, writes need admin.
func SetupProductionRoutes(rg *gin.RouterGroup, controller *Controller) {
	authed := rg.Group("")
	authed.Use(middleware.JWTAuth())
	{
		authed.GET("/productions", controller.ListProductions)
		authed.GET("/productions/:id", controller.GetProduction)
		authed.GET("/productions/:id/performances", controller.ListPerformances)
		authed.GET("/productions/:id/cast", controller.ListCastAssignments)
	}

	admin := rg.Group("")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("/productions", controller.CreateProduction)
		admin.PUT("/productions/:id", controller.UpdateProduction)
		admin.DELETE("/productions/:id", controller.DeleteProduction)

		admin.POST("/productions/:id/performances", controller.AddPerformance)
		admin.DELETE("/performances/:id", controller.RemovePerformance)

		admin.POST("/productions/:id/cast", controller.AddCastAssignment)
		admin.DELETE("/cast-assignments/:id", controller.RemoveCastAssignment)
	}
}
