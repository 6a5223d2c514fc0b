package members

import (
	"stagehand/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupMemberRoutes configures member directory routes (admin only)
func SetupMemberRoutes(rg *gin.RouterGroup, controller *Controller) {
	group := rg.Group("/members")
	group.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		group.POST("", controller.CreateMember)
		group.GET("", controller.ListMembers)
		group.GET("/:id", controller.GetMember)
		group.PUT("/:id", controller.UpdateMember)
	}
}
