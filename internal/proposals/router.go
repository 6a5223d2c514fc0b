package proposals

import (
	"stagehand/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupProposalRoutes configures the batch assignment routes, admin only
func SetupProposalRoutes(rg *gin.RouterGroup, controller *Controller) {
	admin := rg.Group("/productions/:id/proposals")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("/preview", controller.Preview)
		admin.POST("/confirm", controller.Confirm)
	}
}
