package proposals

import (
	"net/http"

	"stagehand/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	engine Engine
}

func NewController(engine Engine) *Controller {
	return &Controller{engine: engine}
}

// Preview handles POST /api/v1/productions/:id/proposals/preview
func (c *Controller) Preview(ctx *gin.Context) {
	productionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid production ID", nil, nil)
		return
	}

	proposal, err := c.engine.Preview(ctx.Request.Context(), productionID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Proposal preview generated", proposal)
}

// Confirm handles POST /api/v1/productions/:id/proposals/confirm
func (c *Controller) Confirm(ctx *gin.Context) {
	productionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid production ID", nil, nil)
		return
	}

	var req ConfirmRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := c.engine.Confirm(ctx.Request.Context(), productionID, req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Proposal confirmed", result)
}
