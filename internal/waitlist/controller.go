package waitlist

import (
	"net/http"

	"stagehand/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetQueue handles GET /api/v1/shifts/:id/waitlist
func (c *Controller) GetQueue(ctx *gin.Context) {
	shiftID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid shift ID", nil, nil)
		return
	}

	view, err := c.service.GetQueue(ctx.Request.Context(), shiftID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Waitlist retrieved", view)
}

// GetPosition handles GET /api/v1/registrations/:id/waitlist-position
func (c *Controller) GetPosition(ctx *gin.Context) {
	registrationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid registration ID", nil, nil)
		return
	}

	position, err := c.service.GetPosition(ctx.Request.Context(), registrationID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Position retrieved", gin.H{
		"registration_id": registrationID,
		"position":        position,
		"waitlisted":      position > 0,
	})
}
