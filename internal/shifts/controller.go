package shifts

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

// CreateShift handles POST /api/v1/shifts
func (c *Controller) CreateShift(ctx *gin.Context) {
	var req CreateShiftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	shift, err := c.service.CreateShift(ctx.Request.Context(), req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusCreated, "Shift created", shift)
}

// GetShift handles GET /api/v1/shifts/:id
func (c *Controller) GetShift(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid shift ID", nil, nil)
		return
	}

	shift, err := c.service.GetShift(ctx.Request.Context(), id)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Shift retrieved", shift)
}

// ListShifts handles GET /api/v1/events/:id/shifts
func (c *Controller) ListShifts(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid event ID", nil, nil)
		return
	}

	// Unauthenticated callers only see public shifts
	_, authenticated := ctx.Get("member_id")

	result, err := c.service.ListShiftsByEvent(ctx.Request.Context(), eventID, !authenticated)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Shifts retrieved", result)
}

// GetAvailability handles GET /api/v1/shifts/:id/availability
func (c *Controller) GetAvailability(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid shift ID", nil, nil)
		return
	}

	availability, err := c.service.GetAvailability(ctx.Request.Context(), id)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Availability retrieved", availability)
}

// UpdateShift handles PUT /api/v1/shifts/:id
func (c *Controller) UpdateShift(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid shift ID", nil, nil)
		return
	}

	var req UpdateShiftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	shift, err := c.service.UpdateShift(ctx.Request.Context(), id, req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Shift updated", shift)
}

// DeleteShift handles DELETE /api/v1/shifts/:id
func (c *Controller) DeleteShift(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid shift ID", nil, nil)
		return
	}

	if err := c.service.DeleteShift(ctx.Request.Context(), id); err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Shift deleted", nil)
}
