package registrations

import (
	"net/http"

	"stagehand/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

// Register handles POST /api/v1/shifts/:id/registrations
func (c *Controller) Register(ctx *gin.Context) {
	shiftID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid shift ID", nil, nil)
		return
	}

	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	// Authenticated members register as themselves; the body may not
	// impersonate someone else
	if raw, ok := ctx.Get("member_id"); ok {
		memberID, ok := raw.(string)
		if !ok {
			response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid token claims", nil, nil)
			return
		}
		req.MemberID = memberID
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	result, err := c.service.RegisterForShift(ctx.Request.Context(), shiftID, req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	msg := "Registration confirmed"
	if result.Registration.Status == StatusWaitlisted {
		msg = "Shift is full, registration waitlisted"
	}
	response.RespondSuccess(ctx, http.StatusCreated, msg, result)
}

// GetRegistration handles GET /api/v1/registrations/:id
func (c *Controller) GetRegistration(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid registration ID", nil, nil)
		return
	}

	reg, err := c.service.GetRegistration(ctx.Request.Context(), id)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Registration retrieved", reg)
}

// Unregister handles DELETE /api/v1/registrations/:id. Admins bypass the
// cancellation deadline.
func (c *Controller) Unregister(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid registration ID", nil, nil)
		return
	}

	role, _ := ctx.Get("member_role")
	administrative := role == "ADMIN"

	result, err := c.service.Unregister(ctx.Request.Context(), id, administrative)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Registration cancelled", result)
}

// CancelByToken handles POST /api/v1/cancel/:token, the anonymous
// link-in-email cancellation
func (c *Controller) CancelByToken(ctx *gin.Context) {
	result, err := c.service.CancelByToken(ctx.Request.Context(), ctx.Param("token"))
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Registration cancelled", result)
}

// ListByShift handles GET /api/v1/shifts/:id/registrations (admin roster view)
func (c *Controller) ListByShift(ctx *gin.Context) {
	shiftID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid shift ID", nil, nil)
		return
	}

	regs, err := c.service.ListByShift(ctx.Request.Context(), shiftID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Registrations retrieved", gin.H{
		"registrations": regs,
		"count":         len(regs),
	})
}
