package members

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

// CreateMember handles POST /api/v1/members
func (c *Controller) CreateMember(ctx *gin.Context) {
	var req CreateMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	member, err := c.service.CreateMember(ctx.Request.Context(), req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusCreated, "Member created", member)
}

// GetMember handles GET /api/v1/members/:id
func (c *Controller) GetMember(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid member ID", nil, nil)
		return
	}

	member, err := c.service.GetMember(ctx.Request.Context(), id)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Member retrieved", member)
}

// ListMembers handles GET /api/v1/members
func (c *Controller) ListMembers(ctx *gin.Context) {
	activeOnly := ctx.Query("active") == "true"

	result, err := c.service.ListMembers(ctx.Request.Context(), activeOnly)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Members retrieved", result)
}

// UpdateMember handles PUT /api/v1/members/:id
func (c *Controller) UpdateMember(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid member ID", nil, nil)
		return
	}

	var req UpdateMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	member, err := c.service.UpdateMember(ctx.Request.Context(), id, req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Member updated", member)
}
