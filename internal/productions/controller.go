package productions

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

func callerID(ctx *gin.Context) (uuid.UUID, bool) {
	raw, exists := ctx.Get("member_id")
	if !exists {
		return uuid.Nil, false
	}
	str, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(str)
	return id, err == nil
}

// CreateProduction handles POST /api/v1/productions
func (c *Controller) CreateProduction(ctx *gin.Context) {
	adminID, ok := callerID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Caller not authenticated", nil, nil)
		return
	}

	var req CreateProductionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	production, err := c.service.CreateProduction(ctx.Request.Context(), adminID, req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusCreated, "Production created", production)
}

// GetProduction handles GET /api/v1/productions/:id
func (c *Controller) GetProduction(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid production ID", nil, nil)
		return
	}

	production, err := c.service.GetProduction(ctx.Request.Context(), id)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Production retrieved", production)
}

// ListProductions handles GET /api/v1/productions
func (c *Controller) ListProductions(ctx *gin.Context) {
	productions, err := c.service.ListProductions(ctx.Request.Context())
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Productions retrieved", gin.H{
		"productions": productions,
		"count":       len(productions),
	})
}

// UpdateProduction handles PUT /api/v1/productions/:id
func (c *Controller) UpdateProduction(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid production ID", nil, nil)
		return
	}

	var req UpdateProductionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	production, err := c.service.UpdateProduction(ctx.Request.Context(), id, req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Production updated", production)
}

// DeleteProduction handles DELETE /api/v1/productions/:id
func (c *Controller) DeleteProduction(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid production ID", nil, nil)
		return
	}

	if err := c.service.DeleteProduction(ctx.Request.Context(), id); err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Production deleted", nil)
}

// AddPerformance handles POST /api/v1/productions/:id/performances
func (c *Controller) AddPerformance(ctx *gin.Context) {
	productionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid production ID", nil, nil)
		return
	}

	var req CreatePerformanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	performance, err := c.service.AddPerformance(ctx.Request.Context(), productionID, req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusCreated, "Performance added", performance)
}

// ListPerformances handles GET /api/v1/productions/:id/performances
func (c *Controller) ListPerformances(ctx *gin.Context) {
	productionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid production ID", nil, nil)
		return
	}

	performances, err := c.service.ListPerformances(ctx.Request.Context(), productionID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Performances retrieved", gin.H{
		"performances": performances,
		"count":        len(performances),
	})
}

// RemovePerformance handles DELETE /api/v1/performances/:id
func (c *Controller) RemovePerformance(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid performance ID", nil, nil)
		return
	}

	if err := c.service.RemovePerformance(ctx.Request.Context(), id); err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Performance removed", nil)
}

// AddCastAssignment handles POST /api/v1/productions/:id/cast
func (c *Controller) AddCastAssignment(ctx *gin.Context) {
	productionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid production ID", nil, nil)
		return
	}

	var req CreateCastAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	assignment, err := c.service.AddCastAssignment(ctx.Request.Context(), productionID, req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusCreated, "Cast assignment added", assignment)
}

// ListCastAssignments handles GET /api/v1/productions/:id/cast
func (c *Controller) ListCastAssignments(ctx *gin.Context) {
	productionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid production ID", nil, nil)
		return
	}

	assignments, err := c.service.ListCastAssignments(ctx.Request.Context(), productionID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Cast assignments retrieved", gin.H{
		"assignments": assignments,
		"count":       len(assignments),
	})
}

// RemoveCastAssignment handles DELETE /api/v1/cast-assignments/:id
func (c *Controller) RemoveCastAssignment(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid cast assignment ID", nil, nil)
		return
	}

	if err := c.service.RemoveCastAssignment(ctx.Request.Context(), id); err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondSuccess(ctx, http.StatusOK, "Cast assignment removed", nil)
}
