package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/model"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/service"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/pkg/response"
)

// GetBoard returns the Kanban columns from the in-memory board.
// @Summary Pipeline board
// @Tags pipeline
// @Param days query int false "Recency window in days, 0 = all" default(30)
// @Success 200 {object} response.Response
// @Router /api/v1/pipeline/board [get]
func (h *Handler) GetBoard(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	response.Success(c, gin.H{
		"columns": h.pipeline.Columns(days),
		"total":   h.pipeline.Total(),
	})
}

type moveRequest struct {
	SessionID string              `json:"session_id" binding:"required"`
	Stage     model.PipelineStage `json:"stage" binding:"required"`
}

// MoveCard moves a session to another pipeline column. The board updates
// optimistically and rolls back if the database write fails.
// @Summary Move pipeline card
// @Tags pipeline
// @Accept json
// @Param request body moveRequest true "Target column"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/pipeline/move [post]
func (h *Handler) MoveCard(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	label, err := h.pipeline.Move(c.Request.Context(), req.SessionID, req.Stage)
	switch {
	case errors.Is(err, service.ErrUnknownStage):
		response.BadRequest(c, err.Error())
	case err != nil:
		response.InternalError(c, err)
	default:
		response.Success(c, gin.H{"stage": req.Stage, "label": label})
	}
}
