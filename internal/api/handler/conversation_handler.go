package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/service"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/pkg/logger"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/pkg/response"
)

// ListConversations returns chat sessions for the inbox view.
// @Summary List conversations
// @Tags conversations
// @Param filter query string false "todas | mias | handoff | bot" default(todas)
// @Param search query string false "Phone or name"
// @Success 200 {object} response.Response
// @Router /api/v1/conversations [get]
func (h *Handler) ListConversations(c *gin.Context) {
	filter := service.ConversationFilter(c.DefaultQuery("filter", string(service.FilterAll)))
	sessions, err := h.conversations.List(c.Request.Context(), filter, c.Query("search"), c.GetString("user_id"))
	if err != nil {
		// List reads degrade to an empty result; only mutations surface errors.
		logger.Error("list conversations", zap.Error(err))
		sessions = nil
	}
	response.Success(c, gin.H{"conversations": sessions, "count": len(sessions)})
}

// GetConversation returns one session with its message history.
// @Summary Conversation detail
// @Tags conversations
// @Param id path string true "Session ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/conversations/{id} [get]
func (h *Handler) GetConversation(c *gin.Context) {
	session, messages, err := h.conversations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "conversación no encontrada")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"session": session, "messages": messages})
}

// TakeoverConversation assigns the session to the calling agent and pauses
// the bot.
// @Summary Take over conversation
// @Tags conversations
// @Param id path string true "Session ID"
// @Success 200 {object} response.Response
// @Router /api/v1/conversations/{id}/takeover [post]
func (h *Handler) TakeoverConversation(c *gin.Context) {
	if err := h.conversations.Takeover(c.Request.Context(), c.Param("id"), c.GetString("user_id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}

// ReturnConversationToBot clears the assignment and resumes the bot.
// @Summary Return conversation to bot
// @Tags conversations
// @Param id path string true "Session ID"
// @Success 200 {object} response.Response
// @Router /api/v1/conversations/{id}/return [post]
func (h *Handler) ReturnConversationToBot(c *gin.Context) {
	if err := h.conversations.ReturnToBot(c.Request.Context(), c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}

// MarkConversationRead zeroes the unread counter.
// @Summary Mark conversation read
// @Tags conversations
// @Param id path string true "Session ID"
// @Success 200 {object} response.Response
// @Router /api/v1/conversations/{id}/read [post]
func (h *Handler) MarkConversationRead(c *gin.Context) {
	if err := h.conversations.ResetUnread(c.Request.Context(), c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}

type replyRequest struct {
	Message string `json:"mensaje" binding:"required"`
}

// ReplyConversation sends a staff WhatsApp reply through the messaging
// collaborator. Delivery failures are surfaced so the agent can retry.
// @Summary Send staff reply
// @Tags conversations
// @Accept json
// @Param id path string true "Session ID"
// @Param request body replyRequest true "Message"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/conversations/{id}/reply [post]
func (h *Handler) ReplyConversation(c *gin.Context) {
	var req replyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	err := h.conversations.SendReply(c.Request.Context(), c.Param("id"), req.Message, c.GetString("user_id"))
	switch {
	case errors.Is(err, service.ErrEmptyMessage), errors.Is(err, service.ErrNoAgent):
		response.BadRequest(c, err.Error())
	case err != nil:
		response.InternalError(c, err)
	default:
		response.Success(c, nil)
	}
}

// SearchLeads finds sessions by phone fragment, used to link a manual sale
// to an existing lead.
// @Summary Search leads by phone
// @Tags conversations
// @Param q query string true "Phone fragment"
// @Success 200 {object} response.Response
// @Router /api/v1/leads/search [get]
func (h *Handler) SearchLeads(c *gin.Context) {
	leads, err := h.conversations.SearchLead(c.Request.Context(), c.Query("q"))
	if err != nil {
		logger.Error("search leads", zap.Error(err))
		leads = nil
	}
	response.Success(c, gin.H{"leads": leads})
}
