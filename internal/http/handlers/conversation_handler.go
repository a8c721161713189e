package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillbazar/backend/internal/http/handlers/common"
	"github.com/skillbazar/backend/internal/service"
)

// ConversationHandler предоставляет HTTP слой переписок.
type ConversationHandler struct {
	conversations *service.ConversationService
}

// NewConversationHandler создаёт хэндлер.
func NewConversationHandler(conversations *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

// Start обрабатывает POST /api/conversations.
func (h *ConversationHandler) Start(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		UserID uuid.UUID `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	conv, err := h.conversations.Start(c.Request.Context(), userID, req.UserID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"conversation": conv})
}

// List обрабатывает GET /api/conversations.
func (h *ConversationHandler) List(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	previews, err := h.conversations.List(c.Request.Context(), userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": previews})
}

// View обрабатывает GET /api/conversations/:id.
// Непрочитанные сообщения собеседника отмечаются прочитанными.
func (h *ConversationHandler) View(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	conversationID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный id переписки")
		return
	}

	view, err := h.conversations.View(c.Request.Context(), conversationID, userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// PostMessage обрабатывает POST /api/conversations/:id/messages.
func (h *ConversationHandler) PostMessage(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	conversationID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный id переписки")
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "сообщение не может быть пустым")
		return
	}

	messages, err := h.conversations.PostMessage(c.Request.Context(), conversationID, userID, req.Content)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"messages": messages})
}

// Delete обрабатывает DELETE /api/conversations/:id.
func (h *ConversationHandler) Delete(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	conversationID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный id переписки")
		return
	}

	if err := h.conversations.Delete(c.Request.Context(), conversationID, userID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "переписка удалена", nil)
}
