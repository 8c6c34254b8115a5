package handler

import (
	"context"
	"net/http"

	messaging "helpmarket/internal/messagingService"
	model "helpmarket/internal/models"
	"helpmarket/services/market/helpers"
	"helpmarket/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=messaging_handler.go -destination=mock_messaging_handler.go -package=handler

type MessagingServiceInterface interface {
	ConversationsFor(ctx context.Context, userID string) ([]messaging.ConversationSummary, error)
	ListMessages(ctx context.Context, conversationID, userID string) ([]model.Message, error)
	SendMessage(ctx context.Context, conversationID string, sender model.Identity, body string) (model.Message, error)
}

type MessagingHandler struct {
	service MessagingServiceInterface
}

func NewMessagingHandler(service MessagingServiceInterface) *MessagingHandler {
	return &MessagingHandler{service: service}
}

// ListConversationsHandler handles GET /conversations
func (h *MessagingHandler) ListConversationsHandler(c *gin.Context) {
	user, ok := helpers.RequireIdentity(c, "ListConversationsHandler")
	if !ok {
		return
	}

	convs, err := h.service.ConversationsFor(c.Request.Context(), user.UserID)
	if err != nil {
		helpers.HandleServiceError(c, "ListConversationsHandler", err, map[string]any{"user_id": user.UserID})
		return
	}
	if convs == nil {
		convs = []messaging.ConversationSummary{}
	}

	utils.JSONResponse(c, http.StatusOK, convs, "conversations retrieved successfully")
}

// ListMessagesHandler handles GET /conversations/:conversation_id/messages
func (h *MessagingHandler) ListMessagesHandler(c *gin.Context) {
	user, ok := helpers.RequireIdentity(c, "ListMessagesHandler")
	if !ok {
		return
	}

	conversationID := c.Param("conversation_id")
	msgs, err := h.service.ListMessages(c.Request.Context(), conversationID, user.UserID)
	if err != nil {
		helpers.HandleServiceError(c, "ListMessagesHandler", err, map[string]any{
			"conversation_id": conversationID,
			"user_id":         user.UserID,
		})
		return
	}
	if msgs == nil {
		msgs = []model.Message{}
	}

	utils.JSONResponse(c, http.StatusOK, msgs, "messages retrieved successfully")
}

// SendMessageHandler handles POST /conversations/:conversation_id/messages
func (h *MessagingHandler) SendMessageHandler(c *gin.Context) {
	user, ok := helpers.RequireIdentity(c, "SendMessageHandler")
	if !ok {
		return
	}

	var req helpers.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SendMessageHandler", err)
		return
	}

	conversationID := c.Param("conversation_id")
	msg, err := h.service.SendMessage(c.Request.Context(), conversationID, user, req.Body)
	if err != nil {
		helpers.HandleServiceError(c, "SendMessageHandler", err, map[string]any{
			"conversation_id": conversationID,
			"user_id":         user.UserID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, msg, "message sent")
	helpers.LogSuccess("SendMessageHandler", "message sent", map[string]any{
		"conversation_id": conversationID,
		"message_id":      msg.MessageID,
	})
}
