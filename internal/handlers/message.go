package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chat-api/internal/middleware"
	"chat-api/internal/observability"
	"chat-api/internal/repositories"
	"chat-api/internal/telemetry"
)

// MessageHandler manages message creation.
type MessageHandler struct {
	chatRepo    repositories.ChatRepository
	messageRepo repositories.MessageRepository
	emitter     *telemetry.AuditEmitter
	log         *zap.Logger
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(chatRepo repositories.ChatRepository, messageRepo repositories.MessageRepository, emitter *telemetry.AuditEmitter, log *zap.Logger) *MessageHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &MessageHandler{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		emitter:     emitter,
		log:         log,
	}
}

// AddMessage appends a message to a chat the acting user participates in.
// The chat's last-message text is updated and its seen-by set collapses to
// just the sender, so the counterpart sees the chat as unread again.
func (h *MessageHandler) AddMessage(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)
	chatID := c.Param("chatId")

	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Text is required!"})
		return
	}

	_, err := h.chatRepo.GetChatForUser(c.Request.Context(), chatID, userID)
	if errors.Is(err, repositories.ErrChatNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Chat not found!"})
		return
	}
	if err != nil {
		h.log.Error("verify chat failed", zap.String("chat_id", chatID), zap.Error(err))
		observability.IncChatOperation("add_message", "error")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add message!"})
		return
	}

	msg, err := h.messageRepo.CreateMessage(c.Request.Context(), chatID, userID, req.Text)
	if err != nil {
		h.log.Error("create message failed", zap.String("chat_id", chatID), zap.Error(err))
		observability.IncChatOperation("add_message", "error")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add message!"})
		return
	}

	if err := h.chatRepo.SetLastMessage(c.Request.Context(), chatID, req.Text, userID); err != nil {
		h.log.Error("update last message failed", zap.String("chat_id", chatID), zap.Error(err))
		observability.IncChatOperation("add_message", "error")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add message!"})
		return
	}

	h.emitter.Emit(c.Request.Context(), "INFO", "message created", requestMeta(c))
	observability.IncChatOperation("add_message", "ok")
	c.JSON(http.StatusOK, msg)
}
