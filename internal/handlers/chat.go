package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chat-api/internal/middleware"
	"chat-api/internal/models"
	"chat-api/internal/observability"
	"chat-api/internal/repositories"
	"chat-api/internal/telemetry"
)

// ChatHandler manages the chat endpoints.
type ChatHandler struct {
	chatRepo    repositories.ChatRepository
	messageRepo repositories.MessageRepository
	userRepo    repositories.UserRepository
	emitter     *telemetry.AuditEmitter
	log         *zap.Logger
}

// NewChatHandler builds a ChatHandler.
func NewChatHandler(chatRepo repositories.ChatRepository, messageRepo repositories.MessageRepository, userRepo repositories.UserRepository, emitter *telemetry.AuditEmitter, log *zap.Logger) *ChatHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatHandler{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		emitter:     emitter,
		log:         log,
	}
}

// ListChats returns every chat the acting user participates in, each
// decorated with the other participant's public profile.
func (h *ChatHandler) ListChats(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)

	chats, err := h.chatRepo.ListChatsForUser(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("list chats failed", zap.String("user_id", userID), zap.Error(err))
		observability.IncChatOperation("list_chats", "error")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to get chats!"})
		return
	}

	for i := range chats {
		receiverID := chats[i].ReceiverID(userID)
		if receiverID == "" {
			// Malformed record with no counterpart; return it undecorated.
			continue
		}

		profile, err := h.userRepo.GetProfile(c.Request.Context(), receiverID)
		if errors.Is(err, repositories.ErrUserNotFound) {
			continue
		}
		if err != nil {
			h.log.Error("receiver lookup failed", zap.String("receiver_id", receiverID), zap.Error(err))
			observability.IncChatOperation("list_chats", "error")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to get chats!"})
			return
		}
		chats[i].Receiver = &profile
	}

	if chats == nil {
		chats = []models.Chat{}
	}

	observability.IncChatOperation("list_chats", "ok")
	c.JSON(http.StatusOK, chats)
}

// GetChat returns one chat with its messages ordered oldest first, and
// records that the acting user has now seen it.
func (h *ChatHandler) GetChat(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)
	chatID := c.Param("id")

	chat, err := h.chatRepo.GetChatForUser(c.Request.Context(), chatID, userID)
	if errors.Is(err, repositories.ErrChatNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Chat not found!"})
		return
	}
	if err != nil {
		h.log.Error("get chat failed", zap.String("chat_id", chatID), zap.Error(err))
		observability.IncChatOperation("get_chat", "error")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to get chat!"})
		return
	}

	msgs, err := h.messageRepo.ListChatMessages(c.Request.Context(), chatID)
	if err != nil {
		h.log.Error("load messages failed", zap.String("chat_id", chatID), zap.Error(err))
		observability.IncChatOperation("get_chat", "error")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to get chat!"})
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}

	updated, err := h.chatRepo.UpdateSeenBy(c.Request.Context(), chatID, models.UnionSeen(chat.SeenBy, userID))
	if err != nil {
		h.log.Error("update seen-by failed", zap.String("chat_id", chatID), zap.Error(err))
		observability.IncChatOperation("get_chat", "error")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to get chat!"})
		return
	}
	chat.SeenBy = updated.SeenBy

	observability.IncChatOperation("get_chat", "ok")
	c.JSON(http.StatusOK, chatDetail{Chat: chat, Messages: msgs})
}

type chatDetail struct {
	models.Chat
	Messages []models.Message `json:"messages"`
}

// AddChat creates a new chat between the acting user and the receiver
// named in the body. Duplicate pairs are allowed.
func (h *ChatHandler) AddChat(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)

	var req struct {
		ReceiverID string `json:"receiverId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ReceiverID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Receiver ID is required!"})
		return
	}

	chat, err := h.chatRepo.CreateChat(c.Request.Context(), userID, req.ReceiverID)
	if err != nil {
		h.log.Error("create chat failed", zap.String("user_id", userID), zap.Error(err))
		observability.IncChatOperation("add_chat", "error")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add chat!"})
		return
	}

	h.emitter.Emit(c.Request.Context(), "INFO", "chat created", requestMeta(c))
	observability.IncChatOperation("add_chat", "ok")
	c.JSON(http.StatusOK, chat)
}

// ReadChat marks the chat as seen by the acting user and returns the
// updated record.
func (h *ChatHandler) ReadChat(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)
	chatID := c.Param("id")

	chat, err := h.chatRepo.GetChatForUser(c.Request.Context(), chatID, userID)
	if errors.Is(err, repositories.ErrChatNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Chat not found!"})
		return
	}
	if err != nil {
		h.log.Error("read chat failed", zap.String("chat_id", chatID), zap.Error(err))
		observability.IncChatOperation("read_chat", "error")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to read chat!"})
		return
	}

	updated, err := h.chatRepo.UpdateSeenBy(c.Request.Context(), chatID, models.UnionSeen(chat.SeenBy, userID))
	if err != nil {
		h.log.Error("update seen-by failed", zap.String("chat_id", chatID), zap.Error(err))
		observability.IncChatOperation("read_chat", "error")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to read chat!"})
		return
	}

	observability.IncChatOperation("read_chat", "ok")
	c.JSON(http.StatusOK, updated)
}
