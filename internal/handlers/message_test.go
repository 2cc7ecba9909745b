package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chat-api/internal/middleware"
	"chat-api/internal/mocks"
	"chat-api/internal/models"
	"chat-api/internal/repositories"
)

func setupMessageRouter(handler *MessageHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, "alice")
		c.Next()
	})
	r.POST("/messages/:chatId", handler.AddMessage)
	return r
}

func TestAddMessageSuccess(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(chatRepo, messageRepo, nil, nil)
	router := setupMessageRouter(handler)

	chatRepo.On("GetChatForUser", mock.Anything, "c1", "alice").Return(models.Chat{
		ID: "c1", UserIDs: []string{"alice", "bob"}, SeenBy: []string{"alice", "bob"},
	}, nil).Once()
	messageRepo.On("CreateMessage", mock.Anything, "c1", "alice", "hello").Return(models.Message{
		ID: "m1", ChatID: "c1", UserID: "alice", Text: "hello",
	}, nil).Once()
	chatRepo.On("SetLastMessage", mock.Anything, "c1", "hello", "alice").Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/messages/c1", bytes.NewBufferString(`{"text":"hello"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "m1", resp["id"])
	assert.Equal(t, "hello", resp["text"])

	chatRepo.AssertExpectations(t)
	messageRepo.AssertExpectations(t)
}

func TestAddMessageChatNotFound(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(chatRepo, messageRepo, nil, nil)
	router := setupMessageRouter(handler)

	chatRepo.On("GetChatForUser", mock.Anything, "foreign", "alice").Return(models.Chat{}, repositories.ErrChatNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/messages/foreign", bytes.NewBufferString(`{"text":"hello"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Chat not found!")
	messageRepo.AssertNotCalled(t, "CreateMessage")
}

func TestAddMessageMissingText(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	handler := NewMessageHandler(chatRepo, new(mocks.MessageRepositoryMock), nil, nil)
	router := setupMessageRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/messages/c1", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Text is required!")
	chatRepo.AssertNotCalled(t, "GetChatForUser")
}

func TestAddMessageStoreError(t *testing.T) {
	chatRepo := new(mocks.ChatRepositoryMock)
	messageRepo := new(mocks.MessageRepositoryMock)
	handler := NewMessageHandler(chatRepo, messageRepo, nil, nil)
	router := setupMessageRouter(handler)

	chatRepo.On("GetChatForUser", mock.Anything, "c1", "alice").Return(models.Chat{
		ID: "c1", UserIDs: []string{"alice", "bob"},
	}, nil).Once()
	messageRepo.On("CreateMessage", mock.Anything, "c1", "alice", "hello").Return(models.Message{}, assert.AnError).Once()

	req := httptest.NewRequest(http.MethodPost, "/messages/c1", bytes.NewBufferString(`{"text":"hello"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to add message!")
	chatRepo.AssertNotCalled(t, "SetLastMessage")
}
