package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"chat-api/internal/middleware"
	"chat-api/internal/observability"
	"chat-api/internal/telemetry"
)

const requestIDContextKey = "request_id"

func requestIDFromContext(c *gin.Context) string {
	if val, ok := c.Get(requestIDContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return id
		}
	}

	requestID := observability.RequestIDFromRequest(c.Request)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(requestIDContextKey, requestID)
	return requestID
}

func userIDFromContext(c *gin.Context) *string {
	if id := c.GetString(middleware.UserIDKey); id != "" {
		return &id
	}
	return nil
}

func requestMeta(c *gin.Context) telemetry.RequestMeta {
	return telemetry.RequestMeta{
		RequestID: requestIDFromContext(c),
		UserID:    userIDFromContext(c),
		DeviceID:  observability.DeviceIDFromRequest(c.Request),
		IP:        observability.IPFromRequest(c.Request),
	}
}
