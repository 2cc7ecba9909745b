package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chat-api/internal/mocks"
)

func TestEmitPublishesEnvelope(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	emitter := NewAuditEmitter(publisher, "audit.chat", "chat-api", "test", nil)

	publisher.On("Publish", mock.Anything, "audit.chat", mock.MatchedBy(func(event any) bool {
		envelope, ok := event.(AuditEnvelope)
		if !ok {
			return false
		}
		return envelope.EventType == "audit_log" &&
			envelope.Service == "chat-api" &&
			envelope.RequestID == "req-1" &&
			envelope.Payload.Text == "chat created"
	})).Return(nil).Once()

	userID := "alice"
	emitter.Emit(context.Background(), "INFO", "chat created", RequestMeta{
		RequestID: "req-1",
		UserID:    &userID,
	})

	publisher.AssertExpectations(t)
}

func TestEmitNilEmitterIsNoop(t *testing.T) {
	var emitter *AuditEmitter
	require.NotPanics(t, func() {
		emitter.Emit(context.Background(), "INFO", "ignored", RequestMeta{})
	})
}

func TestEmitNilPublisherIsNoop(t *testing.T) {
	emitter := NewAuditEmitter(nil, "audit.chat", "chat-api", "test", nil)
	require.NotPanics(t, func() {
		emitter.Emit(context.Background(), "INFO", "ignored", RequestMeta{})
	})
}
