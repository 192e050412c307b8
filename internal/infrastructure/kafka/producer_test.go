package kafka

import (
	"testing"

	"github.com/andreyxaxa/Seed-Manager/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewMessageKeyedByRecord(t *testing.T) {
	t.Parallel()

	event := &entity.OutboxEvent{
		ID:          uuid.New(),
		AggregateID: 42,
		Payload:     []byte(`{"id":42,"change":"created"}`),
	}

	msg := newMessage("seed-events", event)

	assert.Equal(t, "seed-events", msg.Topic)
	assert.Equal(t, []byte("42"), msg.Key)
	assert.Equal(t, event.Payload, msg.Value)
	if assert.Len(t, msg.Headers, 1) {
		assert.Equal(t, "event_id", msg.Headers[0].Key)
		assert.Equal(t, []byte(event.ID.String()), msg.Headers[0].Value)
	}
}
