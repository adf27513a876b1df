package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"shop-checkout/internal/features/notifications/domain"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	writer := &fakeWriter{}
	p := &KafkaPublisher{writer: writer}
	now := time.Date(2026, 6, 17, 12, 0, 0, 0, time.UTC)

	msg := domain.Message{
		Kind:      domain.KindOrderShipped,
		OrderID:   "C2026061720000042",
		Subject:   "Order C2026061720000042 shipped",
		CreatedAt: now,
	}
	require.NoError(t, p.Publish(context.Background(), msg))
	require.Len(t, writer.messages, 1)

	written := writer.messages[0]
	assert.Equal(t, "C2026061720000042", string(written.Key))
	assert.Equal(t, now, written.Time)
	assert.Equal(t, "kind", written.Headers[0].Key)
	assert.Equal(t, "order_shipped", string(written.Headers[0].Value))

	var decoded domain.Message
	require.NoError(t, json.Unmarshal(written.Value, &decoded))
	assert.Equal(t, msg.Subject, decoded.Subject)

	require.NoError(t, p.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisher_PublishError(t *testing.T) {
	p := &KafkaPublisher{writer: &fakeWriter{err: errors.New("broker unavailable")}}

	err := p.Publish(context.Background(), domain.Message{Kind: domain.KindOrderConfirmed, OrderID: "C1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order_confirmed notification for order C1")
	assert.Contains(t, err.Error(), "broker unavailable")
}

func TestNewKafkaPublisher(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "order-notifications")
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "order-notifications", w.Topic)
}

func TestLogPublisher(t *testing.T) {
	p := NewLogPublisher()
	assert.NoError(t, p.Publish(context.Background(), domain.Message{Kind: domain.KindOrderConfirmed, OrderID: "C1"}))
	assert.NoError(t, p.Close())
}
