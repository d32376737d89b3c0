package notify

import (
	"context"
	"encoding/json"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
)

type fakeAcker struct {
	acked  bool
	nacked bool
}

func (a *fakeAcker) Ack(tag uint64, multiple bool) error { a.acked = true; return nil }
func (a *fakeAcker) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked = true
	return nil
}
func (a *fakeAcker) Reject(tag uint64, requeue bool) error { a.nacked = true; return nil }

type fakeSender struct {
	to      []string
	subject []string
}

func (s *fakeSender) Send(ctx context.Context, to, subject, body string) error {
	s.to = append(s.to, to)
	s.subject = append(s.subject, subject)
	return nil
}

func delivery(t *testing.T, acker *fakeAcker, body []byte, rk string) amqp.Delivery {
	t.Helper()
	return amqp.Delivery{Acknowledger: acker, Body: body, RoutingKey: rk}
}

func TestConsumerSendsOrderCreatedMail(t *testing.T) {
	sender := &fakeSender{}
	c := &Consumer{Log: zerolog.Nop(), Sender: sender}

	evt := models.NewOrderCreatedEvent("ORD-20240101120000-1234", models.OrderCreatedPayload{
		UserID:      1,
		Email:       "jane@example.com",
		OrderNumber: "ORD-20240101120000-1234",
		Total:       decimal.NewFromFloat(431.97),
		Items:       []models.OrderItemPayload{{ProductID: 10, Name: "Mug", Qty: 2, UnitPrice: decimal.NewFromFloat(12.50)}},
	})
	body, err := json.Marshal(evt)
	require.NoError(t, err)

	acker := &fakeAcker{}
	c.handle(context.Background(), delivery(t, acker, body, models.EventOrderCreated))

	require.Len(t, sender.to, 1)
	assert.Equal(t, "jane@example.com", sender.to[0])
	assert.Equal(t, "Order ORD-20240101120000-1234 confirmed", sender.subject[0])
	assert.True(t, acker.acked)
	assert.False(t, acker.nacked)
}

func TestConsumerDeadLettersBadJSON(t *testing.T) {
	sender := &fakeSender{}
	c := &Consumer{Log: zerolog.Nop(), Sender: sender}

	acker := &fakeAcker{}
	c.handle(context.Background(), delivery(t, acker, []byte("not json"), models.EventOrderCreated))

	assert.Empty(t, sender.to)
	assert.True(t, acker.nacked)
}

func TestConsumerAcksUnknownEventType(t *testing.T) {
	sender := &fakeSender{}
	c := &Consumer{Log: zerolog.Nop(), Sender: sender}

	body, err := json.Marshal(models.EventRaw{
		ID:      "evt-1",
		Type:    "orders.archived",
		OrderID: "ORD-20240101120000-1234",
		Payload: json.RawMessage(`{}`),
	})
	require.NoError(t, err)

	acker := &fakeAcker{}
	c.handle(context.Background(), delivery(t, acker, body, "orders.archived"))

	assert.Empty(t, sender.to)
	assert.True(t, acker.acked)
	assert.False(t, acker.nacked)
}
