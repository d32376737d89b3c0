// Package notify consumes order events and sends the customer-facing
// notifications. Delivery is logged; the mail transport sits behind
// the Sender interface.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"storefront/internal/models"
)

var (
	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "notifications_sent_total", Help: "Total notifications sent"},
		[]string{"event"},
	)
	notifyErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notify_errors_total",
		Help: "Total notification handling errors",
	})
)

func init() {
	prometheus.MustRegister(notificationsTotal, notifyErrorsTotal)
}

// Sender delivers one message to one recipient.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogSender is the default transport: it only logs. Real SMTP wiring
// replaces it in deployment.
type LogSender struct {
	Log zerolog.Logger
}

func (s *LogSender) Send(ctx context.Context, to, subject, body string) error {
	s.Log.Info().Str("to", to).Str("subject", subject).Msg("notification sent")
	return nil
}

type Consumer struct {
	Log    zerolog.Logger
	Sender Sender
}

func (c *Consumer) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	c.Log.Info().Msg("notify consumer started")
	for {
		select {
		case <-ctx.Done():
			c.Log.Info().Msg("notify consumer stopped")
			return
		case d, ok := <-deliveries:
			if !ok {
				c.Log.Info().Msg("deliveries closed")
				return
			}
			c.handle(ctx, d)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	var evt models.EventRaw
	if err := json.Unmarshal(d.Body, &evt); err != nil {
		notifyErrorsTotal.Inc()
		c.Log.Error().Err(err).Str("rk", d.RoutingKey).Msg("bad json -> dlq")
		_ = d.Nack(false, false)
		return
	}
	if evt.ID == "" || evt.OrderID == "" {
		notifyErrorsTotal.Inc()
		c.Log.Error().Str("rk", d.RoutingKey).Msg("missing order_id/event_id -> dlq")
		_ = d.Nack(false, false)
		return
	}

	var err error
	switch evt.Type {
	case models.EventOrderCreated:
		err = c.orderCreated(ctx, evt)
	case models.EventOrderCancelled:
		err = c.orderCancelled(ctx, evt)
	default:
		c.Log.Warn().Str("type", evt.Type).Str("order", evt.OrderID).Msg("unexpected event type -> ack")
		_ = d.Ack(false)
		return
	}

	if err != nil {
		notifyErrorsTotal.Inc()
		c.Log.Error().Err(err).Str("order", evt.OrderID).Msg("notification failed -> dlq")
		_ = d.Nack(false, false)
		return
	}
	notificationsTotal.WithLabelValues(evt.Type).Inc()
	_ = d.Ack(false)
}

func (c *Consumer) orderCreated(ctx context.Context, evt models.EventRaw) error {
	var p models.OrderCreatedPayload
	if err := json.Unmarshal(evt.Payload, &p); err != nil {
		return fmt.Errorf("decode order created payload: %w", err)
	}
	subject := fmt.Sprintf("Order %s confirmed", p.OrderNumber)
	body := fmt.Sprintf("Thanks for your order. %d item(s), total $%s.", len(p.Items), p.Total.StringFixed(2))
	return c.Sender.Send(ctx, p.Email, subject, body)
}

func (c *Consumer) orderCancelled(ctx context.Context, evt models.EventRaw) error {
	var p models.OrderCancelledPayload
	if err := json.Unmarshal(evt.Payload, &p); err != nil {
		return fmt.Errorf("decode order cancelled payload: %w", err)
	}
	subject := fmt.Sprintf("Order %s cancelled", p.OrderNumber)
	body := "Your order was cancelled. Any reserved stock has been released."
	return c.Sender.Send(ctx, p.Email, subject, body)
}
