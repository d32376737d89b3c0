package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Event[T any] struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Version int       `json:"version"`
	Time    time.Time `json:"time"`
	OrderID string    `json:"order_id"`
	Payload T         `json:"payload"`
}

// EventRaw is the consumer-side view: payload stays opaque until the
// type is known.
type EventRaw struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Version int             `json:"version"`
	Time    time.Time       `json:"time"`
	OrderID string          `json:"order_id"`
	Payload json.RawMessage `json:"payload"`
}

const (
	EventOrderCreated   = "orders.created"
	EventOrderCancelled = "orders.cancelled"
)

type OrderItemPayload struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type OrderCreatedPayload struct {
	UserID      int64              `json:"user_id"`
	Email       string             `json:"email"`
	OrderNumber string             `json:"order_number"`
	Total       decimal.Decimal    `json:"total"`
	Items       []OrderItemPayload `json:"items"`
}

func NewOrderCreatedEvent(orderID string, p OrderCreatedPayload) Event[OrderCreatedPayload] {
	return Event[OrderCreatedPayload]{
		ID:      uuid.NewString(),
		Type:    EventOrderCreated,
		Version: 1,
		Time:    time.Now(),
		OrderID: orderID,
		Payload: p,
	}
}

type OrderCancelledPayload struct {
	UserID      int64  `json:"user_id"`
	Email       string `json:"email"`
	OrderNumber string `json:"order_number"`
}

func NewOrderCancelledEvent(orderID string, p OrderCancelledPayload) Event[OrderCancelledPayload] {
	return Event[OrderCancelledPayload]{
		ID:      uuid.NewString(),
		Type:    EventOrderCancelled,
		Version: 1,
		Time:    time.Now(),
		OrderID: orderID,
		Payload: p,
	}
}
