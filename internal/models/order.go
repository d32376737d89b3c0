package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusRefunded  OrderStatus = "REFUNDED"
)

// ValidTransition encodes the order state machine. CANCELLED and
// REFUNDED are terminal.
func ValidTransition(current, next OrderStatus) bool {
	switch current {
	case OrderStatusPending:
		return next == OrderStatusConfirmed || next == OrderStatusCancelled
	case OrderStatusConfirmed:
		return next == OrderStatusShipped || next == OrderStatusCancelled
	case OrderStatusShipped:
		return next == OrderStatusDelivered
	case OrderStatusDelivered:
		return next == OrderStatusRefunded
	default:
		return false
	}
}

type Order struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"userId"`
	OrderNumber     string          `json:"orderNumber"`
	Status          OrderStatus     `json:"status"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	ShippingFee     decimal.Decimal `json:"shippingFee"`
	Total           decimal.Decimal `json:"total"`
	ShippingAddress string          `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	Items           []OrderItem     `json:"items,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (o Order) CanBeCancelled() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}

type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"-"`
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Size      string          `json:"size,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Product   *Product        `json:"product,omitempty"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
