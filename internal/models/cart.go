package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"userId"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (c Cart) IsEmpty() bool { return len(c.Items) == 0 }

type CartItem struct {
	ID        int64     `json:"id"`
	CartID    int64     `json:"-"`
	ProductID int64     `json:"productId"`
	Quantity  int       `json:"quantity"`
	Size      string    `json:"size,omitempty"`
	AddedAt   time.Time `json:"addedAt"`
	Product   *Product  `json:"product,omitempty"`
}

// LineTotal is price at the current product price times quantity.
// The server is the source of truth for prices; items without a
// loaded product contribute nothing.
func (i CartItem) LineTotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartTotals is derived, never stored. The invariant
// Total = Subtotal + Tax + ShippingFee holds for every value the
// server hands out.
type CartTotals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	ShippingFee decimal.Decimal `json:"shippingFee"`
	Total       decimal.Decimal `json:"total"`
}
