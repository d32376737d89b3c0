package client

import (
	"context"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
	"storefront/internal/pricing"
)

// CartState mirrors the server-side cart for display. Reads fail soft:
// a failed refresh keeps the last known items on screen next to an
// error message. Mutations that fail leave the state untouched. There
// is no optimistic patching; every successful mutation re-fetches the
// whole cart.
type CartState struct {
	api    *Client
	items  []models.CartItem
	totals models.CartTotals
	err    string
}

func NewCartState(api *Client) *CartState { return &CartState{api: api} }

func (s *CartState) Refresh(ctx context.Context) {
	cart, totals, err := s.api.Cart.Get(ctx)
	if err != nil {
		s.err = errMessage(err)
		return
	}
	s.items = cart.Items
	s.totals = totals
	s.err = ""
}

// UpdateQuantity with a non-positive quantity is a removal.
func (s *CartState) UpdateQuantity(ctx context.Context, itemID int64, quantity int) {
	if quantity <= 0 {
		s.Remove(ctx, itemID)
		return
	}
	if err := s.api.Cart.UpdateItem(ctx, itemID, quantity); err != nil {
		s.err = errMessage(err)
		return
	}
	s.Refresh(ctx)
}

func (s *CartState) Remove(ctx context.Context, itemID int64) {
	if err := s.api.Cart.RemoveItem(ctx, itemID); err != nil {
		s.err = errMessage(err)
		return
	}
	s.Refresh(ctx)
}

func (s *CartState) Clear(ctx context.Context) {
	if err := s.api.Cart.Clear(ctx); err != nil {
		s.err = errMessage(err)
		return
	}
	s.Refresh(ctx)
}

func (s *CartState) Items() []models.CartItem  { return s.items }
func (s *CartState) Totals() models.CartTotals { return s.totals }
func (s *CartState) Err() string               { return s.err }

// FreeShippingGap is positive only while the cart is non-empty and
// still below the free-shipping threshold.
func (s *CartState) FreeShippingGap() decimal.Decimal {
	if len(s.items) == 0 {
		return decimal.Zero
	}
	return pricing.FreeShippingGap(s.totals.Subtotal)
}

func errMessage(err error) string {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Message
	}
	return "something went wrong, please try again"
}
