// Package pricing computes the monetary breakdown of a cart. The same
// formula runs on the server (authoritative totals) and in the client
// (free-shipping banner); keeping it in one place keeps the two sides
// in agreement to the cent.
package pricing

import (
	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

var (
	// TaxRate is a flat 8%.
	TaxRate = decimal.NewFromFloat(0.08)
	// FreeShippingThreshold waives the shipping fee at and above this
	// subtotal.
	FreeShippingThreshold = decimal.NewFromInt(100)
	// ShippingFee applies below the threshold.
	ShippingFee = decimal.NewFromInt(10)
)

// Totals derives subtotal/tax/shipping/total from the cart's items.
// All figures are rounded to 2 decimal places and the result always
// satisfies Total = Subtotal + Tax + ShippingFee.
func Totals(items []models.CartItem) models.CartTotals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal())
	}
	return FromSubtotal(subtotal)
}

// FromSubtotal computes the breakdown for an already-summed subtotal.
func FromSubtotal(subtotal decimal.Decimal) models.CartTotals {
	subtotal = subtotal.Round(2)
	if subtotal.IsZero() {
		return models.CartTotals{
			Subtotal:    decimal.Zero,
			Tax:         decimal.Zero,
			ShippingFee: decimal.Zero,
			Total:       decimal.Zero,
		}
	}
	tax := subtotal.Mul(TaxRate).Round(2)
	shipping := ShippingFee
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	return models.CartTotals{
		Subtotal:    subtotal,
		Tax:         tax,
		ShippingFee: shipping,
		Total:       subtotal.Add(tax).Add(shipping),
	}
}

// FreeShippingGap is how much more the customer must add to reach free
// shipping. Zero when the cart is empty or already over the threshold.
func FreeShippingGap(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.LessThanOrEqual(decimal.Zero) || subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	return FreeShippingThreshold.Sub(subtotal)
}
