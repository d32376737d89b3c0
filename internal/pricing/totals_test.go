package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
)

func item(price string, qty int) models.CartItem {
	return models.CartItem{
		Quantity: qty,
		Product:  &models.Product{Price: decimal.RequireFromString(price)},
	}
}

func TestTotals_MixedCart(t *testing.T) {
	// 1 x 99.99 + 2 x 149.99 = 399.97, over the free shipping threshold.
	got := Totals([]models.CartItem{item("99.99", 1), item("149.99", 2)})

	assert.True(t, got.Subtotal.Equal(decimal.RequireFromString("399.97")), "subtotal = %s", got.Subtotal)
	assert.True(t, got.Tax.Equal(decimal.RequireFromString("32.00")), "tax = %s", got.Tax)
	assert.True(t, got.ShippingFee.IsZero(), "shipping = %s", got.ShippingFee)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("431.97")), "total = %s", got.Total)
}

func TestTotals_BelowThresholdPaysShipping(t *testing.T) {
	got := Totals([]models.CartItem{item("99.99", 1)})

	assert.True(t, got.ShippingFee.Equal(decimal.NewFromInt(10)))
	assert.True(t, got.Tax.Equal(decimal.RequireFromString("8.00")))
	assert.True(t, got.Total.Equal(decimal.RequireFromString("117.99")))
}

func TestTotals_AtThresholdShipsFree(t *testing.T) {
	got := Totals([]models.CartItem{item("100.00", 1)})
	assert.True(t, got.ShippingFee.IsZero())
}

func TestTotals_EmptyCart(t *testing.T) {
	got := Totals(nil)
	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.Tax.IsZero())
	assert.True(t, got.ShippingFee.IsZero())
	assert.True(t, got.Total.IsZero())
}

func TestTotals_Invariant(t *testing.T) {
	subtotals := []string{"0.01", "12.50", "99.99", "100.00", "100.01", "399.97", "1234.56"}
	for _, s := range subtotals {
		sub := decimal.RequireFromString(s)
		got := FromSubtotal(sub)

		sum := got.Subtotal.Add(got.Tax).Add(got.ShippingFee)
		require.True(t, got.Total.Equal(sum), "subtotal %s: total %s != sum %s", s, got.Total, sum)

		if sub.GreaterThanOrEqual(FreeShippingThreshold) {
			assert.True(t, got.ShippingFee.IsZero(), "subtotal %s should ship free", s)
		} else {
			assert.True(t, got.ShippingFee.Equal(ShippingFee), "subtotal %s should pay shipping", s)
		}
	}
}

func TestFreeShippingGap(t *testing.T) {
	assert.True(t, FreeShippingGap(decimal.Zero).IsZero())
	assert.True(t, FreeShippingGap(decimal.NewFromInt(100)).IsZero())
	assert.True(t, FreeShippingGap(decimal.NewFromInt(250)).IsZero())

	gap := FreeShippingGap(decimal.RequireFromString("59.50"))
	assert.True(t, gap.Equal(decimal.RequireFromString("40.50")))
}

func TestItemWithoutProductContributesNothing(t *testing.T) {
	got := Totals([]models.CartItem{{Quantity: 3}})
	assert.True(t, got.Subtotal.IsZero())
}
