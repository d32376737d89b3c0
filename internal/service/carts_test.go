package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
	"storefront/internal/repo"
)

type fakeCarts struct {
	cart   models.Cart
	nextID int64
}

func newFakeCarts(userID int64) *fakeCarts {
	return &fakeCarts{cart: models.Cart{ID: 1, UserID: userID}, nextID: 100}
}

func (f *fakeCarts) GetOrCreate(ctx context.Context, userID int64) (models.Cart, error) {
	return f.cart, nil
}

func (f *fakeCarts) FindItem(ctx context.Context, itemID int64) (models.CartItem, int64, error) {
	for _, it := range f.cart.Items {
		if it.ID == itemID {
			return it, f.cart.UserID, nil
		}
	}
	return models.CartItem{}, 0, repo.ErrNotFound
}

func (f *fakeCarts) UpsertItem(ctx context.Context, cartID, productID int64, quantity int, size string) (models.CartItem, error) {
	for i, it := range f.cart.Items {
		if it.ProductID == productID && it.Size == size {
			f.cart.Items[i].Quantity += quantity
			return f.cart.Items[i], nil
		}
	}
	f.nextID++
	it := models.CartItem{ID: f.nextID, CartID: cartID, ProductID: productID, Quantity: quantity, Size: size, AddedAt: time.Now()}
	f.cart.Items = append(f.cart.Items, it)
	return it, nil
}

func (f *fakeCarts) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	for i, it := range f.cart.Items {
		if it.ID == itemID {
			f.cart.Items[i].Quantity = quantity
			return nil
		}
	}
	return repo.ErrNotFound
}

func (f *fakeCarts) DeleteItem(ctx context.Context, itemID int64) error {
	for i, it := range f.cart.Items {
		if it.ID == itemID {
			f.cart.Items = append(f.cart.Items[:i], f.cart.Items[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}

func (f *fakeCarts) Clear(ctx context.Context, userID int64) error {
	f.cart.Items = nil
	return nil
}

func (f *fakeCarts) ItemCount(ctx context.Context, userID int64) (int, error) {
	n := 0
	for _, it := range f.cart.Items {
		n += it.Quantity
	}
	return n, nil
}

type fakeProducts map[int64]models.Product

func (f fakeProducts) GetByID(ctx context.Context, id int64) (models.Product, error) {
	p, ok := f[id]
	if !ok {
		return models.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func testProducts() fakeProducts {
	return fakeProducts{
		1: {ID: 1, Name: "Wireless Headphones", Price: decimal.RequireFromString("99.99"), StockQuantity: 10, Active: true},
		2: {ID: 2, Name: "Coffee Maker", Price: decimal.RequireFromString("149.99"), StockQuantity: 5, Active: true},
	}
}

func TestAddItem_MergesSameProductAndSize(t *testing.T) {
	carts := newFakeCarts(7)
	svc := &CartsService{Carts: carts, Products: testProducts()}

	_, err := svc.AddItem(context.Background(), 7, 1, 2, "")
	require.NoError(t, err)
	it, err := svc.AddItem(context.Background(), 7, 1, 3, "")
	require.NoError(t, err)

	assert.Equal(t, 5, it.Quantity)
	assert.Len(t, carts.cart.Items, 1)
}

func TestAddItem_ChecksMergedQuantityAgainstStock(t *testing.T) {
	carts := newFakeCarts(7)
	svc := &CartsService{Carts: carts, Products: testProducts()}

	_, err := svc.AddItem(context.Background(), 7, 2, 4, "")
	require.NoError(t, err)

	// stock is 5; 4 already in the cart, 2 more exceeds it
	_, err = svc.AddItem(context.Background(), 7, 2, 2, "")
	assert.ErrorIs(t, err, repo.ErrOutOfStock)
	assert.Equal(t, 4, carts.cart.Items[0].Quantity, "failed add must not change the cart")
}

func TestAddItem_RejectsNonPositiveQuantity(t *testing.T) {
	svc := &CartsService{Carts: newFakeCarts(7), Products: testProducts()}

	_, err := svc.AddItem(context.Background(), 7, 1, 0, "")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = svc.AddItem(context.Background(), 7, 1, -1, "")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestUpdateQuantity_ZeroRemovesItem(t *testing.T) {
	carts := newFakeCarts(7)
	svc := &CartsService{Carts: carts, Products: testProducts()}

	it, err := svc.AddItem(context.Background(), 7, 1, 2, "")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateQuantity(context.Background(), 7, it.ID, 0))
	assert.Empty(t, carts.cart.Items)
}

func TestUpdateQuantity_OtherUsersItemForbidden(t *testing.T) {
	carts := newFakeCarts(7)
	svc := &CartsService{Carts: carts, Products: testProducts()}

	it, err := svc.AddItem(context.Background(), 7, 1, 2, "")
	require.NoError(t, err)

	err = svc.UpdateQuantity(context.Background(), 8, it.ID, 1)
	assert.ErrorIs(t, err, repo.ErrForbidden)
}

func TestGet_ComputesTotals(t *testing.T) {
	carts := newFakeCarts(7)
	svc := &CartsService{Carts: carts, Products: testProducts()}

	// fakes don't attach products on upsert, so seed the lines directly
	products := testProducts()
	p1, p2 := products[1], products[2]
	carts.cart.Items = []models.CartItem{
		{ID: 101, ProductID: 1, Quantity: 1, Product: &p1},
		{ID: 102, ProductID: 2, Quantity: 2, Product: &p2},
	}

	_, totals, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(decimal.RequireFromString("399.97")))
	assert.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.Tax).Add(totals.ShippingFee)))
	assert.True(t, totals.ShippingFee.IsZero())
}
