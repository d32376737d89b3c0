package service

import (
	"context"
	"errors"

	"storefront/internal/models"
	"storefront/internal/pricing"
	"storefront/internal/repo"
)

var ErrInvalidQuantity = errors.New("invalid quantity")

type CartsRepo interface {
	GetOrCreate(ctx context.Context, userID int64) (models.Cart, error)
	FindItem(ctx context.Context, itemID int64) (models.CartItem, int64, error)
	UpsertItem(ctx context.Context, cartID, productID int64, quantity int, size string) (models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error
	DeleteItem(ctx context.Context, itemID int64) error
	Clear(ctx context.Context, userID int64) error
	ItemCount(ctx context.Context, userID int64) (int, error)
}

type ProductGetter interface {
	GetByID(ctx context.Context, id int64) (models.Product, error)
}

type CartsService struct {
	Carts    CartsRepo
	Products ProductGetter
}

// Get returns the cart with server-computed totals. Totals are derived
// on every read, never stored.
func (s *CartsService) Get(ctx context.Context, userID int64) (models.Cart, models.CartTotals, error) {
	cart, err := s.Carts.GetOrCreate(ctx, userID)
	if err != nil {
		return models.Cart{}, models.CartTotals{}, err
	}
	return cart, pricing.Totals(cart.Items), nil
}

// AddItem merges into an existing line for the same product and size.
// Availability is checked against the merged quantity, not just the
// increment.
func (s *CartsService) AddItem(ctx context.Context, userID, productID int64, quantity int, size string) (models.CartItem, error) {
	if quantity <= 0 {
		return models.CartItem{}, ErrInvalidQuantity
	}

	product, err := s.Products.GetByID(ctx, productID)
	if err != nil {
		return models.CartItem{}, err
	}

	cart, err := s.Carts.GetOrCreate(ctx, userID)
	if err != nil {
		return models.CartItem{}, err
	}

	merged := quantity
	for _, it := range cart.Items {
		if it.ProductID == productID && it.Size == size {
			merged += it.Quantity
			break
		}
	}
	if !product.Available(merged) {
		return models.CartItem{}, repo.ErrOutOfStock
	}

	item, err := s.Carts.UpsertItem(ctx, cart.ID, productID, quantity, size)
	if err != nil {
		return models.CartItem{}, err
	}
	item.Product = &product
	return item, nil
}

// UpdateQuantity treats zero as removal, matching the storefront's
// contract that updateQuantity(item, 0) == removeItem(item).
func (s *CartsService) UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, userID, itemID)
	}

	item, ownerID, err := s.Carts.FindItem(ctx, itemID)
	if err != nil {
		return err
	}
	if ownerID != userID {
		return repo.ErrForbidden
	}

	product, err := s.Products.GetByID(ctx, item.ProductID)
	if err != nil {
		return err
	}
	if !product.Available(quantity) {
		return repo.ErrOutOfStock
	}

	return s.Carts.UpdateItemQuantity(ctx, itemID, quantity)
}

func (s *CartsService) RemoveItem(ctx context.Context, userID, itemID int64) error {
	_, ownerID, err := s.Carts.FindItem(ctx, itemID)
	if err != nil {
		return err
	}
	if ownerID != userID {
		return repo.ErrForbidden
	}
	return s.Carts.DeleteItem(ctx, itemID)
}

func (s *CartsService) Clear(ctx context.Context, userID int64) error {
	return s.Carts.Clear(ctx, userID)
}

func (s *CartsService) Count(ctx context.Context, userID int64) (int, error) {
	return s.Carts.ItemCount(ctx, userID)
}
