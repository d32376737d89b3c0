package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"storefront/internal/models"
	"storefront/internal/pricing"
	"storefront/internal/repo"
)

type OrdersRepo interface {
	CreateFromCart(ctx context.Context, o models.Order, cartID int64, evt models.Event[models.OrderCreatedPayload]) (models.Order, error)
	GetByID(ctx context.Context, orderID int64) (models.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Order, error)
	Cancel(ctx context.Context, orderID, userID int64, evt models.Event[models.OrderCancelledPayload]) error
}

type UserGetter interface {
	GetByID(ctx context.Context, id int64) (models.User, error)
}

type OrdersService struct {
	Orders OrdersRepo
	Carts  CartsRepo
	Users  UserGetter
}

// OrderNumber format: ORD-{yyyymmddhhmmss}-{4 digits}.
func OrderNumber() string {
	return fmt.Sprintf("ORD-%s-%d", time.Now().Format("20060102150405"), 1000+rand.Intn(9000))
}

// Create turns the current cart into an order: totals are recomputed
// server-side from the cart's lines, stock is reserved, the cart is
// cleared and an orders.created event is enqueued, atomically.
func (s *OrdersService) Create(ctx context.Context, userID int64, shippingAddress, paymentMethod string) (models.Order, error) {
	cart, err := s.Carts.GetOrCreate(ctx, userID)
	if err != nil {
		return models.Order{}, err
	}
	if cart.IsEmpty() {
		return models.Order{}, repo.ErrEmptyCart
	}

	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return models.Order{}, err
	}

	totals := pricing.Totals(cart.Items)

	order := models.Order{
		UserID:          userID,
		OrderNumber:     OrderNumber(),
		Status:          models.OrderStatusPending,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		ShippingFee:     totals.ShippingFee,
		Total:           totals.Total,
		ShippingAddress: shippingAddress,
		PaymentMethod:   paymentMethod,
	}

	payload := models.OrderCreatedPayload{
		UserID:      userID,
		Email:       user.Email,
		OrderNumber: order.OrderNumber,
		Total:       totals.Total,
	}
	for _, it := range cart.Items {
		if it.Product == nil {
			continue
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Size:      it.Size,
			UnitPrice: it.Product.Price,
		})
		payload.Items = append(payload.Items, models.OrderItemPayload{
			ProductID: it.ProductID,
			Name:      it.Product.Name,
			Qty:       it.Quantity,
			UnitPrice: it.Product.Price,
		})
	}

	evt := models.NewOrderCreatedEvent(order.OrderNumber, payload)
	return s.Orders.CreateFromCart(ctx, order, cart.ID, evt)
}

func (s *OrdersService) List(ctx context.Context, userID int64) ([]models.Order, error) {
	return s.Orders.ListByUser(ctx, userID)
}

func (s *OrdersService) Get(ctx context.Context, userID, orderID int64) (models.Order, error) {
	o, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if o.UserID != userID {
		return models.Order{}, repo.ErrForbidden
	}
	return o, nil
}

func (s *OrdersService) Cancel(ctx context.Context, userID, orderID int64) error {
	o, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	// cheap pre-checks; the repo re-checks both under the row lock
	if o.UserID != userID {
		return repo.ErrForbidden
	}
	if !o.CanBeCancelled() {
		return repo.ErrNotCancellable
	}
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	evt := models.NewOrderCancelledEvent(o.OrderNumber, models.OrderCancelledPayload{
		UserID:      userID,
		Email:       user.Email,
		OrderNumber: o.OrderNumber,
	})
	return s.Orders.Cancel(ctx, orderID, userID, evt)
}
