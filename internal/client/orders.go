package client

import (
	"context"
	"net/http"
	"strconv"

	"storefront/internal/models"
)

type OrdersAPI struct{ c *Client }

type CreateOrderResponse struct {
	OrderID int64  `json:"orderId"`
	Message string `json:"message"`
}

func (a *OrdersAPI) Create(ctx context.Context, shippingAddress, paymentMethod string) (CreateOrderResponse, error) {
	var out CreateOrderResponse
	err := a.c.request(ctx, http.MethodPost, "/orders", map[string]string{
		"shippingAddress": shippingAddress,
		"paymentMethod":   paymentMethod,
	}, &out)
	return out, err
}

func (a *OrdersAPI) List(ctx context.Context) ([]models.Order, error) {
	var out struct {
		Orders []models.Order `json:"orders"`
	}
	err := a.c.request(ctx, http.MethodGet, "/orders", nil, &out)
	return out.Orders, err
}

func (a *OrdersAPI) Get(ctx context.Context, orderID int64) (models.Order, error) {
	var out models.Order
	err := a.c.request(ctx, http.MethodGet, "/orders/"+strconv.FormatInt(orderID, 10), nil, &out)
	return out, err
}

func (a *OrdersAPI) Cancel(ctx context.Context, orderID int64) error {
	return a.c.request(ctx, http.MethodPost, "/orders/"+strconv.FormatInt(orderID, 10)+"/cancel", nil, nil)
}
