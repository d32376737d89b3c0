package client

import (
	"context"
	"net/http"
	"strconv"

	"storefront/internal/models"
)

type CartAPI struct{ c *Client }

func (a *CartAPI) Get(ctx context.Context) (models.Cart, models.CartTotals, error) {
	var out struct {
		Cart   models.Cart       `json:"cart"`
		Totals models.CartTotals `json:"totals"`
	}
	err := a.c.request(ctx, http.MethodGet, "/cart", nil, &out)
	return out.Cart, out.Totals, err
}

func (a *CartAPI) AddItem(ctx context.Context, productID int64, quantity int, size string) (models.CartItem, error) {
	var out struct {
		CartItem models.CartItem `json:"cartItem"`
	}
	body := map[string]any{"productId": productID, "quantity": quantity}
	if size != "" {
		body["size"] = size
	}
	err := a.c.request(ctx, http.MethodPost, "/cart/items", body, &out)
	return out.CartItem, err
}

func (a *CartAPI) UpdateItem(ctx context.Context, itemID int64, quantity int) error {
	return a.c.request(ctx, http.MethodPut, "/cart/items/"+strconv.FormatInt(itemID, 10),
		map[string]int{"quantity": quantity}, nil)
}

func (a *CartAPI) RemoveItem(ctx context.Context, itemID int64) error {
	return a.c.request(ctx, http.MethodDelete, "/cart/items/"+strconv.FormatInt(itemID, 10), nil, nil)
}

func (a *CartAPI) Clear(ctx context.Context) error {
	return a.c.request(ctx, http.MethodDelete, "/cart", nil, nil)
}

func (a *CartAPI) Count(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	err := a.c.request(ctx, http.MethodGet, "/cart/count", nil, &out)
	return out.Count, err
}
