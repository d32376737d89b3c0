package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"storefront/internal/api"
	"storefront/internal/models"
)

type CartService interface {
	Get(ctx context.Context, userID int64) (models.Cart, models.CartTotals, error)
	AddItem(ctx context.Context, userID, productID int64, quantity int, size string) (models.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) error
	RemoveItem(ctx context.Context, userID, itemID int64) error
	Clear(ctx context.Context, userID int64) error
	Count(ctx context.Context, userID int64) (int, error)
}

type CartHandler struct {
	Carts CartService
	Log   zerolog.Logger
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, totals, err := h.Carts.Get(r.Context(), api.UserID(r.Context()))
	if err != nil {
		h.Log.Error().Err(err).Msg("cart load failed")
		api.WriteError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"cart": cart, "totals": totals})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int64  `json:"productId"`
		Quantity  int    `json:"quantity"`
		Size      string `json:"size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "bad json")
		return
	}

	item, err := h.Carts.AddItem(r.Context(), api.UserID(r.Context()), req.ProductID, req.Quantity, req.Size)
	if err != nil {
		api.WriteServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{
		"message":  "item added to cart",
		"cartItem": item,
	})
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "bad item id")
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "bad json")
		return
	}

	if err := h.Carts.UpdateQuantity(r.Context(), api.UserID(r.Context()), itemID, req.Quantity); err != nil {
		api.WriteServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "cart updated"})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "bad item id")
		return
	}
	if err := h.Carts.RemoveItem(r.Context(), api.UserID(r.Context()), itemID); err != nil {
		api.WriteServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "item removed"})
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.Carts.Clear(r.Context(), api.UserID(r.Context())); err != nil {
		h.Log.Error().Err(err).Msg("cart clear failed")
		api.WriteError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "cart cleared"})
}

func (h *CartHandler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.Carts.Count(r.Context(), api.UserID(r.Context()))
	if err != nil {
		h.Log.Error().Err(err).Msg("cart count failed")
		api.WriteError(w, http.StatusInternalServerError, "failed to count cart")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]int{"count": n})
}
