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

type OrderService interface {
	Create(ctx context.Context, userID int64, shippingAddress, paymentMethod string) (models.Order, error)
	List(ctx context.Context, userID int64) ([]models.Order, error)
	Get(ctx context.Context, userID, orderID int64) (models.Order, error)
	Cancel(ctx context.Context, userID, orderID int64) error
}

type OrdersHandler struct {
	Orders OrderService
	Log    zerolog.Logger
}

func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShippingAddress string `json:"shippingAddress"`
		PaymentMethod   string `json:"paymentMethod"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.ShippingAddress == "" || req.PaymentMethod == "" {
		api.WriteError(w, http.StatusBadRequest, "shipping address and payment method are required")
		return
	}

	order, err := h.Orders.Create(r.Context(), api.UserID(r.Context()), req.ShippingAddress, req.PaymentMethod)
	if err != nil {
		api.WriteServiceError(w, err)
		return
	}

	h.Log.Info().Str("order_number", order.OrderNumber).Int64("user_id", order.UserID).Msg("order created")
	api.WriteJSON(w, http.StatusCreated, map[string]any{
		"orderId": order.ID,
		"message": "order " + order.OrderNumber + " created",
	})
}

func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.List(r.Context(), api.UserID(r.Context()))
	if err != nil {
		h.Log.Error().Err(err).Msg("order list failed")
		api.WriteError(w, http.StatusInternalServerError, "failed to load orders")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "bad order id")
		return
	}
	order, err := h.Orders.Get(r.Context(), api.UserID(r.Context()), orderID)
	if err != nil {
		api.WriteServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, order)
}

func (h *OrdersHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "bad order id")
		return
	}
	if err := h.Orders.Cancel(r.Context(), api.UserID(r.Context()), orderID); err != nil {
		api.WriteServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "order cancelled"})
}
