package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"storefront/internal/client"
	"storefront/internal/models"
)

type cartPage struct {
	Items           []models.CartItem
	Totals          models.CartTotals
	FreeShippingGap decimal.Decimal
	CartErr         string
}

func (s *Server) Cart(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	state := client.NewCartState(sc.api)
	state.Refresh(r.Context())
	s.render(w, r, sc, "cart", viewData{Page: cartPage{
		Items:           state.Items(),
		Totals:          state.Totals(),
		FreeShippingGap: state.FreeShippingGap(),
		CartErr:         state.Err(),
	}})
}

func (s *Server) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	itemID, err := strconv.ParseInt(r.FormValue("itemId"), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}
	quantity, _ := strconv.Atoi(r.FormValue("quantity"))
	state := client.NewCartState(sc.api)
	state.UpdateQuantity(r.Context(), itemID, quantity)
	if msg := state.Err(); msg != "" {
		setErrorFlash(w, msg)
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (s *Server) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	itemID, err := strconv.ParseInt(r.FormValue("itemId"), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}
	state := client.NewCartState(sc.api)
	state.Remove(r.Context(), itemID)
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (s *Server) ClearCart(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	state := client.NewCartState(sc.api)
	state.Clear(r.Context())
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

type checkoutPage struct {
	Items     []models.CartItem
	Totals    models.CartTotals
	Addresses []models.Address
}

func (s *Server) Checkout(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	cart, totals, err := sc.api.Cart.Get(r.Context())
	if err != nil {
		s.Log.Warn().Err(err).Msg("load cart for checkout")
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}
	if cart.IsEmpty() {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}
	addresses, err := sc.api.User.Addresses(r.Context())
	if err != nil {
		s.Log.Warn().Err(err).Msg("load addresses for checkout")
	}
	s.render(w, r, sc, "checkout", viewData{Page: checkoutPage{
		Items:     cart.Items,
		Totals:    totals,
		Addresses: addresses,
	}})
}

func (s *Server) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	shippingAddress := r.FormValue("shippingAddress")
	paymentMethod := r.FormValue("paymentMethod")

	resp, err := sc.api.Orders.Create(r.Context(), shippingAddress, paymentMethod)
	if err != nil {
		setErrorFlash(w, errText(err))
		http.Redirect(w, r, "/checkout", http.StatusSeeOther)
		return
	}
	setFlash(w, "Order placed")
	http.Redirect(w, r, "/orders/"+strconv.FormatInt(resp.OrderID, 10), http.StatusSeeOther)
}

type ordersPage struct {
	Orders []models.Order
}

func (s *Server) Orders(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	orders, err := sc.api.Orders.List(r.Context())
	if err != nil {
		s.Log.Warn().Err(err).Msg("load orders")
	}
	s.render(w, r, sc, "orders", viewData{Page: ordersPage{Orders: orders}})
}

type orderPage struct {
	Order models.Order
}

func (s *Server) Order(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	order, err := sc.api.Orders.Get(r.Context(), id)
	if err != nil {
		if apiErr, ok := err.(*client.APIError); ok && apiErr.Status == http.StatusNotFound {
			http.NotFound(w, r)
			return
		}
		setErrorFlash(w, errText(err))
		http.Redirect(w, r, "/orders", http.StatusSeeOther)
		return
	}
	s.render(w, r, sc, "order", viewData{Page: orderPage{Order: order}})
}

func (s *Server) CancelOrder(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := sc.api.Orders.Cancel(r.Context(), id); err != nil {
		setErrorFlash(w, errText(err))
	} else {
		setFlash(w, "Order cancelled")
	}
	http.Redirect(w, r, "/orders/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
}
