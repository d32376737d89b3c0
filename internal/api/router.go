package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront/internal/metrics"
)

type Handlers struct {
	Health http.HandlerFunc

	Login          http.HandlerFunc
	Register       http.HandlerFunc
	ForgotPassword http.HandlerFunc
	ResetPassword  http.HandlerFunc

	ListProducts   http.HandlerFunc
	GetProduct     http.HandlerFunc
	SearchProducts http.HandlerFunc
	ListCategories http.HandlerFunc
	ProductsByCat  http.HandlerFunc

	GetCart        http.HandlerFunc
	AddCartItem    http.HandlerFunc
	UpdateCartItem http.HandlerFunc
	RemoveCartItem http.HandlerFunc
	ClearCart      http.HandlerFunc
	CartCount      http.HandlerFunc

	CreateOrder http.HandlerFunc
	ListOrders  http.HandlerFunc
	GetOrder    http.HandlerFunc
	CancelOrder http.HandlerFunc

	GetProfile     http.HandlerFunc
	UpdateProfile  http.HandlerFunc
	ChangePassword http.HandlerFunc
	ListAddresses  http.HandlerFunc
	AddAddress     http.HandlerFunc
	UpdateAddress  http.HandlerFunc
	DeleteAddress  http.HandlerFunc
}

func NewRouter(h *Handlers, tokens TokenVerifier) http.Handler {
	r := chi.NewRouter()
	r.Use(metrics.Middleware("storefront-api"))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Login)
			r.Post("/register", h.Register)
			r.Post("/forgot-password", h.ForgotPassword)
			r.Post("/reset-password", h.ResetPassword)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Get("/search", h.SearchProducts)
			r.Get("/categories", h.ListCategories)
			r.Get("/category/{category}", h.ProductsByCat)
			r.Get("/{id}", h.GetProduct)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(tokens))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.GetCart)
				r.Delete("/", h.ClearCart)
				r.Get("/count", h.CartCount)
				r.Post("/items", h.AddCartItem)
				r.Put("/items/{id}", h.UpdateCartItem)
				r.Delete("/items/{id}", h.RemoveCartItem)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", h.CreateOrder)
				r.Get("/", h.ListOrders)
				r.Get("/{id}", h.GetOrder)
				r.Post("/{id}/cancel", h.CancelOrder)
			})

			r.Route("/user", func(r chi.Router) {
				r.Get("/profile", h.GetProfile)
				r.Put("/profile", h.UpdateProfile)
				r.Post("/change-password", h.ChangePassword)
				r.Route("/addresses", func(r chi.Router) {
					r.Get("/", h.ListAddresses)
					r.Post("/", h.AddAddress)
					r.Put("/{id}", h.UpdateAddress)
					r.Delete("/{id}", h.DeleteAddress)
				})
			})
		})
	})

	return r
}

func Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
