package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"storefront/internal/client"
	"storefront/internal/models"
)

type homePage struct {
	Featured   []models.Product
	Categories []string
	LoadErr    bool
}

func (s *Server) Home(w http.ResponseWriter, r *http.Request) {
	sc := s.scope(w, r)
	page := homePage{}

	products, err := sc.api.Products.List(r.Context(), client.ListOptions{Limit: 8})
	if err != nil {
		s.Log.Warn().Err(err).Msg("load featured products")
		page.LoadErr = true
	}
	page.Featured = products
	if cats, err := sc.api.Products.Categories(r.Context()); err == nil {
		page.Categories = cats
	}
	s.render(w, r, sc, "home", viewData{Page: page})
}

type productsPage struct {
	Products   []models.Product
	Categories []string
	Query      string
	Category   string
	MaxPrice   string
	Sort       string
	Searching  bool
	LoadErr    bool
}

const maxPriceCeiling = 500

// Products renders the catalog. A search query sidelines the filters;
// an empty result and a failed load get distinct messages.
func (s *Server) Products(w http.ResponseWriter, r *http.Request) {
	sc := s.scope(w, r)
	q := r.URL.Query()

	cq := client.CatalogQuery{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
	}
	if cq.Category == "" {
		cq.Category = "all"
	}
	maxPrice := q.Get("maxPrice")
	if maxPrice != "" {
		if v, err := decimal.NewFromString(maxPrice); err == nil && v.IsPositive() {
			if v.GreaterThan(decimal.NewFromInt(maxPriceCeiling)) {
				v = decimal.NewFromInt(maxPriceCeiling)
			}
			cq.MaxPrice = v
		}
	}

	page := productsPage{
		Query:     cq.Query,
		Category:  cq.Category,
		MaxPrice:  maxPrice,
		Sort:      cq.Sort,
		Searching: cq.Query != "",
	}
	products, err := cq.Fetch(r.Context(), sc.api)
	if err != nil {
		s.Log.Warn().Err(err).Msg("load catalog")
		page.LoadErr = true
	}
	page.Products = products
	if cats, err := sc.api.Products.Categories(r.Context()); err == nil {
		page.Categories = cats
	}
	s.render(w, r, sc, "products", viewData{Page: page})
}

type productPage struct {
	Product models.Product
}

func (s *Server) Product(w http.ResponseWriter, r *http.Request) {
	sc := s.scope(w, r)
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	product, err := sc.api.Products.Get(r.Context(), id)
	if err != nil {
		if apiErr, ok := err.(*client.APIError); ok && apiErr.Status == http.StatusNotFound {
			http.NotFound(w, r)
			return
		}
		s.Log.Warn().Err(err).Int64("product_id", id).Msg("load product")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.render(w, r, sc, "product", viewData{Page: productPage{Product: product}})
}

func (s *Server) AddToCart(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	quantity, _ := strconv.Atoi(r.FormValue("quantity"))
	if quantity < 1 {
		quantity = 1
	}
	if _, err := sc.api.Cart.AddItem(r.Context(), id, quantity, r.FormValue("size")); err != nil {
		product, perr := sc.api.Products.Get(r.Context(), id)
		if perr != nil {
			http.Redirect(w, r, "/products", http.StatusSeeOther)
			return
		}
		s.render(w, r, sc, "product", viewData{Error: errText(err), Page: productPage{Product: product}})
		return
	}
	setFlash(w, "Added to cart")
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}
