package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"storefront/internal/api"
	"storefront/internal/models"
)

type ProductsRepo interface {
	List(ctx context.Context, f models.ProductFilter) ([]models.Product, error)
	Search(ctx context.Context, query string, limit int) ([]models.Product, error)
	Categories(ctx context.Context) ([]string, error)
	ByCategory(ctx context.Context, category string) ([]models.Product, error)
}

type ProductGetter interface {
	GetByID(ctx context.Context, id int64) (models.Product, error)
}

type ProductsHandler struct {
	Repo   ProductsRepo
	Getter ProductGetter
	Log    zerolog.Logger
}

// List recognizes category, minPrice, maxPrice, sort/sortBy, order,
// page and limit. Absent parameters stay out of the filter.
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := models.ProductFilter{
		Category:  q.Get("category"),
		SortBy:    q.Get("sort"),
		SortOrder: q.Get("order"),
	}
	if f.SortBy == "" {
		f.SortBy = q.Get("sortBy")
	}
	if v := q.Get("minPrice"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			f.MinPrice = d
		}
	}
	if v := q.Get("maxPrice"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			f.MaxPrice = d
		}
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		f.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		f.Limit = v
	}

	products, err := h.Repo.List(r.Context(), f)
	if err != nil {
		h.Log.Error().Err(err).Msg("product list failed")
		api.WriteError(w, http.StatusInternalServerError, "failed to load products")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"products": orEmpty(products)})
}

func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "bad product id")
		return
	}
	p, err := h.Getter.GetByID(r.Context(), id)
	if err != nil {
		api.WriteServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		api.WriteJSON(w, http.StatusOK, map[string]any{"products": []models.Product{}})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	products, err := h.Repo.Search(r.Context(), query, limit)
	if err != nil {
		h.Log.Error().Err(err).Str("q", query).Msg("product search failed")
		api.WriteError(w, http.StatusInternalServerError, "search failed")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"products": orEmpty(products)})
}

func (h *ProductsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Repo.Categories(r.Context())
	if err != nil {
		h.Log.Error().Err(err).Msg("categories failed")
		api.WriteError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}
	if categories == nil {
		categories = []string{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

func (h *ProductsHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	products, err := h.Repo.ByCategory(r.Context(), category)
	if err != nil {
		h.Log.Error().Err(err).Str("category", category).Msg("by-category failed")
		api.WriteError(w, http.StatusInternalServerError, "failed to load products")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"products": orEmpty(products),
		"category": category,
		"count":    len(products),
	})
}

func orEmpty(products []models.Product) []models.Product {
	if products == nil {
		return []models.Product{}
	}
	return products
}
