package client

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

// Catalog sort keys as the storefront presents them.
const (
	SortRelevance = "relevance"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
)

// CatalogQuery is the catalog page's filter state. Category "all"
// means no category filter; MaxPrice 0 means no ceiling. A non-empty
// search query takes precedence over every filter.
type CatalogQuery struct {
	Query    string
	Category string
	MaxPrice decimal.Decimal
	Sort     string
}

// options maps the view-level filter state to list-endpoint options.
func (q CatalogQuery) options() ListOptions {
	opts := ListOptions{MaxPrice: q.MaxPrice}
	if q.Category != "" && q.Category != "all" {
		opts.Category = q.Category
	}
	switch q.Sort {
	case SortPriceLow:
		opts.Sort, opts.Order = "price", "asc"
	case SortPriceHigh:
		opts.Sort, opts.Order = "price", "desc"
	case SortRating:
		opts.Sort, opts.Order = "rating", "desc"
	default: // relevance
		opts.Sort, opts.Order = "created_at", "desc"
	}
	return opts
}

// Fetch runs the query. When a search term is present the filters are
// ignored and the term goes to the search endpoint as-is.
func (q CatalogQuery) Fetch(ctx context.Context, api *Client) ([]models.Product, error) {
	if term := strings.TrimSpace(q.Query); term != "" {
		return api.Products.Search(ctx, term)
	}
	return api.Products.List(ctx, q.options())
}
