package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

type ProductsAPI struct{ c *Client }

// ListOptions mirrors the list endpoint's recognized parameters. Zero
// values are treated as unset and never appear in the query string.
type ListOptions struct {
	Category string
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
	Sort     string
	Order    string // "asc" or "desc"
	Page     int
	Limit    int
}

func (o ListOptions) encode() string {
	q := url.Values{}
	if o.Category != "" {
		q.Set("category", o.Category)
	}
	if o.MinPrice.IsPositive() {
		q.Set("minPrice", o.MinPrice.String())
	}
	if o.MaxPrice.IsPositive() {
		q.Set("maxPrice", o.MaxPrice.String())
	}
	if o.Sort != "" {
		q.Set("sort", o.Sort)
	}
	if o.Order != "" {
		q.Set("order", o.Order)
	}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (p *ProductsAPI) List(ctx context.Context, opts ListOptions) ([]models.Product, error) {
	var out struct {
		Products []models.Product `json:"products"`
	}
	err := p.c.request(ctx, http.MethodGet, "/products"+opts.encode(), nil, &out)
	return out.Products, err
}

func (p *ProductsAPI) Get(ctx context.Context, id int64) (models.Product, error) {
	var out models.Product
	err := p.c.request(ctx, http.MethodGet, "/products/"+strconv.FormatInt(id, 10), nil, &out)
	return out, err
}

// Search delegates to the backend search endpoint; the query goes out
// verbatim, URL-encoded.
func (p *ProductsAPI) Search(ctx context.Context, query string) ([]models.Product, error) {
	var out struct {
		Products []models.Product `json:"products"`
	}
	err := p.c.request(ctx, http.MethodGet, "/products/search?q="+url.QueryEscape(query), nil, &out)
	return out.Products, err
}

func (p *ProductsAPI) Categories(ctx context.Context) ([]string, error) {
	var out struct {
		Categories []string `json:"categories"`
	}
	err := p.c.request(ctx, http.MethodGet, "/products/categories", nil, &out)
	return out.Categories, err
}

func (p *ProductsAPI) ByCategory(ctx context.Context, category string) ([]models.Product, error) {
	var out struct {
		Products []models.Product `json:"products"`
	}
	err := p.c.request(ctx, http.MethodGet, "/products/category/"+url.PathEscape(category), nil, &out)
	return out.Products, err
}
