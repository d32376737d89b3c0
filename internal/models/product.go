package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"imageUrl,omitempty"`
	Category      string          `json:"category"`
	Rating        float64         `json:"rating"`
	ReviewCount   int             `json:"reviewCount"`
	StockQuantity int             `json:"stockQuantity"`
	Active        bool            `json:"-"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func (p Product) Available(quantity int) bool {
	return p.Active && quantity > 0 && p.StockQuantity >= quantity
}

// ProductFilter carries the recognized list-endpoint options. Zero
// values mean "not set" and are left out of queries entirely.
type ProductFilter struct {
	Category  string
	MinPrice  decimal.Decimal
	MaxPrice  decimal.Decimal
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}
