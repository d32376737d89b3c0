package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/models"
)

type ProductsPG struct{ DB *pgxpool.Pool }

// sortFields is the allowlist of client-selectable sort columns.
var sortFields = map[string]string{
	"created_at": "created_at",
	"price":      "price",
	"rating":     "rating",
	"name":       "name",
}

const productCols = `id, name, description, price, image_url, category, rating, review_count, stock_quantity, active, created_at`

func scanProduct(row pgx.Row) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.Category,
		&p.Rating, &p.ReviewCount, &p.StockQuantity, &p.Active, &p.CreatedAt)
	return p, err
}

// List applies the recognized filter options. Unset options are not
// part of the generated SQL at all.
func (r *ProductsPG) List(ctx context.Context, f models.ProductFilter) ([]models.Product, error) {
	var (
		where = []string{"active"}
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Category != "" {
		where = append(where, "category = "+arg(f.Category))
	}
	if f.MinPrice.IsPositive() {
		where = append(where, "price >= "+arg(f.MinPrice))
	}
	if f.MaxPrice.IsPositive() {
		where = append(where, "price <= "+arg(f.MaxPrice))
	}

	sortBy, ok := sortFields[f.SortBy]
	if !ok {
		sortBy = "created_at"
	}
	order := "desc"
	if strings.EqualFold(f.SortOrder, "asc") {
		order = "asc"
	}

	q := fmt.Sprintf(`select %s from products where %s order by %s %s`,
		productCols, strings.Join(where, " and "), sortBy, order)

	if f.Limit > 0 {
		q += " limit " + arg(f.Limit)
		if f.Page > 1 {
			q += " offset " + arg((f.Page-1)*f.Limit)
		}
	}

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProducts(rows)
}

func (r *ProductsPG) GetByID(ctx context.Context, id int64) (models.Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx,
		`select `+productCols+` from products where id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Product{}, ErrNotFound
	}
	return p, err
}

// likeEscaper neutralizes LIKE metacharacters so user input matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}

// Search is the backend-delegate search path: name matches rank above
// description matches, ties broken by rating.
func (r *ProductsPG) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.DB.Query(ctx, `
		select `+productCols+`
		from products
		where active and (name ilike $1 or description ilike $1)
		order by (name ilike $1) desc, rating desc
		limit $2
	`, likePattern(query), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProducts(rows)
}

func (r *ProductsPG) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.DB.Query(ctx, `select distinct category from products where active order by category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ProductsPG) ByCategory(ctx context.Context, category string) ([]models.Product, error) {
	rows, err := r.DB.Query(ctx,
		`select `+productCols+` from products where active and category = $1 order by created_at desc`,
		category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProducts(rows)
}

func collectProducts(rows pgx.Rows) ([]models.Product, error) {
	var out []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
