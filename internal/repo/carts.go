package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/models"
)

type CartsPG struct{ DB *pgxpool.Pool }

// GetOrCreate returns the user's cart, creating an empty one on first
// touch. Items come back joined with their product rows.
func (r *CartsPG) GetOrCreate(ctx context.Context, userID int64) (models.Cart, error) {
	var c models.Cart
	err := r.DB.QueryRow(ctx, `
		insert into carts(user_id, created_at)
		values ($1, now())
		on conflict (user_id) do update set user_id = excluded.user_id
		returning id, user_id, created_at
	`, userID).Scan(&c.ID, &c.UserID, &c.CreatedAt)
	if err != nil {
		return models.Cart{}, err
	}

	items, err := r.itemsWithProducts(ctx, c.ID)
	if err != nil {
		return models.Cart{}, err
	}
	c.Items = items
	return c, nil
}

func (r *CartsPG) itemsWithProducts(ctx context.Context, cartID int64) ([]models.CartItem, error) {
	rows, err := r.DB.Query(ctx, `
		select ci.id, ci.cart_id, ci.product_id, ci.quantity, coalesce(ci.size, ''), ci.added_at,
		       p.id, p.name, p.description, p.price, p.image_url, p.category,
		       p.rating, p.review_count, p.stock_quantity, p.active, p.created_at
		from cart_items ci
		join products p on p.id = ci.product_id
		where ci.cart_id = $1
		order by ci.added_at
	`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		var it models.CartItem
		var p models.Product
		if err := rows.Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.Size, &it.AddedAt,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.Category,
			&p.Rating, &p.ReviewCount, &p.StockQuantity, &p.Active, &p.CreatedAt); err != nil {
			return nil, err
		}
		it.Product = &p
		items = append(items, it)
	}
	return items, rows.Err()
}

// FindItem loads one cart item together with the id of the cart's
// owner, so callers can check ownership.
func (r *CartsPG) FindItem(ctx context.Context, itemID int64) (models.CartItem, int64, error) {
	var it models.CartItem
	var ownerID int64
	err := r.DB.QueryRow(ctx, `
		select ci.id, ci.cart_id, ci.product_id, ci.quantity, coalesce(ci.size, ''), ci.added_at, c.user_id
		from cart_items ci
		join carts c on c.id = ci.cart_id
		where ci.id = $1
	`, itemID).Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.Size, &it.AddedAt, &ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.CartItem{}, 0, ErrNotFound
	}
	return it, ownerID, err
}

// UpsertItem merges an add into an existing line for the same product
// and size, otherwise inserts a new line.
func (r *CartsPG) UpsertItem(ctx context.Context, cartID, productID int64, quantity int, size string) (models.CartItem, error) {
	var it models.CartItem
	err := r.DB.QueryRow(ctx, `
		insert into cart_items(cart_id, product_id, quantity, size, added_at)
		values ($1, $2, $3, nullif($4, ''), now())
		on conflict (cart_id, product_id, coalesce(size, ''))
		do update set quantity = cart_items.quantity + excluded.quantity
		returning id, cart_id, product_id, quantity, coalesce(size, ''), added_at
	`, cartID, productID, quantity, size).
		Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.Size, &it.AddedAt)
	return it, err
}

func (r *CartsPG) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	tag, err := r.DB.Exec(ctx, `update cart_items set quantity = $2 where id = $1`, itemID, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CartsPG) DeleteItem(ctx context.Context, itemID int64) error {
	tag, err := r.DB.Exec(ctx, `delete from cart_items where id = $1`, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear removes every item; clearing an empty cart is fine.
func (r *CartsPG) Clear(ctx context.Context, userID int64) error {
	_, err := r.DB.Exec(ctx, `
		delete from cart_items
		where cart_id in (select id from carts where user_id = $1)
	`, userID)
	return err
}

func (r *CartsPG) ItemCount(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `
		select coalesce(sum(ci.quantity), 0)
		from cart_items ci
		join carts c on c.id = ci.cart_id
		where c.user_id = $1
	`, userID).Scan(&n)
	return n, err
}
