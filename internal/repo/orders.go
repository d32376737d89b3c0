package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/models"
)

type OrdersPG struct {
	DB     *pgxpool.Pool
	Outbox *OutboxPG
}

const orderCols = `id, user_id, order_number, status, subtotal, tax, shipping_fee, total,
	shipping_address, payment_method, created_at, updated_at`

func scanOrder(row pgx.Row) (models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.UserID, &o.OrderNumber, &o.Status, &o.Subtotal, &o.Tax,
		&o.ShippingFee, &o.Total, &o.ShippingAddress, &o.PaymentMethod, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Order{}, ErrNotFound
	}
	return o, err
}

// CreateFromCart persists the order, reserves stock, empties the cart
// and enqueues the created event, all in one transaction. Any stock
// shortfall rolls the whole order back.
func (r *OrdersPG) CreateFromCart(ctx context.Context, o models.Order, cartID int64, evt models.Event[models.OrderCreatedPayload]) (models.Order, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return models.Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		insert into orders(user_id, order_number, status, subtotal, tax, shipping_fee, total,
			shipping_address, payment_method, created_at, updated_at)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		returning id, created_at, updated_at
	`, o.UserID, o.OrderNumber, o.Status, o.Subtotal, o.Tax, o.ShippingFee, o.Total,
		o.ShippingAddress, o.PaymentMethod).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return models.Order{}, err
	}

	for i, it := range o.Items {
		tag, err := tx.Exec(ctx, `
			update products set stock_quantity = stock_quantity - $2
			where id = $1 and stock_quantity >= $2
		`, it.ProductID, it.Quantity)
		if err != nil {
			return models.Order{}, err
		}
		if tag.RowsAffected() == 0 {
			return models.Order{}, ErrOutOfStock
		}

		err = tx.QueryRow(ctx, `
			insert into order_items(order_id, product_id, quantity, size, unit_price)
			values ($1, $2, $3, nullif($4, ''), $5)
			returning id
		`, o.ID, it.ProductID, it.Quantity, it.Size, it.UnitPrice).Scan(&o.Items[i].ID)
		if err != nil {
			return models.Order{}, err
		}
		o.Items[i].OrderID = o.ID
	}

	if _, err := tx.Exec(ctx, `delete from cart_items where cart_id = $1`, cartID); err != nil {
		return models.Order{}, err
	}

	if err := r.Outbox.Enqueue(ctx, tx, evt.ID, o.OrderNumber, evt.Type, evt); err != nil {
		return models.Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Order{}, err
	}
	return o, nil
}

func (r *OrdersPG) GetByID(ctx context.Context, orderID int64) (models.Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `select `+orderCols+` from orders where id = $1`, orderID))
	if err != nil {
		return models.Order{}, err
	}
	items, err := r.itemsWithProducts(ctx, o.ID)
	if err != nil {
		return models.Order{}, err
	}
	o.Items = items
	return o, nil
}

func (r *OrdersPG) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	rows, err := r.DB.Query(ctx,
		`select `+orderCols+` from orders where user_id = $1 order by created_at desc`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.itemsWithProducts(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// Cancel flips the order to CANCELLED and restores the reserved stock.
// Only orders still in a cancellable status go through.
func (r *OrdersPG) Cancel(ctx context.Context, orderID, userID int64, evt models.Event[models.OrderCancelledPayload]) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o, err := scanOrder(tx.QueryRow(ctx, `select `+orderCols+` from orders where id = $1 for update`, orderID))
	if err != nil {
		return err
	}
	if o.UserID != userID {
		return ErrForbidden
	}
	if !o.CanBeCancelled() {
		return ErrNotCancellable
	}

	rows, err := tx.Query(ctx, `select product_id, quantity from order_items where order_id = $1`, orderID)
	if err != nil {
		return err
	}
	type line struct {
		productID int64
		qty       int
	}
	var lines []line
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.productID, &l.qty); err != nil {
			rows.Close()
			return err
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, l := range lines {
		if _, err := tx.Exec(ctx,
			`update products set stock_quantity = stock_quantity + $2 where id = $1`,
			l.productID, l.qty); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx,
		`update orders set status = $2, updated_at = now() where id = $1`,
		orderID, models.OrderStatusCancelled); err != nil {
		return err
	}

	if err := r.Outbox.Enqueue(ctx, tx, evt.ID, o.OrderNumber, evt.Type, evt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *OrdersPG) itemsWithProducts(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	rows, err := r.DB.Query(ctx, `
		select oi.id, oi.order_id, oi.product_id, oi.quantity, coalesce(oi.size, ''), oi.unit_price,
		       p.id, p.name, p.description, p.price, p.image_url, p.category,
		       p.rating, p.review_count, p.stock_quantity, p.active, p.created_at
		from order_items oi
		join products p on p.id = oi.product_id
		where oi.order_id = $1
		order by oi.id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		var p models.Product
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Size, &it.UnitPrice,
			&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.Category,
			&p.Rating, &p.ReviewCount, &p.StockQuantity, &p.Active, &p.CreatedAt); err != nil {
			return nil, err
		}
		it.Product = &p
		items = append(items, it)
	}
	return items, rows.Err()
}
