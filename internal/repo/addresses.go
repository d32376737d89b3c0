package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/models"
)

type AddressesPG struct{ DB *pgxpool.Pool }

const addressCols = `id, user_id, address_line1, coalesce(address_line2, ''), city, state, zip_code, country, is_default, created_at`

func scanAddress(row pgx.Row) (models.Address, error) {
	var a models.Address
	err := row.Scan(&a.ID, &a.UserID, &a.AddressLine1, &a.AddressLine2, &a.City,
		&a.State, &a.ZipCode, &a.Country, &a.IsDefault, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Address{}, ErrNotFound
	}
	return a, err
}

func (r *AddressesPG) ListByUser(ctx context.Context, userID int64) ([]models.Address, error) {
	rows, err := r.DB.Query(ctx,
		`select `+addressCols+` from addresses where user_id = $1 order by is_default desc, created_at`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Create inserts an address. Marking it default clears the previous
// default in the same transaction, so at most one default survives.
func (r *AddressesPG) Create(ctx context.Context, a models.Address) (models.Address, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return models.Address{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if a.IsDefault {
		if _, err := tx.Exec(ctx, `update addresses set is_default = false where user_id = $1`, a.UserID); err != nil {
			return models.Address{}, err
		}
	}

	created, err := scanAddress(tx.QueryRow(ctx, `
		insert into addresses(user_id, address_line1, address_line2, city, state, zip_code, country, is_default, created_at)
		values ($1, $2, nullif($3, ''), $4, $5, $6, $7, $8, now())
		returning `+addressCols,
		a.UserID, a.AddressLine1, a.AddressLine2, a.City, a.State, a.ZipCode, a.Country, a.IsDefault))
	if err != nil {
		return models.Address{}, err
	}
	return created, tx.Commit(ctx)
}

func (r *AddressesPG) Update(ctx context.Context, a models.Address) (models.Address, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return models.Address{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if a.IsDefault {
		if _, err := tx.Exec(ctx,
			`update addresses set is_default = false where user_id = $1 and id <> $2`,
			a.UserID, a.ID); err != nil {
			return models.Address{}, err
		}
	}

	updated, err := scanAddress(tx.QueryRow(ctx, `
		update addresses
		set address_line1 = $3, address_line2 = nullif($4, ''), city = $5,
		    state = $6, zip_code = $7, country = $8, is_default = $9
		where id = $1 and user_id = $2
		returning `+addressCols,
		a.ID, a.UserID, a.AddressLine1, a.AddressLine2, a.City, a.State, a.ZipCode, a.Country, a.IsDefault))
	if err != nil {
		return models.Address{}, err
	}
	return updated, tx.Commit(ctx)
}

func (r *AddressesPG) Delete(ctx context.Context, userID, addressID int64) error {
	tag, err := r.DB.Exec(ctx, `delete from addresses where id = $1 and user_id = $2`, addressID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AddressesPG) GetDefault(ctx context.Context, userID int64) (models.Address, error) {
	return scanAddress(r.DB.QueryRow(ctx,
		`select `+addressCols+` from addresses where user_id = $1 and is_default`, userID))
}
