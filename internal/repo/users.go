package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/models"
)

type UsersPG struct{ DB *pgxpool.Pool }

const userCols = `id, email, first_name, last_name, coalesce(phone, ''), password_hash, created_at`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Phone, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	return u, err
}

func (r *UsersPG) Create(ctx context.Context, email, passwordHash, firstName, lastName string) (models.User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, `
		insert into users(email, first_name, last_name, password_hash, created_at)
		values ($1, $2, $3, $4, now())
		returning `+userCols,
		email, firstName, lastName, passwordHash))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return models.User{}, ErrDuplicateEmail
	}
	return u, err
}

func (r *UsersPG) GetByID(ctx context.Context, id int64) (models.User, error) {
	return scanUser(r.DB.QueryRow(ctx, `select `+userCols+` from users where id = $1`, id))
}

func (r *UsersPG) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return scanUser(r.DB.QueryRow(ctx, `select `+userCols+` from users where email = $1`, email))
}

// UpdateProfile changes names and phone only. Email is immutable after
// registration.
func (r *UsersPG) UpdateProfile(ctx context.Context, id int64, firstName, lastName, phone string) (models.User, error) {
	return scanUser(r.DB.QueryRow(ctx, `
		update users
		set first_name = $2, last_name = $3, phone = nullif($4, '')
		where id = $1
		returning `+userCols,
		id, firstName, lastName, phone))
}

func (r *UsersPG) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.DB.Exec(ctx, `update users set password_hash = $2 where id = $1`, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
