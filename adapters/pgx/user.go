package pgx

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ameblo/vouch"
)

// Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

func (a *Adapter) CreateUser(ctx context.Context, user *vouch.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query := `INSERT INTO public.users (id, name, email, password) VALUES ($1, $2, $3, $4) RETURNING created_at`
	var createdAt time.Time

	err := a.pool.QueryRow(ctx, query, user.ID, user.Name, user.Email, user.Password).Scan(&createdAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return vouch.ErrEmailInUse
		}
		return err
	}

	user.CreatedAt = createdAt
	return nil
}

func (a *Adapter) GetUserByID(ctx context.Context, id string) (*vouch.User, error) {
	q := `SELECT id, name, email, password, created_at FROM public.users WHERE id = $1`

	user := &vouch.User{}
	err := a.pool.QueryRow(ctx, q, id).Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, vouch.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (a *Adapter) GetUserByEmail(ctx context.Context, email string) (*vouch.User, error) {
	q := `SELECT id, name, email, password, created_at FROM public.users WHERE email = $1`

	user := &vouch.User{}
	err := a.pool.QueryRow(ctx, q, email).Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, vouch.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
