package pgx

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ameblo/vouch"
)

type Adapter struct {
	pool *pgxpool.Pool
}

var _ vouch.UserStorage = (*Adapter)(nil)

func New(pool *pgxpool.Pool) *Adapter {
	return &Adapter{
		pool: pool,
	}
}
