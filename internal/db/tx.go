package db

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// TxRunner lets services run a function inside a database transaction
// without holding the *sqlx.DB themselves, which keeps them mockable.
type TxRunner interface {
	InTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type Runner struct {
	db *sqlx.DB
}

func NewRunner(db *sqlx.DB) *Runner {
	return &Runner{db: db}
}

func (r *Runner) InTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return InTx(ctx, r.db, fn)
}
