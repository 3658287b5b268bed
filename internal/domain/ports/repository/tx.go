package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an infra-defined execution handle (e.g. pgx.Tx). Repositories accept nil
// and fall back to the pool.
type Tx interface{}

var NoTX interface{}

// TransactionManager runs fn inside a database transaction, passing the handle as tx.
// The admin operations never need one; bulk tooling such as the seeder does.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
