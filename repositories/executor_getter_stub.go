package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
)

// ExecutorGetterStub backs the ExecutorGetter interface with a pgxmock pool,
// for usecase tests that never reach a real database. Transaction runs the
// callback with a nil tx: fakes behind the repository interfaces ignore the
// executor they are handed.
type ExecutorGetterStub struct {
	Mock pgxmock.PgxPoolIface
}

func NewExecutorGetterStub() ExecutorGetterStub {
	pool, _ := pgxmock.NewPool()

	return ExecutorGetterStub{
		Mock: pool,
	}
}

func (stub ExecutorGetterStub) GetExecutor() Executor {
	return stub.Mock
}

func (stub ExecutorGetterStub) Transaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}
