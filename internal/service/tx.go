package service

import (
	"context"

	"github.com/alexanderramin/opsboard/internal/db"
	"github.com/alexanderramin/opsboard/internal/repository"
)

// TxRunner runs fn against an EntityRepo whose writes commit together or
// not at all.
type TxRunner func(ctx context.Context, fn func(ctx context.Context, repo repository.EntityRepo) error) error

// SQLiteTx runs each call inside a UnitOfWork with a tx-scoped SQLite repo.
func SQLiteTx(uow db.UnitOfWork) TxRunner {
	return func(ctx context.Context, fn func(ctx context.Context, repo repository.EntityRepo) error) error {
		return uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			return fn(ctx, repository.NewSQLiteEntityRepo(tx))
		})
	}
}

// Direct runs fn against repo as is. Use it for stores whose writes are
// already single statements, such as PgEntityRepo.
func Direct(repo repository.EntityRepo) TxRunner {
	return func(ctx context.Context, fn func(ctx context.Context, repo repository.EntityRepo) error) error {
		return fn(ctx, repo)
	}
}
