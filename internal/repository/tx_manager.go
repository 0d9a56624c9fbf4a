package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxRepos exposes the repositories bound to one database transaction.
type TxRepos interface {
	Products() ProductRepository
	Transactions() TransactionRepository
}

// TransactionManager hides transaction begin/commit/rollback from services.
// The callback's writes are applied together or not at all.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}

type txRepos struct {
	products     ProductRepository
	transactions TransactionRepository
}

func (r *txRepos) Products() ProductRepository         { return r.products }
func (r *txRepos) Transactions() TransactionRepository { return r.transactions }

type txManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TransactionManager {
	return &txManager{db: db}
}

func (tm *txManager) WithinTx(ctx context.Context, fn func(r TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Repositories are rebuilt on the transaction handle
		r := &txRepos{
			products:     NewProductRepo(tx),
			transactions: NewTransactionRepo(tx),
		}
		return fn(r)
	})
}
