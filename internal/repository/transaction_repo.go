package repository

import (
	"context"

	"go-inventory-pos/internal/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// TransactionRepository exposes the ledger. Rows are append-only, so there is
// no update or delete.
type TransactionRepository interface {
	Create(tx *gorm.DB, transaction *model.Transaction) error
	FindAll(ctx context.Context) ([]model.Transaction, error)
	FindByID(ctx context.Context, id uint) (*model.Transaction, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Create(tx *gorm.DB, transaction *model.Transaction) error {
	return errors.Wrapf(tx.Create(transaction).Error, "append %s transaction", transaction.Type)
}

// FindAll returns the ledger in insertion order.
func (r *transactionRepo) FindAll(ctx context.Context) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.WithContext(ctx).Order("id ASC").Find(&transactions).Error
	return transactions, errors.Wrap(err, "list transactions")
}

func (r *transactionRepo) FindByID(ctx context.Context, id uint) (*model.Transaction, error) {
	var transaction model.Transaction
	if err := r.db.WithContext(ctx).First(&transaction, id).Error; err != nil {
		return nil, notFound(err, "transaction %d", id)
	}
	return &transaction, nil
}
