package repositories

import (
	"context"

	"blocklend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// transactionRepository implements TransactionRepository on GORM
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

// Create appends a transaction. Transactions are never updated or deleted.
func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	return conn(ctx, r.db).Create(tx).Error
}

// GetByID gets a transaction by ID
func (r *transactionRepository) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	err := conn(ctx, r.db).Where("id = ?", id).First(&tx).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &tx, nil
}

// GetByUser gets a user's transactions, newest first
func (r *transactionRepository) GetByUser(ctx context.Context, userID uint) ([]*models.Transaction, error) {
	var txs []*models.Transaction
	err := conn(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&txs).Error
	return txs, err
}
