package memory

import (
	"context"
	"sort"
	"time"

	"blocklend/internal/adapters/persistence/models"
	"blocklend/internal/core/domain"
)

type transactionRepository struct {
	store *Store
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.txSeq++
	tx.ID = r.store.txSeq
	tx.CreatedAt = time.Now()
	r.store.transactions[tx.ID] = cloneTransaction(tx)
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx, ok := r.store.transactions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneTransaction(tx), nil
}

func (r *transactionRepository) GetByUser(ctx context.Context, userID uint) ([]*models.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	txs := make([]*models.Transaction, 0)
	for _, tx := range r.store.transactions {
		if tx.UserID == userID {
			txs = append(txs, cloneTransaction(tx))
		}
	}
	// Newest first; IDs break ties for same-instant records
	sort.Slice(txs, func(i, j int) bool {
		if txs[i].CreatedAt.Equal(txs[j].CreatedAt) {
			return txs[i].ID > txs[j].ID
		}
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
	return txs, nil
}
