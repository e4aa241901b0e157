package repositories

import (
	"context"

	"gorm.io/gorm"
)

// TxManager runs a function inside one storage transaction. Writes made
// through the repositories with the callback's context commit or roll
// back together.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

// gormTxManager implements TxManager on gorm's Transaction
type gormTxManager struct {
	db *gorm.DB
}

// NewTxManager creates a transaction manager over the given handle
func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction carried by ctx, or the base handle when
// the call runs outside a TxManager.Do boundary.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
