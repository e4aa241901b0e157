// Package memory provides in-memory implementations of the repository
// interfaces. It backs tests and APP_MODE=dev runs without a database,
// and honors the same compare-and-swap contracts as the GORM backing.
package memory

import (
	"context"
	"sync"

	"blocklend/internal/adapters/persistence/models"
	"blocklend/internal/adapters/persistence/repositories"
)

// Store holds all collections behind one mutex. Every repository handed
// out by a Store shares it, so cross-entity updates see a consistent view.
type Store struct {
	mu sync.Mutex

	users         map[uint]*models.User
	loans         map[uint]*models.Loan
	transactions  map[uint]*models.Transaction
	stats         map[uint]*models.Stats
	refreshTokens map[uint]*models.RefreshToken

	userSeq  uint
	loanSeq  uint
	txSeq    uint
	statsSeq uint
	tokenSeq uint
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		users:         make(map[uint]*models.User),
		loans:         make(map[uint]*models.Loan),
		transactions:  make(map[uint]*models.Transaction),
		stats:         make(map[uint]*models.Stats),
		refreshTokens: make(map[uint]*models.RefreshToken),
	}
}

// Users returns the user repository view of the store
func (s *Store) Users() repositories.UserRepository {
	return &userRepository{store: s}
}

// Loans returns the loan repository view of the store
func (s *Store) Loans() repositories.LoanRepository {
	return &loanRepository{store: s}
}

// Transactions returns the transaction repository view of the store
func (s *Store) Transactions() repositories.TransactionRepository {
	return &transactionRepository{store: s}
}

// Stats returns the stats repository view of the store
func (s *Store) Stats() repositories.StatsRepository {
	return &statsRepository{store: s}
}

// RefreshTokens returns the refresh token repository view of the store
func (s *Store) RefreshTokens() repositories.RefreshTokenRepository {
	return &refreshTokenRepository{store: s}
}

// TxManager returns a pass-through transaction boundary. Store writes
// are individually atomic under the shared mutex and cannot fail, so
// there is nothing to begin or roll back.
func (s *Store) TxManager() repositories.TxManager {
	return passThroughTxManager{}
}

type passThroughTxManager struct{}

func (passThroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.WalletAddress != nil {
		addr := *u.WalletAddress
		c.WalletAddress = &addr
	}
	return &c
}

func cloneLoan(l *models.Loan) *models.Loan {
	c := *l
	if l.LenderID != nil {
		id := *l.LenderID
		c.LenderID = &id
	}
	if l.BorrowerID != nil {
		id := *l.BorrowerID
		c.BorrowerID = &id
	}
	if l.ActivatedAt != nil {
		t := *l.ActivatedAt
		c.ActivatedAt = &t
	}
	return &c
}

func cloneTransaction(t *models.Transaction) *models.Transaction {
	c := *t
	if t.LoanID != nil {
		id := *t.LoanID
		c.LoanID = &id
	}
	return &c
}

func cloneStats(st *models.Stats) *models.Stats {
	c := *st
	return &c
}

func cloneToken(rt *models.RefreshToken) *models.RefreshToken {
	c := *rt
	if rt.RevokedAt != nil {
		t := *rt.RevokedAt
		c.RevokedAt = &t
	}
	return &c
}
