package repositories

import (
	"context"
	"time"

	"blocklend/internal/adapters/persistence/models"
	"blocklend/internal/core/domain"
)

// Implementations translate their backend's missing-row error into
// domain.ErrNotFound so services stay backend-agnostic.

// UserRepository defines user storage
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByWalletAddress(ctx context.Context, walletAddress string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	// AdjustBalance atomically adds delta to the user's balance in the
	// given currency. Returns false when the user is missing or the
	// adjustment would drive the balance negative.
	AdjustBalance(ctx context.Context, id uint, currency domain.Currency, delta float64) (bool, error)
	// SetBalances replaces the given balances with absolute values.
	SetBalances(ctx context.Context, id uint, balances map[domain.Currency]float64) error
}

// LoanRepository defines loan storage
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id uint) (*models.Loan, error)
	GetByUser(ctx context.Context, userID uint) ([]*models.Loan, error)
	GetActiveByUser(ctx context.Context, userID uint) ([]*models.Loan, error)
	GetMarketplace(ctx context.Context) ([]*models.Loan, error)
	GetOverdueActive(ctx context.Context, asOf time.Time) ([]*models.Loan, error)
	// ClaimLender fills the lender side of a pending request and
	// activates the loan in one compare-and-swap. Returns false when the
	// loan is not pending or the lender side is already filled, so two
	// concurrent accepts cannot both win.
	ClaimLender(ctx context.Context, id, lenderID uint, now time.Time) (bool, error)
	// ClaimBorrower is the symmetric claim on a pending offer.
	ClaimBorrower(ctx context.Context, id, borrowerID uint, now time.Time) (bool, error)
	// AddRepayment atomically accumulates a repayment on an active loan.
	// The cumulative repaid amount may not exceed maxTotal, so concurrent
	// repayments cannot jointly overshoot the total owed. Returns false
	// when the loan is not active or the amount does not fit.
	AddRepayment(ctx context.Context, id uint, amount, maxTotal float64) (bool, error)
	// UpdateStatusIf transitions status from -> to as a compare-and-swap.
	UpdateStatusIf(ctx context.Context, id uint, from, to domain.LoanStatus) (bool, error)
}

// TransactionRepository defines the append-only audit log
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id uint) (*models.Transaction, error)
	GetByUser(ctx context.Context, userID uint) ([]*models.Transaction, error)
}

// StatsDelta carries signed adjustments for a user's aggregate stats.
// Zero fields leave the corresponding column untouched.
type StatsDelta struct {
	TotalBorrowed  float64
	TotalLent      float64
	ActiveLoans    int
	InterestEarned float64
}

// StatsRepository defines per-user aggregate storage
type StatsRepository interface {
	Create(ctx context.Context, stats *models.Stats) error
	GetByUserID(ctx context.Context, userID uint) (*models.Stats, error)
	// ApplyDelta atomically adds the delta to the user's stats row.
	// Returns false when no row exists for the user.
	ApplyDelta(ctx context.Context, userID uint, delta StatsDelta) (bool, error)
}

// RefreshTokenRepository defines refresh token storage
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}
