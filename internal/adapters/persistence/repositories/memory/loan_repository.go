package memory

import (
	"context"
	"sort"
	"time"

	"blocklend/internal/adapters/persistence/models"
	"blocklend/internal/core/domain"
)

type loanRepository struct {
	store *Store
}

func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.loanSeq++
	loan.ID = r.store.loanSeq
	now := time.Now()
	loan.CreatedAt = now
	loan.UpdatedAt = now
	r.store.loans[loan.ID] = cloneLoan(loan)
	return nil
}

func (r *loanRepository) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	loan, ok := r.store.loans[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneLoan(loan), nil
}

func (r *loanRepository) GetByUser(ctx context.Context, userID uint) ([]*models.Loan, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.collect(func(l *models.Loan) bool {
		return involves(l, userID)
	}), nil
}

func (r *loanRepository) GetActiveByUser(ctx context.Context, userID uint) ([]*models.Loan, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.collect(func(l *models.Loan) bool {
		return involves(l, userID) && l.Status == domain.LoanStatusActive
	}), nil
}

func (r *loanRepository) GetMarketplace(ctx context.Context) ([]*models.Loan, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.collect(func(l *models.Loan) bool {
		return l.Status == domain.LoanStatusPending
	}), nil
}

func (r *loanRepository) GetOverdueActive(ctx context.Context, asOf time.Time) ([]*models.Loan, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.collect(func(l *models.Loan) bool {
		due := l.DueAt()
		return l.Status == domain.LoanStatusActive && due != nil && due.Before(asOf)
	}), nil
}

func (r *loanRepository) ClaimLender(ctx context.Context, id, lenderID uint, now time.Time) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	loan, ok := r.store.loans[id]
	if !ok || loan.Status != domain.LoanStatusPending || loan.LenderID != nil {
		return false, nil
	}
	loan.LenderID = &lenderID
	loan.Status = domain.LoanStatusActive
	activated := now
	loan.ActivatedAt = &activated
	loan.UpdatedAt = now
	return true, nil
}

func (r *loanRepository) ClaimBorrower(ctx context.Context, id, borrowerID uint, now time.Time) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	loan, ok := r.store.loans[id]
	if !ok || loan.Status != domain.LoanStatusPending || loan.BorrowerID != nil {
		return false, nil
	}
	loan.BorrowerID = &borrowerID
	loan.Status = domain.LoanStatusActive
	activated := now
	loan.ActivatedAt = &activated
	loan.UpdatedAt = now
	return true, nil
}

func (r *loanRepository) AddRepayment(ctx context.Context, id uint, amount, maxTotal float64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	loan, ok := r.store.loans[id]
	if !ok || loan.Status != domain.LoanStatusActive {
		return false, nil
	}
	// The cap is re-checked under the lock; callers read the loan
	// before calling and their view may be stale by now.
	if loan.RepaidAmount+amount > maxTotal {
		return false, nil
	}
	loan.RepaidAmount += amount
	loan.UpdatedAt = time.Now()
	return true, nil
}

func (r *loanRepository) UpdateStatusIf(ctx context.Context, id uint, from, to domain.LoanStatus) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	loan, ok := r.store.loans[id]
	if !ok || loan.Status != from {
		return false, nil
	}
	loan.Status = to
	loan.UpdatedAt = time.Now()
	return true, nil
}

// collect filters loans in insertion order. Caller holds the lock.
func (r *loanRepository) collect(match func(*models.Loan) bool) []*models.Loan {
	loans := make([]*models.Loan, 0)
	for _, loan := range r.store.loans {
		if match(loan) {
			loans = append(loans, cloneLoan(loan))
		}
	}
	sort.Slice(loans, func(i, j int) bool { return loans[i].ID < loans[j].ID })
	return loans
}

func involves(l *models.Loan, userID uint) bool {
	if l.LenderID != nil && *l.LenderID == userID {
		return true
	}
	if l.BorrowerID != nil && *l.BorrowerID == userID {
		return true
	}
	return false
}
