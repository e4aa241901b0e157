package repositories

import (
	"context"
	"time"

	"blocklend/internal/adapters/persistence/models"
	"blocklend/internal/core/domain"

	"gorm.io/gorm"
)

// loanRepository implements LoanRepository on GORM
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Create creates a new loan
func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return conn(ctx, r.db).Create(loan).Error
}

// GetByID gets a loan by ID
func (r *loanRepository) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := conn(ctx, r.db).Where("id = ?", id).First(&loan).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &loan, nil
}

// GetByUser gets loans where the user is lender or borrower
func (r *loanRepository) GetByUser(ctx context.Context, userID uint) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := conn(ctx, r.db).
		Where("lender_id = ? OR borrower_id = ?", userID, userID).
		Find(&loans).Error
	return loans, err
}

// GetActiveByUser gets the user's active loans
func (r *loanRepository) GetActiveByUser(ctx context.Context, userID uint) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := conn(ctx, r.db).
		Where("(lender_id = ? OR borrower_id = ?) AND status = ?", userID, userID, domain.LoanStatusActive).
		Find(&loans).Error
	return loans, err
}

// GetMarketplace gets all pending loans
func (r *loanRepository) GetMarketplace(ctx context.Context) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := conn(ctx, r.db).
		Where("status = ?", domain.LoanStatusPending).
		Find(&loans).Error
	return loans, err
}

// GetOverdueActive gets active loans whose due date has passed
func (r *loanRepository) GetOverdueActive(ctx context.Context, asOf time.Time) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := conn(ctx, r.db).
		Where("status = ? AND activated_at IS NOT NULL AND DATE_ADD(activated_at, INTERVAL duration_months MONTH) < ?",
			domain.LoanStatusActive, asOf).
		Find(&loans).Error
	return loans, err
}

// ClaimLender activates a pending request for the given lender.
// The WHERE clause is the compare-and-swap: status and the empty lender
// side are checked and written in one statement.
func (r *loanRepository) ClaimLender(ctx context.Context, id, lenderID uint, now time.Time) (bool, error) {
	res := conn(ctx, r.db).Model(&models.Loan{}).
		Where("id = ? AND status = ? AND lender_id IS NULL", id, domain.LoanStatusPending).
		Updates(map[string]interface{}{
			"lender_id":    lenderID,
			"status":       domain.LoanStatusActive,
			"activated_at": now,
			"updated_at":   now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ClaimBorrower activates a pending offer for the given borrower.
func (r *loanRepository) ClaimBorrower(ctx context.Context, id, borrowerID uint, now time.Time) (bool, error) {
	res := conn(ctx, r.db).Model(&models.Loan{}).
		Where("id = ? AND status = ? AND borrower_id IS NULL", id, domain.LoanStatusPending).
		Updates(map[string]interface{}{
			"borrower_id":  borrowerID,
			"status":       domain.LoanStatusActive,
			"activated_at": now,
			"updated_at":   now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AddRepayment accumulates a repayment while the loan is active. The
// overpayment guard lives in the WHERE clause, next to the status
// check, so the cap and the increment are one statement.
func (r *loanRepository) AddRepayment(ctx context.Context, id uint, amount, maxTotal float64) (bool, error) {
	res := conn(ctx, r.db).Model(&models.Loan{}).
		Where("id = ? AND status = ? AND repaid_amount + ? <= ?", id, domain.LoanStatusActive, amount, maxTotal).
		Update("repaid_amount", gorm.Expr("repaid_amount + ?", amount))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpdateStatusIf transitions from -> to as a compare-and-swap
func (r *loanRepository) UpdateStatusIf(ctx context.Context, id uint, from, to domain.LoanStatus) (bool, error) {
	res := conn(ctx, r.db).Model(&models.Loan{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
