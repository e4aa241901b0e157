package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"blocklend/internal/adapters/persistence/models"
	"blocklend/internal/adapters/persistence/repositories"
	"blocklend/internal/core/domain"

	"github.com/google/uuid"
)

// LoanService drives the loan lifecycle: create -> match -> active ->
// completed/defaulted. Every balance-affecting transition appends a
// Transaction and adjusts both parties' Stats through StatsService.
type LoanService struct {
	loanRepo     repositories.LoanRepository
	txRepo       repositories.TransactionRepository
	statsService *StatsService
	pricer       Pricer
	txm          repositories.TxManager
}

// NewLoanService creates a new loan service
func NewLoanService(
	loanRepo repositories.LoanRepository,
	txRepo repositories.TransactionRepository,
	statsService *StatsService,
	pricer Pricer,
	txm repositories.TxManager,
) *LoanService {
	return &LoanService{
		loanRepo:     loanRepo,
		txRepo:       txRepo,
		statsService: statsService,
		pricer:       pricer,
		txm:          txm,
	}
}

// CreateLoanInput represents create loan input
type CreateLoanInput struct {
	Role           domain.LoanRole `json:"role"`
	Amount         float64         `json:"amount"`
	Currency       domain.Currency `json:"currency"`
	Interest       float64         `json:"interest"`
	DurationMonths int             `json:"duration_months"`
	HasCollateral  bool            `json:"has_collateral"`
}

func (in *CreateLoanInput) validate() error {
	if in.Amount <= 0 {
		return fmt.Errorf("%w: amount must be greater than 0", domain.ErrValidation)
	}
	if in.Interest < 0 || in.Interest > 100 {
		return fmt.Errorf("%w: interest must be between 0 and 100", domain.ErrValidation)
	}
	if in.DurationMonths < 1 {
		return fmt.Errorf("%w: duration must be at least 1 month", domain.ErrValidation)
	}
	if !in.Currency.IsSupported() {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedCurrency, in.Currency)
	}
	return nil
}

// Create creates a pending loan. A borrower creates a request awaiting a
// lender; a lender creates an offer awaiting a borrower. Stats are not
// touched until the loan is matched.
func (s *LoanService) Create(ctx context.Context, initiatorID uint, input *CreateLoanInput) (*models.Loan, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var loan *models.Loan
	switch input.Role {
	case domain.RoleBorrower:
		loan = models.NewLoanRequest(initiatorID, input.Amount, input.Currency, input.Interest, input.DurationMonths, input.HasCollateral)
	case domain.RoleLender:
		loan = models.NewLoanOffer(initiatorID, input.Amount, input.Currency, input.Interest, input.DurationMonths, input.HasCollateral)
	default:
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, input.Role)
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}
	return loan, nil
}

// GetByID gets a loan by ID
func (s *LoanService) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	return loan, nil
}

// GetUserLoans gets loans where the user is lender or borrower
func (s *LoanService) GetUserLoans(ctx context.Context, userID uint) ([]*models.Loan, error) {
	return s.loanRepo.GetByUser(ctx, userID)
}

// GetActiveLoans gets the user's active loans
func (s *LoanService) GetActiveLoans(ctx context.Context, userID uint) ([]*models.Loan, error) {
	return s.loanRepo.GetActiveByUser(ctx, userID)
}

// GetMarketplace gets all pending loans open for matching
func (s *LoanService) GetMarketplace(ctx context.Context) ([]*models.Loan, error) {
	return s.loanRepo.GetMarketplace(ctx)
}

// Accept matches a pending loan with its counterparty and activates it.
// The claim on the loan row is a compare-and-swap, so when two users race
// to accept the same loan only one wins; the loser sees a state error and
// no stats are double-counted. Claim and settlement run inside one
// storage transaction, so a failed settlement rolls the claim back and
// the loan stays pending.
//
// The disbursement transaction is always attributed to the lender: for a
// request the accepter is the lender, for an offer it is the original
// creator, since the lender is the party whose funds move.
func (s *LoanService) Accept(ctx context.Context, loanID, accepterID uint, txHash string) (*models.Loan, error) {
	loan, err := s.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanStatusPending {
		return nil, domain.ErrLoanNotPending
	}

	now := time.Now()

	switch {
	case loan.Type == domain.LoanTypeRequest && loan.LenderID == nil:
		if loan.BorrowerID != nil && *loan.BorrowerID == accepterID {
			return nil, domain.ErrCannotAcceptLoan
		}
		err = s.txm.Do(ctx, func(ctx context.Context) error {
			claimed, err := s.loanRepo.ClaimLender(ctx, loanID, accepterID, now)
			if err != nil {
				return err
			}
			if !claimed {
				return domain.ErrLoanNotPending
			}
			return s.settleMatch(ctx, loan, accepterID, *loan.BorrowerID, accepterID, txHash)
		})
		if err != nil {
			return nil, err
		}

	case loan.Type == domain.LoanTypeOffer && loan.BorrowerID == nil:
		if loan.LenderID != nil && *loan.LenderID == accepterID {
			return nil, domain.ErrCannotAcceptLoan
		}
		err = s.txm.Do(ctx, func(ctx context.Context) error {
			claimed, err := s.loanRepo.ClaimBorrower(ctx, loanID, accepterID, now)
			if err != nil {
				return err
			}
			if !claimed {
				return domain.ErrLoanNotPending
			}
			return s.settleMatch(ctx, loan, *loan.LenderID, accepterID, *loan.LenderID, txHash)
		})
		if err != nil {
			return nil, err
		}

	default:
		return nil, domain.ErrCannotAcceptLoan
	}

	return s.GetByID(ctx, loanID)
}

// settleMatch applies the stats deltas and appends the disbursement
// record after a successful claim. disburserID is the lender.
func (s *LoanService) settleMatch(ctx context.Context, loan *models.Loan, lenderID, borrowerID, disburserID uint, txHash string) error {
	if err := s.statsService.ApplyDelta(ctx, lenderID, repositories.StatsDelta{
		TotalLent:   loan.Amount,
		ActiveLoans: 1,
	}); err != nil {
		return err
	}
	if err := s.statsService.ApplyDelta(ctx, borrowerID, repositories.StatsDelta{
		TotalBorrowed: loan.Amount,
		ActiveLoans:   1,
	}); err != nil {
		return err
	}

	loanID := loan.ID
	tx := &models.Transaction{
		UserID:      disburserID,
		LoanID:      &loanID,
		Amount:      loan.Amount,
		Currency:    loan.Currency,
		Type:        domain.TxTypeDisbursement,
		Description: fmt.Sprintf("%s Loan Disbursed", loan.Currency),
		TxHash:      s.resolveTxHash(txHash, "disburse", loanID),
		UsdValue:    s.pricer.UsdValue(loan.Amount, loan.Currency),
	}
	return s.txRepo.Create(ctx, tx)
}

// Repay records a repayment by the borrower of an active loan, credits
// the lender's interest, and completes the loan once the cumulative
// repayments reach the total owed.
func (s *LoanService) Repay(ctx context.Context, loanID, payerID uint, amount float64, txHash string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than 0", domain.ErrValidation)
	}

	loan, err := s.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanStatusActive {
		return nil, domain.ErrLoanNotActive
	}
	if loan.BorrowerID == nil || *loan.BorrowerID != payerID {
		return nil, domain.ErrNotBorrower
	}
	// Fast path on the read; the cap inside AddRepayment is the
	// authoritative check.
	if amount > loan.Outstanding()+domain.RepaymentEpsilon {
		return nil, domain.ErrExceedsOutstanding
	}

	maxTotal := loan.TotalRepayment() + domain.RepaymentEpsilon
	tx := &models.Transaction{
		UserID:      payerID,
		LoanID:      &loanID,
		Amount:      amount,
		Currency:    loan.Currency,
		Type:        domain.TxTypeRepayment,
		Description: fmt.Sprintf("%s Loan Repayment", loan.Currency),
		TxHash:      s.resolveTxHash(txHash, "repay", loanID),
		UsdValue:    s.pricer.UsdValue(amount, loan.Currency),
	}

	err = s.txm.Do(ctx, func(ctx context.Context) error {
		added, err := s.loanRepo.AddRepayment(ctx, loanID, amount, maxTotal)
		if err != nil {
			return err
		}
		if !added {
			return s.classifyRejectedRepayment(ctx, loanID)
		}

		if err := s.txRepo.Create(ctx, tx); err != nil {
			return err
		}

		// Interest is attributed per repayment in simple proportion to
		// the loan's rate, not amortized against a schedule.
		if loan.LenderID != nil {
			if err := s.statsService.ApplyDelta(ctx, *loan.LenderID, repositories.StatsDelta{
				InterestEarned: domain.InterestPortion(amount, loan.Interest),
			}); err != nil {
				return err
			}
		}

		return s.completeIfRepaid(ctx, loanID)
	})
	if err != nil {
		return nil, err
	}

	return tx, nil
}

// classifyRejectedRepayment distinguishes why AddRepayment refused: the
// loan left the active state, or a concurrent repayment consumed the
// remainder first.
func (s *LoanService) classifyRejectedRepayment(ctx context.Context, loanID uint) error {
	loan, err := s.GetByID(ctx, loanID)
	if err != nil {
		return err
	}
	if loan.Status != domain.LoanStatusActive {
		return domain.ErrLoanNotActive
	}
	return domain.ErrExceedsOutstanding
}

// completeIfRepaid transitions the loan to completed once cumulative
// repayments cover the total owed. The status CAS ensures the closing
// bookkeeping runs exactly once even under concurrent repayments.
func (s *LoanService) completeIfRepaid(ctx context.Context, loanID uint) error {
	loan, err := s.GetByID(ctx, loanID)
	if err != nil {
		return err
	}
	if loan.RepaidAmount+domain.RepaymentEpsilon < loan.TotalRepayment() {
		return nil
	}

	closed, err := s.loanRepo.UpdateStatusIf(ctx, loanID, domain.LoanStatusActive, domain.LoanStatusCompleted)
	if err != nil {
		return err
	}
	if !closed {
		return nil
	}
	return s.releaseParties(ctx, loan)
}

// DefaultOverdue marks active loans past their due date as defaulted and
// releases both parties' active-loan counts. It returns the number of
// loans defaulted and is invoked by the scheduled job.
func (s *LoanService) DefaultOverdue(ctx context.Context, asOf time.Time) (int, error) {
	overdue, err := s.loanRepo.GetOverdueActive(ctx, asOf)
	if err != nil {
		return 0, err
	}

	defaulted := 0
	for _, loan := range overdue {
		loan := loan
		changed := false
		err := s.txm.Do(ctx, func(ctx context.Context) error {
			ok, err := s.loanRepo.UpdateStatusIf(ctx, loan.ID, domain.LoanStatusActive, domain.LoanStatusDefaulted)
			if err != nil || !ok {
				return err
			}
			changed = true
			return s.releaseParties(ctx, loan)
		})
		if err != nil {
			return defaulted, err
		}
		if !changed {
			continue
		}
		log.Printf("⚠️ Loan %d defaulted: due %s, repaid %.8f of %.8f",
			loan.ID, loan.DueAt().Format(time.RFC3339), loan.RepaidAmount, loan.TotalRepayment())
		defaulted++
	}
	return defaulted, nil
}

// releaseParties decrements both parties' active loan counts when a loan
// leaves the active state.
func (s *LoanService) releaseParties(ctx context.Context, loan *models.Loan) error {
	if loan.LenderID != nil {
		if err := s.statsService.ApplyDelta(ctx, *loan.LenderID, repositories.StatsDelta{ActiveLoans: -1}); err != nil {
			return err
		}
	}
	if loan.BorrowerID != nil {
		if err := s.statsService.ApplyDelta(ctx, *loan.BorrowerID, repositories.StatsDelta{ActiveLoans: -1}); err != nil {
			return err
		}
	}
	return nil
}

// resolveTxHash returns the client-supplied on-chain hash, or generates a
// placeholder when none was provided. Clients observing the chain should
// always pass the real hash; the placeholder keeps the audit trail whole.
func (s *LoanService) resolveTxHash(txHash, kind string, loanID uint) string {
	if txHash != "" {
		return txHash
	}
	generated := fmt.Sprintf("mock_%s_%s", kind, uuid.NewString())
	log.Printf("⚠️ No txHash provided for loan %d %s, using placeholder %s", loanID, kind, generated)
	return generated
}
