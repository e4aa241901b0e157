package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"blocklend/internal/adapters/persistence/models"
	"blocklend/internal/adapters/persistence/repositories"
	"blocklend/internal/core/domain"

	"github.com/google/uuid"
)

// WalletService handles custodial balance movements. Every deposit and
// withdrawal adjusts the balance atomically and appends a Transaction.
type WalletService struct {
	userRepo repositories.UserRepository
	txRepo   repositories.TransactionRepository
	pricer   Pricer
}

// NewWalletService creates a new wallet service
func NewWalletService(
	userRepo repositories.UserRepository,
	txRepo repositories.TransactionRepository,
	pricer Pricer,
) *WalletService {
	return &WalletService{
		userRepo: userRepo,
		txRepo:   txRepo,
		pricer:   pricer,
	}
}

// MoveFundsInput represents deposit/withdrawal input
type MoveFundsInput struct {
	Amount   float64         `json:"amount"`
	Currency domain.Currency `json:"currency"`
	TxHash   string          `json:"tx_hash"`
}

func (in *MoveFundsInput) validate() error {
	if in.Amount <= 0 {
		return fmt.Errorf("%w: amount must be greater than 0", domain.ErrValidation)
	}
	if !in.Currency.IsSupported() {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedCurrency, in.Currency)
	}
	return nil
}

// Deposit credits the user's balance and records the deposit
func (s *WalletService) Deposit(ctx context.Context, userID uint, input *MoveFundsInput) (*models.Transaction, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	ok, err := s.userRepo.AdjustBalance(ctx, userID, input.Currency, input.Amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	tx := &models.Transaction{
		UserID:      userID,
		Amount:      input.Amount,
		Currency:    input.Currency,
		Type:        domain.TxTypeDeposit,
		Description: fmt.Sprintf("%s Deposit", input.Currency),
		TxHash:      resolveWalletTxHash(input.TxHash),
		UsdValue:    s.pricer.UsdValue(input.Amount, input.Currency),
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	log.Printf("✅ Deposit: user %d +%.8f %s", userID, input.Amount, input.Currency)
	return tx, nil
}

// Withdraw debits the user's balance and records the withdrawal. The
// debit is guarded against overdraft in the same atomic update.
func (s *WalletService) Withdraw(ctx context.Context, userID uint, input *MoveFundsInput) (*models.Transaction, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	ok, err := s.userRepo.AdjustBalance(ctx, userID, input.Currency, -input.Amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Distinguish a missing user from an overdraft.
		if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrUserNotFound
			}
			return nil, err
		}
		return nil, domain.ErrInsufficientBalance
	}

	tx := &models.Transaction{
		UserID:      userID,
		Amount:      input.Amount,
		Currency:    input.Currency,
		Type:        domain.TxTypeWithdrawal,
		Description: fmt.Sprintf("%s Withdrawal", input.Currency),
		TxHash:      resolveWalletTxHash(input.TxHash),
		UsdValue:    s.pricer.UsdValue(input.Amount, input.Currency),
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	log.Printf("✅ Withdrawal: user %d -%.8f %s", userID, input.Amount, input.Currency)
	return tx, nil
}

// SetBalancesInput represents absolute balance overrides. Omitted
// currencies are left untouched.
type SetBalancesInput struct {
	BtcBalance *float64 `json:"btc_balance"`
	EthBalance *float64 `json:"eth_balance"`
	SolBalance *float64 `json:"sol_balance"`
}

// SetBalances overwrites the user's balances with absolute values,
// bypassing the audit trail. Used by administrative tooling and seeding.
func (s *WalletService) SetBalances(ctx context.Context, userID uint, input *SetBalancesInput) (*models.User, error) {
	balances := map[domain.Currency]float64{}
	for currency, value := range map[domain.Currency]*float64{
		domain.CurrencyBTC: input.BtcBalance,
		domain.CurrencyETH: input.EthBalance,
		domain.CurrencySOL: input.SolBalance,
	} {
		if value == nil {
			continue
		}
		if *value < 0 {
			return nil, fmt.Errorf("%w: balance cannot be negative", domain.ErrValidation)
		}
		balances[currency] = *value
	}
	if len(balances) == 0 {
		return nil, fmt.Errorf("%w: no balances provided", domain.ErrValidation)
	}

	if err := s.userRepo.SetBalances(ctx, userID, balances); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Balances updated for user %d", userID)
	return user, nil
}

// GetTransactions returns the user's full audit history, newest first
func (s *WalletService) GetTransactions(ctx context.Context, userID uint) ([]*models.Transaction, error) {
	return s.txRepo.GetByUser(ctx, userID)
}

func resolveWalletTxHash(txHash string) string {
	if txHash != "" {
		return txHash
	}
	return "tx_" + uuid.NewString()
}
