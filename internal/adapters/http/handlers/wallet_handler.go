package handlers

import (
	"context"
	"errors"

	"blocklend/internal/adapters/http/middleware"
	"blocklend/internal/adapters/persistence/models"
	"blocklend/internal/core/domain"
	"blocklend/internal/core/services"
	"blocklend/internal/pkg/pagination"
	"blocklend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// WalletHandler handles custodial balance endpoints
type WalletHandler struct {
	walletService *services.WalletService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletService *services.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// MoveFundsRequest represents deposit/withdrawal request body
type MoveFundsRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	TxHash   string  `json:"tx_hash"`
}

// SetBalancesRequest represents absolute balance override request body
type SetBalancesRequest struct {
	BtcBalance *float64 `json:"btc_balance"`
	EthBalance *float64 `json:"eth_balance"`
	SolBalance *float64 `json:"sol_balance"`
}

// moveFundsFn is either WalletService.Deposit or WalletService.Withdraw.
type moveFundsFn func(ctx context.Context, userID uint, input *services.MoveFundsInput) (*models.Transaction, error)

// Deposit handles a deposit into the user's custodial balance
func (h *WalletHandler) Deposit(c *fiber.Ctx) error {
	return h.moveFunds(c, h.walletService.Deposit, "Deposit recorded successfully")
}

// Withdraw handles a withdrawal from the user's custodial balance
func (h *WalletHandler) Withdraw(c *fiber.Ctx) error {
	return h.moveFunds(c, h.walletService.Withdraw, "Withdrawal recorded successfully")
}

func (h *WalletHandler) moveFunds(c *fiber.Ctx, move moveFundsFn, message string) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req MoveFundsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	tx, err := move(c.Context(), userID, &services.MoveFundsInput{
		Amount:   req.Amount,
		Currency: domain.Currency(req.Currency),
		TxHash:   req.TxHash,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrInsufficientBalance):
			return response.BadRequest(c, "Insufficient balance")
		case errors.Is(err, domain.ErrValidation),
			errors.Is(err, domain.ErrUnsupportedCurrency):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to process request")
		}
	}

	return response.Success(c, message, tx)
}

// SetBalances overwrites the user's balances with absolute values
func (h *WalletHandler) SetBalances(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req SetBalancesRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.walletService.SetBalances(c.Context(), userID, &services.SetBalancesInput{
		BtcBalance: req.BtcBalance,
		EthBalance: req.EthBalance,
		SolBalance: req.SolBalance,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrValidation):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to update balances")
		}
	}

	return response.Success(c, "Balances updated successfully", user.ToResponse())
}

// Transactions lists the user's audit history, newest first
func (h *WalletHandler) Transactions(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	txs, err := h.walletService.GetTransactions(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load transactions")
	}

	params := pagination.GetParams(c)
	start, end := params.Bounds(len(txs))

	return response.Success(c, "Transactions retrieved successfully",
		pagination.NewResponse(txs[start:end], params, int64(len(txs))))
}
