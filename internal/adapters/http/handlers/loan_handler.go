package handlers

import (
	"errors"
	"strconv"

	"blocklend/internal/adapters/http/middleware"
	"blocklend/internal/adapters/persistence/models"
	"blocklend/internal/core/domain"
	"blocklend/internal/core/services"
	"blocklend/internal/pkg/pagination"
	"blocklend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles loan lifecycle endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// CreateLoanRequest represents create loan request body
type CreateLoanRequest struct {
	Role           string  `json:"role"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	Interest       float64 `json:"interest"`
	DurationMonths int     `json:"duration_months"`
	HasCollateral  bool    `json:"has_collateral"`
}

// AcceptLoanRequest represents accept loan request body
type AcceptLoanRequest struct {
	TxHash string `json:"tx_hash"`
}

// RepayLoanRequest represents repayment request body
type RepayLoanRequest struct {
	Amount float64 `json:"amount"`
	TxHash string  `json:"tx_hash"`
}

// Create handles loan creation (request or offer)
func (h *LoanHandler) Create(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req CreateLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.CreateLoanInput{
		Role:           domain.LoanRole(req.Role),
		Amount:         req.Amount,
		Currency:       domain.Currency(req.Currency),
		Interest:       req.Interest,
		DurationMonths: req.DurationMonths,
		HasCollateral:  req.HasCollateral,
	}

	loan, err := h.loanService.Create(c.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation),
			errors.Is(err, domain.ErrUnsupportedCurrency):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to create loan")
		}
	}

	return response.Created(c, "Loan created successfully", loan.ToResponse())
}

// Marketplace lists pending loans open for matching
func (h *LoanHandler) Marketplace(c *fiber.Ctx) error {
	loans, err := h.loanService.GetMarketplace(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load marketplace")
	}

	params := pagination.GetParams(c)
	start, end := params.Bounds(len(loans))

	return response.Success(c, "Marketplace retrieved successfully",
		pagination.NewResponse(toLoanResponses(loans[start:end]), params, int64(len(loans))))
}

// MyLoans lists loans where the user is lender or borrower
func (h *LoanHandler) MyLoans(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	loans, err := h.loanService.GetUserLoans(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load loans")
	}

	return response.Success(c, "Loans retrieved successfully", toLoanResponses(loans))
}

// ActiveLoans lists the user's active loans
func (h *LoanHandler) ActiveLoans(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	loans, err := h.loanService.GetActiveLoans(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load active loans")
	}

	return response.Success(c, "Active loans retrieved successfully", toLoanResponses(loans))
}

// GetByID returns a single loan
func (h *LoanHandler) GetByID(c *fiber.Ctx) error {
	loanID, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.GetByID(c.Context(), loanID)
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return response.NotFound(c, "Loan not found")
		}
		return response.InternalServerError(c, "Failed to load loan")
	}

	return response.Success(c, "Loan retrieved successfully", loan.ToResponse())
}

// Accept handles accepting a pending loan from the marketplace
func (h *LoanHandler) Accept(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	loanID, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	var req AcceptLoanRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.loanService.Accept(c.Context(), loanID, userID, req.TxHash)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, domain.ErrLoanNotPending):
			return response.Conflict(c, "Loan is no longer available")
		case errors.Is(err, domain.ErrCannotAcceptLoan):
			return response.BadRequest(c, "Cannot accept this loan")
		default:
			return response.InternalServerError(c, "Failed to accept loan")
		}
	}

	return response.Success(c, "Loan accepted successfully", loan.ToResponse())
}

// Repay handles a repayment on an active loan
func (h *LoanHandler) Repay(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	loanID, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	var req RepayLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	tx, err := h.loanService.Repay(c.Context(), loanID, userID, req.Amount, req.TxHash)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, domain.ErrLoanNotActive):
			return response.Conflict(c, "Loan is not active")
		case errors.Is(err, domain.ErrNotBorrower):
			return response.Forbidden(c, "Only the borrower can repay this loan")
		case errors.Is(err, domain.ErrExceedsOutstanding):
			return response.BadRequest(c, "Repayment exceeds outstanding amount")
		case errors.Is(err, domain.ErrValidation):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to process repayment")
		}
	}

	return response.Success(c, "Repayment recorded successfully", tx)
}

// Preview returns the total repayment for prospective loan terms
func (h *LoanHandler) Preview(c *fiber.Ctx) error {
	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil || amount <= 0 {
		return response.BadRequest(c, "Invalid amount")
	}
	interest, err := strconv.ParseFloat(c.Query("interest"), 64)
	if err != nil || interest < 0 || interest > 100 {
		return response.BadRequest(c, "Invalid interest")
	}
	months, err := strconv.Atoi(c.Query("duration_months"))
	if err != nil || months < 1 {
		return response.BadRequest(c, "Invalid duration")
	}

	total := domain.RepaymentTotal(amount, interest, months)
	return response.Success(c, "Repayment preview", fiber.Map{
		"amount":          amount,
		"interest":        interest,
		"duration_months": months,
		"total_repayment": total,
	})
}

// parseIDParam parses the :id path parameter
func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

func toLoanResponses(loans []*models.Loan) []*models.LoanResponse {
	out := make([]*models.LoanResponse, 0, len(loans))
	for _, loan := range loans {
		out = append(out, loan.ToResponse())
	}
	return out
}
