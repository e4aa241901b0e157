package handlers

import (
	"errors"

	"blocklend/internal/adapters/http/middleware"
	"blocklend/internal/core/domain"
	"blocklend/internal/core/services"
	"blocklend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler aggregates the user's profile, stats, active loans and
// recent activity into a single payload for the dashboard screen.
type DashboardHandler struct {
	authService   *services.AuthService
	statsService  *services.StatsService
	loanService   *services.LoanService
	walletService *services.WalletService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	authService *services.AuthService,
	statsService *services.StatsService,
	loanService *services.LoanService,
	walletService *services.WalletService,
) *DashboardHandler {
	return &DashboardHandler{
		authService:   authService,
		statsService:  statsService,
		loanService:   loanService,
		walletService: walletService,
	}
}

// recentTransactionLimit caps the activity feed on the dashboard.
const recentTransactionLimit = 10

// GetDashboard returns the aggregated dashboard payload
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	user, err := h.authService.GetUserByID(c.Context(), userID)
	if err != nil {
		return response.NotFound(c, "User not found")
	}

	stats, err := h.statsService.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrStatsNotFound) {
			return response.InternalServerError(c, "Stats record missing")
		}
		return response.InternalServerError(c, "Failed to load stats")
	}

	activeLoans, err := h.loanService.GetActiveLoans(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load active loans")
	}

	txs, err := h.walletService.GetTransactions(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load transactions")
	}
	if len(txs) > recentTransactionLimit {
		txs = txs[:recentTransactionLimit]
	}

	return response.Success(c, "Dashboard retrieved successfully", fiber.Map{
		"user":                user.ToResponse(),
		"stats":               stats,
		"active_loans":        toLoanResponses(activeLoans),
		"recent_transactions": txs,
	})
}

// GetStats returns only the user's aggregate stats
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	stats, err := h.statsService.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrStatsNotFound) {
			return response.NotFound(c, "Stats not found")
		}
		return response.InternalServerError(c, "Failed to load stats")
	}

	return response.Success(c, "Stats retrieved successfully", stats)
}
