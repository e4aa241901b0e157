package routes

import (
	"blocklend/internal/adapters/http/handlers"
	"blocklend/internal/adapters/http/middleware"
	"blocklend/internal/adapters/persistence/repositories"
	"blocklend/internal/adapters/persistence/repositories/memory"
	"blocklend/internal/config"
	"blocklend/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Repos bundles the storage layer behind one injection point so the
// MySQL and in-memory drivers wire identically.
type Repos struct {
	Users         repositories.UserRepository
	Loans         repositories.LoanRepository
	Transactions  repositories.TransactionRepository
	Stats         repositories.StatsRepository
	RefreshTokens repositories.RefreshTokenRepository
	Tx            repositories.TxManager
}

// NewRepos builds the repository set for the configured storage driver.
// db may be nil when the memory driver is selected.
func NewRepos(db *gorm.DB, cfg *config.Config) *Repos {
	if cfg.UseMemoryStorage() {
		store := memory.NewStore()
		return &Repos{
			Users:         store.Users(),
			Loans:         store.Loans(),
			Transactions:  store.Transactions(),
			Stats:         store.Stats(),
			RefreshTokens: store.RefreshTokens(),
			Tx:            store.TxManager(),
		}
	}

	return &Repos{
		Users:         repositories.NewUserRepository(db),
		Loans:         repositories.NewLoanRepository(db),
		Transactions:  repositories.NewTransactionRepository(db),
		Stats:         repositories.NewStatsRepository(db),
		RefreshTokens: repositories.NewRefreshTokenRepository(db),
		Tx:            repositories.NewTxManager(db),
	}
}

// Services bundles the core services built from a repository set.
type Services struct {
	Auth   *services.AuthService
	Stats  *services.StatsService
	Loans  *services.LoanService
	Wallet *services.WalletService
}

// NewServices wires the core services
func NewServices(repos *Repos, cfg *config.Config) *Services {
	pricer := services.NewPricingService()
	statsService := services.NewStatsService(repos.Stats)

	return &Services{
		Auth:   services.NewAuthService(repos.Users, repos.RefreshTokens, repos.Stats, cfg),
		Stats:  statsService,
		Loans:  services.NewLoanService(repos.Loans, repos.Transactions, statsService, pricer, repos.Tx),
		Wallet: services.NewWalletService(repos.Users, repos.Transactions, pricer),
	}
}

// Setup configures all routes for the application
func Setup(app *fiber.App, svcs *Services, cfg *config.Config) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg)
	authHandler := handlers.NewAuthHandler(svcs.Auth, cfg)
	loanHandler := handlers.NewLoanHandler(svcs.Loans)
	walletHandler := handlers.NewWalletHandler(svcs.Wallet)
	dashboardHandler := handlers.NewDashboardHandler(svcs.Auth, svcs.Stats, svcs.Loans, svcs.Wallet)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public, rate limited)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Loan routes (authenticated)
	loanRoutes := apiV1.Group("/loans")
	loanRoutes.Use(middleware.AuthMiddleware(cfg))
	setupLoanRoutes(loanRoutes, loanHandler)

	// Wallet routes (authenticated)
	walletRoutes := apiV1.Group("/wallet")
	walletRoutes.Use(middleware.AuthMiddleware(cfg))
	setupWalletRoutes(walletRoutes, walletHandler)

	// Transaction routes (authenticated)
	txRoutes := apiV1.Group("/transactions")
	txRoutes.Use(middleware.AuthMiddleware(cfg))
	txRoutes.Get("/", walletHandler.Transactions)

	// Dashboard routes (authenticated)
	dashboardRoutes := apiV1.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	dashboardRoutes.Get("/", dashboardHandler.GetDashboard)

	// Stats routes (authenticated)
	statsRoutes := apiV1.Group("/stats")
	statsRoutes.Use(middleware.AuthMiddleware(cfg))
	statsRoutes.Get("/me", dashboardHandler.GetStats)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (5 req/min/IP against credential stuffing)
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/wallet", middleware.AuthRateLimiter(), handler.ConnectWallet)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupLoanRoutes configures loan lifecycle routes
func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler) {
	router.Post("/", handler.Create)
	router.Get("/marketplace", handler.Marketplace)
	router.Get("/preview", handler.Preview)
	router.Get("/my", handler.MyLoans)
	router.Get("/active", handler.ActiveLoans)
	router.Get("/:id", handler.GetByID)
	router.Post("/:id/accept", handler.Accept)
	router.Post("/:id/repay", handler.Repay)
}

// setupWalletRoutes configures custodial balance routes
func setupWalletRoutes(router fiber.Router, handler *handlers.WalletHandler) {
	router.Post("/deposit", handler.Deposit)
	router.Post("/withdraw", handler.Withdraw)
	router.Put("/balances", handler.SetBalances)
}
