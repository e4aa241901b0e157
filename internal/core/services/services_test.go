package services

import (
	"context"
	"testing"

	"blocklend/internal/adapters/persistence/models"
	"blocklend/internal/adapters/persistence/repositories"
	"blocklend/internal/adapters/persistence/repositories/memory"
	"blocklend/internal/config"

	"github.com/stretchr/testify/require"
)

// testEnv wires the services against the in-memory storage driver.
type testEnv struct {
	store  *memory.Store
	users  repositories.UserRepository
	loans  repositories.LoanRepository
	txs    repositories.TransactionRepository
	stats  repositories.StatsRepository
	tokens repositories.RefreshTokenRepository

	auth   *AuthService
	statsS *StatsService
	loanS  *LoanService
	wallet *WalletService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	env := &testEnv{
		store:  store,
		users:  store.Users(),
		loans:  store.Loans(),
		txs:    store.Transactions(),
		stats:  store.Stats(),
		tokens: store.RefreshTokens(),
	}

	cfg := &config.Config{
		AppMode:       "dev",
		StorageDriver: "memory",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}

	pricer := NewPricingService()
	env.statsS = NewStatsService(env.stats)
	env.auth = NewAuthService(env.users, env.tokens, env.stats, cfg)
	env.loanS = NewLoanService(env.loans, env.txs, env.statsS, pricer, store.TxManager())
	env.wallet = NewWalletService(env.users, env.txs, pricer)

	return env
}

// seedUser creates a funded user with a stats row, the way registration
// does.
func (env *testEnv) seedUser(t *testing.T, username string, btc float64) *models.User {
	t.Helper()

	user := &models.User{
		Username:   username,
		Email:      username + "@example.com",
		Password:   "hashed",
		BtcBalance: btc,
	}
	require.NoError(t, env.users.Create(context.Background(), user))
	require.NoError(t, env.stats.Create(context.Background(), &models.Stats{UserID: user.ID}))
	return user
}

func (env *testEnv) userStats(t *testing.T, userID uint) *models.Stats {
	t.Helper()

	stats, err := env.statsS.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	return stats
}
