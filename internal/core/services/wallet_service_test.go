package services

import (
	"context"
	"testing"

	"blocklend/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepositAndWithdraw(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "holder", 1)
	ctx := context.Background()

	tx, err := env.wallet.Deposit(ctx, user.ID, &MoveFundsInput{
		Amount: 0.5, Currency: domain.CurrencyBTC, TxHash: "0xdep",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TxTypeDeposit, tx.Type)
	assert.Equal(t, "0xdep", tx.TxHash)
	assert.Equal(t, 0.5*35000, tx.UsdValue)

	got, err := env.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.5, got.BtcBalance)

	_, err = env.wallet.Withdraw(ctx, user.ID, &MoveFundsInput{
		Amount: 1.2, Currency: domain.CurrencyBTC,
	})
	require.NoError(t, err)

	got, err = env.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, got.BtcBalance, 1e-9)

	// Each currency has its own balance.
	_, err = env.wallet.Deposit(ctx, user.ID, &MoveFundsInput{
		Amount: 3, Currency: domain.CurrencyETH,
	})
	require.NoError(t, err)
	got, err = env.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(3), got.EthBalance)
	assert.Zero(t, got.SolBalance)
}

func TestWithdrawOverdraft(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "holder", 1)
	ctx := context.Background()

	_, err := env.wallet.Withdraw(ctx, user.ID, &MoveFundsInput{
		Amount: 2, Currency: domain.CurrencyBTC,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	// The failed withdrawal leaves no audit record and no balance change.
	got, err := env.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(1), got.BtcBalance)

	txs, err := env.wallet.GetTransactions(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestMoveFundsValidation(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "holder", 1)
	ctx := context.Background()

	_, err := env.wallet.Deposit(ctx, user.ID, &MoveFundsInput{Amount: 0, Currency: domain.CurrencyBTC})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.wallet.Deposit(ctx, user.ID, &MoveFundsInput{Amount: 1, Currency: "DOGE"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedCurrency)

	_, err = env.wallet.Deposit(ctx, 9999, &MoveFundsInput{Amount: 1, Currency: domain.CurrencyBTC})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = env.wallet.Withdraw(ctx, 9999, &MoveFundsInput{Amount: 1, Currency: domain.CurrencyBTC})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDepositGeneratesTxHash(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "holder", 0)

	tx, err := env.wallet.Deposit(context.Background(), user.ID, &MoveFundsInput{
		Amount: 1, Currency: domain.CurrencySOL,
	})
	require.NoError(t, err)
	assert.Contains(t, tx.TxHash, "tx_")
	assert.Equal(t, float64(100), tx.UsdValue)
}

func TestSetBalances(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "holder", 1)
	ctx := context.Background()

	eth := 5.0
	got, err := env.wallet.SetBalances(ctx, user.ID, &SetBalancesInput{EthBalance: &eth})
	require.NoError(t, err)

	// Only the provided balance changes.
	assert.Equal(t, float64(1), got.BtcBalance)
	assert.Equal(t, float64(5), got.EthBalance)

	negative := -1.0
	_, err = env.wallet.SetBalances(ctx, user.ID, &SetBalancesInput{BtcBalance: &negative})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.wallet.SetBalances(ctx, user.ID, &SetBalancesInput{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.wallet.SetBalances(ctx, 9999, &SetBalancesInput{EthBalance: &eth})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestTransactionsNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "holder", 10)
	ctx := context.Background()

	for _, amount := range []float64{1, 2, 3} {
		_, err := env.wallet.Deposit(ctx, user.ID, &MoveFundsInput{
			Amount: amount, Currency: domain.CurrencyBTC,
		})
		require.NoError(t, err)
	}

	txs, err := env.wallet.GetTransactions(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, float64(3), txs[0].Amount)
	assert.Equal(t, float64(2), txs[1].Amount)
	assert.Equal(t, float64(1), txs[2].Amount)
}
