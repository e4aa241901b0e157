package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"blocklend/internal/adapters/persistence/models"
	"blocklend/internal/adapters/persistence/repositories"
	"blocklend/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustBalanceGuardsOverdraft(t *testing.T) {
	store := NewStore()
	users := store.Users()
	ctx := context.Background()

	user := &models.User{Username: "holder", Email: "h@example.com", Password: "x", BtcBalance: 1}
	require.NoError(t, users.Create(ctx, user))

	ok, err := users.AdjustBalance(ctx, user.ID, domain.CurrencyBTC, -0.4)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = users.AdjustBalance(ctx, user.ID, domain.CurrencyBTC, -0.7)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, got.BtcBalance, 1e-9)

	ok, err = users.AdjustBalance(ctx, 9999, domain.CurrencyBTC, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	store := NewStore()
	users := store.Users()
	ctx := context.Background()

	user := &models.User{Username: "holder", Email: "h@example.com", Password: "x", BtcBalance: 5}
	require.NoError(t, users.Create(ctx, user))

	const attempts = 20
	var wg sync.WaitGroup
	results := make([]bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := users.AdjustBalance(ctx, user.ID, domain.CurrencyBTC, -1)
			require.NoError(t, err)
			results[i] = ok
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, ok := range results {
		if ok {
			succeeded++
		}
	}
	assert.Equal(t, 5, succeeded)

	got, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, got.BtcBalance)
}

func TestClaimLenderIsExclusive(t *testing.T) {
	store := NewStore()
	loans := store.Loans()
	ctx := context.Background()

	loan := models.NewLoanRequest(1, 1, domain.CurrencyBTC, 5, 6, false)
	require.NoError(t, loans.Create(ctx, loan))

	const contenders = 10
	var wg sync.WaitGroup
	wins := make([]bool, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := loans.ClaimLender(ctx, loan.ID, uint(100+i), time.Now())
			require.NoError(t, err)
			wins[i] = ok
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, ok := range wins {
		if ok {
			winners++
		}
	}
	assert.Equal(t, 1, winners)

	got, err := loans.GetByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusActive, got.Status)
	require.NotNil(t, got.LenderID)
	require.NotNil(t, got.ActivatedAt)
}

func TestAddRepaymentHonorsCap(t *testing.T) {
	store := NewStore()
	loans := store.Loans()
	ctx := context.Background()

	loan := models.NewLoanRequest(1, 1, domain.CurrencyBTC, 12, 12, false)
	require.NoError(t, loans.Create(ctx, loan))
	ok, err := loans.ClaimLender(ctx, loan.ID, 2, time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	// 0.9 fits under the 1.12 cap, a second 0.9 does not.
	ok, err = loans.AddRepayment(ctx, loan.ID, 0.9, 1.12)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = loans.AddRepayment(ctx, loan.ID, 0.9, 1.12)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := loans.GetByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, got.RepaidAmount, 1e-9)
}

func TestUpdateStatusIfIsCompareAndSwap(t *testing.T) {
	store := NewStore()
	loans := store.Loans()
	ctx := context.Background()

	loan := models.NewLoanRequest(1, 1, domain.CurrencyBTC, 5, 6, false)
	require.NoError(t, loans.Create(ctx, loan))

	// Wrong precondition: no change.
	ok, err := loans.UpdateStatusIf(ctx, loan.ID, domain.LoanStatusActive, domain.LoanStatusCompleted)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = loans.UpdateStatusIf(ctx, loan.ID, domain.LoanStatusPending, domain.LoanStatusActive)
	require.NoError(t, err)
	assert.True(t, ok)

	// The swap only fires once.
	ok, err = loans.UpdateStatusIf(ctx, loan.ID, domain.LoanStatusPending, domain.LoanStatusActive)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStatsApplyDelta(t *testing.T) {
	store := NewStore()
	stats := store.Stats()
	ctx := context.Background()

	require.NoError(t, stats.Create(ctx, &models.Stats{UserID: 7}))

	ok, err := stats.ApplyDelta(ctx, 7, repositories.StatsDelta{TotalLent: 2, ActiveLoans: 1})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = stats.ApplyDelta(ctx, 8, repositories.StatsDelta{TotalLent: 2})
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := stats.GetByUserID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, float64(2), got.TotalLent)
	assert.Equal(t, 1, got.ActiveLoans)
}

func TestRepositoriesReturnCopies(t *testing.T) {
	store := NewStore()
	users := store.Users()
	ctx := context.Background()

	user := &models.User{Username: "holder", Email: "h@example.com", Password: "x", BtcBalance: 1}
	require.NoError(t, users.Create(ctx, user))

	got, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	got.BtcBalance = 999

	// Mutating a returned value must not leak into the store.
	again, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(1), again.BtcBalance)
}
