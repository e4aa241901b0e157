package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepaymentTotal(t *testing.T) {
	// 1 unit at 12% over a full year owes 1.12.
	assert.InDelta(t, 1.12, RepaymentTotal(1, 12, 12), 1e-9)

	// Half a year accrues half the annual interest.
	assert.InDelta(t, 1.06, RepaymentTotal(1, 12, 6), 1e-9)

	// Zero interest owes exactly the principal.
	assert.Equal(t, 2.5, RepaymentTotal(2.5, 0, 24))

	// Multi-year terms keep accruing linearly.
	assert.InDelta(t, 1.24, RepaymentTotal(1, 12, 24), 1e-9)
}

func TestInterestPortion(t *testing.T) {
	assert.InDelta(t, 0.06, InterestPortion(0.5, 12), 1e-9)
	assert.Zero(t, InterestPortion(0.5, 0))
	assert.Zero(t, InterestPortion(0, 12))
}

func TestCurrencyIsSupported(t *testing.T) {
	assert.True(t, CurrencyBTC.IsSupported())
	assert.True(t, CurrencyETH.IsSupported())
	assert.True(t, CurrencySOL.IsSupported())
	assert.False(t, Currency("DOGE").IsSupported())
	assert.False(t, Currency("btc").IsSupported())
}
