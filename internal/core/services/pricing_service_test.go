package services

import (
	"testing"

	"blocklend/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestUsdValue(t *testing.T) {
	pricer := NewPricingService()

	assert.Equal(t, float64(35000), pricer.UsdValue(1, domain.CurrencyBTC))
	assert.Equal(t, float64(1000), pricer.UsdValue(0.5, domain.CurrencyETH))
	assert.Equal(t, float64(250), pricer.UsdValue(2.5, domain.CurrencySOL))
}

func TestUsdValueUnknownCurrencyFallsBack(t *testing.T) {
	pricer := NewPricingService()

	// Unknown units report at 1:1 rather than erroring.
	assert.Equal(t, float64(42), pricer.UsdValue(42, "DOGE"))
	assert.Zero(t, pricer.UsdValue(0, domain.CurrencyBTC))
}
