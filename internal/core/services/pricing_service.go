package services

import "blocklend/internal/core/domain"

// Pricer converts amounts to the USD reporting value recorded on every
// transaction. The static table below stands in for a live pricing feed;
// swapping in a real feed means swapping this interface's implementation.
type Pricer interface {
	UsdValue(amount float64, currency domain.Currency) float64
}

// PricingService implements Pricer with a static rate table
type PricingService struct {
	rates map[domain.Currency]float64
}

// NewPricingService creates a pricing service with the default rates
func NewPricingService() *PricingService {
	return &PricingService{
		rates: map[domain.Currency]float64{
			domain.CurrencyBTC: 35000,
			domain.CurrencyETH: 2000,
			domain.CurrencySOL: 100,
		},
	}
}

// UsdValue converts an amount to USD. Unknown currencies fall back to a
// 1:1 rate rather than failing, so reporting never blocks a transaction.
func (s *PricingService) UsdValue(amount float64, currency domain.Currency) float64 {
	rate, ok := s.rates[currency]
	if !ok {
		rate = 1
	}
	return amount * rate
}
