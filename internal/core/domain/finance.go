package domain

// RepaymentEpsilon absorbs float rounding when comparing cumulative
// repayments against the total owed.
const RepaymentEpsilon = 1e-9

// RepaymentTotal computes the total amount owed on a loan using simple
// interest: principal + principal * (interest/100) * (months/12).
// Every repayment and interest calculation in the system goes through
// this one formula.
func RepaymentTotal(principal, interestPercent float64, durationMonths int) float64 {
	return principal + principal*(interestPercent/100)*(float64(durationMonths)/12)
}

// InterestPortion computes the lender's interest share of a single
// repayment: amount * (interest/100).
func InterestPortion(amount, interestPercent float64) float64 {
	return amount * (interestPercent / 100)
}
