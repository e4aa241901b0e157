package domain

// Currency represents a supported crypto unit
type Currency string

const (
	CurrencyBTC Currency = "BTC"
	CurrencyETH Currency = "ETH"
	CurrencySOL Currency = "SOL"
)

// SupportedCurrencies lists every currency the platform keeps balances in
var SupportedCurrencies = []Currency{CurrencyBTC, CurrencyETH, CurrencySOL}

// IsSupported reports whether the currency has a balance column and a rate
func (c Currency) IsSupported() bool {
	for _, sc := range SupportedCurrencies {
		if c == sc {
			return true
		}
	}
	return false
}

// LoanStatus represents loan lifecycle status
type LoanStatus string

const (
	LoanStatusPending   LoanStatus = "pending"
	LoanStatusActive    LoanStatus = "active"
	LoanStatusCompleted LoanStatus = "completed"
	LoanStatusDefaulted LoanStatus = "defaulted"
)

// LoanType represents which party initiated a loan
type LoanType string

const (
	// LoanTypeRequest is created by a borrower seeking a lender
	LoanTypeRequest LoanType = "request"
	// LoanTypeOffer is created by a lender seeking a borrower
	LoanTypeOffer LoanType = "offer"
)

// LoanRole represents the side a user takes on a loan
type LoanRole string

const (
	RoleBorrower LoanRole = "borrower"
	RoleLender   LoanRole = "lender"
)

// TransactionType represents a balance-affecting event type
type TransactionType string

const (
	TxTypeDeposit      TransactionType = "deposit"
	TxTypeWithdrawal   TransactionType = "withdrawal"
	TxTypeDisbursement TransactionType = "disbursement"
	TxTypeRepayment    TransactionType = "repayment"
)
