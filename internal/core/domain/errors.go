package domain

import "errors"

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrValidation     = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalServer = errors.New("internal server error")
)

// User errors
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Loan errors
var (
	ErrLoanNotFound       = errors.New("loan not found")
	ErrLoanNotPending     = errors.New("loan is not in pending status")
	ErrLoanNotActive      = errors.New("loan is not active")
	ErrCannotAcceptLoan   = errors.New("cannot accept this loan")
	ErrNotBorrower        = errors.New("you are not the borrower of this loan")
	ErrExceedsOutstanding = errors.New("repayment exceeds outstanding amount")
)

// Stats errors
var (
	// ErrStatsNotFound is an invariant violation: a Stats row is created
	// with every user and must exist whenever the engine touches it.
	ErrStatsNotFound = errors.New("stats record not found")
)

// Token errors
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenRevoked = errors.New("token revoked")
)
