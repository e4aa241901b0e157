package models

import (
	"time"

	"blocklend/internal/core/domain"

	"gorm.io/gorm"
)

// User represents users table
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email          string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password       string    `gorm:"size:255;not null" json:"-"`
	WalletAddress  *string   `gorm:"uniqueIndex;size:100" json:"wallet_address"`
	BtcBalance     float64   `gorm:"not null;default:0" json:"btc_balance"`
	EthBalance     float64   `gorm:"not null;default:0" json:"eth_balance"`
	SolBalance     float64   `gorm:"not null;default:0" json:"sol_balance"`
	AvatarInitials string    `gorm:"size:4" json:"avatar_initials"`
	Rating         float64   `gorm:"default:0" json:"rating"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Balance returns the user's balance in the given currency.
func (u *User) Balance(currency domain.Currency) float64 {
	switch currency {
	case domain.CurrencyBTC:
		return u.BtcBalance
	case domain.CurrencyETH:
		return u.EthBalance
	case domain.CurrencySOL:
		return u.SolBalance
	}
	return 0
}

// UserResponse DTO (password never leaves the server)
type UserResponse struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	WalletAddress  *string   `json:"wallet_address"`
	BtcBalance     float64   `json:"btc_balance"`
	EthBalance     float64   `json:"eth_balance"`
	SolBalance     float64   `json:"sol_balance"`
	AvatarInitials string    `json:"avatar_initials"`
	Rating         float64   `json:"rating"`
	CreatedAt      time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		WalletAddress:  u.WalletAddress,
		BtcBalance:     u.BtcBalance,
		EthBalance:     u.EthBalance,
		SolBalance:     u.SolBalance,
		AvatarInitials: u.AvatarInitials,
		Rating:         u.Rating,
		CreatedAt:      u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// Loan represents loans table. Exactly one of LenderID/BorrowerID is nil
// while the loan is pending; both are set once it is active.
type Loan struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	LenderID       *uint             `gorm:"index" json:"lender_id"`
	BorrowerID     *uint             `gorm:"index" json:"borrower_id"`
	Amount         float64           `gorm:"type:decimal(20,8);not null" json:"amount"`
	Currency       domain.Currency   `gorm:"size:10;not null;default:'BTC'" json:"currency"`
	Interest       float64           `gorm:"type:decimal(5,2);not null" json:"interest"`
	DurationMonths int               `gorm:"not null" json:"duration_months"`
	Status         domain.LoanStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Type           domain.LoanType   `gorm:"size:20;not null" json:"type"`
	HasCollateral  bool              `gorm:"default:false" json:"has_collateral"`
	RepaidAmount   float64           `gorm:"type:decimal(20,8);not null;default:0" json:"repaid_amount"`
	ActivatedAt    *time.Time        `json:"activated_at"`
	CreatedAt      time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Lender   *User `gorm:"foreignKey:LenderID" json:"lender,omitempty"`
	Borrower *User `gorm:"foreignKey:BorrowerID" json:"borrower,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

// NewLoanRequest builds a pending loan initiated by a borrower.
func NewLoanRequest(borrowerID uint, amount float64, currency domain.Currency, interest float64, durationMonths int, hasCollateral bool) *Loan {
	return &Loan{
		BorrowerID:     &borrowerID,
		Amount:         amount,
		Currency:       currency,
		Interest:       interest,
		DurationMonths: durationMonths,
		Status:         domain.LoanStatusPending,
		Type:           domain.LoanTypeRequest,
		HasCollateral:  hasCollateral,
	}
}

// NewLoanOffer builds a pending loan initiated by a lender.
func NewLoanOffer(lenderID uint, amount float64, currency domain.Currency, interest float64, durationMonths int, hasCollateral bool) *Loan {
	return &Loan{
		LenderID:       &lenderID,
		Amount:         amount,
		Currency:       currency,
		Interest:       interest,
		DurationMonths: durationMonths,
		Status:         domain.LoanStatusPending,
		Type:           domain.LoanTypeOffer,
		HasCollateral:  hasCollateral,
	}
}

// TotalRepayment returns the full amount owed on this loan.
func (l *Loan) TotalRepayment() float64 {
	return domain.RepaymentTotal(l.Amount, l.Interest, l.DurationMonths)
}

// Outstanding returns the remaining amount owed.
func (l *Loan) Outstanding() float64 {
	return l.TotalRepayment() - l.RepaidAmount
}

// DueAt returns the due date of an active loan, or nil if never activated.
func (l *Loan) DueAt() *time.Time {
	if l.ActivatedAt == nil {
		return nil
	}
	due := l.ActivatedAt.AddDate(0, l.DurationMonths, 0)
	return &due
}

// LoanResponse DTO
type LoanResponse struct {
	ID             uint              `json:"id"`
	LenderID       *uint             `json:"lender_id"`
	BorrowerID     *uint             `json:"borrower_id"`
	Amount         float64           `json:"amount"`
	Currency       domain.Currency   `json:"currency"`
	Interest       float64           `json:"interest"`
	DurationMonths int               `json:"duration_months"`
	Status         domain.LoanStatus `json:"status"`
	Type           domain.LoanType   `json:"type"`
	HasCollateral  bool              `json:"has_collateral"`
	RepaidAmount   float64           `json:"repaid_amount"`
	TotalRepayment float64           `json:"total_repayment"`
	ActivatedAt    *time.Time        `json:"activated_at"`
	DueAt          *time.Time        `json:"due_at"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func (l *Loan) ToResponse() *LoanResponse {
	return &LoanResponse{
		ID:             l.ID,
		LenderID:       l.LenderID,
		BorrowerID:     l.BorrowerID,
		Amount:         l.Amount,
		Currency:       l.Currency,
		Interest:       l.Interest,
		DurationMonths: l.DurationMonths,
		Status:         l.Status,
		Type:           l.Type,
		HasCollateral:  l.HasCollateral,
		RepaidAmount:   l.RepaidAmount,
		TotalRepayment: l.TotalRepayment(),
		ActivatedAt:    l.ActivatedAt,
		DueAt:          l.DueAt(),
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

// Transaction is the append-only audit record of a balance-affecting event
type Transaction struct {
	ID          uint                   `gorm:"primaryKey" json:"id"`
	UserID      uint                   `gorm:"not null;index" json:"user_id"`
	LoanID      *uint                  `gorm:"index" json:"loan_id"`
	Amount      float64                `gorm:"type:decimal(20,8);not null" json:"amount"`
	Currency    domain.Currency        `gorm:"size:10;not null" json:"currency"`
	Type        domain.TransactionType `gorm:"size:20;not null" json:"type"`
	Description string                 `gorm:"size:255;not null" json:"description"`
	TxHash      string                 `gorm:"size:128" json:"tx_hash"`
	UsdValue    float64                `gorm:"type:decimal(20,2)" json:"usd_value"`
	CreatedAt   time.Time              `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Loan *Loan `gorm:"foreignKey:LoanID" json:"loan,omitempty"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// Stats is the per-user aggregate snapshot (1:1 with users)
type Stats struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	TotalBorrowed  float64   `gorm:"type:decimal(20,8);not null;default:0" json:"total_borrowed"`
	TotalLent      float64   `gorm:"type:decimal(20,8);not null;default:0" json:"total_lent"`
	ActiveLoans    int       `gorm:"not null;default:0" json:"active_loans"`
	InterestEarned float64   `gorm:"type:decimal(20,8);not null;default:0" json:"interest_earned"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Stats) TableName() string {
	return "stats"
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Loan{},
		&Transaction{},
		&Stats{},
	)
}
