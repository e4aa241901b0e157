package repositories

import (
	"context"
	"errors"

	"blocklend/internal/adapters/persistence/models"
	"blocklend/internal/core/domain"

	"gorm.io/gorm"
)

// balanceColumns maps currencies to their balance columns
var balanceColumns = map[domain.Currency]string{
	domain.CurrencyBTC: "btc_balance",
	domain.CurrencyETH: "eth_balance",
	domain.CurrencySOL: "sol_balance",
}

// userRepository implements UserRepository on GORM
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return conn(ctx, r.db).Create(user).Error
}

// GetByID gets a user by ID
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := conn(ctx, r.db).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

// GetByEmail gets a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := conn(ctx, r.db).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

// GetByWalletAddress gets a user by wallet address
func (r *userRepository) GetByWalletAddress(ctx context.Context, walletAddress string) (*models.User, error) {
	var user models.User
	err := conn(ctx, r.db).Where("wallet_address = ?", walletAddress).First(&user).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

// ExistsByUsername checks if username exists
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// ExistsByEmail checks if email exists
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// Update updates a user
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return conn(ctx, r.db).Save(user).Error
}

// AdjustBalance adds delta to one balance column, guarded against going
// negative in the same statement.
func (r *userRepository) AdjustBalance(ctx context.Context, id uint, currency domain.Currency, delta float64) (bool, error) {
	column, ok := balanceColumns[currency]
	if !ok {
		return false, domain.ErrUnsupportedCurrency
	}

	res := conn(ctx, r.db).Model(&models.User{}).
		Where("id = ? AND "+column+" + ? >= 0", id, delta).
		Update(column, gorm.Expr(column+" + ?", delta))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SetBalances replaces balances with absolute values
func (r *userRepository) SetBalances(ctx context.Context, id uint, balances map[domain.Currency]float64) error {
	updates := make(map[string]interface{}, len(balances))
	for currency, value := range balances {
		column, ok := balanceColumns[currency]
		if !ok {
			return domain.ErrUnsupportedCurrency
		}
		updates[column] = value
	}
	if len(updates) == 0 {
		return nil
	}

	res := conn(ctx, r.db).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// translateNotFound maps gorm's missing-row error to the domain sentinel
func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
