package memory

import (
	"context"
	"time"

	"blocklend/internal/adapters/persistence/models"
	"blocklend/internal/core/domain"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.userSeq++
	user.ID = r.store.userSeq
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.store.users[user.ID] = cloneUser(user)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneUser(user), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, user := range r.store.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *userRepository) GetByWalletAddress(ctx context.Context, walletAddress string) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, user := range r.store.users {
		if user.WalletAddress != nil && *user.WalletAddress == walletAddress {
			return cloneUser(user), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, user := range r.store.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, user := range r.store.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	r.store.users[user.ID] = cloneUser(user)
	return nil
}

func (r *userRepository) AdjustBalance(ctx context.Context, id uint, currency domain.Currency, delta float64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[id]
	if !ok {
		return false, nil
	}

	switch currency {
	case domain.CurrencyBTC:
		if user.BtcBalance+delta < 0 {
			return false, nil
		}
		user.BtcBalance += delta
	case domain.CurrencyETH:
		if user.EthBalance+delta < 0 {
			return false, nil
		}
		user.EthBalance += delta
	case domain.CurrencySOL:
		if user.SolBalance+delta < 0 {
			return false, nil
		}
		user.SolBalance += delta
	default:
		return false, domain.ErrUnsupportedCurrency
	}
	user.UpdatedAt = time.Now()
	return true, nil
}

func (r *userRepository) SetBalances(ctx context.Context, id uint, balances map[domain.Currency]float64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[id]
	if !ok {
		return domain.ErrNotFound
	}

	for currency, value := range balances {
		switch currency {
		case domain.CurrencyBTC:
			user.BtcBalance = value
		case domain.CurrencyETH:
			user.EthBalance = value
		case domain.CurrencySOL:
			user.SolBalance = value
		default:
			return domain.ErrUnsupportedCurrency
		}
	}
	user.UpdatedAt = time.Now()
	return nil
}
