package config

import (
	"context"
	"log"
	"strings"

	"blocklend/internal/adapters/persistence/models"
	"blocklend/internal/adapters/persistence/repositories"
	"blocklend/internal/core/domain"
	"blocklend/internal/pkg/password"
)

// Seeder populates demo data for development. It runs against the
// repository interfaces so both storage drivers can be seeded.
type Seeder struct {
	userRepo  repositories.UserRepository
	loanRepo  repositories.LoanRepository
	statsRepo repositories.StatsRepository
}

// NewSeeder creates a new seeder instance
func NewSeeder(
	userRepo repositories.UserRepository,
	loanRepo repositories.LoanRepository,
	statsRepo repositories.StatsRepository,
) *Seeder {
	return &Seeder{
		userRepo:  userRepo,
		loanRepo:  loanRepo,
		statsRepo: statsRepo,
	}
}

// Run executes all seeders. Seeding is idempotent: it is skipped when the
// demo user already exists.
func (s *Seeder) Run(ctx context.Context) error {
	log.Println("🌱 Running database seeders...")

	exists, err := s.userRepo.ExistsByUsername(ctx, "alex_crypto")
	if err != nil {
		return err
	}
	if exists {
		log.Println("✅ Demo data already present, seeding skipped")
		return nil
	}

	alex, err := s.seedUser("alex_crypto", "alex@blocklend.io", 2.5, 10, 150)
	if err != nil {
		return err
	}
	maria, err := s.seedUser("maria_hodl", "maria@blocklend.io", 1.2, 25, 80)
	if err != nil {
		return err
	}

	// A pending request and a pending offer so the marketplace is not
	// empty on first launch.
	request := models.NewLoanRequest(alex.ID, 0.5, domain.CurrencyBTC, 5, 6, true)
	if err := s.loanRepo.Create(ctx, request); err != nil {
		return err
	}
	offer := models.NewLoanOffer(maria.ID, 10, domain.CurrencyETH, 8, 12, false)
	if err := s.loanRepo.Create(ctx, offer); err != nil {
		return err
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedUser creates a demo user with funded balances and a stats row.
// Demo credentials are for development only.
func (s *Seeder) seedUser(username, email string, btc, eth, sol float64) (*models.User, error) {
	ctx := context.Background()

	hashedPassword, err := password.Hash("password123")
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:       username,
		Email:          email,
		Password:       hashedPassword,
		BtcBalance:     btc,
		EthBalance:     eth,
		SolBalance:     sol,
		AvatarInitials: strings.ToUpper(username[:2]),
		Rating:         4.5,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	if err := s.statsRepo.Create(ctx, &models.Stats{UserID: user.ID}); err != nil {
		return nil, err
	}
	return user, nil
}
