package services

import (
	"context"

	"blocklend/internal/adapters/persistence/models"
	"blocklend/internal/adapters/persistence/repositories"
	"blocklend/internal/core/domain"
)

// StatsService keeps per-user aggregates in step with loan and repayment
// events. Stats rows are created with the user and only ever adjusted
// through ApplyDelta; clients never edit them directly.
type StatsService struct {
	statsRepo repositories.StatsRepository
}

// NewStatsService creates a new stats service
func NewStatsService(statsRepo repositories.StatsRepository) *StatsService {
	return &StatsService{statsRepo: statsRepo}
}

// GetByUserID gets a user's stats
func (s *StatsService) GetByUserID(ctx context.Context, userID uint) (*models.Stats, error) {
	stats, err := s.statsRepo.GetByUserID(ctx, userID)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrStatsNotFound
		}
		return nil, err
	}
	return stats, nil
}

// ApplyDelta adjusts a user's aggregates. A missing stats row is an
// invariant violation (the row is created at registration), so it is
// surfaced as an error rather than swallowed.
func (s *StatsService) ApplyDelta(ctx context.Context, userID uint, delta repositories.StatsDelta) error {
	ok, err := s.statsRepo.ApplyDelta(ctx, userID, delta)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrStatsNotFound
	}
	return nil
}
