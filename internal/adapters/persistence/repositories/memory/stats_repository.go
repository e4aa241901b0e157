package memory

import (
	"context"
	"time"

	"blocklend/internal/adapters/persistence/models"
	"blocklend/internal/adapters/persistence/repositories"
	"blocklend/internal/core/domain"
)

type statsRepository struct {
	store *Store
}

func (r *statsRepository) Create(ctx context.Context, stats *models.Stats) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.statsSeq++
	stats.ID = r.store.statsSeq
	now := time.Now()
	stats.CreatedAt = now
	stats.UpdatedAt = now
	r.store.stats[stats.ID] = cloneStats(stats)
	return nil
}

func (r *statsRepository) GetByUserID(ctx context.Context, userID uint) (*models.Stats, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, stats := range r.store.stats {
		if stats.UserID == userID {
			return cloneStats(stats), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *statsRepository) ApplyDelta(ctx context.Context, userID uint, delta repositories.StatsDelta) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, stats := range r.store.stats {
		if stats.UserID == userID {
			stats.TotalBorrowed += delta.TotalBorrowed
			stats.TotalLent += delta.TotalLent
			stats.ActiveLoans += delta.ActiveLoans
			stats.InterestEarned += delta.InterestEarned
			stats.UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}
