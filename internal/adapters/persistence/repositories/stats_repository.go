package repositories

import (
	"context"

	"blocklend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// statsRepository implements StatsRepository on GORM
type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

// Create creates a stats row
func (r *statsRepository) Create(ctx context.Context, stats *models.Stats) error {
	return conn(ctx, r.db).Create(stats).Error
}

// GetByUserID gets a user's stats
func (r *statsRepository) GetByUserID(ctx context.Context, userID uint) (*models.Stats, error) {
	var stats models.Stats
	err := conn(ctx, r.db).Where("user_id = ?", userID).First(&stats).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &stats, nil
}

// ApplyDelta adds the delta to the stats row in a single statement, so
// concurrent updates from different loans never lose increments.
func (r *statsRepository) ApplyDelta(ctx context.Context, userID uint, delta StatsDelta) (bool, error) {
	updates := map[string]interface{}{}
	if delta.TotalBorrowed != 0 {
		updates["total_borrowed"] = gorm.Expr("total_borrowed + ?", delta.TotalBorrowed)
	}
	if delta.TotalLent != 0 {
		updates["total_lent"] = gorm.Expr("total_lent + ?", delta.TotalLent)
	}
	if delta.ActiveLoans != 0 {
		updates["active_loans"] = gorm.Expr("active_loans + ?", delta.ActiveLoans)
	}
	if delta.InterestEarned != 0 {
		updates["interest_earned"] = gorm.Expr("interest_earned + ?", delta.InterestEarned)
	}
	if len(updates) == 0 {
		var count int64
		err := conn(ctx, r.db).Model(&models.Stats{}).Where("user_id = ?", userID).Count(&count).Error
		return count > 0, err
	}

	res := conn(ctx, r.db).Model(&models.Stats{}).Where("user_id = ?", userID).Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
