package services

import (
	"context"
	"testing"

	"blocklend/internal/adapters/persistence/repositories"
	"blocklend/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDelta(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "holder", 0)
	ctx := context.Background()

	err := env.statsS.ApplyDelta(ctx, user.ID, repositories.StatsDelta{
		TotalLent:   1.5,
		ActiveLoans: 1,
	})
	require.NoError(t, err)

	err = env.statsS.ApplyDelta(ctx, user.ID, repositories.StatsDelta{
		InterestEarned: 0.05,
		ActiveLoans:    -1,
	})
	require.NoError(t, err)

	stats := env.userStats(t, user.ID)
	assert.Equal(t, 1.5, stats.TotalLent)
	assert.Zero(t, stats.ActiveLoans)
	assert.Equal(t, 0.05, stats.InterestEarned)
	assert.Zero(t, stats.TotalBorrowed)
}

func TestApplyDeltaMissingRowIsAnError(t *testing.T) {
	env := newTestEnv(t)

	// No user, no stats row: the engine must hear about it.
	err := env.statsS.ApplyDelta(context.Background(), 9999, repositories.StatsDelta{TotalLent: 1})
	assert.ErrorIs(t, err, domain.ErrStatsNotFound)

	_, err = env.statsS.GetByUserID(context.Background(), 9999)
	assert.ErrorIs(t, err, domain.ErrStatsNotFound)
}
