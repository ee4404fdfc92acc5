package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenfields-backend/internal/models"
	"greenfields-backend/internal/store"
)

func TestLoyaltyTiersSeedDefaults(t *testing.T) {
	repo := NewLoyaltyTierRepository(store.NewMemory())

	tiers, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tiers, 4)
	assert.Equal(t, models.TierBronze, tiers[0].Name)
	assert.Equal(t, models.TierPlatinum, tiers[3].Name)

	// Ascending by threshold.
	for i := 1; i < len(tiers); i++ {
		assert.Greater(t, tiers[i].MinPoints, tiers[i-1].MinPoints)
	}

	again, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, again, 4, "defaults only seed once")
}

func TestLoyaltyTiersReplace(t *testing.T) {
	coll := store.NewMemory()
	repo := NewLoyaltyTierRepository(coll)
	ctx := context.Background()

	_, err := repo.List(ctx)
	require.NoError(t, err)

	replaced, err := repo.Replace(ctx, []models.LoyaltyTier{
		{Name: "member", MinPoints: 0},
		{Name: "vip", MinPoints: 2500, Discount: 0.2},
	})
	require.NoError(t, err)
	require.Len(t, replaced, 2)
	assert.Equal(t, "member", replaced[0].Name)
	assert.Equal(t, "vip", replaced[1].Name)
	assert.Equal(t, 2, coll.Len(), "old tiers are gone")
}
