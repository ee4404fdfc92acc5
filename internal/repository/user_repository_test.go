package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"greenfields-backend/internal/models"
	"greenfields-backend/internal/store"
)

func newUserRepo() (*UserRepository, *store.MemoryCollection) {
	coll := store.NewMemory()
	return NewUserRepository(coll), coll
}

func createUser(t *testing.T, repo *UserRepository, u models.User) *models.User {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &u))
	return &u
}

func TestUserCreateWelcomeBonus(t *testing.T) {
	repo, _ := newUserRepo()

	customer := createUser(t, repo, models.User{Email: "Jane@Example.com", Name: "Jane"})
	assert.Equal(t, 100, customer.LoyaltyPoints)
	assert.Equal(t, models.TierBronze, customer.LoyaltyTier)
	assert.Equal(t, models.RoleCustomer, customer.Role)
	assert.Equal(t, "jane@example.com", customer.Email)

	admin := createUser(t, repo, models.User{Email: "root@example.com", Role: models.RoleAdmin})
	assert.Zero(t, admin.LoyaltyPoints)
	assert.Equal(t, models.TierNone, admin.LoyaltyTier)
}

func TestUserFindByEmailCaseInsensitive(t *testing.T) {
	repo, _ := newUserRepo()
	createUser(t, repo, models.User{Email: "jane@example.com"})

	got, err := repo.FindByEmail(context.Background(), "  JANE@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", got.Email)

	_, err = repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserDualIdentifierLookup(t *testing.T) {
	repo, coll := newUserRepo()
	ctx := context.Background()

	u := createUser(t, repo, models.User{Email: "jane@example.com", Name: "Jane"})
	byLogical, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", byLogical.Name)

	// Legacy seed accounts only have the native _id; lookups must fall back.
	legacyID := primitive.NewObjectID()
	_, err = coll.InsertOne(ctx, bson.M{"_id": legacyID, "email": "legacy@example.com", "name": "Legacy"})
	require.NoError(t, err)

	legacy, err := repo.FindByID(ctx, legacyID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Legacy", legacy.Name)

	_, err = repo.FindByID(ctx, "does-not-exist")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserUpdateOperatorPassthrough(t *testing.T) {
	repo, _ := newUserRepo()
	ctx := context.Background()
	u := createUser(t, repo, models.User{Email: "jane@example.com"})

	// Plain payloads get wrapped in $set.
	require.NoError(t, repo.Update(ctx, u.ID, bson.M{"name": "Jane D"}))
	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane D", got.Name)

	// Operator payloads pass through untouched.
	require.NoError(t, repo.Update(ctx, u.ID, bson.M{"$inc": bson.M{"totalOrders": 1, "totalSpent": 120.5}}))
	got, err = repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalOrders)
	assert.Equal(t, 120.5, got.TotalSpent)
	assert.Equal(t, "Jane D", got.Name)

	assert.ErrorIs(t, repo.Update(ctx, "missing", bson.M{"name": "x"}), ErrUserNotFound)
}

func TestTierForSpendStepFunction(t *testing.T) {
	cases := []struct {
		spent float64
		tier  string
	}{
		{0, models.TierBronze},
		{999.99, models.TierBronze},
		{1000, models.TierSilver},
		{4999.99, models.TierSilver},
		{5000, models.TierGold},
		{9999.99, models.TierGold},
		{10000, models.TierPlatinum},
		{250000, models.TierPlatinum},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.tier, models.TierForSpend(tc.spent), "spent=%v", tc.spent)
	}
}

func TestUpdateLoyaltyPoints(t *testing.T) {
	repo, _ := newUserRepo()
	ctx := context.Background()
	u := createUser(t, repo, models.User{Email: "jane@example.com"})

	state, err := repo.UpdateLoyaltyPoints(ctx, u.ID, 250, LoyaltyOpAdd)
	require.NoError(t, err)
	assert.Equal(t, 350, state.Points)

	// Subtract clamps at zero.
	state, err = repo.UpdateLoyaltyPoints(ctx, u.ID, 1000, LoyaltyOpSubtract)
	require.NoError(t, err)
	assert.Equal(t, 0, state.Points)

	state, err = repo.UpdateLoyaltyPoints(ctx, u.ID, 42, LoyaltyOpSet)
	require.NoError(t, err)
	assert.Equal(t, 42, state.Points)

	_, err = repo.UpdateLoyaltyPoints(ctx, u.ID, 1, "divide")
	assert.Error(t, err)
}

func TestUpdateLoyaltyPointsTierFollowsSpend(t *testing.T) {
	repo, _ := newUserRepo()
	ctx := context.Background()
	u := createUser(t, repo, models.User{Email: "jane@example.com"})

	// Lifetime spend drives the tier, not the point balance.
	require.NoError(t, repo.Update(ctx, u.ID, bson.M{"$inc": bson.M{"totalSpent": 6000.0}}))
	state, err := repo.UpdateLoyaltyPoints(ctx, u.ID, 1, LoyaltyOpAdd)
	require.NoError(t, err)
	assert.Equal(t, models.TierGold, state.Tier)

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TierGold, got.LoyaltyTier)
}

func TestUpdateLoyaltyPointsMissingUserIsSoft(t *testing.T) {
	repo, _ := newUserRepo()

	state, err := repo.UpdateLoyaltyPoints(context.Background(), "ghost", 500, LoyaltyOpAdd)
	require.NoError(t, err, "a missing user must not fail the caller")
	assert.Equal(t, LoyaltyState{Points: 0, Tier: models.TierBronze}, state)
}
