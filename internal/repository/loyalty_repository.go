package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"greenfields-backend/internal/models"
	"greenfields-backend/internal/store"
)

// LoyaltyTierRepository manages the ordered tier list.
type LoyaltyTierRepository struct {
	collection store.Collection
}

func NewLoyaltyTierRepository(collection store.Collection) *LoyaltyTierRepository {
	return &LoyaltyTierRepository{collection: collection}
}

func defaultLoyaltyTiers() []models.LoyaltyTier {
	return []models.LoyaltyTier{
		{Name: models.TierBronze, MinPoints: 0, Multiplier: 1, Discount: 0},
		{Name: models.TierSilver, MinPoints: 1000, Multiplier: 1.25, Discount: 0.05, Perks: []string{"birthday gift"}},
		{Name: models.TierGold, MinPoints: 5000, Multiplier: 1.5, Discount: 0.1, Perks: []string{"birthday gift", "free shipping"}},
		{Name: models.TierPlatinum, MinPoints: 10000, Multiplier: 2, Discount: 0.15, Perks: []string{"birthday gift", "free shipping", "early access"}},
	}
}

// List returns the tiers sorted by ascending point threshold, seeding the
// defaults when the collection is empty.
func (r *LoyaltyTierRepository) List(ctx context.Context) ([]models.LoyaltyTier, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := &store.FindOptions{Sort: bson.D{{Key: "minPoints", Value: 1}}}
	var tiers []models.LoyaltyTier
	if err := r.collection.Find(ctx, bson.M{}, opts, &tiers); err != nil {
		return nil, err
	}
	if len(tiers) > 0 {
		return tiers, nil
	}

	if err := r.insert(ctx, defaultLoyaltyTiers()); err != nil {
		return nil, err
	}
	if err := r.collection.Find(ctx, bson.M{}, opts, &tiers); err != nil {
		return nil, err
	}
	return tiers, nil
}

// Replace swaps the whole tier list: delete all, then insert all. The two
// steps are not atomic, so a concurrent reader can briefly observe zero
// tiers. Accepted: tier edits are a rare admin action.
func (r *LoyaltyTierRepository) Replace(ctx context.Context, tiers []models.LoyaltyTier) ([]models.LoyaltyTier, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return nil, err
	}
	if err := r.insert(ctx, tiers); err != nil {
		return nil, err
	}
	return r.List(ctx)
}

func (r *LoyaltyTierRepository) insert(ctx context.Context, tiers []models.LoyaltyTier) error {
	docs := make([]interface{}, 0, len(tiers))
	for i := range tiers {
		tiers[i].OID = primitive.NewObjectID()
		docs = append(docs, tiers[i])
	}
	return r.collection.InsertMany(ctx, docs)
}
