package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"greenfields-backend/internal/models"
	"greenfields-backend/internal/store"
)

// welcomeBonus is credited to every non-admin account at registration.
const welcomeBonus = 100

// Loyalty point operations accepted by UpdateLoyaltyPoints.
const (
	LoyaltyOpAdd      = "add"
	LoyaltyOpSubtract = "subtract"
	LoyaltyOpSet      = "set"
)

// LoyaltyState is the point balance and tier after a loyalty mutation.
type LoyaltyState struct {
	Points int    `json:"points"`
	Tier   string `json:"tier"`
}

type UserRepository struct {
	collection store.Collection
}

func NewUserRepository(collection store.Collection) *UserRepository {
	return &UserRepository{collection: collection}
}

// Create inserts a new account. Admins start at zero points outside the tier
// ladder; everyone else gets the welcome bonus at bronze. Emails are stored
// lower-cased.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	user.OID = primitive.NewObjectID()
	if user.ID == "" {
		user.ID = user.OID.Hex()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Role == "" {
		user.Role = models.RoleCustomer
	}
	if user.Role == models.RoleAdmin {
		user.LoyaltyPoints = 0
		user.LoyaltyTier = models.TierNone
	} else {
		user.LoyaltyPoints = welcomeBonus
		user.LoyaltyTier = models.TierBronze
	}
	user.TotalOrders = 0
	user.TotalSpent = 0
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// FindAll lists accounts, newest first.
func (r *UserRepository) FindAll(ctx context.Context) ([]*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := &store.FindOptions{Sort: bson.D{{Key: "createdAt", Value: -1}}}
	var users []*models.User
	if err := r.collection.Find(ctx, bson.M{}, opts, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// FindByEmail matches the lower-cased input against the stored email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}, &user)
	if errors.Is(err, store.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID looks an account up by logical id, falling back to the native _id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var user models.User
	if err := findOneByID(ctx, r.collection, id, &user, ErrUserNotFound); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update applies an update. Payloads whose keys start with an update
// operator pass through untouched, so callers can mix plain field sets with
// $inc counters through the same method; plain payloads are wrapped in $set.
func (r *UserRepository) Update(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if !hasOperators(update) {
		update["updatedAt"] = time.Now()
		update = bson.M{"$set": update}
	}
	return updateOneByID(ctx, r.collection, id, update, ErrUserNotFound)
}

func hasOperators(update bson.M) bool {
	for k := range update {
		if strings.HasPrefix(k, "$") {
			return true
		}
	}
	return false
}

// UpdateLoyaltyPoints mutates an account's point balance. A missing user
// yields a zero/bronze state without an error, because this is called from
// the best-effort order path and must not break checkout. Subtract clamps at
// zero. The tier is recomputed from lifetime spend, not from points.
func (r *UserRepository) UpdateLoyaltyPoints(ctx context.Context, id string, points int, operation string) (LoyaltyState, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	user, err := r.FindByID(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return LoyaltyState{Points: 0, Tier: models.TierBronze}, nil
	}
	if err != nil {
		return LoyaltyState{}, err
	}

	var newPoints int
	switch operation {
	case LoyaltyOpAdd:
		newPoints = user.LoyaltyPoints + points
	case LoyaltyOpSubtract:
		newPoints = user.LoyaltyPoints - points
		if newPoints < 0 {
			newPoints = 0
		}
	case LoyaltyOpSet:
		newPoints = points
	default:
		return LoyaltyState{}, fmt.Errorf("invalid loyalty operation %q", operation)
	}

	tier := models.TierForSpend(user.TotalSpent)
	update := bson.M{"$set": bson.M{
		"loyaltyPoints": newPoints,
		"loyaltyTier":   tier,
		"updatedAt":     time.Now(),
	}}
	if err := updateOneByID(ctx, r.collection, id, update, ErrUserNotFound); err != nil {
		return LoyaltyState{}, err
	}
	return LoyaltyState{Points: newPoints, Tier: tier}, nil
}
