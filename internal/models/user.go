package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Loyalty tiers, derived from lifetime spend. TierNone marks accounts that
// are outside the loyalty program (admins).
const (
	TierNone     = "none"
	TierBronze   = "bronze"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
)

// Roles.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User is a storefront account. Emails are stored lower-cased and looked up
// case-insensitively.
type User struct {
	OID           primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	ID            string             `json:"id" bson:"id"`
	Email         string             `json:"email" bson:"email"`
	Name          string             `json:"name" bson:"name"`
	Phone         string             `json:"phone,omitempty" bson:"phone,omitempty"`
	PasswordHash  string             `json:"-" bson:"passwordHash"`
	Role          string             `json:"role" bson:"role"`
	LoyaltyPoints int                `json:"loyaltyPoints" bson:"loyaltyPoints"`
	LoyaltyTier   string             `json:"loyaltyTier" bson:"loyaltyTier"`
	TotalOrders   int                `json:"totalOrders" bson:"totalOrders"`
	TotalSpent    float64            `json:"totalSpent" bson:"totalSpent"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// TierForSpend maps lifetime spend to a loyalty tier. The tier is a pure
// function of totalSpent, not of the current point balance.
func TierForSpend(totalSpent float64) string {
	switch {
	case totalSpent >= 10000:
		return TierPlatinum
	case totalSpent >= 5000:
		return TierGold
	case totalSpent >= 1000:
		return TierSilver
	default:
		return TierBronze
	}
}
