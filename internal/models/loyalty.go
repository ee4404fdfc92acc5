package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// LoyaltyTier is one reward level. Tiers are a small ordered list keyed by
// ascending point threshold, not a singleton settings document.
type LoyaltyTier struct {
	OID        primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Name       string             `json:"name" bson:"name" binding:"required"`
	MinPoints  int                `json:"minPoints" bson:"minPoints"`
	Multiplier float64            `json:"multiplier" bson:"multiplier"`
	Discount   float64            `json:"discount" bson:"discount"`
	Perks      []string           `json:"perks,omitempty" bson:"perks,omitempty"`
}
