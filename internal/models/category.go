package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category groups catalog products for browsing.
type Category struct {
	OID         primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	ID          string             `json:"id" bson:"id"`
	Name        string             `json:"name" bson:"name" binding:"required"`
	Slug        string             `json:"slug" bson:"slug"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Image       string             `json:"image,omitempty" bson:"image,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}
