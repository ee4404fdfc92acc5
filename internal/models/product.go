package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeightPrice is one entry of a product's per-weight price list.
type WeightPrice struct {
	Weight string  `json:"weight" bson:"weight"`
	Price  float64 `json:"price" bson:"price"`
}

// Product is a catalog item. Documents carry both the native _id and a
// logical string id; older seed data only has the former, which is why
// lookups fall back to _id.
type Product struct {
	OID           primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	ID            string             `json:"id" bson:"id"`
	Name          string             `json:"name" bson:"name" binding:"required"`
	Description   string             `json:"description" bson:"description"`
	Category      string             `json:"category" bson:"category" binding:"required"`
	Price         float64            `json:"price" bson:"price"`
	WeightPricing []WeightPrice      `json:"weightPricing,omitempty" bson:"weightPricing,omitempty"`
	Stock         int                `json:"stock" bson:"stock"`
	InStock       bool               `json:"inStock" bson:"inStock"`
	Featured      bool               `json:"featured" bson:"featured"`
	Images        []string           `json:"images,omitempty" bson:"images,omitempty"`
	Sales         int                `json:"sales" bson:"sales"`
	Views         int                `json:"views" bson:"views"`
	Rating        float64            `json:"rating" bson:"rating"`
	ReviewCount   int                `json:"reviewCount" bson:"reviewCount"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}
