package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Settings type discriminators. One document exists per type, lazily created
// with defaults on first read.
const (
	SettingsTypeGeneral  = "general"
	SettingsTypeShipping = "shipping"
	SettingsTypePayment  = "payment"
	SettingsTypeLoyalty  = "loyalty"
)

type GeneralSettings struct {
	OID        primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Type       string             `json:"type" bson:"type"`
	StoreName  string             `json:"storeName" bson:"storeName"`
	StoreEmail string             `json:"storeEmail" bson:"storeEmail"`
	Currency   string             `json:"currency" bson:"currency"`
	TaxRate    float64            `json:"taxRate" bson:"taxRate"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type ShippingSettings struct {
	OID              primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Type             string             `json:"type" bson:"type"`
	FlatRate         float64            `json:"flatRate" bson:"flatRate"`
	ExpressRate      float64            `json:"expressRate" bson:"expressRate"`
	FreeShippingOver float64            `json:"freeShippingOver" bson:"freeShippingOver"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type PaymentSettings struct {
	OID             primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Type            string             `json:"type" bson:"type"`
	AcceptedMethods []string           `json:"acceptedMethods" bson:"acceptedMethods"`
	CashOnDelivery  bool               `json:"cashOnDelivery" bson:"cashOnDelivery"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type LoyaltySettings struct {
	OID             primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Type            string             `json:"type" bson:"type"`
	Enabled         bool               `json:"enabled" bson:"enabled"`
	PointsPerDollar float64            `json:"pointsPerDollar" bson:"pointsPerDollar"`
	RedemptionRate  float64            `json:"redemptionRate" bson:"redemptionRate"`
	WelcomeBonus    int                `json:"welcomeBonus" bson:"welcomeBonus"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}
