package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses written by the admin UI. The set is open: updateOrderStatus
// accepts any string, these are just the values the storefront shows.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// OrderCustomer identifies who placed an order. ID is empty for guest
// checkouts.
type OrderCustomer struct {
	ID    string `json:"id,omitempty" bson:"id,omitempty"`
	Email string `json:"email" bson:"email" binding:"required,email"`
	Name  string `json:"name" bson:"name"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ProductID string  `json:"productId" bson:"productId"`
	Name      string  `json:"name" bson:"name"`
	Weight    string  `json:"weight,omitempty" bson:"weight,omitempty"`
	Quantity  int     `json:"quantity" bson:"quantity" binding:"required,min=1"`
	Price     float64 `json:"price" bson:"price"`
}

// Address is a shipping destination.
type Address struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	Zip     string `json:"zip" bson:"zip"`
	Country string `json:"country" bson:"country"`
}

// Order is a placed checkout. The id is "GF" + epoch millis + a 4-char
// random suffix and doubles as the customer-facing order number.
type Order struct {
	OID             primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	ID              string             `json:"id" bson:"id"`
	Customer        OrderCustomer      `json:"customer" bson:"customer" binding:"required"`
	Items           []OrderItem        `json:"items" bson:"items" binding:"required,min=1,dive"`
	Subtotal        float64            `json:"subtotal" bson:"subtotal"`
	Shipping        float64            `json:"shipping" bson:"shipping"`
	Tax             float64            `json:"tax" bson:"tax"`
	Discount        float64            `json:"discount" bson:"discount"`
	Total           float64            `json:"total" bson:"total" binding:"required"`
	Status          string             `json:"status" bson:"status"`
	PaymentStatus   string             `json:"paymentStatus" bson:"paymentStatus"`
	PaymentMethod   string             `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	ShippingAddress Address            `json:"shippingAddress" bson:"shippingAddress"`
	TrackingNumber  string             `json:"trackingNumber,omitempty" bson:"trackingNumber,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}
