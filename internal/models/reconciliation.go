package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reconciliation states.
const (
	ReconciliationPending  = "pending"
	ReconciliationResolved = "resolved"
)

// Reconciliation records a post-order side effect that failed (user stats,
// loyalty accrual, stock decrement) so it can be replayed later instead of
// being lost. Order creation itself never fails on these.
type Reconciliation struct {
	OID       primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	OrderID   string             `json:"orderId" bson:"orderId"`
	Step      string             `json:"step" bson:"step"`
	Payload   bson.M             `json:"payload" bson:"payload"`
	Error     string             `json:"error" bson:"error"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
