package repository

import (
	"context"
	"crypto/rand"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"greenfields-backend/internal/models"
	"greenfields-backend/internal/store"
)

const orderIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewOrderID generates an order number: "GF" + epoch millis + 4 random
// characters. Collisions are only possible within the same millisecond.
func NewOrderID() string {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand only fails when the OS entropy source is broken;
		// fall back to a fixed suffix rather than dropping the order.
		copy(suffix, "0000")
	} else {
		for i := range suffix {
			suffix[i] = orderIDAlphabet[int(suffix[i])%len(orderIDAlphabet)]
		}
	}
	return "GF" + strconv.FormatInt(time.Now().UnixMilli(), 10) + string(suffix)
}

type OrderRepository struct {
	collection store.Collection
}

func NewOrderRepository(collection store.Collection) *OrderRepository {
	return &OrderRepository{collection: collection}
}

// Create inserts an order with a fresh order number and pending statuses.
// Side effects on the customer and the catalog are the order service's job.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	order.OID = primitive.NewObjectID()
	order.ID = NewOrderID()
	order.Status = models.OrderStatusPending
	order.PaymentStatus = "pending"
	order.Customer.Email = strings.ToLower(strings.TrimSpace(order.Customer.Email))
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, order)
	return err
}

// FindAll lists orders, newest first.
func (r *OrderRepository) FindAll(ctx context.Context) ([]*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := &store.FindOptions{Sort: bson.D{{Key: "createdAt", Value: -1}}}
	var orders []*models.Order
	if err := r.collection.Find(ctx, bson.M{}, opts, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByID looks an order up by order number, falling back to the native _id.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var order models.Order
	if err := findOneByID(ctx, r.collection, id, &order, ErrOrderNotFound); err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByCustomer lists a customer's order history, newest first.
func (r *OrderRepository) FindByCustomer(ctx context.Context, customerID string) ([]*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := &store.FindOptions{Sort: bson.D{{Key: "createdAt", Value: -1}}}
	var orders []*models.Order
	if err := r.collection.Find(ctx, bson.M{"customer.id": customerID}, opts, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByNumberAndEmail is the guest tracking lookup. Both the order number
// and the customer email must match, so an order number alone cannot be
// enumerated.
func (r *OrderRepository) FindByNumberAndEmail(ctx context.Context, number, email string) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	filter := bson.M{
		"id":             number,
		"customer.email": strings.ToLower(strings.TrimSpace(email)),
	}
	var order models.Order
	err := r.collection.FindOne(ctx, filter, &order)
	if errors.Is(err, store.ErrNoDocuments) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus overwrites the order status, plus the tracking number when
// given. Any status string is accepted; there is no transition check.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id, status, trackingNumber string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{
		"status":    status,
		"updatedAt": time.Now(),
	}
	if trackingNumber != "" {
		set["trackingNumber"] = trackingNumber
	}
	return updateOneByID(ctx, r.collection, id, bson.M{"$set": set}, ErrOrderNotFound)
}
