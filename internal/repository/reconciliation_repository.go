package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"greenfields-backend/internal/models"
	"greenfields-backend/internal/store"
)

// ReconciliationRepository stores failed post-order side effects so they can
// be replayed instead of silently lost.
type ReconciliationRepository struct {
	collection store.Collection
}

func NewReconciliationRepository(collection store.Collection) *ReconciliationRepository {
	return &ReconciliationRepository{collection: collection}
}

func (r *ReconciliationRepository) Create(ctx context.Context, rec *models.Reconciliation) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rec.OID = primitive.NewObjectID()
	rec.Status = models.ReconciliationPending
	rec.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, rec)
	return err
}

// ListPending returns unresolved records, oldest first.
func (r *ReconciliationRepository) ListPending(ctx context.Context) ([]*models.Reconciliation, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := &store.FindOptions{Sort: bson.D{{Key: "createdAt", Value: 1}}}
	var recs []*models.Reconciliation
	filter := bson.M{"status": models.ReconciliationPending}
	if err := r.collection.Find(ctx, filter, opts, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}
