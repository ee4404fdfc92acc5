package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"greenfields-backend/internal/models"
	"greenfields-backend/internal/store"
)

type ProductRepository struct {
	collection store.Collection
}

func NewProductRepository(collection store.Collection) *ProductRepository {
	return &ProductRepository{collection: collection}
}

// ProductFilter narrows FindAll. Zero values mean "no constraint".
type ProductFilter struct {
	Category string
	Search   string
	InStock  bool
	MinPrice *float64
	MaxPrice *float64
}

// Create inserts a new product with a generated id, timestamps, and zeroed
// sales stats.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	product.OID = primitive.NewObjectID()
	if product.ID == "" {
		product.ID = product.OID.Hex()
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	product.Sales = 0
	product.Views = 0
	product.Rating = 0
	product.ReviewCount = 0
	product.InStock = product.Stock > 0

	_, err := r.collection.InsertOne(ctx, product)
	return err
}

// FindAll lists products matching the filter, newest first. There is no
// pagination; the storefront loads the whole catalog.
func (r *ProductRepository) FindAll(ctx context.Context, filter ProductFilter) ([]*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.Category != "" && filter.Category != "all" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		re := bson.M{"$regex": filter.Search, "$options": "i"}
		query["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
			bson.M{"category": re},
		}
	}
	if filter.InStock {
		query["stock"] = bson.M{"$gt": 0}
	}
	price := bson.M{}
	if filter.MinPrice != nil {
		price["$gte"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		price["$lte"] = *filter.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}

	opts := &store.FindOptions{Sort: bson.D{{Key: "createdAt", Value: -1}}}
	var products []*models.Product
	if err := r.collection.Find(ctx, query, opts, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FindByID looks a product up by logical id, falling back to the native _id.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var product models.Product
	if err := findOneByID(ctx, r.collection, id, &product, ErrProductNotFound); err != nil {
		return nil, err
	}
	return &product, nil
}

// Update applies a partial field update.
func (r *ProductRepository) Update(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update["updatedAt"] = time.Now()
	return updateOneByID(ctx, r.collection, id, bson.M{"$set": update}, ErrProductNotFound)
}

// Delete removes a product. The existence check runs first so a missing
// product reports ErrProductNotFound rather than a silent no-op.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return deleteOneByID(ctx, r.collection, id, ErrProductNotFound)
}

// DecrementStock records a sale of quantity units: stock drops (clamped at
// zero), inStock follows the new stock, and sales increases by quantity in
// the same write. The read and the write are not serialized against
// concurrent callers, so simultaneous decrements can both observe the old
// stock and oversell.
func (r *ProductRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	product, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	newStock := product.Stock - quantity
	if newStock < 0 {
		newStock = 0
	}
	update := bson.M{
		"$set": bson.M{
			"stock":     newStock,
			"inStock":   newStock > 0,
			"updatedAt": time.Now(),
		},
		"$inc": bson.M{"sales": quantity},
	}
	return updateOneByID(ctx, r.collection, id, update, ErrProductNotFound)
}

// FindTopSelling returns the n best sellers.
func (r *ProductRepository) FindTopSelling(ctx context.Context, n int64) ([]*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := &store.FindOptions{Sort: bson.D{{Key: "sales", Value: -1}}, Limit: n}
	var products []*models.Product
	if err := r.collection.Find(ctx, bson.M{}, opts, &products); err != nil {
		return nil, err
	}
	return products, nil
}
