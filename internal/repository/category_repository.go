package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"greenfields-backend/internal/models"
	"greenfields-backend/internal/store"
)

type CategoryRepository struct {
	collection store.Collection
}

func NewCategoryRepository(collection store.Collection) *CategoryRepository {
	return &CategoryRepository{collection: collection}
}

// Create inserts a category, deriving the slug from the name when empty.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	category.OID = primitive.NewObjectID()
	if category.ID == "" {
		category.ID = category.OID.Hex()
	}
	if category.Slug == "" {
		category.Slug = Slugify(category.Name)
	}
	category.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, category)
	return err
}

func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := &store.FindOptions{Sort: bson.D{{Key: "name", Value: 1}}}
	var categories []models.Category
	if err := r.collection.Find(ctx, bson.M{}, opts, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// FindBySlug returns nil without an error when the slug is absent; the
// bootstrap uses it as an existence check.
func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var category models.Category
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}, &category)
	if errors.Is(err, store.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Slugify lowercases a name and joins words with hyphens.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), "-")
}
