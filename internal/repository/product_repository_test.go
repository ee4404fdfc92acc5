package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"greenfields-backend/internal/models"
	"greenfields-backend/internal/store"
)

func newProductRepo() (*ProductRepository, *store.MemoryCollection) {
	coll := store.NewMemory()
	return NewProductRepository(coll), coll
}

func createProduct(t *testing.T, repo *ProductRepository, p models.Product) *models.Product {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &p))
	return &p
}

func TestProductCreateDefaults(t *testing.T) {
	repo, _ := newProductRepo()
	p := createProduct(t, repo, models.Product{Name: "OG Kush", Category: "flower", Price: 45, Stock: 10, Sales: 99})

	assert.NotEmpty(t, p.ID)
	assert.False(t, p.OID.IsZero())
	assert.Zero(t, p.Sales, "sales stats start at zero regardless of input")
	assert.Zero(t, p.Views)
	assert.True(t, p.InStock)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestProductFindAllFilters(t *testing.T) {
	repo, _ := newProductRepo()
	ctx := context.Background()
	createProduct(t, repo, models.Product{Name: "OG Kush", Description: "earthy indica", Category: "flower", Price: 45, Stock: 10})
	createProduct(t, repo, models.Product{Name: "Gummy Bears", Description: "sweet treats", Category: "edibles", Price: 20, Stock: 0})
	createProduct(t, repo, models.Product{Name: "Live Resin", Description: "potent extract", Category: "concentrates", Price: 60, Stock: 3})

	byCategory, err := repo.FindAll(ctx, ProductFilter{Category: "flower"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "OG Kush", byCategory[0].Name)

	// Case-insensitive search spans name, description, and category.
	bySearch, err := repo.FindAll(ctx, ProductFilter{Search: "KUSH"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	byDesc, err := repo.FindAll(ctx, ProductFilter{Search: "sweet"})
	require.NoError(t, err)
	require.Len(t, byDesc, 1)
	assert.Equal(t, "Gummy Bears", byDesc[0].Name)

	inStock, err := repo.FindAll(ctx, ProductFilter{InStock: true})
	require.NoError(t, err)
	assert.Len(t, inStock, 2)

	min, max := 30.0, 50.0
	priced, err := repo.FindAll(ctx, ProductFilter{MinPrice: &min, MaxPrice: &max})
	require.NoError(t, err)
	require.Len(t, priced, 1)
	assert.Equal(t, "OG Kush", priced[0].Name)

	all, err := repo.FindAll(ctx, ProductFilter{Category: "all"})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestProductDualIdentifierLookup(t *testing.T) {
	repo, coll := newProductRepo()
	ctx := context.Background()

	// Records created through the repository carry a logical id.
	p := createProduct(t, repo, models.Product{Name: "OG Kush", Category: "flower", Stock: 5})
	byLogical, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, byLogical.Name)

	// Legacy seed records only have the native _id; lookups must fall back.
	legacyID := primitive.NewObjectID()
	_, err = coll.InsertOne(ctx, bson.M{"_id": legacyID, "name": "Legacy Haze", "category": "flower", "stock": 2})
	require.NoError(t, err)

	legacy, err := repo.FindByID(ctx, legacyID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Legacy Haze", legacy.Name)

	_, err = repo.FindByID(ctx, "does-not-exist")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductUpdateAndDelete(t *testing.T) {
	repo, _ := newProductRepo()
	ctx := context.Background()
	p := createProduct(t, repo, models.Product{Name: "OG Kush", Category: "flower", Stock: 5})

	require.NoError(t, repo.Update(ctx, p.ID, bson.M{"price": 55.0}))
	updated, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 55.0, updated.Price)

	assert.ErrorIs(t, repo.Update(ctx, "missing", bson.M{"price": 1.0}), ErrProductNotFound)

	require.NoError(t, repo.Delete(ctx, p.ID))
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), ErrProductNotFound)
}

func TestProductDecrementStock(t *testing.T) {
	repo, _ := newProductRepo()
	ctx := context.Background()
	p := createProduct(t, repo, models.Product{Name: "X", Category: "flower", Stock: 10})

	require.NoError(t, repo.DecrementStock(ctx, p.ID, 3))
	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Stock)
	assert.Equal(t, 3, got.Sales)
	assert.True(t, got.InStock)

	// Decrementing past zero clamps the stock but still counts the sale.
	require.NoError(t, repo.DecrementStock(ctx, p.ID, 20))
	got, err = repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
	assert.Equal(t, 23, got.Sales)
	assert.False(t, got.InStock)

	assert.ErrorIs(t, repo.DecrementStock(ctx, "missing", 1), ErrProductNotFound)
}

func TestProductFindTopSelling(t *testing.T) {
	repo, _ := newProductRepo()
	ctx := context.Background()
	a := createProduct(t, repo, models.Product{Name: "A", Category: "flower", Stock: 100})
	b := createProduct(t, repo, models.Product{Name: "B", Category: "flower", Stock: 100})
	createProduct(t, repo, models.Product{Name: "C", Category: "flower", Stock: 100})

	require.NoError(t, repo.DecrementStock(ctx, a.ID, 5))
	require.NoError(t, repo.DecrementStock(ctx, b.ID, 9))

	top, err := repo.FindTopSelling(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "B", top[0].Name)
	assert.Equal(t, "A", top[1].Name)
}
