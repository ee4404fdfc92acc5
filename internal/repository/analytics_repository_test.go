package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenfields-backend/internal/models"
	"greenfields-backend/internal/store"
)

func newAnalyticsFixture(t *testing.T) (*AnalyticsRepository, *ProductRepository, *UserRepository, *OrderRepository) {
	t.Helper()
	products := store.NewMemory()
	users := store.NewMemory()
	orders := store.NewMemory()
	return NewAnalyticsRepository(products, users, orders),
		NewProductRepository(products),
		NewUserRepository(users),
		NewOrderRepository(orders)
}

func TestDashboardExcludesCancelledRevenue(t *testing.T) {
	analytics, productRepo, userRepo, orderRepo := newAnalyticsFixture(t)
	ctx := context.Background()

	createProduct(t, productRepo, models.Product{Name: "A", Category: "flower", Stock: 10})
	u := models.User{Email: "jane@example.com"}
	require.NoError(t, userRepo.Create(ctx, &u))

	kept := sampleOrder()
	kept.Total = 100
	require.NoError(t, orderRepo.Create(ctx, &kept))
	cancelled := sampleOrder()
	cancelled.Total = 40
	require.NoError(t, orderRepo.Create(ctx, &cancelled))
	require.NoError(t, orderRepo.UpdateStatus(ctx, cancelled.ID, models.OrderStatusCancelled, ""))

	stats, err := analytics.Dashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Products)
	assert.EqualValues(t, 1, stats.Users)
	assert.EqualValues(t, 2, stats.Orders, "cancelled orders still count as orders")
	assert.Equal(t, 100.0, stats.Revenue, "cancelled orders contribute no revenue")
}

func TestSalesByPeriodBucketsByDay(t *testing.T) {
	analytics, _, _, orderRepo := newAnalyticsFixture(t)
	ctx := context.Background()

	for _, total := range []float64{100, 50} {
		o := sampleOrder()
		o.Total = total
		require.NoError(t, orderRepo.Create(ctx, &o))
	}
	cancelled := sampleOrder()
	cancelled.Total = 999
	require.NoError(t, orderRepo.Create(ctx, &cancelled))
	require.NoError(t, orderRepo.UpdateStatus(ctx, cancelled.ID, models.OrderStatusCancelled, ""))

	buckets, err := analytics.SalesByPeriod(ctx, "7d")
	require.NoError(t, err)
	require.Len(t, buckets, 1, "orders created now land in a single day bucket")
	assert.Equal(t, 150.0, buckets[0].Revenue)
	assert.Equal(t, 2, buckets[0].Orders)
	assert.NotZero(t, buckets[0].Date.Year)
}

func TestCategoryStats(t *testing.T) {
	analytics, productRepo, _, _ := newAnalyticsFixture(t)
	ctx := context.Background()

	a := createProduct(t, productRepo, models.Product{Name: "A", Category: "flower", Price: 40, Stock: 100})
	b := createProduct(t, productRepo, models.Product{Name: "B", Category: "flower", Price: 60, Stock: 100})
	c := createProduct(t, productRepo, models.Product{Name: "C", Category: "edibles", Price: 20, Stock: 100})
	require.NoError(t, productRepo.DecrementStock(ctx, a.ID, 2))
	require.NoError(t, productRepo.DecrementStock(ctx, b.ID, 1))
	require.NoError(t, productRepo.DecrementStock(ctx, c.ID, 5))

	stats, err := analytics.CategoryStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	// 40*2 + 60*1 = 140 beats 20*5 = 100.
	assert.Equal(t, "flower", stats[0].Category)
	assert.Equal(t, 140.0, stats[0].Revenue)
	assert.Equal(t, 50.0, stats[0].AveragePrice)
	assert.Equal(t, 2, stats[0].Products)
	assert.Equal(t, "edibles", stats[1].Category)
	assert.Equal(t, 100.0, stats[1].Revenue)
}

func TestPeriodDays(t *testing.T) {
	assert.Equal(t, 7, periodDays("7d"))
	assert.Equal(t, 30, periodDays("30d"))
	assert.Equal(t, 90, periodDays("90d"))
	assert.Equal(t, 365, periodDays("1y"))
	assert.Equal(t, 30, periodDays("nonsense"))
}

func TestDashboardEmptyStore(t *testing.T) {
	analytics := NewAnalyticsRepository(store.NewMemory(), store.NewMemory(), store.NewMemory())

	stats, err := analytics.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &DashboardStats{}, stats)

	buckets, err := analytics.SalesByPeriod(context.Background(), "30d")
	require.NoError(t, err)
	assert.Empty(t, buckets)
}
