package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"greenfields-backend/internal/store"
)

// AnalyticsRepository serves the admin dashboard's derived views. It only
// reads; every result is computed from the live collections.
type AnalyticsRepository struct {
	products store.Collection
	users    store.Collection
	orders   store.Collection
}

func NewAnalyticsRepository(products, users, orders store.Collection) *AnalyticsRepository {
	return &AnalyticsRepository{products: products, users: users, orders: orders}
}

// DashboardStats are the headline totals. Revenue excludes cancelled orders.
type DashboardStats struct {
	Products int64   `json:"products"`
	Users    int64   `json:"users"`
	Orders   int64   `json:"orders"`
	Revenue  float64 `json:"revenue"`
}

// SalesBucket is one day of sales.
type SalesBucket struct {
	Date struct {
		Year  int `json:"year" bson:"year"`
		Month int `json:"month" bson:"month"`
		Day   int `json:"day" bson:"day"`
	} `json:"date" bson:"_id"`
	Revenue float64 `json:"revenue" bson:"revenue"`
	Orders  int     `json:"orders" bson:"orders"`
}

// CategoryStat is a per-category rollup over the catalog.
type CategoryStat struct {
	Category     string  `json:"category" bson:"_id"`
	Products     int     `json:"products" bson:"products"`
	Revenue      float64 `json:"revenue" bson:"revenue"`
	AveragePrice float64 `json:"averagePrice" bson:"averagePrice"`
}

func (r *AnalyticsRepository) Dashboard(ctx context.Context) (*DashboardStats, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	stats := &DashboardStats{}
	var err error
	if stats.Products, err = r.products.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, err
	}
	if stats.Users, err = r.users.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, err
	}
	if stats.Orders, err = r.orders.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, err
	}

	pipeline := bson.A{
		bson.M{"$match": bson.M{"status": bson.M{"$ne": "cancelled"}}},
		bson.M{"$group": bson.M{"_id": nil, "revenue": bson.M{"$sum": "$total"}}},
	}
	var totals []struct {
		Revenue float64 `bson:"revenue"`
	}
	if err := r.orders.Aggregate(ctx, pipeline, &totals); err != nil {
		return nil, err
	}
	if len(totals) > 0 {
		stats.Revenue = totals[0].Revenue
	}
	return stats, nil
}

// periodDays maps the dashboard's trailing-window selector to days.
func periodDays(period string) int {
	switch period {
	case "7d":
		return 7
	case "90d":
		return 90
	case "1y":
		return 365
	default:
		return 30
	}
}

// SalesByPeriod buckets non-cancelled order revenue by calendar day over the
// selected trailing window.
func (r *AnalyticsRepository) SalesByPeriod(ctx context.Context, period string) ([]SalesBucket, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	start := time.Now().AddDate(0, 0, -periodDays(period))
	pipeline := bson.A{
		bson.M{"$match": bson.M{
			"createdAt": bson.M{"$gte": start},
			"status":    bson.M{"$ne": "cancelled"},
		}},
		bson.M{"$group": bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$createdAt"},
				"month": bson.M{"$month": "$createdAt"},
				"day":   bson.M{"$dayOfMonth": "$createdAt"},
			},
			"revenue": bson.M{"$sum": "$total"},
			"orders":  bson.M{"$sum": 1},
		}},
		bson.M{"$sort": bson.D{
			{Key: "_id.year", Value: 1},
			{Key: "_id.month", Value: 1},
			{Key: "_id.day", Value: 1},
		}},
	}

	var buckets []SalesBucket
	if err := r.orders.Aggregate(ctx, pipeline, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

// CategoryStats rolls the catalog up per category: realized revenue
// (price times units sold), average price, and product count.
func (r *AnalyticsRepository) CategoryStats(ctx context.Context) ([]CategoryStat, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := bson.A{
		bson.M{"$group": bson.M{
			"_id":          "$category",
			"revenue":      bson.M{"$sum": bson.M{"$multiply": bson.A{"$price", "$sales"}}},
			"averagePrice": bson.M{"$avg": "$price"},
			"products":     bson.M{"$sum": 1},
		}},
		bson.M{"$sort": bson.D{{Key: "revenue", Value: -1}}},
	}

	var stats []CategoryStat
	if err := r.products.Aggregate(ctx, pipeline, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}
