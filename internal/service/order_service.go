// Package service holds the flows that span more than one repository.
package service

import (
	"context"
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"greenfields-backend/internal/models"
	"greenfields-backend/internal/repository"
)

// pointsPerDollar is the loyalty accrual rate on order totals.
const pointsPerDollar = 10

// Side-effect step names recorded on reconciliation records.
const (
	StepCustomerStats  = "customer-stats"
	StepLoyaltyAccrual = "loyalty-accrual"
	StepStockDecrement = "stock-decrement"
)

// OrderService creates orders and runs their side effects. The order insert
// is the only hard-failure point: the customer-stat, loyalty, and stock
// updates that follow are best-effort, each in its own error boundary, so a
// broken account or catalog record never fails a checkout.
type OrderService struct {
	orders   *repository.OrderRepository
	users    *repository.UserRepository
	products *repository.ProductRepository
	recon    *repository.ReconciliationRepository
	log      *zap.Logger
}

func NewOrderService(
	orders *repository.OrderRepository,
	users *repository.UserRepository,
	products *repository.ProductRepository,
	recon *repository.ReconciliationRepository,
	log *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:   orders,
		users:    users,
		products: products,
		recon:    recon,
		log:      log,
	}
}

// CreateOrder persists the order, then applies the accounting side effects.
// The returned order is created even when every side effect fails.
func (s *OrderService) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	s.applySideEffects(ctx, order)
	return order, nil
}

func (s *OrderService) applySideEffects(ctx context.Context, order *models.Order) {
	if order.Customer.ID != "" {
		update := bson.M{"$inc": bson.M{
			"totalOrders": 1,
			"totalSpent":  order.Total,
		}}
		if err := s.users.Update(ctx, order.Customer.ID, update); err != nil {
			s.recordFailure(ctx, order.ID, StepCustomerStats, bson.M{
				"customerId": order.Customer.ID,
				"total":      order.Total,
			}, err)
		}

		pointsEarned := int(math.Floor(order.Total * pointsPerDollar))
		if _, err := s.users.UpdateLoyaltyPoints(ctx, order.Customer.ID, pointsEarned, repository.LoyaltyOpAdd); err != nil {
			s.recordFailure(ctx, order.ID, StepLoyaltyAccrual, bson.M{
				"customerId": order.Customer.ID,
				"points":     pointsEarned,
			}, err)
		}
	}

	for _, item := range order.Items {
		if item.ProductID == "" {
			continue
		}
		if err := s.products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.recordFailure(ctx, order.ID, StepStockDecrement, bson.M{
				"productId": item.ProductID,
				"quantity":  item.Quantity,
			}, err)
		}
	}
}

// recordFailure logs a failed side effect and persists it for later replay.
// Recording is itself best-effort.
func (s *OrderService) recordFailure(ctx context.Context, orderID, step string, payload bson.M, cause error) {
	s.log.Warn("order side effect failed",
		zap.String("orderId", orderID),
		zap.String("step", step),
		zap.Error(cause),
	)
	rec := &models.Reconciliation{
		OrderID: orderID,
		Step:    step,
		Payload: payload,
		Error:   cause.Error(),
	}
	if err := s.recon.Create(ctx, rec); err != nil {
		s.log.Error("failed to persist reconciliation record",
			zap.String("orderId", orderID),
			zap.String("step", step),
			zap.Error(err),
		)
	}
}
