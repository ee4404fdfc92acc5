package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"greenfields-backend/internal/middleware"
	"greenfields-backend/internal/models"
	"greenfields-backend/internal/repository"
	"greenfields-backend/internal/service"
)

type OrderHandler struct {
	orders *service.OrderService
	repo   *repository.OrderRepository
	recon  *repository.ReconciliationRepository
}

func NewOrderHandler(orders *service.OrderService, repo *repository.OrderRepository, recon *repository.ReconciliationRepository) *OrderHandler {
	return &OrderHandler{orders: orders, repo: repo, recon: recon}
}

// Create POST /api/orders is the checkout endpoint.
func (h *OrderHandler) Create(c *gin.Context) {
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.orders.CreateOrder(c.Request.Context(), &order)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create order")
		return
	}
	respondOK(c, http.StatusCreated, created)
}

// List GET /api/orders
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.repo.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list orders")
		return
	}
	respondOK(c, http.StatusOK, orders)
}

// ListMine GET /api/orders/my lists the authenticated customer's history.
func (h *OrderHandler) ListMine(c *gin.Context) {
	orders, err := h.repo.FindByCustomer(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list orders")
		return
	}
	respondOK(c, http.StatusOK, orders)
}

// Get GET /api/orders/:id
// Customers can only read their own orders. Someone else's order is reported
// as not found, so order ids cannot be enumerated with a customer token.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.repo.FindByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrOrderNotFound) {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get order")
		return
	}
	if c.GetString(middleware.ContextRole) != models.RoleAdmin && order.Customer.ID != c.GetString(middleware.ContextUserID) {
		respondError(c, http.StatusNotFound, repository.ErrOrderNotFound.Error())
		return
	}
	respondOK(c, http.StatusOK, order)
}

type statusRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"trackingNumber"`
}

// UpdateStatus PUT /api/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	err := h.repo.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, req.TrackingNumber)
	if errors.Is(err, repository.ErrOrderNotFound) {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update order status")
		return
	}

	order, err := h.repo.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get order")
		return
	}
	respondOK(c, http.StatusOK, order)
}

// Track GET /api/orders/track?orderNumber=&email= is guest order tracking.
// Both parameters must match the stored order.
func (h *OrderHandler) Track(c *gin.Context) {
	number := c.Query("orderNumber")
	email := c.Query("email")
	if number == "" || email == "" {
		respondError(c, http.StatusBadRequest, "orderNumber and email are required")
		return
	}

	order, err := h.repo.FindByNumberAndEmail(c.Request.Context(), number, email)
	if errors.Is(err, repository.ErrOrderNotFound) {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to track order")
		return
	}
	respondOK(c, http.StatusOK, order)
}

// ListReconciliations GET /api/orders/reconciliations returns side-effect
// failures awaiting replay.
func (h *OrderHandler) ListReconciliations(c *gin.Context) {
	recs, err := h.recon.ListPending(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list reconciliations")
		return
	}
	respondOK(c, http.StatusOK, recs)
}
