package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"greenfields-backend/internal/repository"
)

type AnalyticsHandler struct {
	analytics *repository.AnalyticsRepository
	products  *repository.ProductRepository
}

func NewAnalyticsHandler(analytics *repository.AnalyticsRepository, products *repository.ProductRepository) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, products: products}
}

// Dashboard GET /api/analytics/dashboard
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	stats, err := h.analytics.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load dashboard stats")
		return
	}
	respondOK(c, http.StatusOK, stats)
}

// Sales GET /api/analytics/sales?period=7d|30d|90d|1y
func (h *AnalyticsHandler) Sales(c *gin.Context) {
	buckets, err := h.analytics.SalesByPeriod(c.Request.Context(), c.DefaultQuery("period", "30d"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load sales data")
		return
	}
	respondOK(c, http.StatusOK, buckets)
}

// TopProducts GET /api/analytics/top-products?limit=
func (h *AnalyticsHandler) TopProducts(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "5"), 10, 64)
	if err != nil || limit <= 0 {
		limit = 5
	}

	products, err := h.products.FindTopSelling(c.Request.Context(), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load top products")
		return
	}
	respondOK(c, http.StatusOK, products)
}

// Categories GET /api/analytics/categories
func (h *AnalyticsHandler) Categories(c *gin.Context) {
	stats, err := h.analytics.CategoryStats(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load category stats")
		return
	}
	respondOK(c, http.StatusOK, stats)
}
