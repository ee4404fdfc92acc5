package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"greenfields-backend/internal/models"
	"greenfields-backend/internal/repository"
)

type ProductHandler struct {
	repo *repository.ProductRepository
}

func NewProductHandler(repo *repository.ProductRepository) *ProductHandler {
	return &ProductHandler{repo: repo}
}

// Create POST /api/products
func (h *ProductHandler) Create(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.repo.Create(c.Request.Context(), &product); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create product")
		return
	}
	respondOK(c, http.StatusCreated, product)
}

// List GET /api/products?category=&search=&inStock=&minPrice=&maxPrice=
func (h *ProductHandler) List(c *gin.Context) {
	filter := repository.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		InStock:  c.Query("inStock") == "true",
	}
	if v := c.Query("minPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &f
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &f
		}
	}

	products, err := h.repo.FindAll(c.Request.Context(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list products")
		return
	}
	respondOK(c, http.StatusOK, products)
}

// Get GET /api/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.repo.FindByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrProductNotFound) {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get product")
		return
	}
	respondOK(c, http.StatusOK, product)
}

// Update PUT /api/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	var update bson.M
	if err := c.ShouldBindJSON(&update); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if len(update) == 0 {
		respondError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	err := h.repo.Update(c.Request.Context(), c.Param("id"), update)
	if errors.Is(err, repository.ErrProductNotFound) {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update product")
		return
	}

	product, err := h.repo.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get product")
		return
	}
	respondOK(c, http.StatusOK, product)
}

// Delete DELETE /api/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	err := h.repo.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrProductNotFound) {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete product")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"deleted": true})
}
