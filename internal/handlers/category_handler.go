package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"greenfields-backend/internal/models"
	"greenfields-backend/internal/repository"
)

type CategoryHandler struct {
	repo *repository.CategoryRepository
}

func NewCategoryHandler(repo *repository.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{repo: repo}
}

// List GET /api/categories
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.repo.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list categories")
		return
	}
	respondOK(c, http.StatusOK, categories)
}

// Create POST /api/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.repo.Create(c.Request.Context(), &category); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create category")
		return
	}
	respondOK(c, http.StatusCreated, category)
}
