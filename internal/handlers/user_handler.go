package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"greenfields-backend/internal/repository"
)

type UserHandler struct {
	repo *repository.UserRepository
}

func NewUserHandler(repo *repository.UserRepository) *UserHandler {
	return &UserHandler{repo: repo}
}

// List GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	if email := c.Query("email"); email != "" {
		user, err := h.repo.FindByEmail(c.Request.Context(), email)
		if errors.Is(err, repository.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		if err != nil {
			respondError(c, http.StatusInternalServerError, "failed to get user")
			return
		}
		respondOK(c, http.StatusOK, user)
		return
	}

	users, err := h.repo.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list users")
		return
	}
	respondOK(c, http.StatusOK, users)
}

// Get GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.repo.FindByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrUserNotFound) {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get user")
		return
	}
	respondOK(c, http.StatusOK, user)
}

// Update PUT /api/users/:id
// The body is passed to the repository as-is, so admin tooling can send
// either plain fields or update-operator payloads.
func (h *UserHandler) Update(c *gin.Context) {
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
	if errors.Is(err, repository.ErrUserNotFound) {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update user")
		return
	}

	user, err := h.repo.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get user")
		return
	}
	respondOK(c, http.StatusOK, user)
}

type loyaltyRequest struct {
	Points    int    `json:"points"`
	Operation string `json:"operation" binding:"required,oneof=add subtract set"`
}

// UpdateLoyalty POST /api/users/:id/loyalty
func (h *UserHandler) UpdateLoyalty(c *gin.Context) {
	var req loyaltyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	state, err := h.repo.UpdateLoyaltyPoints(c.Request.Context(), c.Param("id"), req.Points, req.Operation)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update loyalty points")
		return
	}
	respondOK(c, http.StatusOK, state)
}
