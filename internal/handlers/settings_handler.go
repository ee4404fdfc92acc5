package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"greenfields-backend/internal/models"
	"greenfields-backend/internal/repository"
)

type SettingsHandler struct {
	repo *repository.SettingsRepository
}

func NewSettingsHandler(repo *repository.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{repo: repo}
}

// Get GET /api/settings/:type
func (h *SettingsHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		data interface{}
		err  error
	)
	switch c.Param("type") {
	case models.SettingsTypeGeneral:
		data, err = h.repo.GetGeneral(ctx)
	case models.SettingsTypeShipping:
		data, err = h.repo.GetShipping(ctx)
	case models.SettingsTypePayment:
		data, err = h.repo.GetPayment(ctx)
	default:
		respondError(c, http.StatusBadRequest, "unknown settings type")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get settings")
		return
	}
	respondOK(c, http.StatusOK, data)
}

// Update PUT /api/settings/:type
func (h *SettingsHandler) Update(c *gin.Context) {
	var updates bson.M
	if err := c.ShouldBindJSON(&updates); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	var (
		data interface{}
		err  error
	)
	switch c.Param("type") {
	case models.SettingsTypeGeneral:
		data, err = h.repo.UpdateGeneral(ctx, updates)
	case models.SettingsTypeShipping:
		data, err = h.repo.UpdateShipping(ctx, updates)
	case models.SettingsTypePayment:
		data, err = h.repo.UpdatePayment(ctx, updates)
	default:
		respondError(c, http.StatusBadRequest, "unknown settings type")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update settings")
		return
	}
	respondOK(c, http.StatusOK, data)
}
