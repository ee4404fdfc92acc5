package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"greenfields-backend/internal/models"
	"greenfields-backend/internal/repository"
)

type LoyaltyHandler struct {
	settings *repository.SettingsRepository
	tiers    *repository.LoyaltyTierRepository
}

func NewLoyaltyHandler(settings *repository.SettingsRepository, tiers *repository.LoyaltyTierRepository) *LoyaltyHandler {
	return &LoyaltyHandler{settings: settings, tiers: tiers}
}

// GetSettings GET /api/loyalty/settings
func (h *LoyaltyHandler) GetSettings(c *gin.Context) {
	settings, err := h.settings.GetLoyalty(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get loyalty settings")
		return
	}
	respondOK(c, http.StatusOK, settings)
}

// UpdateSettings PUT /api/loyalty/settings
func (h *LoyaltyHandler) UpdateSettings(c *gin.Context) {
	var updates bson.M
	if err := c.ShouldBindJSON(&updates); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	settings, err := h.settings.UpdateLoyalty(c.Request.Context(), updates)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update loyalty settings")
		return
	}
	respondOK(c, http.StatusOK, settings)
}

// GetTiers GET /api/loyalty/tiers
func (h *LoyaltyHandler) GetTiers(c *gin.Context) {
	tiers, err := h.tiers.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get loyalty tiers")
		return
	}
	respondOK(c, http.StatusOK, tiers)
}

type tiersRequest struct {
	Tiers []models.LoyaltyTier `json:"tiers" binding:"required,min=1,dive"`
}

// UpdateTiers PUT /api/loyalty/tiers replaces the whole list.
func (h *LoyaltyHandler) UpdateTiers(c *gin.Context) {
	var req tiersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	tiers, err := h.tiers.Replace(c.Request.Context(), req.Tiers)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update loyalty tiers")
		return
	}
	respondOK(c, http.StatusOK, tiers)
}
