package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/meenakshirnair/Calcount/services"
)

// FoodController answers estimation lookups that do not create entries.
type FoodController struct {
	estimator services.NutritionEstimator
	log       *zap.Logger
}

func NewFoodController(estimator services.NutritionEstimator, log *zap.Logger) *FoodController {
	return &FoodController{estimator: estimator, log: log}
}

type estimateRequest struct {
	Description string  `json:"description" binding:"required"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
}

// Estimate handles POST /api/food/estimate. An explicit request for numbers
// fails loudly when the estimator is down.
func (h *FoodController) Estimate(c *gin.Context) {
	var req estimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	desc := req.Description
	if req.Quantity > 0 {
		unit := req.Unit
		if unit == "" {
			unit = "serving"
		}
		desc = fmt.Sprintf("%g %s of %s", req.Quantity, unit, req.Description)
	}

	est, err := h.estimator.EstimateDescription(c.Request.Context(), desc)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, est)
}

// Suggest handles GET /api/food/suggest?q=. This backs live typing, so an
// estimator outage degrades to a zeroed estimate the user can fill in by
// hand instead of an error.
func (h *FoodController) Suggest(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'q' query parameter"})
		return
	}

	est, err := h.estimator.EstimateDescription(c.Request.Context(), q)
	if err != nil {
		h.log.Warn("suggestion estimate failed", zap.String("query", q), zap.Error(err))
		c.JSON(http.StatusOK, services.ZeroEstimate(q))
		return
	}
	c.JSON(http.StatusOK, est)
}
