package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meenakshirnair/Calcount/services"
)

type CustomFoodController struct {
	foods *services.CustomFoodService
}

func NewCustomFoodController(foods *services.CustomFoodService) *CustomFoodController {
	return &CustomFoodController{foods: foods}
}

type customFoodRequest struct {
	FoodName string  `json:"food_name" binding:"required"`
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Unit     string  `json:"unit"`
}

func (r customFoodRequest) toInput() services.CustomFoodInput {
	return services.CustomFoodInput{
		FoodName: r.FoodName,
		Calories: r.Calories,
		Protein:  r.Protein,
		Carbs:    r.Carbs,
		Fats:     r.Fats,
		Unit:     r.Unit,
	}
}

// Create handles POST /api/foods/custom.
func (h *CustomFoodController) Create(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req customFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	food, err := h.foods.Create(c.Request.Context(), userID, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, food)
}

// List handles GET /api/foods/custom, sorted by name.
func (h *CustomFoodController) List(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	foods, err := h.foods.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, foods)
}

// Update handles PUT /api/foods/custom/:id.
func (h *CustomFoodController) Update(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	foodID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid food id"})
		return
	}

	var req customFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	food, err := h.foods.Update(c.Request.Context(), userID, uint(foodID), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, food)
}

// Delete handles DELETE /api/foods/custom/:id, answering 204 even when the
// row was already gone.
func (h *CustomFoodController) Delete(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	foodID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid food id"})
		return
	}

	if err := h.foods.Delete(c.Request.Context(), userID, uint(foodID)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
