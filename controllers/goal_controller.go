package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meenakshirnair/Calcount/services"
)

type GoalController struct {
	goals *services.GoalService
}

func NewGoalController(goals *services.GoalService) *GoalController {
	return &GoalController{goals: goals}
}

// GetGoals handles GET /api/goals. Users who never saved goals get the
// defaults without a row being created.
func (h *GoalController) GetGoals(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	goals, err := h.goals.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goals)
}

type updateGoalsRequest struct {
	DailyCalories *int     `json:"daily_calories"`
	DailyProtein  *float64 `json:"daily_protein"`
	DailyCarbs    *float64 `json:"daily_carbs"`
	DailyFats     *float64 `json:"daily_fats"`
	Height        *float64 `json:"height"`
	Weight        *float64 `json:"weight"`
	Age           *int     `json:"age"`
	Gender        *string  `json:"gender"`
	ActivityLevel *string  `json:"activity_level"`
}

// UpdateGoals handles PUT /api/goals. Omitted fields keep their current
// values; saving a recommendation is just this endpoint called with the
// recommended numbers.
func (h *GoalController) UpdateGoals(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req updateGoalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	goals, err := h.goals.Update(c.Request.Context(), userID, services.GoalsPatch{
		DailyCalories: req.DailyCalories,
		DailyProtein:  req.DailyProtein,
		DailyCarbs:    req.DailyCarbs,
		DailyFats:     req.DailyFats,
		Height:        req.Height,
		Weight:        req.Weight,
		Age:           req.Age,
		Gender:        req.Gender,
		ActivityLevel: req.ActivityLevel,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goals)
}

type recommendationRequest struct {
	Height        *float64 `json:"height"`
	Weight        *float64 `json:"weight"`
	Age           *int     `json:"age"`
	Gender        *string  `json:"gender"`
	ActivityLevel *string  `json:"activity_level"`
	Goal          string   `json:"goal"` // lose | maintain | gain
}

// GetRecommendation handles POST /api/goals/recommendation. Fields omitted
// from the request fall back to the stored body profile; the result is
// display-only and persists nothing.
func (h *GoalController) GetRecommendation(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req recommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	stored, err := h.goals.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	in := services.PlanInput{Goal: req.Goal}
	switch {
	case req.Height != nil:
		in.HeightCm = *req.Height
	case stored.Height != nil:
		in.HeightCm = *stored.Height
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "height is required; pass it here or save it in your goals"})
		return
	}
	switch {
	case req.Weight != nil:
		in.WeightKg = *req.Weight
	case stored.Weight != nil:
		in.WeightKg = *stored.Weight
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "weight is required; pass it here or save it in your goals"})
		return
	}
	switch {
	case req.Age != nil:
		in.Age = *req.Age
	case stored.Age != nil:
		in.Age = *stored.Age
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "age is required; pass it here or save it in your goals"})
		return
	}
	if req.Gender != nil {
		in.Gender = *req.Gender
	} else if stored.Gender != nil {
		in.Gender = *stored.Gender
	}
	if req.ActivityLevel != nil {
		in.ActivityLevel = *req.ActivityLevel
	} else if stored.ActivityLevel != nil {
		in.ActivityLevel = *stored.ActivityLevel
	}

	plan, err := services.BuildMacroPlan(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}
