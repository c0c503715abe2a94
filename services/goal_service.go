package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/meenakshirnair/Calcount/models"
	"github.com/meenakshirnair/Calcount/utils"
)

// Bounds enforced on updateGoals.
const (
	MinDailyCalories = 500
	MaxDailyCalories = 10000
	MaxProteinTarget = 500
	MaxCarbsTarget   = 1000
	MaxFatsTarget    = 500
)

type GoalService struct {
	db *gorm.DB
}

func NewGoalService(db *gorm.DB) *GoalService {
	return &GoalService{db: db}
}

// Get returns the stored goals, or the defaults when the user never saved
// any. Reading never persists the defaults.
func (s *GoalService) Get(ctx context.Context, userID uint) (*models.UserGoals, error) {
	var goals models.UserGoals
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&goals).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := models.DefaultGoals(userID)
		return &defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return &goals, nil
}

// GoalsPatch is a partial update; nil fields keep their current value.
type GoalsPatch struct {
	DailyCalories *int
	DailyProtein  *float64
	DailyCarbs    *float64
	DailyFats     *float64
	Height        *float64
	Weight        *float64
	Age           *int
	Gender        *string
	ActivityLevel *string
}

// Update merges the patch over the stored row, creating the row from the
// defaults on first use.
func (s *GoalService) Update(ctx context.Context, userID uint, patch GoalsPatch) (*models.UserGoals, error) {
	if err := validateGoalsPatch(patch); err != nil {
		return nil, err
	}

	var goals models.UserGoals
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&goals).Error
	create := false
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		goals = models.DefaultGoals(userID)
		create = true
	case err != nil:
		return nil, err
	}

	if patch.DailyCalories != nil {
		goals.DailyCalories = *patch.DailyCalories
	}
	if patch.DailyProtein != nil {
		goals.DailyProtein = *patch.DailyProtein
	}
	if patch.DailyCarbs != nil {
		goals.DailyCarbs = *patch.DailyCarbs
	}
	if patch.DailyFats != nil {
		goals.DailyFats = *patch.DailyFats
	}
	if patch.Height != nil {
		goals.Height = patch.Height
	}
	if patch.Weight != nil {
		goals.Weight = patch.Weight
	}
	if patch.Age != nil {
		goals.Age = patch.Age
	}
	if patch.Gender != nil {
		goals.Gender = patch.Gender
	}
	if patch.ActivityLevel != nil {
		goals.ActivityLevel = patch.ActivityLevel
	}

	if create {
		err = s.db.WithContext(ctx).Create(&goals).Error
	} else {
		err = s.db.WithContext(ctx).Save(&goals).Error
	}
	if err != nil {
		return nil, err
	}
	return &goals, nil
}

func validateGoalsPatch(p GoalsPatch) error {
	if p.DailyCalories != nil && (*p.DailyCalories < MinDailyCalories || *p.DailyCalories > MaxDailyCalories) {
		return invalid("daily_calories", "must be between %d and %d", MinDailyCalories, MaxDailyCalories)
	}
	if p.DailyProtein != nil && (*p.DailyProtein < 0 || *p.DailyProtein > MaxProteinTarget) {
		return invalid("daily_protein", "must be between 0 and %d", MaxProteinTarget)
	}
	if p.DailyCarbs != nil && (*p.DailyCarbs < 0 || *p.DailyCarbs > MaxCarbsTarget) {
		return invalid("daily_carbs", "must be between 0 and %d", MaxCarbsTarget)
	}
	if p.DailyFats != nil && (*p.DailyFats < 0 || *p.DailyFats > MaxFatsTarget) {
		return invalid("daily_fats", "must be between 0 and %d", MaxFatsTarget)
	}
	if p.Height != nil && (*p.Height < utils.MinHeightCm || *p.Height > utils.MaxHeightCm) {
		return invalid("height", "must be between %d and %d cm", utils.MinHeightCm, utils.MaxHeightCm)
	}
	if p.Weight != nil && (*p.Weight < utils.MinWeightKg || *p.Weight > utils.MaxWeightKg) {
		return invalid("weight", "must be between %d and %d kg", utils.MinWeightKg, utils.MaxWeightKg)
	}
	if p.Age != nil && (*p.Age < utils.MinAge || *p.Age > utils.MaxAge) {
		return invalid("age", "must be between %d and %d", utils.MinAge, utils.MaxAge)
	}
	return nil
}
