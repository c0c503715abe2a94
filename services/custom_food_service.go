package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/meenakshirnair/Calcount/models"
)

type CustomFoodService struct {
	db *gorm.DB
}

func NewCustomFoodService(db *gorm.DB) *CustomFoodService {
	return &CustomFoodService{db: db}
}

type CustomFoodInput struct {
	FoodName string
	Calories int
	Protein  float64
	Carbs    float64
	Fats     float64
	Unit     string
}

func (s *CustomFoodService) Create(ctx context.Context, userID uint, in CustomFoodInput) (*models.CustomFood, error) {
	if err := validateCustomFood(&in); err != nil {
		return nil, err
	}

	food := models.CustomFood{
		UserID:   userID,
		FoodName: in.FoodName,
		Calories: in.Calories,
		Protein:  in.Protein,
		Carbs:    in.Carbs,
		Fats:     in.Fats,
		Unit:     in.Unit,
	}
	if err := s.db.WithContext(ctx).Create(&food).Error; err != nil {
		return nil, err
	}
	return &food, nil
}

func (s *CustomFoodService) List(ctx context.Context, userID uint) ([]models.CustomFood, error) {
	var foods []models.CustomFood
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("food_name ASC").
		Find(&foods).Error
	return foods, err
}

func (s *CustomFoodService) Update(ctx context.Context, userID, foodID uint, in CustomFoodInput) (*models.CustomFood, error) {
	if err := validateCustomFood(&in); err != nil {
		return nil, err
	}

	var food models.CustomFood
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", foodID, userID).
		First(&food).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	food.FoodName = in.FoodName
	food.Calories = in.Calories
	food.Protein = in.Protein
	food.Carbs = in.Carbs
	food.Fats = in.Fats
	food.Unit = in.Unit

	if err := s.db.WithContext(ctx).Save(&food).Error; err != nil {
		return nil, err
	}
	return &food, nil
}

// Delete is a silent no-op for rows that are missing or foreign, the same
// ownership boundary entries use.
func (s *CustomFoodService) Delete(ctx context.Context, userID, foodID uint) error {
	return s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", foodID, userID).
		Delete(&models.CustomFood{}).Error
}

func validateCustomFood(in *CustomFoodInput) error {
	if strings.TrimSpace(in.FoodName) == "" {
		return invalid("food_name", "must not be empty")
	}
	if in.Calories < 0 {
		return invalid("calories", "must not be negative")
	}
	if in.Protein < 0 {
		return invalid("protein", "must not be negative")
	}
	if in.Carbs < 0 {
		return invalid("carbs", "must not be negative")
	}
	if in.Fats < 0 {
		return invalid("fats", "must not be negative")
	}
	if in.Unit == "" {
		in.Unit = "serving"
	}
	return nil
}
