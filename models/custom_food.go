package models

import "gorm.io/gorm"

// CustomFood is a reusable per-user template. Logging one still goes through
// a FoodEntry; templates themselves never feed the daily summary.
type CustomFood struct {
	gorm.Model
	UserID   uint    `gorm:"index;not null" json:"user_id"`
	FoodName string  `gorm:"not null" json:"food_name"`
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Unit     string  `json:"unit"`
}
