package models

import (
	"time"

	"gorm.io/gorm"
)

// Meal time buckets. Coarse categorical tags, not timestamps.
const (
	MealMorning   = "morning"
	MealNoon      = "noon"
	MealEvening   = "evening"
	MealLateNight = "lateNight"
)

// How an entry got its numbers.
const (
	SourceManual  = "manual"
	SourceImage   = "image"
	SourceBarcode = "barcode"
)

func ValidMealTime(s string) bool {
	switch s {
	case MealMorning, MealNoon, MealEvening, MealLateNight:
		return true
	}
	return false
}

// FoodEntry is one logged food item. Date is the calendar day the food was
// eaten (midnight in the app timezone) and is independent of CreatedAt.
type FoodEntry struct {
	gorm.Model
	UserID   uint      `gorm:"index;not null" json:"user_id"`
	FoodName string    `gorm:"not null" json:"food_name"`
	MealTime string    `gorm:"not null" json:"meal_time"`
	Calories int       `json:"calories"`
	Protein  float64   `json:"protein"`
	Carbs    float64   `json:"carbs"`
	Fats     float64   `json:"fats"`
	Quantity float64   `json:"quantity"`
	Unit     string    `json:"unit"`
	ImageURL string    `json:"image_url,omitempty"`
	Barcode  string    `json:"barcode,omitempty"`
	Source   string    `gorm:"not null;default:manual" json:"source"`
	Date     time.Time `gorm:"index;not null" json:"date"`
}
