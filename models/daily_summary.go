package models

import (
	"time"

	"gorm.io/gorm"
)

// DailySummary caches one day's totals per user. It is always rebuilt from
// the food entries of that day, never incremented in place, so a stale row
// heals on the next recompute.
type DailySummary struct {
	gorm.Model
	UserID        uint      `gorm:"uniqueIndex:idx_summary_user_date;not null" json:"user_id"`
	Date          time.Time `gorm:"uniqueIndex:idx_summary_user_date;not null" json:"date"`
	TotalCalories int       `json:"total_calories"`
	TotalProtein  float64   `json:"total_protein"`
	TotalCarbs    float64   `json:"total_carbs"`
	TotalFats     float64   `json:"total_fats"`
}
