package models

import "gorm.io/gorm"

// Daily targets applied when a user has never saved goals.
const (
	DefaultDailyCalories = 2000
	DefaultDailyProtein  = 150
	DefaultDailyCarbs    = 250
	DefaultDailyFats     = 65
)

// UserGoals holds one row per user: the daily macro targets plus the body
// profile used to derive recommendations. Profile fields are optional and
// stay nil until the user supplies them.
type UserGoals struct {
	gorm.Model
	UserID        uint     `gorm:"uniqueIndex;not null" json:"user_id"`
	Height        *float64 `json:"height,omitempty"` // cm
	Weight        *float64 `json:"weight,omitempty"` // kg
	Age           *int     `json:"age,omitempty"`
	Gender        *string  `json:"gender,omitempty"`
	ActivityLevel *string  `json:"activity_level,omitempty"`
	DailyCalories int      `json:"daily_calories"`
	DailyProtein  float64  `json:"daily_protein"`
	DailyCarbs    float64  `json:"daily_carbs"`
	DailyFats     float64  `json:"daily_fats"`
}

// DefaultGoals returns the in-memory defaults for a user with no stored row.
// Callers decide whether to persist it.
func DefaultGoals(userID uint) UserGoals {
	return UserGoals{
		UserID:        userID,
		DailyCalories: DefaultDailyCalories,
		DailyProtein:  DefaultDailyProtein,
		DailyCarbs:    DefaultDailyCarbs,
		DailyFats:     DefaultDailyFats,
	}
}
