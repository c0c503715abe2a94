package services

import (
	"math"
	"strings"

	"github.com/meenakshirnair/Calcount/utils"
)

// Activity multipliers for TDEE. Unrecognized levels fall back to moderate.
var activityMultipliers = map[string]float64{
	"sedentary":  1.2,
	"light":      1.375,
	"moderate":   1.55,
	"active":     1.725,
	"veryActive": 1.9,
}

const defaultActivityMultiplier = 1.55

type PlanInput struct {
	HeightCm      float64
	WeightKg      float64
	Age           int
	Gender        string
	ActivityLevel string
	Goal          string // lose | maintain | gain
}

// MacroPlan is a derived recommendation. It is display-only; nothing is
// persisted until the user saves the numbers through updateGoals.
type MacroPlan struct {
	BMI         float64 `json:"bmi"`
	BMICategory string  `json:"bmi_category"`
	BMR         float64 `json:"bmr"`
	TDEE        float64 `json:"tdee"`

	DailyCalories int     `json:"daily_calories"`
	DailyProtein  float64 `json:"daily_protein"`
	DailyCarbs    float64 `json:"daily_carbs"`
	DailyFats     float64 `json:"daily_fats"`
}

// BuildMacroPlan derives daily targets from the body profile: Mifflin-St
// Jeor BMR, activity-scaled TDEE, goal-adjusted calories, then a fixed
// ratio split (protein and carbs at 4 kcal/g, fat at 9 kcal/g).
func BuildMacroPlan(in PlanInput) (*MacroPlan, error) {
	bmi, err := utils.CalculateBMI(in.HeightCm, in.WeightKg)
	if err != nil {
		return nil, &ValidationError{Field: "profile", Message: err.Error()}
	}
	if in.Age < utils.MinAge || in.Age > utils.MaxAge {
		return nil, invalid("age", "must be between %d and %d", utils.MinAge, utils.MaxAge)
	}

	bmr := 10*in.WeightKg + 6.25*in.HeightCm - 5*float64(in.Age)
	if strings.EqualFold(in.Gender, "male") {
		bmr += 5
	} else {
		bmr -= 161
	}

	mult, ok := activityMultipliers[in.ActivityLevel]
	if !ok {
		mult = defaultActivityMultiplier
	}
	tdee := bmr * mult

	var adjusted, proteinRatio, carbRatio, fatRatio float64
	switch in.Goal {
	case "lose":
		adjusted = tdee * 0.85
		proteinRatio, carbRatio, fatRatio = 0.35, 0.40, 0.25
	case "gain":
		adjusted = tdee * 1.10
		proteinRatio, carbRatio, fatRatio = 0.30, 0.50, 0.20
	default: // maintain
		adjusted = tdee
		proteinRatio, carbRatio, fatRatio = 0.30, 0.45, 0.25
	}

	calories := int(math.Round(adjusted))
	return &MacroPlan{
		BMI:           round2(bmi),
		BMICategory:   utils.BMICategory(bmi),
		BMR:           round2(bmr),
		TDEE:          round2(tdee),
		DailyCalories: calories,
		DailyProtein:  math.Round(float64(calories) * proteinRatio / 4),
		DailyCarbs:    math.Round(float64(calories) * carbRatio / 4),
		DailyFats:     math.Round(float64(calories) * fatRatio / 9),
	}, nil
}
