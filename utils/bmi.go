package utils

import "fmt"

// Plausibility bounds for body measurements, shared by goal validation and
// the BMI/TDEE derivation.
const (
	MinHeightCm = 50
	MaxHeightCm = 250
	MinWeightKg = 10
	MaxWeightKg = 400
	MinAge      = 1
	MaxAge      = 120
)

// CalculateBMI expects height in centimeters and weight in kilograms.
func CalculateBMI(heightCm, weightKg float64) (float64, error) {
	if heightCm < MinHeightCm || heightCm > MaxHeightCm {
		return 0, fmt.Errorf("height must be between %d and %d cm", MinHeightCm, MaxHeightCm)
	}
	if weightKg < MinWeightKg || weightKg > MaxWeightKg {
		return 0, fmt.Errorf("weight must be between %d and %d kg", MinWeightKg, MaxWeightKg)
	}

	h := heightCm / 100.0
	return weightKg / (h * h), nil
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25.0:
		return "Normal weight"
	case bmi < 30.0:
		return "Overweight"
	case bmi < 35.0:
		return "Obesity class I"
	case bmi < 40.0:
		return "Obesity class II"
	default:
		return "Obesity class III"
	}
}
