package services

import "context"

// MacroEstimate is what the nutrition estimator returns for one food.
type MacroEstimate struct {
	FoodName string  `json:"food_name"`
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// NutritionEstimator resolves foods to macro estimates via external
// collaborators. Failures are *EstimatorError; callers decide whether to
// surface them or degrade.
type NutritionEstimator interface {
	EstimateDescription(ctx context.Context, description string) (*MacroEstimate, error)
	EstimateImage(ctx context.Context, labels []string) (*MacroEstimate, error)
	EstimateBarcode(ctx context.Context, barcode string) (*MacroEstimate, error)
}

// estimator routes descriptions and images to the LLM and barcodes to the
// Open Food Facts resolver, wrapping any failure in EstimatorError.
type estimator struct {
	llm *LLMEstimator
	off *OpenFoodFactsClient
}

func NewEstimator(llm *LLMEstimator, off *OpenFoodFactsClient) NutritionEstimator {
	return &estimator{llm: llm, off: off}
}

func (e *estimator) EstimateDescription(ctx context.Context, description string) (*MacroEstimate, error) {
	est, err := e.llm.EstimateDescription(ctx, description)
	if err != nil {
		return nil, &EstimatorError{Err: err}
	}
	return est, nil
}

func (e *estimator) EstimateImage(ctx context.Context, labels []string) (*MacroEstimate, error) {
	est, err := e.llm.EstimateImage(ctx, labels)
	if err != nil {
		return nil, &EstimatorError{Err: err}
	}
	return est, nil
}

func (e *estimator) EstimateBarcode(ctx context.Context, barcode string) (*MacroEstimate, error) {
	est, err := e.off.Product(ctx, barcode)
	if err != nil {
		return nil, &EstimatorError{Err: err}
	}
	return est, nil
}

// ZeroEstimate is the degraded result for the live-typing suggestion path:
// the name is kept, every macro is zero for the user to fill in by hand.
func ZeroEstimate(name string) *MacroEstimate {
	return &MacroEstimate{FoodName: name, Quantity: 1, Unit: "serving"}
}
