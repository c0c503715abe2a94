package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// OpenFoodFactsClient resolves barcodes against the Open Food Facts product
// database. One product lookup per barcode, no API key needed.
type OpenFoodFactsClient struct {
	baseURL string
	client  *http.Client
}

func NewOpenFoodFactsClient(baseURL string) *OpenFoodFactsClient {
	return &OpenFoodFactsClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Nutriment fields arrive as numbers or strings depending on the product, so
// they are decoded loosely and coerced.
type offResponse struct {
	Status  interface{} `json:"status"`
	Product struct {
		ProductName string `json:"product_name"`
		Nutriments  struct {
			EnergyKcal100g    interface{} `json:"energy-kcal_100g"`
			EnergyKj100g      interface{} `json:"energy-kj_100g"`
			Proteins100g      interface{} `json:"proteins_100g"`
			Carbohydrates100g interface{} `json:"carbohydrates_100g"`
			Fat100g           interface{} `json:"fat_100g"`
		} `json:"nutriments"`
		ServingQuantity     interface{} `json:"serving_quantity"`
		ServingQuantityUnit string      `json:"serving_quantity_unit"`
	} `json:"product"`
}

// Product looks up a barcode and maps the per-100g nutriments onto one
// serving when the product declares a serving size, otherwise onto 100 g.
func (c *OpenFoodFactsClient) Product(ctx context.Context, barcode string) (*MacroEstimate, error) {
	if barcode == "" {
		return nil, fmt.Errorf("barcode is required")
	}

	u := fmt.Sprintf("%s/api/v3/product/%s?fields=code,product_name,nutriments,serving_quantity,serving_quantity_unit",
		c.baseURL, url.QueryEscape(barcode))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call open food facts: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read open food facts response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("open food facts error %d for barcode %s", resp.StatusCode, barcode)
	}

	var off offResponse
	if err := json.Unmarshal(body, &off); err != nil {
		return nil, fmt.Errorf("parse open food facts response: %w", err)
	}
	if off.Status != "success" && off.Status != float64(1) {
		return nil, fmt.Errorf("no product found for barcode %s", barcode)
	}
	if off.Product.ProductName == "" {
		return nil, fmt.Errorf("product %s has no name", barcode)
	}

	kcal100 := coerceFloat(off.Product.Nutriments.EnergyKcal100g)
	if kcal100 == 0 {
		// Some products only publish kJ.
		kcal100 = math.Round(coerceFloat(off.Product.Nutriments.EnergyKj100g) * 0.239006)
	}
	protein100 := coerceFloat(off.Product.Nutriments.Proteins100g)
	carbs100 := coerceFloat(off.Product.Nutriments.Carbohydrates100g)
	fat100 := coerceFloat(off.Product.Nutriments.Fat100g)

	serving := coerceFloat(off.Product.ServingQuantity)
	unit := off.Product.ServingQuantityUnit
	scale := 1.0
	if serving > 0 {
		scale = serving / 100.0
	} else {
		serving = 100
		if unit == "" {
			unit = "g"
		}
	}
	if unit == "" {
		unit = "g"
	}

	return &MacroEstimate{
		FoodName: off.Product.ProductName,
		Calories: int(math.Round(kcal100 * scale)),
		Protein:  round2(protein100 * scale),
		Carbs:    round2(carbs100 * scale),
		Fats:     round2(fat100 * scale),
		Quantity: serving,
		Unit:     unit,
	}, nil
}

func coerceFloat(v interface{}) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case string:
		f, _ := strconv.ParseFloat(value, 64)
		return f
	default:
		return 0
	}
}
