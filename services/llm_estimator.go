package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// LLMEstimator asks a hosted text-generation model for macro estimates. The
// prompt demands a single JSON object; anything unparseable is an error.
type LLMEstimator struct {
	client  *http.Client
	baseURL string
	token   string
	model   string
}

func NewLLMEstimator(baseURL, token, model string) *LLMEstimator {
	return &LLMEstimator{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
		token:   token,
		model:   model,
	}
}

const estimateFormat = `Respond with only a JSON object with keys food_name (string), calories (integer kcal), protein, carbs, fats (grams, numbers), quantity (number) and unit (string). No other text.`

func (l *LLMEstimator) EstimateDescription(ctx context.Context, description string) (*MacroEstimate, error) {
	prompt := fmt.Sprintf("Estimate the nutrition of the following food for the quantity given.\nFood: %s\n%s",
		description, estimateFormat)
	return l.generate(ctx, prompt)
}

func (l *LLMEstimator) EstimateImage(ctx context.Context, labels []string) (*MacroEstimate, error) {
	subject := strings.Join(labels, ", ")
	if subject == "" {
		subject = "an unidentified meal"
	}
	prompt := fmt.Sprintf("A food photo was labeled: %s.\nEstimate the nutrition of one typical serving of this food.\n%s",
		subject, estimateFormat)
	return l.generate(ctx, prompt)
}

func (l *LLMEstimator) generate(ctx context.Context, prompt string) (*MacroEstimate, error) {
	if l.token == "" {
		return nil, fmt.Errorf("llm token not configured")
	}

	body := map[string]any{
		"inputs": prompt,
		"parameters": map[string]any{
			"max_new_tokens":   128,
			"temperature":      0.2,
			"return_full_text": false,
		},
	}
	b, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/models/%s", l.baseURL, l.model), bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+l.token)
	req.Header.Set("Content-Type", "application/json")
	// Wait for cold models instead of failing with a loading error.
	req.Header.Set("x-wait-for-model", "true")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llm request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read llm response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBytes, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("llm api error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("llm api error (%d): %s", resp.StatusCode, truncate(string(respBytes), 200))
	}

	var out []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(respBytes, &out); err != nil {
		return nil, fmt.Errorf("decode llm response: %w", err)
	}
	if len(out) == 0 || strings.TrimSpace(out[0].GeneratedText) == "" {
		return nil, fmt.Errorf("empty llm response")
	}

	return parseEstimateJSON(out[0].GeneratedText)
}

// parseEstimateJSON pulls the first JSON object out of the generated text.
// Models wrap answers in prose often enough that a bare Unmarshal is not
// reliable.
func parseEstimateJSON(text string) (*MacroEstimate, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in llm output: %q", truncate(text, 120))
	}

	var est MacroEstimate
	if err := json.Unmarshal([]byte(text[start:end+1]), &est); err != nil {
		return nil, fmt.Errorf("parse llm estimate: %w", err)
	}
	if strings.TrimSpace(est.FoodName) == "" {
		return nil, fmt.Errorf("llm estimate missing food_name")
	}
	if est.Calories < 0 || est.Protein < 0 || est.Carbs < 0 || est.Fats < 0 {
		return nil, fmt.Errorf("llm estimate has negative values")
	}
	if est.Quantity <= 0 {
		est.Quantity = 1
	}
	if est.Unit == "" {
		est.Unit = "serving"
	}
	return &est, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
