package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func llmServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "true", r.Header.Get("x-wait-for-model"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLLMEstimator_EstimateDescription(t *testing.T) {
	ctx := context.Background()

	t.Run("parses a clean JSON answer", func(t *testing.T) {
		srv := llmServer(t, http.StatusOK,
			`[{"generated_text": "{\"food_name\":\"chicken biryani\",\"calories\":650,\"protein\":32,\"carbs\":78,\"fats\":22,\"quantity\":1,\"unit\":\"plate\"}"}]`)

		est, err := NewLLMEstimator(srv.URL, "test-token", "test-model").EstimateDescription(ctx, "a plate of chicken biryani")
		require.NoError(t, err)

		assert.Equal(t, "chicken biryani", est.FoodName)
		assert.Equal(t, 650, est.Calories)
		assert.InDelta(t, 32, est.Protein, 0.001)
		assert.InDelta(t, 78, est.Carbs, 0.001)
		assert.InDelta(t, 22, est.Fats, 0.001)
		assert.Equal(t, "plate", est.Unit)
	})

	t.Run("digs the JSON object out of surrounding prose", func(t *testing.T) {
		srv := llmServer(t, http.StatusOK,
			`[{"generated_text": "Sure! Here is the estimate:\n{\"food_name\":\"banana\",\"calories\":105,\"protein\":1.3,\"carbs\":27,\"fats\":0.4}\nHope that helps."}]`)

		est, err := NewLLMEstimator(srv.URL, "test-token", "test-model").EstimateDescription(ctx, "one banana")
		require.NoError(t, err)

		assert.Equal(t, "banana", est.FoodName)
		assert.Equal(t, 105, est.Calories)
		// Absent quantity and unit take their defaults.
		assert.Equal(t, float64(1), est.Quantity)
		assert.Equal(t, "serving", est.Unit)
	})

	t.Run("rejects answers without a food name", func(t *testing.T) {
		srv := llmServer(t, http.StatusOK,
			`[{"generated_text": "{\"calories\":100}"}]`)

		_, err := NewLLMEstimator(srv.URL, "test-token", "test-model").EstimateDescription(ctx, "mystery")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "food_name")
	})

	t.Run("rejects negative macros", func(t *testing.T) {
		srv := llmServer(t, http.StatusOK,
			`[{"generated_text": "{\"food_name\":\"weird\",\"calories\":-5}"}]`)

		_, err := NewLLMEstimator(srv.URL, "test-token", "test-model").EstimateDescription(ctx, "weird")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "negative")
	})

	t.Run("rejects answers with no JSON at all", func(t *testing.T) {
		srv := llmServer(t, http.StatusOK,
			`[{"generated_text": "I cannot estimate that."}]`)

		_, err := NewLLMEstimator(srv.URL, "test-token", "test-model").EstimateDescription(ctx, "nothing")
		require.Error(t, err)
	})

	t.Run("surfaces the upstream error body", func(t *testing.T) {
		srv := llmServer(t, http.StatusServiceUnavailable,
			`{"error": "Model is overloaded"}`)

		_, err := NewLLMEstimator(srv.URL, "test-token", "test-model").EstimateDescription(ctx, "rice")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Model is overloaded")
		assert.Contains(t, err.Error(), "503")
	})

	t.Run("missing token fails before any request", func(t *testing.T) {
		_, err := NewLLMEstimator("http://127.0.0.1:0", "", "test-model").EstimateDescription(ctx, "rice")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "token")
	})
}

func TestLLMEstimator_EstimateImage(t *testing.T) {
	srv := llmServer(t, http.StatusOK,
		`[{"generated_text": "{\"food_name\":\"margherita pizza\",\"calories\":270,\"protein\":11,\"carbs\":33,\"fats\":10,\"quantity\":1,\"unit\":\"slice\"}"}]`)

	est, err := NewLLMEstimator(srv.URL, "test-token", "test-model").
		EstimateImage(context.Background(), []string{"Pizza", "Food", "Cheese"})
	require.NoError(t, err)

	assert.Equal(t, "margherita pizza", est.FoodName)
	assert.Equal(t, "slice", est.Unit)
}

func TestEstimatorWrapsLLMFailures(t *testing.T) {
	srv := llmServer(t, http.StatusInternalServerError, `{"error":"boom"}`)

	est := NewEstimator(NewLLMEstimator(srv.URL, "test-token", "test-model"), NewOpenFoodFactsClient(srv.URL))
	_, err := est.EstimateDescription(context.Background(), "rice")

	var estErr *EstimatorError
	require.ErrorAs(t, err, &estErr)
	assert.ErrorContains(t, err, "boom")
}
