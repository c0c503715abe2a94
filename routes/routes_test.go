package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/meenakshirnair/Calcount/controllers"
	"github.com/meenakshirnair/Calcount/models"
	"github.com/meenakshirnair/Calcount/services"
)

const testSecret = "test-secret"

type stubImages struct{}

func (stubImages) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	return "https://cdn.example.com/food-images/stub.jpg", nil
}

type stubDetector struct{}

func (stubDetector) Labels(ctx context.Context, image []byte) ([]string, error) {
	return []string{"Food"}, nil
}

type apiTestEnv struct {
	router  *gin.Engine
	llmDown bool
}

func newAPITestEnv(t *testing.T) *apiTestEnv {
	gin.SetMode(gin.TestMode)

	env := &apiTestEnv{}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.FoodEntry{},
		&models.DailySummary{},
		&models.CustomFood{},
		&models.UserGoals{},
	))

	// One canned banana estimate serves every LLM request.
	llmSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if env.llmDown {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error": "model offline"}`))
			return
		}
		_, _ = w.Write([]byte(`[{"generated_text": "{\"food_name\":\"banana\",\"calories\":105,\"protein\":1.3,\"carbs\":27,\"fats\":0.4,\"quantity\":1,\"unit\":\"piece\"}"}]`))
	}))
	t.Cleanup(llmSrv.Close)

	loc := time.UTC
	log := zap.NewNop()

	entries := services.NewEntryService(db, loc)
	summaries := services.NewSummaryService(db, entries, loc)
	goals := services.NewGoalService(db)
	customFoods := services.NewCustomFoodService(db)
	auth := services.NewAuthService(db, testSecret)
	users := services.NewUserService(db)

	llm := services.NewLLMEstimator(llmSrv.URL, "test-token", "test-model")
	off := services.NewOpenFoodFactsClient(llmSrv.URL)
	estimator := services.NewEstimator(llm, off)

	h := Handlers{
		Auth:        controllers.NewAuthController(auth),
		User:        controllers.NewUserController(users),
		Entries:     controllers.NewEntryController(entries, summaries, estimator, stubImages{}, stubDetector{}, loc, log),
		Summaries:   controllers.NewSummaryController(summaries, goals, loc),
		Goals:       controllers.NewGoalController(goals),
		CustomFoods: controllers.NewCustomFoodController(customFoods),
		Food:        controllers.NewFoodController(estimator, log),
	}

	env.router = SetupRouter(h, testSecret, []string{"*"}, log)
	return env
}

func (e *apiTestEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *apiTestEnv) registerAndLogin(t *testing.T, email string) string {
	t.Helper()

	w := e.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email": email, "password": "secret-pass", "full_name": "Test User",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"email": email, "password": "secret-pass",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealth(t *testing.T) {
	env := newAPITestEnv(t)

	w := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestAuthFlow(t *testing.T) {
	env := newAPITestEnv(t)

	t.Run("register and login", func(t *testing.T) {
		token := env.registerAndLogin(t, "ada@example.com")
		assert.NotEmpty(t, token)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/auth/register", "", gin.H{
			"email": "ada@example.com", "password": "secret-pass", "full_name": "Ada Again",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/auth/login", "", gin.H{
			"email": "ada@example.com", "password": "wrong-pass",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("short password fails binding", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/auth/register", "", gin.H{
			"email": "bob@example.com", "password": "short", "full_name": "Bob",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "at least 8 characters")
	})
}

func TestAPIRequiresToken(t *testing.T) {
	env := newAPITestEnv(t)

	w := env.do(t, http.MethodGet, "/api/entries", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/entries", "bogus.token.here", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEntryDayFlow(t *testing.T) {
	env := newAPITestEnv(t)
	token := env.registerAndLogin(t, "carol@example.com")

	w := env.do(t, http.MethodPost, "/api/entries", token, gin.H{
		"food_name": "Eggs", "meal_time": "morning", "calories": 300, "protein": 18, "date": "2026-03-05",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var first models.FoodEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

	w = env.do(t, http.MethodPost, "/api/entries", token, gin.H{
		"food_name": "Rice bowl", "meal_time": "noon", "calories": 450, "protein": 12, "date": "2026-03-05",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	t.Run("the day lists both entries", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/entries?date=2026-03-05", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var list []models.FoodEntry
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Len(t, list, 2)
	})

	t.Run("the summary carries the running totals", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/summary?date=2026-03-05", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var sum models.DailySummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sum))
		assert.Equal(t, 750, sum.TotalCalories)
		assert.InDelta(t, 30, sum.TotalProtein, 0.001)
	})

	t.Run("the dashboard renders progress against goals", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/api/goals", token, gin.H{"daily_calories": 1500})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = env.do(t, http.MethodGet, "/api/dashboard?date=2026-03-05", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var dash struct {
			Progress struct {
				Calories struct {
					Consumed float64 `json:"consumed"`
					Goal     float64 `json:"goal"`
					Percent  float64 `json:"percent"`
				} `json:"calories"`
			} `json:"progress"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dash))
		assert.InDelta(t, 750, dash.Progress.Calories.Consumed, 0.001)
		assert.InDelta(t, 1500, dash.Progress.Calories.Goal, 0.001)
		assert.InDelta(t, 50, dash.Progress.Calories.Percent, 0.001)
	})

	t.Run("deleting an entry shrinks the summary", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/api/entries/"+itoa(first.ID), token, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = env.do(t, http.MethodGet, "/api/summary?date=2026-03-05", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var sum models.DailySummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sum))
		assert.Equal(t, 450, sum.TotalCalories)
	})

	t.Run("a stranger's token sees none of it", func(t *testing.T) {
		other := env.registerAndLogin(t, "mallory@example.com")

		w := env.do(t, http.MethodGet, "/api/entries?date=2026-03-05", other, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var list []models.FoodEntry
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Empty(t, list)
	})
}

func TestGoalsOverHTTP(t *testing.T) {
	env := newAPITestEnv(t)
	token := env.registerAndLogin(t, "dan@example.com")

	t.Run("defaults before any save", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/goals", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var goals models.UserGoals
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &goals))
		assert.Equal(t, 2000, goals.DailyCalories)
		assert.Equal(t, float64(65), goals.DailyFats)
	})

	t.Run("out-of-range target names the bound", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/api/goals", token, gin.H{"daily_calories": 100})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "between 500 and 10000")
	})

	t.Run("recommendation from an explicit profile", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/goals/recommendation", token, gin.H{
			"height": 175, "weight": 75, "age": 28,
			"gender": "male", "activity_level": "moderate", "goal": "maintain",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var plan services.MacroPlan
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
		assert.Equal(t, 2649, plan.DailyCalories)
		assert.InDelta(t, 199, plan.DailyProtein, 0.001)
		assert.InDelta(t, 298, plan.DailyCarbs, 0.001)
		assert.InDelta(t, 74, plan.DailyFats, 0.001)
	})

	t.Run("recommendation falls back to the stored profile", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/api/goals", token, gin.H{
			"height": 175, "weight": 75, "age": 28, "gender": "male", "activity_level": "moderate",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = env.do(t, http.MethodPost, "/api/goals/recommendation", token, gin.H{"goal": "maintain"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var plan services.MacroPlan
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
		assert.Equal(t, 2649, plan.DailyCalories)
	})

	t.Run("recommendation without any profile asks for one", func(t *testing.T) {
		fresh := env.registerAndLogin(t, "erin@example.com")

		w := env.do(t, http.MethodPost, "/api/goals/recommendation", fresh, gin.H{"goal": "lose"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "height")
	})
}

func TestFoodEstimateAndSuggest(t *testing.T) {
	env := newAPITestEnv(t)
	token := env.registerAndLogin(t, "frank@example.com")

	t.Run("estimate answers with the resolved macros", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/food/estimate", token, gin.H{"description": "one banana"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var est services.MacroEstimate
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &est))
		assert.Equal(t, "banana", est.FoodName)
		assert.Equal(t, 105, est.Calories)
	})

	t.Run("estimate surfaces estimator outages", func(t *testing.T) {
		env.llmDown = true
		defer func() { env.llmDown = false }()

		w := env.do(t, http.MethodPost, "/api/food/estimate", token, gin.H{"description": "one banana"})
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("suggest degrades to zeros instead of failing", func(t *testing.T) {
		env.llmDown = true
		defer func() { env.llmDown = false }()

		w := env.do(t, http.MethodGet, "/api/food/suggest?q=banana", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var est services.MacroEstimate
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &est))
		assert.Equal(t, "banana", est.FoodName)
		assert.Zero(t, est.Calories)
	})

	t.Run("suggest needs a query", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/food/suggest", token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCustomFoodsOverHTTP(t *testing.T) {
	env := newAPITestEnv(t)
	token := env.registerAndLogin(t, "grace@example.com")

	w := env.do(t, http.MethodPost, "/api/foods/custom", token, gin.H{
		"food_name": "Grandma's dal", "calories": 180, "protein": 9, "carbs": 22, "fats": 6, "unit": "bowl",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var food models.CustomFood
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &food))

	t.Run("list returns the saved food", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/foods/custom", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var list []models.CustomFood
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		require.Len(t, list, 1)
		assert.Equal(t, "Grandma's dal", list[0].FoodName)
	})

	t.Run("another user cannot edit it", func(t *testing.T) {
		other := env.registerAndLogin(t, "heidi@example.com")

		w := env.do(t, http.MethodPut, "/api/foods/custom/"+itoa(food.ID), other, gin.H{
			"food_name": "Stolen dal", "calories": 1,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete answers 204 and empties the list", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/api/foods/custom/"+itoa(food.ID), token, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = env.do(t, http.MethodGet, "/api/foods/custom", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var list []models.CustomFood
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Empty(t, list)
	})
}

func TestUserProfileOverHTTP(t *testing.T) {
	env := newAPITestEnv(t)
	token := env.registerAndLogin(t, "ivan@example.com")

	w := env.do(t, http.MethodGet, "/api/user/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ivan@example.com")
	assert.NotContains(t, w.Body.String(), "password")

	w = env.do(t, http.MethodPut, "/api/user/profile", token, gin.H{"full_name": "Ivan Petrov"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ivan Petrov")
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
