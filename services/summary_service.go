package services

import (
	"context"
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/meenakshirnair/Calcount/models"
)

// SummaryService maintains daily_summaries, a derived cache over
// food_entries. Totals are rebuilt from the day's entries on every
// recompute, never incremented in place. There is no locking: concurrent
// recomputes race and the last full rebuild wins, which is fine because
// every rebuild reads the whole day.
type SummaryService struct {
	db      *gorm.DB
	entries *EntryService
	loc     *time.Location
}

func NewSummaryService(db *gorm.DB, entries *EntryService, loc *time.Location) *SummaryService {
	return &SummaryService{db: db, entries: entries, loc: loc}
}

// Recompute rebuilds the summary row for the day of date.
func (s *SummaryService) Recompute(ctx context.Context, userID uint, date time.Time) (*models.DailySummary, error) {
	entries, err := s.entries.ForDay(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	day := dayStart(date, s.loc)
	sum := models.DailySummary{UserID: userID, Date: day}
	for _, e := range entries {
		sum.TotalCalories += e.Calories
		sum.TotalProtein += e.Protein
		sum.TotalCarbs += e.Carbs
		sum.TotalFats += e.Fats
	}

	// Map form so a day emptied of entries writes its zeros.
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, day).
		Assign(map[string]interface{}{
			"total_calories": sum.TotalCalories,
			"total_protein":  sum.TotalProtein,
			"total_carbs":    sum.TotalCarbs,
			"total_fats":     sum.TotalFats,
		}).
		FirstOrCreate(&sum).Error
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

// Get returns the stored summary, or a zero-valued one when the day has no
// row yet. Reading never creates rows.
func (s *SummaryService) Get(ctx context.Context, userID uint, date time.Time) (*models.DailySummary, error) {
	day := dayStart(date, s.loc)

	var sum models.DailySummary
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, day).
		First(&sum).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.DailySummary{UserID: userID, Date: day}, nil
	}
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

// History lists stored summaries between from and to inclusive, newest first.
// Days without entries simply have no row.
func (s *SummaryService) History(ctx context.Context, userID uint, from, to time.Time) ([]models.DailySummary, error) {
	start := dayStart(from, s.loc)
	end := dayStart(to, s.loc).Add(24 * time.Hour)

	var rows []models.DailySummary
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("date DESC").
		Find(&rows).Error
	return rows, err
}

// ---------- progress rendering ----------

type MetricProgress struct {
	Consumed float64 `json:"consumed"`
	Goal     float64 `json:"goal"`
	Percent  float64 `json:"percent"`
}

type DayProgress struct {
	Date     string         `json:"date"`
	Calories MetricProgress `json:"calories"`
	Protein  MetricProgress `json:"protein"`
	Carbs    MetricProgress `json:"carbs"`
	Fats     MetricProgress `json:"fats"`
}

// BuildProgress renders a day's summary against the user's goals.
func BuildProgress(sum *models.DailySummary, goals *models.UserGoals) DayProgress {
	return DayProgress{
		Date:     sum.Date.Format("2006-01-02"),
		Calories: metric(float64(sum.TotalCalories), float64(goals.DailyCalories)),
		Protein:  metric(sum.TotalProtein, goals.DailyProtein),
		Carbs:    metric(sum.TotalCarbs, goals.DailyCarbs),
		Fats:     metric(sum.TotalFats, goals.DailyFats),
	}
}

func metric(consumed, goal float64) MetricProgress {
	return MetricProgress{Consumed: round2(consumed), Goal: goal, Percent: pct(consumed, goal)}
}

func pct(actual, goal float64) float64 {
	if goal <= 0 {
		if actual <= 0 {
			return 0
		}
		return 100
	}
	return round2((actual / goal) * 100.0)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
