package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/meenakshirnair/Calcount/models"
)

// EntryService owns the food_entries table. Every query is scoped by user id
// so one user's rows are invisible to another.
type EntryService struct {
	db  *gorm.DB
	loc *time.Location
}

func NewEntryService(db *gorm.DB, loc *time.Location) *EntryService {
	return &EntryService{db: db, loc: loc}
}

// EntryInput is an addEntry request after binding. Zero Quantity, empty Unit
// and Source, and a zero Date take their defaults.
type EntryInput struct {
	FoodName string
	MealTime string
	Calories int
	Protein  float64
	Carbs    float64
	Fats     float64
	Quantity float64
	Unit     string
	ImageURL string
	Barcode  string
	Source   string
	Date     time.Time
}

func (s *EntryService) Add(ctx context.Context, userID uint, in EntryInput) (*models.FoodEntry, error) {
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Unit == "" {
		in.Unit = "serving"
	}
	if in.Source == "" {
		in.Source = models.SourceManual
	}
	date := in.Date
	if date.IsZero() {
		date = time.Now().In(s.loc)
	}

	entry := models.FoodEntry{
		UserID:   userID,
		FoodName: in.FoodName,
		MealTime: in.MealTime,
		Calories: in.Calories,
		Protein:  in.Protein,
		Carbs:    in.Carbs,
		Fats:     in.Fats,
		Quantity: in.Quantity,
		Unit:     in.Unit,
		ImageURL: in.ImageURL,
		Barcode:  in.Barcode,
		Source:   in.Source,
		Date:     dayStart(date, s.loc),
	}
	if err := validateEntry(&entry); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ForDay lists the user's entries whose date falls in [midnight, midnight+24h)
// of the given day in the app timezone, in insertion order.
func (s *EntryService) ForDay(ctx context.Context, userID uint, date time.Time) ([]models.FoodEntry, error) {
	start := dayStart(date, s.loc)
	end := start.Add(24 * time.Hour)

	var entries []models.FoodEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

// EntryPatch is a partial edit; nil fields keep their current value.
type EntryPatch struct {
	FoodName *string
	MealTime *string
	Calories *int
	Protein  *float64
	Carbs    *float64
	Fats     *float64
	Quantity *float64
	Unit     *string
	Date     *time.Time
}

// Update applies a partial edit. The id+user_id filter makes a foreign row
// and a missing row indistinguishable; both come back as ErrNotFound. The
// returned time is the day the entry sat on before the edit, so the caller
// can recompute both days when the date moved.
func (s *EntryService) Update(ctx context.Context, userID, entryID uint, patch EntryPatch) (*models.FoodEntry, time.Time, error) {
	var entry models.FoodEntry
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, time.Time{}, ErrNotFound
		}
		return nil, time.Time{}, err
	}

	prevDate := entry.Date

	if patch.FoodName != nil {
		entry.FoodName = *patch.FoodName
	}
	if patch.MealTime != nil {
		entry.MealTime = *patch.MealTime
	}
	if patch.Calories != nil {
		entry.Calories = *patch.Calories
	}
	if patch.Protein != nil {
		entry.Protein = *patch.Protein
	}
	if patch.Carbs != nil {
		entry.Carbs = *patch.Carbs
	}
	if patch.Fats != nil {
		entry.Fats = *patch.Fats
	}
	if patch.Quantity != nil {
		entry.Quantity = *patch.Quantity
	}
	if patch.Unit != nil {
		entry.Unit = *patch.Unit
	}
	if patch.Date != nil {
		entry.Date = dayStart(*patch.Date, s.loc)
	}

	if err := validateEntry(&entry); err != nil {
		return nil, time.Time{}, err
	}

	if err := s.db.WithContext(ctx).Save(&entry).Error; err != nil {
		return nil, time.Time{}, err
	}
	return &entry, prevDate, nil
}

// Delete removes the user's entry and reports the day it was on. Deleting a
// row that does not exist or belongs to someone else is a silent no-op.
func (s *EntryService) Delete(ctx context.Context, userID, entryID uint) (time.Time, bool, error) {
	var entry models.FoodEntry
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}

	if err := s.db.WithContext(ctx).Delete(&entry).Error; err != nil {
		return time.Time{}, false, err
	}
	return entry.Date, true, nil
}

func validateEntry(e *models.FoodEntry) error {
	if strings.TrimSpace(e.FoodName) == "" {
		return invalid("food_name", "must not be empty")
	}
	if !models.ValidMealTime(e.MealTime) {
		return invalid("meal_time", "must be one of morning, noon, evening, lateNight")
	}
	if e.Calories < 0 {
		return invalid("calories", "must not be negative")
	}
	if e.Protein < 0 {
		return invalid("protein", "must not be negative")
	}
	if e.Carbs < 0 {
		return invalid("carbs", "must not be negative")
	}
	if e.Fats < 0 {
		return invalid("fats", "must not be negative")
	}
	if e.Quantity <= 0 {
		return invalid("quantity", "must be greater than zero")
	}
	switch e.Source {
	case models.SourceManual, models.SourceImage, models.SourceBarcode:
	default:
		return invalid("source", "must be one of manual, image, barcode")
	}
	return nil
}

// dayStart normalizes t to midnight of its calendar day in loc. A day is the
// half-open window [dayStart, dayStart+24h).
func dayStart(t time.Time, loc *time.Location) time.Time {
	tl := t.In(loc)
	return time.Date(tl.Year(), tl.Month(), tl.Day(), 0, 0, 0, 0, loc)
}
