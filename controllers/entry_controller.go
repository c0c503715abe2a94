package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/meenakshirnair/Calcount/models"
	"github.com/meenakshirnair/Calcount/services"
	"github.com/meenakshirnair/Calcount/utils"
)

// EntryController handles food entry CRUD plus the photo and barcode intake
// paths. Every mutation ends with a summary recompute for the touched day.
type EntryController struct {
	entries   *services.EntryService
	summaries *services.SummaryService
	estimator services.NutritionEstimator
	images    services.ImageStore
	vision    services.LabelDetector
	loc       *time.Location
	log       *zap.Logger
}

func NewEntryController(
	entries *services.EntryService,
	summaries *services.SummaryService,
	estimator services.NutritionEstimator,
	images services.ImageStore,
	vision services.LabelDetector,
	loc *time.Location,
	log *zap.Logger,
) *EntryController {
	return &EntryController{
		entries:   entries,
		summaries: summaries,
		estimator: estimator,
		images:    images,
		vision:    vision,
		loc:       loc,
		log:       log,
	}
}

// recompute refreshes the day's summary after a mutation. The entry write has
// already succeeded at this point; a failed recompute is logged and left for
// the next mutation on that day to repair, since every recompute rebuilds the
// whole day from scratch.
func (h *EntryController) recompute(c *gin.Context, userID uint, date time.Time) {
	if _, err := h.summaries.Recompute(c.Request.Context(), userID, date); err != nil {
		h.log.Error("summary recompute failed",
			zap.Uint("user_id", userID),
			zap.Time("date", date),
			zap.Error(err),
		)
	}
}

func (h *EntryController) parseDate(c *gin.Context, raw string) (time.Time, bool) {
	date, err := time.ParseInLocation("2006-01-02", raw, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return date, true
}

func entryIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return 0, false
	}
	return uint(id), true
}

type addEntryRequest struct {
	FoodName string  `json:"food_name" binding:"required"`
	MealTime string  `json:"meal_time" binding:"required,mealtime"`
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Date     string  `json:"date"`
}

// AddEntry handles POST /api/entries.
func (h *EntryController) AddEntry(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req addEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	in := services.EntryInput{
		FoodName: req.FoodName,
		MealTime: req.MealTime,
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fats:     req.Fats,
		Quantity: req.Quantity,
		Unit:     req.Unit,
		Source:   models.SourceManual,
	}
	if req.Date != "" {
		date, ok := h.parseDate(c, req.Date)
		if !ok {
			return
		}
		in.Date = date
	}

	entry, err := h.entries.Add(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	h.recompute(c, userID, entry.Date)

	c.JSON(http.StatusCreated, entry)
}

// ListEntries handles GET /api/entries?date=YYYY-MM-DD. The date defaults to
// today in the app timezone.
func (h *EntryController) ListEntries(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	date := time.Now().In(h.loc)
	if raw := c.Query("date"); raw != "" {
		parsed, ok := h.parseDate(c, raw)
		if !ok {
			return
		}
		date = parsed
	}

	entries, err := h.entries.ForDay(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

type updateEntryRequest struct {
	FoodName *string  `json:"food_name"`
	MealTime *string  `json:"meal_time" binding:"omitempty,mealtime"`
	Calories *int     `json:"calories"`
	Protein  *float64 `json:"protein"`
	Carbs    *float64 `json:"carbs"`
	Fats     *float64 `json:"fats"`
	Quantity *float64 `json:"quantity"`
	Unit     *string  `json:"unit"`
	Date     *string  `json:"date"`
}

// UpdateEntry handles PUT /api/entries/:id. When the edit moves the entry to
// another day, both the old and the new day get recomputed.
func (h *EntryController) UpdateEntry(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	entryID, ok := entryIDParam(c)
	if !ok {
		return
	}

	var req updateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	patch := services.EntryPatch{
		FoodName: req.FoodName,
		MealTime: req.MealTime,
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fats:     req.Fats,
		Quantity: req.Quantity,
		Unit:     req.Unit,
	}
	if req.Date != nil {
		date, ok := h.parseDate(c, *req.Date)
		if !ok {
			return
		}
		patch.Date = &date
	}

	entry, prevDate, err := h.entries.Update(c.Request.Context(), userID, entryID, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	h.recompute(c, userID, prevDate)
	if !entry.Date.Equal(prevDate) {
		h.recompute(c, userID, entry.Date)
	}

	c.JSON(http.StatusOK, entry)
}

// DeleteEntry handles DELETE /api/entries/:id. Deleting a missing or foreign
// entry still answers 204.
func (h *EntryController) DeleteEntry(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	entryID, ok := entryIDParam(c)
	if !ok {
		return
	}

	date, deleted, err := h.entries.Delete(c.Request.Context(), userID, entryID)
	if err != nil {
		respondError(c, err)
		return
	}
	if deleted {
		h.recompute(c, userID, date)
	}

	c.Status(http.StatusNoContent)
}

type imageEntryRequest struct {
	Image    string  `json:"image" binding:"required"`
	MealTime string  `json:"meal_time" binding:"required,mealtime"`
	Note     string  `json:"note"`
	Quantity float64 `json:"quantity"`
	Date     string  `json:"date"`
}

// AddEntryFromImage handles POST /api/entries/image. The photo arrives as a
// base64 data URI, is stored on S3, labeled by Rekognition and resolved to
// macros by the estimator. Label detection failing is survivable; the
// estimator still runs on an unidentified meal.
func (h *EntryController) AddEntryFromImage(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req imageEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	contentType, data, err := utils.ParseDataURI(req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, err := h.images.Put(c.Request.Context(), data, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store image"})
		return
	}

	labels, err := h.vision.Labels(c.Request.Context(), data)
	if err != nil {
		h.log.Warn("label detection failed", zap.Error(err))
		labels = nil
	}

	// A caller note ("leftover lasagna") outranks detected labels as a hint.
	hints := labels
	if req.Note != "" {
		hints = append([]string{req.Note}, labels...)
	}

	est, err := h.estimator.EstimateImage(c.Request.Context(), hints)
	if err != nil {
		respondError(c, err)
		return
	}

	in := services.EntryInput{
		FoodName: est.FoodName,
		MealTime: req.MealTime,
		Calories: est.Calories,
		Protein:  est.Protein,
		Carbs:    est.Carbs,
		Fats:     est.Fats,
		Quantity: req.Quantity,
		Unit:     est.Unit,
		ImageURL: url,
		Source:   models.SourceImage,
	}
	if in.Quantity == 0 {
		in.Quantity = est.Quantity
	}
	if req.Date != "" {
		date, ok := h.parseDate(c, req.Date)
		if !ok {
			return
		}
		in.Date = date
	}

	entry, err := h.entries.Add(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	h.recompute(c, userID, entry.Date)

	c.JSON(http.StatusCreated, gin.H{"entry": entry, "labels": labels})
}

type barcodeEntryRequest struct {
	Barcode  string  `json:"barcode" binding:"required"`
	MealTime string  `json:"meal_time" binding:"required,mealtime"`
	Quantity float64 `json:"quantity"`
	Date     string  `json:"date"`
}

// AddEntryFromBarcode handles POST /api/entries/barcode.
func (h *EntryController) AddEntryFromBarcode(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req barcodeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	est, err := h.estimator.EstimateBarcode(c.Request.Context(), req.Barcode)
	if err != nil {
		respondError(c, err)
		return
	}

	in := services.EntryInput{
		FoodName: est.FoodName,
		MealTime: req.MealTime,
		Calories: est.Calories,
		Protein:  est.Protein,
		Carbs:    est.Carbs,
		Fats:     est.Fats,
		Quantity: req.Quantity,
		Unit:     est.Unit,
		Barcode:  req.Barcode,
		Source:   models.SourceBarcode,
	}
	if in.Quantity == 0 {
		in.Quantity = est.Quantity
	}
	if req.Date != "" {
		date, ok := h.parseDate(c, req.Date)
		if !ok {
			return
		}
		in.Date = date
	}

	entry, err := h.entries.Add(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	h.recompute(c, userID, entry.Date)

	c.JSON(http.StatusCreated, entry)
}
