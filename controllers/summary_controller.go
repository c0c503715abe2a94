package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meenakshirnair/Calcount/services"
)

type SummaryController struct {
	summaries *services.SummaryService
	goals     *services.GoalService
	loc       *time.Location
}

func NewSummaryController(summaries *services.SummaryService, goals *services.GoalService, loc *time.Location) *SummaryController {
	return &SummaryController{summaries: summaries, goals: goals, loc: loc}
}

func (h *SummaryController) parseDate(c *gin.Context, raw string) (time.Time, bool) {
	date, err := time.ParseInLocation("2006-01-02", raw, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return date, true
}

// GetSummary handles GET /api/summary?date=YYYY-MM-DD. A day without entries
// answers with zero totals rather than 404.
func (h *SummaryController) GetSummary(c *gin.Context) {
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

	sum, err := h.summaries.Get(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// GetHistory handles GET /api/summary/history?from=&to=. The range defaults
// to the last 30 days and is inclusive on both ends.
func (h *SummaryController) GetHistory(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	to := time.Now().In(h.loc)
	from := to.AddDate(0, 0, -29)
	if raw := c.Query("from"); raw != "" {
		parsed, ok := h.parseDate(c, raw)
		if !ok {
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, ok := h.parseDate(c, raw)
		if !ok {
			return
		}
		to = parsed
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'to' must not be before 'from'"})
		return
	}

	rows, err := h.summaries.History(c.Request.Context(), userID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetDashboard handles GET /api/dashboard?date=. It joins the day's totals
// with the user's goals and renders per-metric progress.
func (h *SummaryController) GetDashboard(c *gin.Context) {
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

	sum, err := h.summaries.Get(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	goals, err := h.goals.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":  sum,
		"goals":    goals,
		"progress": services.BuildProgress(sum, goals),
	})
}
