// File: /controllers/analytics_controller.go
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"socialpulse-api/models"
	"socialpulse-api/services"
	"socialpulse-api/utils"
)

type AnalyticsController struct {
	analytics *services.AnalyticsService
}

func NewAnalyticsController(analytics *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analytics: analytics}
}

// GetAnalytics accepts optional startDate and endDate as RFC 3339 timestamps
// or plain dates. A plain endDate includes the whole day.
func (ac *AnalyticsController) GetAnalytics(c *gin.Context) {
	query := models.AnalyticsQuery{UserID: c.GetString("user_id")}

	if raw := c.Query("startDate"); raw != "" {
		from, _, err := parseDate(raw)
		if err != nil {
			utils.SendValidationError(c, "startDate must be a date or RFC 3339 timestamp")
			return
		}
		query.From = &from
	}
	if raw := c.Query("endDate"); raw != "" {
		to, dateOnly, err := parseDate(raw)
		if err != nil {
			utils.SendValidationError(c, "endDate must be a date or RFC 3339 timestamp")
			return
		}
		if dateOnly {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		query.To = &to
	}
	if query.From != nil && query.To != nil && query.From.After(*query.To) {
		utils.SendValidationError(c, "startDate must not be after endDate")
		return
	}

	result, err := ac.analytics.Get(c.Request.Context(), query)
	if err != nil {
		respondError(c, err, "Failed to load analytics")
		return
	}
	c.JSON(http.StatusOK, gin.H{"analytics": result})
}

func parseDate(raw string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), false, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}
