package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pacificreef/hotel-analytics-api/internal/models"
	"github.com/pacificreef/hotel-analytics-api/internal/service"
	appErrors "github.com/pacificreef/hotel-analytics-api/pkg/errors"
	"github.com/pacificreef/hotel-analytics-api/pkg/response"
)

const dateLayout = "2006-01-02"

// AnalyticsHandler exposes the hotel analytics endpoints.
type AnalyticsHandler struct {
	analytics        *service.AnalyticsService
	dashboard        *service.DashboardService
	defaultRangeDays int
	now              func() time.Time
}

// NewAnalyticsHandler constructs the analytics handler. now may be nil to use
// the wall clock.
func NewAnalyticsHandler(analytics *service.AnalyticsService, dashboard *service.DashboardService, defaultRangeDays int, now func() time.Time) *AnalyticsHandler {
	if defaultRangeDays <= 0 {
		defaultRangeDays = 30
	}
	if now == nil {
		now = time.Now
	}
	return &AnalyticsHandler{
		analytics:        analytics,
		dashboard:        dashboard,
		defaultRangeDays: defaultRangeDays,
		now:              now,
	}
}

// Occupancy returns daily occupancy analytics for the requested range.
func (h *AnalyticsHandler) Occupancy(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	rng, err := h.parseDateRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	result := h.analytics.Occupancy(c.Request.Context(), rng)
	response.JSON(c, http.StatusOK, result, map[string]interface{}{
		"processing_time_ms": time.Since(start).Milliseconds(),
	})
}

// Revenue returns daily revenue analytics for the requested range.
func (h *AnalyticsHandler) Revenue(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	rng, err := h.parseDateRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	result := h.analytics.Revenue(c.Request.Context(), rng)
	response.JSON(c, http.StatusOK, result, map[string]interface{}{
		"processing_time_ms": time.Since(start).Milliseconds(),
	})
}

// Customers returns customer analytics and segmentation.
func (h *AnalyticsHandler) Customers(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	result := h.analytics.Customers(c.Request.Context())
	response.JSON(c, http.StatusOK, result, map[string]interface{}{
		"processing_time_ms": time.Since(start).Milliseconds(),
	})
}

// Rooms returns room performance analytics.
func (h *AnalyticsHandler) Rooms(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	result := h.analytics.RoomPerformance(c.Request.Context())
	response.JSON(c, http.StatusOK, result, map[string]interface{}{
		"processing_time_ms": time.Since(start).Milliseconds(),
	})
}

// Predictions returns the demand forecast.
func (h *AnalyticsHandler) Predictions(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	result := h.analytics.Forecast(c.Request.Context())
	response.JSON(c, http.StatusOK, result, map[string]interface{}{
		"processing_time_ms": time.Since(start).Milliseconds(),
	})
}

// Dashboard returns the composed dashboard summary.
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	if h.dashboard == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	result := h.dashboard.Summary(c.Request.Context())
	response.JSON(c, http.StatusOK, result, map[string]interface{}{
		"processing_time_ms": time.Since(start).Milliseconds(),
	})
}

// parseDateRange reads start_date/end_date query params, defaulting to the
// trailing window ending today.
func (h *AnalyticsHandler) parseDateRange(c *gin.Context) (models.DateRange, error) {
	end := h.now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -h.defaultRangeDays)

	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return models.DateRange{}, appErrors.Clone(appErrors.ErrValidation, "start_date must be formatted as YYYY-MM-DD")
		}
		start = parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return models.DateRange{}, appErrors.Clone(appErrors.ErrValidation, "end_date must be formatted as YYYY-MM-DD")
		}
		end = parsed
	}
	if start.After(end) {
		return models.DateRange{}, appErrors.ErrInvalidDateRange
	}
	return models.DateRange{Start: start, End: end}, nil
}
