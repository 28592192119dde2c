package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/pacificreef/hotel-analytics-api/internal/service"
)

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	db      *sqlx.DB
}

// NewMetricsHandler constructs a metrics handler. db may be nil when the
// reservation store is unavailable.
func NewMetricsHandler(metrics *service.MetricsService, db *sqlx.DB) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, db: db}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for liveness usage.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports readiness including the reservation store. The service stays
// ready without the store since analytics fall back to synthetic data.
func (h *MetricsHandler) Ready(c *gin.Context) {
	store := "ok"
	if h.db == nil {
		store = "unavailable"
	} else if err := h.db.PingContext(c.Request.Context()); err != nil {
		store = "unavailable"
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "reservation_store": store})
}
