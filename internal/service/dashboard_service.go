package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pacificreef/hotel-analytics-api/internal/models"
)

// analyticsProvider is the slice of the analytics engine the dashboard needs.
type analyticsProvider interface {
	Occupancy(ctx context.Context, rng models.DateRange) *models.OccupancyAnalytics
	Revenue(ctx context.Context, rng models.DateRange) *models.RevenueAnalytics
	Customers(ctx context.Context) *models.CustomerAnalytics
}

// DashboardService composes headline analytics for the admin dashboard.
type DashboardService struct {
	analytics analyticsProvider
	logger    *zap.Logger
	now       func() time.Time
	rangeDays int
}

// NewDashboardService constructs the dashboard composition layer.
func NewDashboardService(analytics analyticsProvider, logger *zap.Logger, rangeDays int, now func() time.Time) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	if rangeDays <= 0 {
		rangeDays = 30
	}
	return &DashboardService{analytics: analytics, logger: logger, now: now, rangeDays: rangeDays}
}

// Summary gathers the trailing-window occupancy, revenue and customer
// analytics into one dashboard payload. Like the aggregators it composes, it
// always succeeds.
func (s *DashboardService) Summary(ctx context.Context) *models.DashboardSummary {
	end := s.now()
	rng := models.DateRange{Start: end.AddDate(0, 0, -s.rangeDays), End: end}

	occupancy := s.analytics.Occupancy(ctx, rng)
	revenue := s.analytics.Revenue(ctx, rng)
	customers := s.analytics.Customers(ctx)

	return &models.DashboardSummary{
		Summary: models.DashboardFigures{
			CurrentOccupancy: occupancy.Metrics.AverageOccupancy,
			TotalRevenue:     revenue.Metrics.TotalRevenue,
			ActiveCustomers:  customers.Metrics.ActiveCustomers,
			AvgDailyRevenue:  revenue.Metrics.AverageDailyRevenue,
		},
		Trends: models.DashboardTrends{
			OccupancyTrend:    occupancy.Metrics.Trend,
			RevenueGrowth:     revenue.Metrics.GrowthRate,
			CustomerRetention: customers.Metrics.RetentionRate,
		},
		QuickInsights: []string{
			fmt.Sprintf("Current average occupancy: %.2f%%", occupancy.Metrics.AverageOccupancy),
			fmt.Sprintf("Revenue growth: %.2f%%", revenue.Metrics.GrowthRate),
			fmt.Sprintf("Customer retention: %.2f%%", customers.Metrics.RetentionRate),
		},
	}
}
