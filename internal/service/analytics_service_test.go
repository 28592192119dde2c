package service

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pacificreef/hotel-analytics-api/internal/models"
	"github.com/pacificreef/hotel-analytics-api/pkg/config"
)

type stubRepo struct {
	occupancy    []models.DailyOccupancyRow
	occupancyErr error
	revenue      []models.DailyRevenueRow
	revenueErr   error
	customers    []models.CustomerRow
	customersErr error
	rooms        []models.RoomPerformanceRow
	roomsErr     error
	history      []models.TrailingHistoryRow
	historyErr   error
}

func (s *stubRepo) DailyOccupancy(context.Context, time.Time, time.Time) ([]models.DailyOccupancyRow, error) {
	return s.occupancy, s.occupancyErr
}

func (s *stubRepo) DailyRevenue(context.Context, time.Time, time.Time) ([]models.DailyRevenueRow, error) {
	return s.revenue, s.revenueErr
}

func (s *stubRepo) Customers(context.Context) ([]models.CustomerRow, error) {
	return s.customers, s.customersErr
}

func (s *stubRepo) RoomPerformance(context.Context) ([]models.RoomPerformanceRow, error) {
	return s.rooms, s.roomsErr
}

func (s *stubRepo) TrailingHistory(context.Context, time.Time) ([]models.TrailingHistoryRow, error) {
	return s.history, s.historyErr
}

func newTestService(t *testing.T, repo AnalyticsRepository) *AnalyticsService {
	t.Helper()
	synthetic := NewSyntheticGenerator(config.AnalyticsConfig{}, rand.New(rand.NewSource(1)), fixedClock(t))
	return NewAnalyticsService(repo, synthetic, nil, nil, config.AnalyticsConfig{}, fixedClock(t))
}

func day(offset int) time.Time {
	return time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestOccupancyFromStore(t *testing.T) {
	repo := &stubRepo{occupancy: []models.DailyOccupancyRow{
		{Date: day(0), OccupiedRooms: 90, TotalRooms: 120},
		{Date: day(1), OccupiedRooms: 100, TotalRooms: 120},
		{Date: day(2), OccupiedRooms: 110, TotalRooms: 120},
	}}
	svc := newTestService(t, repo)

	result := svc.Occupancy(context.Background(), models.DateRange{Start: day(0), End: day(2)})

	require.Len(t, result.DailyData, 3)
	assert.Equal(t, models.DataSourceDatabase, result.DataSource)
	assert.InDelta(t, 75.0, result.DailyData[0].OccupancyRate, 0.001)
	assert.InDelta(t, 83.33, result.DailyData[1].OccupancyRate, 0.001)
	assert.InDelta(t, 91.67, result.DailyData[2].OccupancyRate, 0.001)
	assert.InDelta(t, 83.33, result.Metrics.AverageOccupancy, 0.001)
	assert.InDelta(t, 91.67, result.Metrics.PeakOccupancy, 0.001)
	assert.InDelta(t, 75.0, result.Metrics.LowestOccupancy, 0.001)
	assert.Equal(t, models.TrendIncreasing, result.Metrics.Trend)
	assert.Contains(t, result.Insights[0], "Excellent occupancy")
}

func TestOccupancyFallsBackOnError(t *testing.T) {
	repo := &stubRepo{occupancyErr: errors.New("connection refused")}
	svc := newTestService(t, repo)

	result := svc.Occupancy(context.Background(), models.DateRange{Start: day(0), End: day(6)})

	assert.Equal(t, models.DataSourceSynthetic, result.DataSource)
	assert.Len(t, result.DailyData, 7)
}

func TestOccupancyFallsBackOnEmptyRange(t *testing.T) {
	svc := newTestService(t, &stubRepo{})

	result := svc.Occupancy(context.Background(), models.DateRange{Start: day(0), End: day(2)})

	assert.Equal(t, models.DataSourceSynthetic, result.DataSource)
	assert.Len(t, result.DailyData, 3)
}

func TestRevenueFromStore(t *testing.T) {
	repo := &stubRepo{revenue: []models.DailyRevenueRow{
		{Date: day(0), DailyRevenue: 1000, ReservationsCount: 4, AvgBookingValue: 250},
		{Date: day(1), DailyRevenue: 2000, ReservationsCount: 5, AvgBookingValue: 400},
		{Date: day(2), DailyRevenue: 3000, ReservationsCount: 6, AvgBookingValue: 500},
	}}
	svc := newTestService(t, repo)

	result := svc.Revenue(context.Background(), models.DateRange{Start: day(0), End: day(2)})

	assert.Equal(t, models.DataSourceDatabase, result.DataSource)
	assert.InDelta(t, 6000, result.Metrics.TotalRevenue, 0.001)
	assert.InDelta(t, 2000, result.Metrics.AverageDailyRevenue, 0.001)
	assert.InDelta(t, 3000, result.Metrics.PeakRevenue, 0.001)
	assert.Equal(t, day(2).Format("2006-01-02"), result.Metrics.PeakRevenueDate)
	// third = 1: early [1000], late [3000].
	assert.InDelta(t, 200, result.Metrics.GrowthRate, 0.001)
	assert.Contains(t, result.Insights[0], "Average daily revenue: $2,000.00")
	assert.Contains(t, result.Insights, "Revenue showing consistent growth trend")
}

func TestRevenuePeakDateOnAllZeroDays(t *testing.T) {
	repo := &stubRepo{revenue: []models.DailyRevenueRow{
		{Date: day(0)},
		{Date: day(1)},
		{Date: day(2)},
	}}
	svc := newTestService(t, repo)

	result := svc.Revenue(context.Background(), models.DateRange{Start: day(0), End: day(2)})

	assert.InDelta(t, 0, result.Metrics.PeakRevenue, 0.001)
	assert.Equal(t, day(0).Format("2006-01-02"), result.Metrics.PeakRevenueDate)
}

func TestCustomerSegmentation(t *testing.T) {
	spends := []float64{3000, 3000, 600, 600, 600, 300, 300, 100}
	rows := make([]models.CustomerRow, 0, len(spends))
	for i, spent := range spends {
		rows = append(rows, models.CustomerRow{
			ID:            int64(i + 1),
			FullName:      "Guest",
			TotalBookings: 2,
			TotalSpent:    sql.NullFloat64{Float64: spent, Valid: true},
		})
	}
	svc := newTestService(t, &stubRepo{customers: rows})

	result := svc.Customers(context.Background())

	assert.Equal(t, models.DataSourceDatabase, result.DataSource)
	assert.Equal(t, 8, result.Metrics.TotalCustomers)
	assert.Equal(t, 8, result.Metrics.ActiveCustomers)
	assert.InDelta(t, 100, result.Metrics.RetentionRate, 0.001)

	assert.Equal(t, 2, result.Segments[models.SegmentVIP].Count)
	assert.Equal(t, 3, result.Segments[models.SegmentRegular].Count)
	assert.Equal(t, 2, result.Segments[models.SegmentOccasional].Count)
	assert.Equal(t, 1, result.Segments[models.SegmentNew].Count)
	assert.InDelta(t, 3000, result.Segments[models.SegmentVIP].AvgValue, 0.001)
	assert.InDelta(t, 100, result.Segments[models.SegmentNew].AvgValue, 0.001)
}

func TestCustomersRetentionCountsBookers(t *testing.T) {
	rows := []models.CustomerRow{
		{ID: 1, FullName: "A", TotalBookings: 3, TotalSpent: sql.NullFloat64{Float64: 900, Valid: true}},
		{ID: 2, FullName: "B", TotalBookings: 0},
		{ID: 3, FullName: "C", TotalBookings: 1, TotalSpent: sql.NullFloat64{Float64: 250, Valid: true}},
		{ID: 4, FullName: "D", TotalBookings: 0},
	}
	svc := newTestService(t, &stubRepo{customers: rows})

	result := svc.Customers(context.Background())

	assert.Equal(t, 4, result.Metrics.TotalCustomers)
	assert.Equal(t, 2, result.Metrics.ActiveCustomers)
	assert.InDelta(t, 50, result.Metrics.RetentionRate, 0.001)
}

func TestCustomersTopListCapped(t *testing.T) {
	rows := make([]models.CustomerRow, 0, 12)
	for i := 0; i < 12; i++ {
		rows = append(rows, models.CustomerRow{
			ID:            int64(i + 1),
			FullName:      "Guest",
			TotalBookings: 1,
			TotalSpent:    sql.NullFloat64{Float64: float64(1200 - i*100), Valid: true},
		})
	}
	svc := newTestService(t, &stubRepo{customers: rows})

	result := svc.Customers(context.Background())

	assert.Len(t, result.TopCustomers, 10)
	assert.Equal(t, 12, result.Metrics.TotalCustomers)
}

func TestRoomPerformanceFromStore(t *testing.T) {
	repo := &stubRepo{rooms: []models.RoomPerformanceRow{
		{RoomNumber: "301", RoomType: "SUITE", RoomPrice: 350, TotalBookings: 10,
			AvgRevenuePerBooking: sql.NullFloat64{Float64: 350, Valid: true},
			TotalRevenue:         sql.NullFloat64{Float64: 3500, Valid: true}},
		{RoomNumber: "101", RoomType: "STANDARD", RoomPrice: 120, TotalBookings: 20,
			AvgRevenuePerBooking: sql.NullFloat64{Float64: 120, Valid: true},
			TotalRevenue:         sql.NullFloat64{Float64: 2400, Valid: true}},
		{RoomNumber: "102", RoomType: "STANDARD", RoomPrice: 130, TotalBookings: 10,
			AvgRevenuePerBooking: sql.NullFloat64{Float64: 130, Valid: true},
			TotalRevenue:         sql.NullFloat64{Float64: 1300, Valid: true}},
	}}
	svc := newTestService(t, repo)

	result := svc.RoomPerformance(context.Background())

	assert.Equal(t, models.DataSourceDatabase, result.DataSource)
	assert.Equal(t, "301", result.Metrics.TopPerformer)
	assert.InDelta(t, 7200, result.Metrics.TotalRevenue, 0.001)
	assert.InDelta(t, 180, result.Metrics.AvgRevenuePerBooking, 0.001)

	suite := result.TypeAnalysis["SUITE"]
	standard := result.TypeAnalysis["STANDARD"]
	// STANDARD averages 15 bookings per room, SUITE 10: the busiest type
	// defines 100.
	assert.InDelta(t, 100, standard.AvgOccupancy, 0.001)
	assert.InDelta(t, 66.67, suite.AvgOccupancy, 0.001)
	assert.InDelta(t, 125, standard.AvgRate, 0.001)
	assert.InDelta(t, 48.61, suite.RevenueShare, 0.001)
	assert.InDelta(t, 51.39, standard.RevenueShare, 0.001)
}

func TestForecastAnchorsOnHistory(t *testing.T) {
	history := make([]models.TrailingHistoryRow, 0, 10)
	for i := 0; i < 10; i++ {
		history = append(history, models.TrailingHistoryRow{Date: day(-i), Bookings: 96})
	}
	svc := newTestService(t, &stubRepo{history: history})

	result := svc.Forecast(context.Background())

	require.Len(t, result.Predictions, 30)
	assert.Equal(t, models.DataSourceDatabase, result.DataSource)
	assert.Equal(t, "30 days", result.ForecastPeriod)
	assert.Equal(t, "85%", result.ConfidenceInterval)
	// Base 80 with jitter [-10,15) and amplitude 5 keeps the curve well
	// above the floor.
	for _, point := range result.Predictions {
		assert.GreaterOrEqual(t, point.PredictedOccupancy, 40.0)
		assert.LessOrEqual(t, point.PredictedOccupancy, 100.0)
	}
}

func TestFallbackIncrementsSyntheticCounter(t *testing.T) {
	metrics := NewMetricsService()
	synthetic := NewSyntheticGenerator(config.AnalyticsConfig{}, rand.New(rand.NewSource(1)), fixedClock(t))
	svc := NewAnalyticsService(&stubRepo{occupancyErr: errors.New("connection refused")}, synthetic, metrics, nil, config.AnalyticsConfig{}, fixedClock(t))

	svc.Occupancy(context.Background(), models.DateRange{Start: day(0), End: day(2)})

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `analytics_synthetic_fallback_total{metric="occupancy"} 1`)
}

func TestForecastFallsBackWithoutHistory(t *testing.T) {
	svc := newTestService(t, &stubRepo{historyErr: errors.New("timeout")})

	result := svc.Forecast(context.Background())

	assert.Equal(t, models.DataSourceSynthetic, result.DataSource)
	require.Len(t, result.Predictions, 30)
}

func TestFormatDollarsGroupsThousands(t *testing.T) {
	assert.Equal(t, "$0.00", formatDollars(0))
	assert.Equal(t, "$999.00", formatDollars(999))
	assert.Equal(t, "$15,234.50", formatDollars(15234.5))
	assert.Equal(t, "$1,234,567.89", formatDollars(1234567.89))
}
