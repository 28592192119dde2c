package models

import "time"

// Reservation statuses that count toward occupancy and revenue aggregation.
const (
	ReservationConfirmed = "CONFIRMED"
	ReservationCheckedIn = "CHECKED_IN"
	ReservationCompleted = "COMPLETED"
)

// RoleClient marks guest accounts included in customer analytics.
const RoleClient = "CLIENT"

// Trend labels produced by the trend estimator.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// Data provenance labels carried by every analytics result.
const (
	DataSourceDatabase  = "database"
	DataSourceSynthetic = "synthetic"
)

// Customer segment names. Segments partition all customers exhaustively.
const (
	SegmentVIP        = "VIP"
	SegmentRegular    = "Regular"
	SegmentOccasional = "Occasional"
	SegmentNew        = "New"
)

// DateRange is an inclusive calendar date interval. Callers validate ordering
// before it reaches the engine.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the inclusive number of calendar days covered by the range.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Period echoes the requested range back in the result payload.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// OccupancyDay is one day of occupancy detail.
type OccupancyDay struct {
	Date          string  `json:"date"`
	OccupiedRooms int     `json:"occupied_rooms"`
	TotalRooms    int     `json:"total_rooms"`
	OccupancyRate float64 `json:"occupancy_rate"`
}

// OccupancyMetrics summarises a sequence of OccupancyDay records.
type OccupancyMetrics struct {
	AverageOccupancy float64 `json:"average_occupancy"`
	PeakOccupancy    float64 `json:"peak_occupancy"`
	LowestOccupancy  float64 `json:"lowest_occupancy"`
	Trend            string  `json:"trend"`
}

// OccupancyAnalytics is the occupancy aggregator result envelope.
type OccupancyAnalytics struct {
	Period     Period           `json:"period"`
	Metrics    OccupancyMetrics `json:"metrics"`
	DailyData  []OccupancyDay   `json:"daily_data"`
	Insights   []string         `json:"insights"`
	DataSource string           `json:"data_source"`
}

// RevenueDay is one day of revenue detail.
type RevenueDay struct {
	Date              string  `json:"date"`
	DailyRevenue      float64 `json:"daily_revenue"`
	ReservationsCount int     `json:"reservations_count"`
	AvgBookingValue   float64 `json:"avg_booking_value"`
}

// RevenueMetrics summarises a sequence of RevenueDay records.
type RevenueMetrics struct {
	TotalRevenue        float64 `json:"total_revenue"`
	AverageDailyRevenue float64 `json:"average_daily_revenue"`
	PeakRevenue         float64 `json:"peak_revenue"`
	PeakRevenueDate     string  `json:"peak_revenue_date"`
	GrowthRate          float64 `json:"growth_rate"`
}

// RevenueAnalytics is the revenue aggregator result envelope.
type RevenueAnalytics struct {
	Period     Period         `json:"period"`
	Metrics    RevenueMetrics `json:"metrics"`
	DailyData  []RevenueDay   `json:"daily_data"`
	Insights   []string       `json:"insights"`
	DataSource string         `json:"data_source"`
}

// CustomerRecord is one CLIENT-role guest with booking aggregates.
type CustomerRecord struct {
	ID               int64   `json:"id"`
	FullName         string  `json:"full_name"`
	TotalBookings    int     `json:"total_bookings"`
	TotalSpent       float64 `json:"total_spent"`
	AvgBookingValue  float64 `json:"avg_booking_value"`
	FirstBookingDate string  `json:"first_booking_date,omitempty"`
	LastBookingDate  string  `json:"last_booking_date,omitempty"`
}

// CustomerSegment is a named spend bucket.
type CustomerSegment struct {
	Count       int     `json:"count"`
	AvgValue    float64 `json:"avg_value"`
	Description string  `json:"description"`
}

// CustomerMetrics summarises the customer base.
type CustomerMetrics struct {
	TotalCustomers   int     `json:"total_customers"`
	ActiveCustomers  int     `json:"active_customers"`
	AvgCustomerValue float64 `json:"avg_customer_value"`
	RetentionRate    float64 `json:"retention_rate"`
}

// CustomerAnalytics is the customer aggregator result envelope.
type CustomerAnalytics struct {
	Metrics      CustomerMetrics            `json:"metrics"`
	Segments     map[string]CustomerSegment `json:"segments"`
	TopCustomers []CustomerRecord           `json:"top_customers"`
	Insights     []string                   `json:"insights"`
	DataSource   string                     `json:"data_source"`
}

// RoomPerformanceRecord is one room with booking and revenue aggregates.
type RoomPerformanceRecord struct {
	RoomNumber           string  `json:"room_number"`
	RoomType             string  `json:"room_type"`
	RoomPrice            float64 `json:"room_price"`
	TotalBookings        int     `json:"total_bookings"`
	AvgRevenuePerBooking float64 `json:"avg_revenue_per_booking"`
	TotalRevenue         float64 `json:"total_revenue"`
}

// RoomTypeAnalysis summarises performance per room type.
type RoomTypeAnalysis struct {
	AvgOccupancy float64 `json:"avg_occupancy"`
	AvgRate      float64 `json:"avg_rate"`
	RevenueShare float64 `json:"revenue_share"`
}

// RoomPerformanceMetrics captures portfolio-level room statistics.
type RoomPerformanceMetrics struct {
	TopPerformer         string  `json:"top_performer"`
	TotalRevenue         float64 `json:"total_revenue"`
	AvgRevenuePerBooking float64 `json:"avg_revenue_per_booking"`
}

// RoomPerformanceAnalytics is the room performance aggregator result envelope.
type RoomPerformanceAnalytics struct {
	RoomPerformance []RoomPerformanceRecord     `json:"room_performance"`
	TypeAnalysis    map[string]RoomTypeAnalysis `json:"type_analysis"`
	Metrics         RoomPerformanceMetrics      `json:"metrics"`
	Insights        []string                    `json:"insights"`
	DataSource      string                      `json:"data_source"`
}

// ForecastPoint is one predicted day of demand.
type ForecastPoint struct {
	Date               string  `json:"date"`
	PredictedOccupancy float64 `json:"predicted_occupancy"`
	PredictedRevenue   int     `json:"predicted_revenue"`
	Confidence         int     `json:"confidence"`
}

// DemandForecast is the forecaster result envelope.
type DemandForecast struct {
	ForecastPeriod     string          `json:"forecast_period"`
	Predictions        []ForecastPoint `json:"predictions"`
	ConfidenceInterval string          `json:"confidence_interval"`
	Methodology        string          `json:"methodology"`
	Insights           []string        `json:"insights"`
	DataSource         string          `json:"data_source"`
}

// DashboardSummary composes headline figures for the admin dashboard.
type DashboardSummary struct {
	Summary       DashboardFigures `json:"summary"`
	Trends        DashboardTrends  `json:"trends"`
	QuickInsights []string         `json:"quick_insights"`
}

// DashboardFigures are the headline scalar values.
type DashboardFigures struct {
	CurrentOccupancy float64 `json:"current_occupancy"`
	TotalRevenue     float64 `json:"total_revenue"`
	ActiveCustomers  int     `json:"active_customers"`
	AvgDailyRevenue  float64 `json:"avg_daily_revenue"`
}

// DashboardTrends are the headline direction indicators.
type DashboardTrends struct {
	OccupancyTrend    string  `json:"occupancy_trend"`
	RevenueGrowth     float64 `json:"revenue_growth"`
	CustomerRetention float64 `json:"customer_retention"`
}
