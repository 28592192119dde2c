package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pacificreef/hotel-analytics-api/internal/models"
)

// activeStatuses restricts aggregation to reservations that actually occupy a
// room and produce revenue.
const activeStatuses = "('CONFIRMED', 'CHECKED_IN', 'COMPLETED')"

// AnalyticsRepository exposes the shaped reads the analytics engine consumes.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository instantiates the repository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// DailyOccupancy returns one row per day with occupied and total room counts
// for active reservations inside the inclusive date range.
func (r *AnalyticsRepository) DailyOccupancy(ctx context.Context, from, to time.Time) ([]models.DailyOccupancyRow, error) {
	query := `SELECT check_in_date::date AS date,
        COUNT(*) AS occupied_rooms,
        (SELECT COUNT(*) FROM rooms) AS total_rooms
        FROM reservations
        WHERE check_in_date::date BETWEEN $1 AND $2
        AND status IN ` + activeStatuses + `
        GROUP BY check_in_date::date
        ORDER BY date`

	var rows []models.DailyOccupancyRow
	if err := r.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("query daily occupancy: %w", err)
	}
	return rows, nil
}

// DailyRevenue returns one row per day with revenue aggregates for active
// reservations inside the inclusive date range.
func (r *AnalyticsRepository) DailyRevenue(ctx context.Context, from, to time.Time) ([]models.DailyRevenueRow, error) {
	query := `SELECT check_in_date::date AS date,
        SUM(total_amount) AS daily_revenue,
        COUNT(*) AS reservations_count,
        AVG(total_amount) AS avg_booking_value
        FROM reservations
        WHERE check_in_date::date BETWEEN $1 AND $2
        AND status IN ` + activeStatuses + `
        GROUP BY check_in_date::date
        ORDER BY date`

	var rows []models.DailyRevenueRow
	if err := r.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("query daily revenue: %w", err)
	}
	return rows, nil
}

// Customers returns every CLIENT-role user left-joined to their reservations,
// ordered by total spend.
func (r *AnalyticsRepository) Customers(ctx context.Context) ([]models.CustomerRow, error) {
	query := `SELECT u.id,
        u.first_name || ' ' || u.last_name AS full_name,
        COUNT(res.id) AS total_bookings,
        SUM(res.total_amount) AS total_spent,
        AVG(res.total_amount) AS avg_booking_value,
        MIN(res.check_in_date) AS first_booking_date,
        MAX(res.check_in_date) AS last_booking_date
        FROM users u
        LEFT JOIN reservations res ON res.user_id = u.id
        WHERE u.role = 'CLIENT'
        GROUP BY u.id, u.first_name, u.last_name
        ORDER BY total_spent DESC NULLS LAST`

	var rows []models.CustomerRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	return rows, nil
}

// RoomPerformance returns one row per room with booking and revenue totals
// across active reservations, ordered by revenue.
func (r *AnalyticsRepository) RoomPerformance(ctx context.Context) ([]models.RoomPerformanceRow, error) {
	query := `SELECT rm.number AS room_number,
        rm.type AS room_type,
        rm.price AS room_price,
        COUNT(res.id) AS total_bookings,
        AVG(res.total_amount) AS avg_revenue_per_booking,
        SUM(res.total_amount) AS total_revenue
        FROM rooms rm
        LEFT JOIN reservations res ON res.room_id = rm.id AND res.status IN ` + activeStatuses + `
        GROUP BY rm.id, rm.number, rm.type, rm.price
        ORDER BY total_revenue DESC NULLS LAST`

	var rows []models.RoomPerformanceRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("query room performance: %w", err)
	}
	return rows, nil
}

// TrailingHistory returns per-day active booking counts and revenue since the
// provided cutoff, oldest first. The forecaster feeds this to its trend curve.
func (r *AnalyticsRepository) TrailingHistory(ctx context.Context, since time.Time) ([]models.TrailingHistoryRow, error) {
	query := `SELECT check_in_date::date AS date,
        COUNT(*) AS bookings,
        SUM(total_amount) AS revenue
        FROM reservations
        WHERE check_in_date >= $1
        AND status IN ` + activeStatuses + `
        GROUP BY check_in_date::date
        ORDER BY date`

	var rows []models.TrailingHistoryRow
	if err := r.db.SelectContext(ctx, &rows, query, since); err != nil {
		return nil, fmt.Errorf("query trailing history: %w", err)
	}
	return rows, nil
}
