package models

import (
	"database/sql"
	"time"
)

// Row types returned by the reservation store reads. Aggregates over
// LEFT JOINs can be NULL, hence the sql.Null wrappers.

// DailyOccupancyRow is one day of occupied-versus-total room counts.
type DailyOccupancyRow struct {
	Date          time.Time `db:"date"`
	OccupiedRooms int       `db:"occupied_rooms"`
	TotalRooms    int       `db:"total_rooms"`
}

// DailyRevenueRow is one day of reservation revenue aggregates.
type DailyRevenueRow struct {
	Date              time.Time `db:"date"`
	DailyRevenue      float64   `db:"daily_revenue"`
	ReservationsCount int       `db:"reservations_count"`
	AvgBookingValue   float64   `db:"avg_booking_value"`
}

// CustomerRow is one CLIENT-role user joined to their reservations.
type CustomerRow struct {
	ID               int64           `db:"id"`
	FullName         string          `db:"full_name"`
	TotalBookings    int             `db:"total_bookings"`
	TotalSpent       sql.NullFloat64 `db:"total_spent"`
	AvgBookingValue  sql.NullFloat64 `db:"avg_booking_value"`
	FirstBookingDate sql.NullTime    `db:"first_booking_date"`
	LastBookingDate  sql.NullTime    `db:"last_booking_date"`
}

// RoomPerformanceRow is one room joined to its active reservations.
type RoomPerformanceRow struct {
	RoomNumber           string          `db:"room_number"`
	RoomType             string          `db:"room_type"`
	RoomPrice            float64         `db:"room_price"`
	TotalBookings        int             `db:"total_bookings"`
	AvgRevenuePerBooking sql.NullFloat64 `db:"avg_revenue_per_booking"`
	TotalRevenue         sql.NullFloat64 `db:"total_revenue"`
}

// TrailingHistoryRow is one day of booking history used by the forecaster.
type TrailingHistoryRow struct {
	Date     time.Time `db:"date"`
	Bookings int       `db:"bookings"`
	Revenue  float64   `db:"revenue"`
}
