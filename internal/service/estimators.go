package service

import (
	"github.com/pacificreef/hotel-analytics-api/internal/models"
)

// Trend classifies the direction of an ordered series via the slope of a
// degree-1 least-squares fit over index positions. The threshold is in
// absolute units of the series (percentage points or currency per day), not
// normalised by scale; the default of 1.0 is kept for compatibility with the
// figures the hotel's dashboards were built against.
func Trend(values []float64, slopeThreshold float64) string {
	if len(values) < 2 {
		return models.TrendStable
	}

	n := float64(len(values))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return models.TrendStable
	}
	slope := (n*sumXY - sumX*sumY) / denom

	switch {
	case slope > slopeThreshold:
		return models.TrendIncreasing
	case slope < -slopeThreshold:
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}

// GrowthRate computes the percentage change between the early and late thirds
// of an ordered series. The early window is the first n/3 values rounded down
// and the late window the last n/3 rounded up, so for short series the windows
// may overlap. A zero early mean yields 0.
func GrowthRate(values []float64) float64 {
	if len(values) < 2 {
		return 0.0
	}

	n := len(values)
	early := mean(values[:n/3])
	late := mean(values[n-(n+2)/3:])

	if early == 0 {
		return 0.0
	}
	return (late - early) / early * 100
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}
