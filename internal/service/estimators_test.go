package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrendClassification(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   string
	}{
		{name: "flat series", values: []float64{10, 10, 10, 10}, want: "stable"},
		{name: "rising series", values: []float64{10, 20, 30, 40}, want: "increasing"},
		{name: "falling series", values: []float64{40, 30, 20, 10}, want: "decreasing"},
		{name: "slope within threshold", values: []float64{10, 10.5, 11, 11.5}, want: "stable"},
		{name: "single value", values: []float64{42}, want: "stable"},
		{name: "empty", values: nil, want: "stable"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Trend(tc.values, 1.0))
		})
	}
}

func TestGrowthRate(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "empty", values: nil, want: 0},
		{name: "single value", values: []float64{5}, want: 0},
		{name: "two values", values: []float64{10, 20}, want: 0},
		{name: "doubling across thirds", values: []float64{10, 10, 10, 15, 15, 15, 20, 20, 20}, want: 100},
		{name: "zero early mean", values: []float64{0, 0, 0, 10, 10, 10, 20, 20, 20}, want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, GrowthRate(tc.values), 0.001)
		})
	}
}

func TestGrowthRateUsesIntegerThirds(t *testing.T) {
	// n=7: early mean over the first two, late mean over the last three.
	values := []float64{10, 10, 99, 99, 99, 20, 20}
	assert.InDelta(t, 363.333, GrowthRate(values), 0.001)
}

func TestGrowthRateLateWindowRoundsUp(t *testing.T) {
	// n=4: the late window spans the last two values, the early just the first.
	values := []float64{10, 0, 30, 10}
	assert.InDelta(t, 100, GrowthRate(values), 0.001)
}
