package planning

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDemandStd(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
		want   float64
	}{
		{name: "empty_series", series: nil, want: 0},
		{name: "single_point", series: []float64{42}, want: 0},
		{name: "two_points", series: []float64{10, 20}, want: math.Sqrt(50)},
		{name: "constant_series", series: []float64{5, 5, 5, 5}, want: 0},
		{name: "mixed", series: []float64{2, 4, 4, 4, 5, 5, 7, 9}, want: math.Sqrt(32.0 / 7.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DemandStd(tt.series)
			if !almostEqual(got, tt.want) {
				t.Errorf("DemandStd(%v) = %v, want %v", tt.series, got, tt.want)
			}
		})
	}
}

func TestSafetyStock(t *testing.T) {
	tests := []struct {
		name         string
		demandStd    float64
		serviceLevel float64
		want         float64
	}{
		{name: "level_99", demandStd: 10, serviceLevel: 0.99, want: 23.3},
		{name: "level_95", demandStd: 10, serviceLevel: 0.95, want: 16.45},
		{name: "level_90", demandStd: 10, serviceLevel: 0.90, want: 12.8},
		{name: "unknown_level_falls_back", demandStd: 10, serviceLevel: 0.80, want: 16.45},
		{name: "zero_std", demandStd: 0, serviceLevel: 0.99, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafetyStock(tt.demandStd, tt.serviceLevel)
			if !almostEqual(got, tt.want) {
				t.Errorf("SafetyStock(%v, %v) = %v, want %v", tt.demandStd, tt.serviceLevel, got, tt.want)
			}
		})
	}
}

func TestServiceLevelFor(t *testing.T) {
	tests := []struct {
		class string
		want  float64
	}{
		{class: "A", want: 0.99},
		{class: "B", want: 0.95},
		{class: "C", want: 0.90},
		{class: "a", want: 0.99},
		{class: " c ", want: 0.90},
		{class: "D", want: 0.95},
		{class: "", want: 0.95},
	}

	for _, tt := range tests {
		if got := ServiceLevelFor(tt.class); got != tt.want {
			t.Errorf("ServiceLevelFor(%q) = %v, want %v", tt.class, got, tt.want)
		}
	}
}

func TestZScore(t *testing.T) {
	if got := ZScore(0.99); got != 2.33 {
		t.Errorf("ZScore(0.99) = %v, want 2.33", got)
	}
	if got := ZScore(0.5); got != 1.645 {
		t.Errorf("ZScore(0.5) = %v, want fallback 1.645", got)
	}
}

func TestRoundFloat(t *testing.T) {
	tests := []struct {
		v        float64
		decimals int
		want     float64
	}{
		{v: 16.47558, decimals: 2, want: 16.48},
		{v: 26.484, decimals: 2, want: 26.48},
		{v: -1.2349, decimals: 2, want: -1.23},
		{v: 2.5, decimals: 0, want: 3},
	}

	for _, tt := range tests {
		if got := roundFloat(tt.v, tt.decimals); !almostEqual(got, tt.want) {
			t.Errorf("roundFloat(%v, %d) = %v, want %v", tt.v, tt.decimals, got, tt.want)
		}
	}
}
