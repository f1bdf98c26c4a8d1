package analytics

import (
	"math"
	"testing"
)

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Trend
	}{
		{"strictly increasing", []float64{10, 20, 30, 40, 50, 60}, TrendIncreasing},
		{"strictly decreasing", []float64{60, 50, 40, 30, 20, 10}, TrendDecreasing},
		{"constant", []float64{25, 25, 25, 25}, TrendStable},
		{"small drift stays stable", []float64{100, 100, 102, 104}, TrendStable},
		{"empty", nil, TrendStable},
		{"single point", []float64{42}, TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyTrend(tt.values)
			if got.Trend != tt.want {
				t.Errorf("ClassifyTrend(%v) = %s, want %s", tt.values, got.Trend, tt.want)
			}
			if got.Confidence < 0.1 || got.Confidence > 0.9 {
				t.Errorf("confidence %v out of [0.1, 0.9]", got.Confidence)
			}
		})
	}
}

func TestClassifyTrendSymmetry(t *testing.T) {
	values := []float64{5, 10, 15, 20, 25, 30, 35, 40}
	reversed := make([]float64, len(values))
	for i, v := range values {
		reversed[len(values)-1-i] = v
	}

	if got := ClassifyTrend(values).Trend; got != TrendIncreasing {
		t.Errorf("forward series = %s, want increasing", got)
	}
	if got := ClassifyTrend(reversed).Trend; got != TrendDecreasing {
		t.Errorf("reversed series = %s, want decreasing", got)
	}
}

func TestClassifyTrendShortSeriesConfidenceFloor(t *testing.T) {
	got := ClassifyTrend([]float64{7})
	if got.Confidence != 0.1 {
		t.Errorf("short series confidence = %v, want floor 0.1", got.Confidence)
	}
}

func TestVarianceAndStdDev(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got := Variance(values); got != 4 {
		t.Errorf("Variance = %v, want 4", got)
	}
	if got := StdDev(values); got != 2 {
		t.Errorf("StdDev = %v, want 2", got)
	}
	if got := Variance(nil); got != 0 {
		t.Errorf("Variance(nil) = %v, want 0", got)
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"zero mean", []float64{0, 0, 0}, 0.1},
		{"empty", nil, 0.1},
		{"perfectly steady", []float64{50, 50, 50}, 0.9}, // 1 - 0 clamped to 0.9
		{"wildly dispersed", []float64{1, 1000}, 0.3},    // clamped to floor 0.3
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Confidence(tt.values)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Confidence(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(-5, 0, 100); got != 0 {
		t.Errorf("Clamp(-5) = %v, want 0", got)
	}
	if got := Clamp(250, 0, 100); got != 100 {
		t.Errorf("Clamp(250) = %v, want 100", got)
	}
	if got := Clamp(42, 0, 100); got != 42 {
		t.Errorf("Clamp(42) = %v, want 42", got)
	}
}
