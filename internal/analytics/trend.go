package analytics

import "math"

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// Trend classifies a numeric series by comparing first-half and second-half
// means.
type Trend string

// TrendResult pairs the classification with a dispersion-derived confidence.
type TrendResult struct {
	Trend      Trend   `json:"trend"`
	Confidence float64 `json:"confidence"`
}

const minConfidence = 0.1

// ClassifyTrend compares the mean of the first half of the series to the
// mean of the second half: increasing above a 1.1 factor, decreasing below
// 0.9, stable otherwise. Fewer than two points is stable at the confidence
// floor.
func ClassifyTrend(values []float64) TrendResult {
	if len(values) < 2 {
		return TrendResult{Trend: TrendStable, Confidence: minConfidence}
	}

	half := len(values) / 2
	firstMean := Mean(values[:half])
	secondMean := Mean(values[half:])

	trend := TrendStable
	switch {
	case secondMean > firstMean*1.1:
		trend = TrendIncreasing
	case secondMean < firstMean*0.9:
		trend = TrendDecreasing
	}
	return TrendResult{Trend: trend, Confidence: Confidence(values)}
}

// Mean returns the arithmetic mean, 0 for an empty series.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Variance returns the population variance, 0 for an empty series.
func Variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation.
func StdDev(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// Confidence derives a stability score from relative dispersion:
// clamp(1 - stddev/mean, 0.3, 0.9). A zero mean yields the floor.
func Confidence(values []float64) float64 {
	mean := Mean(values)
	if mean == 0 {
		return minConfidence
	}
	return Clamp(1-StdDev(values)/mean, 0.3, 0.9)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
