package utils

import (
	"github.com/montanaflynn/stats"
)

// ClampFloat64 clamps a float64 value between min and max
func ClampFloat64(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Mean calculates the mean of a slice of float64 values
func Mean(values []float64) float64 {
	m, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return m
}

// Variance calculates the population variance of a slice of float64 values
func Variance(values []float64) float64 {
	v, err := stats.Variance(values)
	if err != nil {
		return 0
	}
	return v
}

// StdDev calculates the standard deviation of a slice of float64 values
func StdDev(values []float64) float64 {
	sd, err := stats.StandardDeviation(values)
	if err != nil {
		return 0
	}
	return sd
}

// Percentile calculates the percentile of a slice of float64 values
// percentile should be between 0 and 100
func Percentile(values []float64, percentile float64) float64 {
	p, err := stats.Percentile(values, percentile)
	if err != nil {
		return 0
	}
	return p
}

// P50 calculates the 50th percentile (median)
func P50(values []float64) float64 {
	m, err := stats.Median(values)
	if err != nil {
		return 0
	}
	return m
}

// P95 calculates the 95th percentile
func P95(values []float64) float64 {
	return Percentile(values, 95)
}

// P99 calculates the 99th percentile
func P99(values []float64) float64 {
	return Percentile(values, 99)
}

// Sum calculates the sum of a slice of float64 values
func Sum(values []float64) float64 {
	s, err := stats.Sum(values)
	if err != nil {
		return 0
	}
	return s
}

// Linspace returns n evenly spaced values from start to stop inclusive.
// n < 2 collapses to a single start value.
func Linspace(start, stop float64, n int) []float64 {
	if n < 2 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}
