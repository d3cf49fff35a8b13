package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Basic numeric helpers shared by the colorimetry packages, built on gonum

// Sum returns the sum of data
func Sum(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Sum(data)
}

// Dot returns the inner product of a and b. Lengths must match.
func Dot(a, b []float64) float64 {
	return floats.Dot(a, b)
}

// L2Norm returns sqrt(sum(x^2))
func L2Norm(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Norm(data, 2)
}

// RoundTo rounds x to the given number of decimals, half to even
func RoundTo(x float64, decimals int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	p := math.Pow(10, float64(decimals))
	return math.RoundToEven(x*p) / p
}

// RoundAll rounds every element of data in place
func RoundAll(data []float64, decimals int) {
	for i, v := range data {
		data[i] = RoundTo(v, decimals)
	}
}

// IntegerGrid returns min, min+step, ..., up to and including max
func IntegerGrid(min, max, step int) []float64 {
	if step <= 0 || max < min {
		return []float64{}
	}

	grid := make([]float64, 0, (max-min)/step+1)
	for v := min; v <= max; v += step {
		grid = append(grid, float64(v))
	}
	return grid
}

// Linspace returns n evenly spaced values over [lo, hi]
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// AllFinite reports whether data contains no NaN or Inf values
func AllFinite(data []float64) bool {
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// IsStrictlyIncreasing reports whether every element is greater than the one before
func IsStrictlyIncreasing(data []float64) bool {
	for i := 1; i < len(data); i++ {
		if !(data[i] > data[i-1]) {
			return false
		}
	}
	return true
}

// IndexOf returns the index of the element exactly equal to v in a sorted
// slice, or -1.
func IndexOf(sorted []float64, v float64) int {
	lo, hi := 0, len(sorted)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		switch {
		case sorted[mid] == v:
			return mid
		case sorted[mid] < v:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	return -1
}

// ArgMax returns the index of the largest value, or -1 for empty input
func ArgMax(data []float64) int {
	if len(data) == 0 {
		return -1
	}
	return floats.MaxIdx(data)
}
