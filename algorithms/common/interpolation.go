package common

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// BoundaryPolicy defines what an interpolator returns outside the sampled domain
type BoundaryPolicy int

const (
	// Clamp repeats the nearest endpoint value (flat extrapolation)
	Clamp BoundaryPolicy = iota
	// ZeroFill returns 0 outside the sampled domain
	ZeroFill
)

func (p BoundaryPolicy) String() string {
	switch p {
	case Clamp:
		return "clamp"
	case ZeroFill:
		return "zero_fill"
	default:
		return "unknown"
	}
}

// Interpolator performs piecewise linear interpolation over sampled (x, y) data
type Interpolator struct {
	policy BoundaryPolicy
	lo, hi float64
	pl     interp.PiecewiseLinear
}

// NewInterpolator fits a piecewise linear interpolator. xs must be strictly
// increasing and have at least two points.
func NewInterpolator(xs, ys []float64, policy BoundaryPolicy) (*Interpolator, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("length mismatch: %d x values, %d y values", len(xs), len(ys))
	}
	if len(xs) < 2 {
		return nil, fmt.Errorf("need at least 2 points, got %d", len(xs))
	}

	in := &Interpolator{
		policy: policy,
		lo:     xs[0],
		hi:     xs[len(xs)-1],
	}
	if err := in.pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("failed to fit interpolator: %w", err)
	}

	return in, nil
}

// At returns the interpolated value at x
func (in *Interpolator) At(x float64) float64 {
	if in.policy == ZeroFill && (x < in.lo || x > in.hi) {
		return 0
	}
	// gonum's PiecewiseLinear already holds endpoint values outside the domain
	return in.pl.Predict(x)
}

// Resample evaluates the interpolator at every point of grid
func (in *Interpolator) Resample(grid []float64) []float64 {
	out := make([]float64, len(grid))
	for i, x := range grid {
		out[i] = in.At(x)
	}
	return out
}

// Domain returns the first and last sampled x values
func (in *Interpolator) Domain() (lo, hi float64) {
	return in.lo, in.hi
}

// Policy returns the boundary policy
func (in *Interpolator) Policy() BoundaryPolicy {
	return in.policy
}
