package windowing

import (
	"fmt"
)

// Trapezoidal is a boxcar window whose two endpoint samples carry half
// weight. Summing a signal under it is the trapezoidal-rule integral over the
// window span, so adjacent windows stepped by size-1 samples tile the axis
// without double counting.
type Trapezoidal struct {
	size         int
	coefficients []float64
}

// NewTrapezoidal creates a new trapezoidal window. Size must be at least 2.
func NewTrapezoidal(size int) (*Trapezoidal, error) {
	if size < 2 {
		return nil, fmt.Errorf("trapezoidal window needs at least 2 samples, got %d", size)
	}
	t := &Trapezoidal{
		size: size,
	}
	t.generate()
	return t, nil
}

func (t *Trapezoidal) generate() {
	t.coefficients = make([]float64, t.size)
	for i := range t.coefficients {
		t.coefficients[i] = 1.0
	}
	t.coefficients[0] = 0.5
	t.coefficients[t.size-1] = 0.5
}

// SumAt returns the weighted sum of the window centered on signal[center].
// Size must be odd so the window has a center sample.
func (t *Trapezoidal) SumAt(signal []float64, center int) (float64, error) {
	if t.size%2 == 0 {
		return 0, fmt.Errorf("window size %d has no center sample", t.size)
	}
	half := t.size / 2
	if center-half < 0 || center+half >= len(signal) {
		return 0, fmt.Errorf("window centered at %d exceeds signal of length %d", center, len(signal))
	}

	// summation order: leading endpoint, sequential interior, trailing endpoint
	interior := 0.0
	for i := 1; i < t.size-1; i++ {
		interior += signal[center-half+i]
	}
	return t.coefficients[0]*signal[center-half] + interior + t.coefficients[t.size-1]*signal[center+half], nil
}

// Bin sums windows centered every hop samples, starting at the first center
// whose window fits and stopping before the last half window
func (t *Trapezoidal) Bin(signal []float64, hop int) ([]float64, error) {
	if hop <= 0 {
		return nil, fmt.Errorf("hop must be positive, got %d", hop)
	}
	half := t.size / 2

	var bins []float64
	for center := half; center < len(signal)-half; center += hop {
		v, err := t.SumAt(signal, center)
		if err != nil {
			return nil, err
		}
		bins = append(bins, v)
	}
	return bins, nil
}

// GetCoefficients returns a copy of the window coefficients
func (t *Trapezoidal) GetCoefficients() []float64 {
	coeffs := make([]float64, len(t.coefficients))
	copy(coeffs, t.coefficients)
	return coeffs
}

// GetSize returns the window size
func (t *Trapezoidal) GetSize() int {
	return t.size
}
