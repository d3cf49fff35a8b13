package spectrum

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-ssi/algorithms/common"
)

// Normalization grid shared by every calculation: integer nm over
// [300, 830], unit intensity at 560 nm.
const (
	MinWavelength       = 300
	MaxWavelength       = 830
	ReferenceWavelength = 560
)

// Resampler interpolates spectra onto a uniform integer-nm grid and
// normalizes them to unit intensity at a reference wavelength. Outside a
// spectrum's native domain the boundary value is held.
type Resampler struct {
	grid      []float64
	reference int
}

// NewResampler creates a resampler over [min, max] in step nm with
// normalization at reference nm
func NewResampler(min, max, step, reference int) (*Resampler, error) {
	grid := common.IntegerGrid(min, max, step)
	if len(grid) < 2 {
		return nil, fmt.Errorf("resampling grid [%d, %d] step %d has fewer than 2 points", min, max, step)
	}
	idx := common.IndexOf(grid, float64(reference))
	if idx < 0 {
		return nil, fmt.Errorf("reference wavelength %d nm is not on the resampling grid", reference)
	}

	return &Resampler{
		grid:      grid,
		reference: idx,
	}, nil
}

// DefaultResampler returns the standard 300-830 nm, 1 nm, 560 nm resampler
func DefaultResampler() *Resampler {
	r, err := NewResampler(MinWavelength, MaxWavelength, 1, ReferenceWavelength)
	if err != nil {
		panic(err)
	}
	return r
}

// Grid returns a copy of the target wavelength grid
func (r *Resampler) Grid() []float64 {
	out := make([]float64, len(r.grid))
	copy(out, r.grid)
	return out
}

// Resample interpolates s onto the grid without normalizing
func (r *Resampler) Resample(s *Spectrum) (*Spectrum, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil spectrum", ErrMalformedInput)
	}
	values := s.Interpolator(common.Clamp).Resample(r.grid)
	return New(r.grid, values)
}

// Normalize interpolates s onto the grid and divides by the value at the
// reference wavelength, which is exactly 1 afterwards
func (r *Resampler) Normalize(s *Spectrum) (*Spectrum, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil spectrum", ErrMalformedInput)
	}
	values := s.Interpolator(common.Clamp).Resample(r.grid)

	ref := values[r.reference]
	if ref == 0 || math.IsNaN(ref) || math.IsInf(ref, 0) {
		return nil, fmt.Errorf("%w: intensity at %g nm is %g", ErrDegenerateSpectrum, r.grid[r.reference], ref)
	}

	normalized := common.NewReferenceNormalizer(r.reference).Normalize(values)

	out, err := New(r.grid, normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: normalized intensities overflow", ErrDegenerateSpectrum)
	}
	return out, nil
}
