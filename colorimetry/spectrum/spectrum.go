package spectrum

import (
	"fmt"

	"github.com/RyanBlaney/sonido-ssi/algorithms/common"
)

// Sample is a single (wavelength, intensity) pair
type Sample struct {
	Wavelength float64 `json:"wavelength"` // nm
	Intensity  float64 `json:"intensity"`
}

// Spectrum is an immutable spectral power distribution with strictly
// increasing wavelengths in nm. Construct it with New or FromSamples.
type Spectrum struct {
	wavelengths []float64
	intensities []float64
}

// New validates and copies the given columns into a Spectrum
func New(wavelengths, intensities []float64) (*Spectrum, error) {
	if len(wavelengths) != len(intensities) {
		return nil, fmt.Errorf("%w: %d wavelengths but %d intensities",
			ErrMalformedInput, len(wavelengths), len(intensities))
	}
	if len(wavelengths) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 samples, got %d", ErrMalformedInput, len(wavelengths))
	}
	if !common.AllFinite(wavelengths) {
		return nil, fmt.Errorf("%w: wavelengths must be finite numbers", ErrMalformedInput)
	}
	if !common.AllFinite(intensities) {
		return nil, fmt.Errorf("%w: intensities must be finite numbers", ErrMalformedInput)
	}
	if !common.IsStrictlyIncreasing(wavelengths) {
		return nil, fmt.Errorf("%w: wavelengths must be strictly increasing", ErrMalformedInput)
	}

	s := &Spectrum{
		wavelengths: make([]float64, len(wavelengths)),
		intensities: make([]float64, len(intensities)),
	}
	copy(s.wavelengths, wavelengths)
	copy(s.intensities, intensities)
	return s, nil
}

// FromSamples builds a Spectrum from (wavelength, intensity) pairs in order
func FromSamples(samples []Sample) (*Spectrum, error) {
	wavelengths := make([]float64, len(samples))
	intensities := make([]float64, len(samples))
	for i, smp := range samples {
		wavelengths[i] = smp.Wavelength
		intensities[i] = smp.Intensity
	}
	return New(wavelengths, intensities)
}

// Len returns the number of samples
func (s *Spectrum) Len() int {
	return len(s.wavelengths)
}

// Wavelengths returns a copy of the wavelength column
func (s *Spectrum) Wavelengths() []float64 {
	out := make([]float64, len(s.wavelengths))
	copy(out, s.wavelengths)
	return out
}

// Intensities returns a copy of the intensity column
func (s *Spectrum) Intensities() []float64 {
	out := make([]float64, len(s.intensities))
	copy(out, s.intensities)
	return out
}

// Samples returns the spectrum as (wavelength, intensity) pairs
func (s *Spectrum) Samples() []Sample {
	out := make([]Sample, len(s.wavelengths))
	for i := range s.wavelengths {
		out[i] = Sample{Wavelength: s.wavelengths[i], Intensity: s.intensities[i]}
	}
	return out
}

// Domain returns the first and last wavelength
func (s *Spectrum) Domain() (lo, hi float64) {
	return s.wavelengths[0], s.wavelengths[len(s.wavelengths)-1]
}

// IntensityAt returns the intensity sampled exactly at wavelength wl
func (s *Spectrum) IntensityAt(wl float64) (float64, bool) {
	i := common.IndexOf(s.wavelengths, wl)
	if i < 0 {
		return 0, false
	}
	return s.intensities[i], true
}

// Interpolator returns a linear interpolator over the spectrum
func (s *Spectrum) Interpolator(policy common.BoundaryPolicy) *common.Interpolator {
	// construction already checked everything Fit can reject
	in, err := common.NewInterpolator(s.wavelengths, s.intensities, policy)
	if err != nil {
		panic(fmt.Sprintf("spectrum: invariant violated: %v", err))
	}
	return in
}

// Scale returns a copy with every intensity multiplied by k. A product that
// is not finite fails like New.
func (s *Spectrum) Scale(k float64) (*Spectrum, error) {
	intensities := make([]float64, len(s.intensities))
	for i, v := range s.intensities {
		intensities[i] = v * k
	}
	return New(s.wavelengths, intensities)
}

// Round returns a copy with intensities rounded to decimals (half to even)
func (s *Spectrum) Round(decimals int) *Spectrum {
	out := &Spectrum{
		wavelengths: s.Wavelengths(),
		intensities: s.Intensities(),
	}
	common.RoundAll(out.intensities, decimals)
	return out
}
