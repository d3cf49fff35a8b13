// Package cct estimates correlated colour temperature from spectra.
package cct

import (
	"errors"
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-ssi/algorithms/common"
	"github.com/RyanBlaney/sonido-ssi/colorimetry/cmf"
	"github.com/RyanBlaney/sonido-ssi/colorimetry/spectrum"
	"github.com/lucasb-eyer/go-colorful"
)

// ErrGridMismatch reports a spectrum that is not sampled at every colour
// matching function wavelength. It matches spectrum.ErrMalformedInput.
var ErrGridMismatch = fmt.Errorf("%w: spectrum grid does not cover the colour matching functions", spectrum.ErrMalformedInput)

// McCamy (1992) cubic approximation, "Correlated color temperature as an
// explicit function of chromaticity coordinates", Color Res. Appl. 17(2).
const (
	epicenterX = 0.3320
	epicenterY = 0.1858

	mcCamyA = -449.0
	mcCamyB = 3525.0
	mcCamyC = -6823.3
	mcCamyD = 5520.33
)

// zeroTristimulus is the X+Y+Z magnitude below which chromaticity is undefined
const zeroTristimulus = 1e-14

// Tristimulus holds CIE XYZ tristimulus values
type Tristimulus struct {
	X float64 `json:"X"`
	Y float64 `json:"Y"`
	Z float64 `json:"Z"`
}

// Chromaticity holds CIE 1931 xy chromaticity coordinates
type Chromaticity struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Estimator derives tristimulus values, chromaticity and CCT from spectra
// using a colour matching function table.
//
// Spectra must be sampled at every wavelength of the table (resample them
// onto the integer nm grid first). Samples outside the table are ignored.
type Estimator struct {
	wavelengths      []float64
	xBar, yBar, zBar []float64
}

// NewEstimator creates an estimator bound to table
func NewEstimator(table *cmf.Table) (*Estimator, error) {
	if table == nil || table.Len() == 0 {
		return nil, fmt.Errorf("%w: colour matching functions required", spectrum.ErrMissingReferenceData)
	}
	xBar, yBar, zBar := table.Columns()
	return &Estimator{
		wavelengths: table.Wavelengths(),
		xBar:        xBar,
		yBar:        yBar,
		zBar:        zBar,
	}, nil
}

// Tristimulus computes X = ΣI·x̄, Y = ΣI·ȳ, Z = ΣI·z̄ over the table wavelengths
func (e *Estimator) Tristimulus(s *spectrum.Spectrum) (Tristimulus, error) {
	if s == nil {
		return Tristimulus{}, fmt.Errorf("%w: nil spectrum", spectrum.ErrMalformedInput)
	}

	intensities := make([]float64, len(e.wavelengths))
	for i, wl := range e.wavelengths {
		v, ok := s.IntensityAt(wl)
		if !ok {
			return Tristimulus{}, fmt.Errorf("%w: no sample at %g nm", ErrGridMismatch, wl)
		}
		intensities[i] = v
	}

	return Tristimulus{
		X: common.Dot(intensities, e.xBar),
		Y: common.Dot(intensities, e.yBar),
		Z: common.Dot(intensities, e.zBar),
	}, nil
}

// Chromaticity computes xy chromaticity coordinates of s
func (e *Estimator) Chromaticity(s *spectrum.Spectrum) (Chromaticity, error) {
	xyz, err := e.Tristimulus(s)
	if err != nil {
		return Chromaticity{}, err
	}
	return xyz.Chromaticity()
}

// Estimate returns the McCamy CCT of s in Kelvin. The result is not clamped
// to any physical range; choosing an illuminant family for it is up to the
// caller.
func (e *Estimator) Estimate(s *spectrum.Spectrum) (float64, error) {
	xy, err := e.Chromaticity(s)
	if err != nil {
		return 0, err
	}
	return McCamy(xy.X, xy.Y), nil
}

// Chromaticity converts tristimulus values to xy
func (t Tristimulus) Chromaticity() (Chromaticity, error) {
	sum := t.X + t.Y + t.Z
	if math.IsNaN(sum) || math.Abs(sum) < zeroTristimulus {
		return Chromaticity{}, fmt.Errorf("%w: X+Y+Z = %g", spectrum.ErrDegenerateSpectrum, sum)
	}
	x, y, _ := colorful.XyzToXyy(t.X, t.Y, t.Z)
	return Chromaticity{X: x, Y: y}, nil
}

// McCamy returns the McCamy cubic CCT approximation for chromaticity (x, y)
func McCamy(x, y float64) float64 {
	n := (x - epicenterX) / (y - epicenterY)
	return mcCamyA*n*n*n + mcCamyB*n*n + mcCamyC*n + mcCamyD
}

// IsGridMismatch reports whether err was caused by a spectrum that does not
// cover the table wavelengths
func IsGridMismatch(err error) bool {
	return errors.Is(err, ErrGridMismatch)
}
