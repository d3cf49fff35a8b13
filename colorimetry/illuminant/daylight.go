package illuminant

import (
	"fmt"

	"github.com/RyanBlaney/sonido-ssi/algorithms/common"
	"github.com/RyanBlaney/sonido-ssi/colorimetry/spectrum"
)

// CIE daylight is defined for correlated colour temperatures in this range
const (
	MinDaylightCCT = 4000.0
	MaxDaylightCCT = 25000.0
)

// Chromaticity of the CIE daylight locus, CIE 15: x is a cubic in 1/T with
// one coefficient set up to 7000 K and another above it; y is quadratic in x.
const (
	daylightBranchCCT = 7000.0

	lowX3 = -4.6070e9
	lowX2 = 2.9678e6
	lowX1 = 0.09911e3
	lowX0 = 0.244063

	highX3 = -2.0064e9
	highX2 = 1.9018e6
	highX1 = 0.24748e3
	highX0 = 0.237040

	locusY2 = -3.000
	locusY1 = 2.870
	locusY0 = -0.275
)

// Weights of S1 and S2 from chromaticity, CIE 15. M1 and M2 are rounded to
// three decimals before use, as the standard tabulates them.
const (
	mDen0 = 0.0241
	mDenX = 0.2562
	mDenY = -0.7341

	m1Num0 = -1.3515
	m1NumX = -1.7703
	m1NumY = 5.9114

	m2Num0 = 0.0300
	m2NumX = -31.4424
	m2NumY = 30.0717

	mDecimals = 3
)

// DefaultDaylightWavelengths is used when Generate is given no wavelengths:
// 300 to 830 nm in 5 nm steps
func DefaultDaylightWavelengths() []float64 {
	return common.IntegerGrid(300, 830, 5)
}

// Daylight synthesizes CIE daylight spectral distributions from CCT
type Daylight struct {
	basis *DaylightBasis
}

// NewDaylight creates a daylight model over basis
func NewDaylight(basis *DaylightBasis) *Daylight {
	return &Daylight{
		basis: basis,
	}
}

// Family implements Source
func (d *Daylight) Family() Family {
	return FamilyDaylight
}

// Generate returns the unnormalized CIE daylight distribution for cct at
// the given wavelengths (nm). cct must lie within [4000, 25000] K.
func (d *Daylight) Generate(cct float64, wavelengths []float64) (*spectrum.Spectrum, error) {
	x, y, err := DaylightChromaticity(cct)
	if err != nil {
		return nil, err
	}
	m1, m2 := DaylightCoefficients(x, y)

	if len(wavelengths) == 0 {
		wavelengths = DefaultDaylightWavelengths()
	}

	radiance := make([]float64, len(wavelengths))
	for i, wl := range wavelengths {
		c := d.basis.At(wl)
		radiance[i] = c.S0 + m1*c.S1 + m2*c.S2
	}

	s, err := spectrum.New(wavelengths, radiance)
	if err != nil {
		return nil, fmt.Errorf("daylight at %gK: %w", cct, err)
	}
	return s, nil
}

// DaylightChromaticity returns the xy chromaticity of CIE daylight at cct
func DaylightChromaticity(cct float64) (x, y float64, err error) {
	if rangeErr := spectrum.CheckRange("daylight CCT", cct, MinDaylightCCT, MaxDaylightCCT); rangeErr != nil {
		return 0, 0, rangeErr
	}

	t := cct
	if t <= daylightBranchCCT {
		x = lowX3/(t*t*t) + lowX2/(t*t) + lowX1/t + lowX0
	} else {
		x = highX3/(t*t*t) + highX2/(t*t) + highX1/t + highX0
	}
	y = locusY2*x*x + locusY1*x + locusY0
	return x, y, nil
}

// DaylightCoefficients returns the S1 and S2 weights M1 and M2 for daylight
// chromaticity (x, y), rounded to three decimals
func DaylightCoefficients(x, y float64) (m1, m2 float64) {
	m := mDen0 + mDenX*x + mDenY*y
	m1 = common.RoundTo((m1Num0+m1NumX*x+m1NumY*y)/m, mDecimals)
	m2 = common.RoundTo((m2Num0+m2NumX*x+m2NumY*y)/m, mDecimals)
	return m1, m2
}
