package illuminant

import (
	"fmt"

	"github.com/RyanBlaney/sonido-ssi/algorithms/common"
	"github.com/RyanBlaney/sonido-ssi/colorimetry/spectrum"
)

// daylightBasisRows is the CIE daylight component table (S0, S1, S2) at
// 10 nm intervals over 300-830 nm, as tabulated in CIE 15 (Colorimetry).
var daylightBasisRows = [...][4]float64{
	{300, 0.04, 0.02, 0},
	{310, 6, 4.5, 2},
	{320, 29.6, 22.4, 4},
	{330, 55.3, 42, 8.5},
	{340, 57.3, 40.6, 7.8},
	{350, 61.8, 41.6, 6.7},
	{360, 61.5, 38, 5.3},
	{370, 68.8, 42.4, 6.1},
	{380, 63.4, 38.5, 3.0},
	{390, 65.8, 35, 1.2},
	{400, 94.8, 43.4, -1.1},
	{410, 104.8, 46.3, -0.5},
	{420, 105.9, 43.9, -0.7},
	{430, 96.8, 37.1, -1.2},
	{440, 113.9, 36.7, -2.6},
	{450, 125.6, 35.9, -2.9},
	{460, 125.5, 32.6, -2.8},
	{470, 121.3, 27.9, -2.6},
	{480, 121.3, 24.3, -2.6},
	{490, 113.5, 20.1, -1.8},
	{500, 113.1, 16.2, -1.5},
	{510, 110.8, 13.2, -1.3},
	{520, 106.5, 8.6, -1.2},
	{530, 108.8, 6.1, -1},
	{540, 105.3, 4.2, -0.5},
	{550, 104.4, 1.9, -0.3},
	{560, 100, 0, 0},
	{570, 96, -1.6, 0.2},
	{580, 95.1, -3.5, 0.5},
	{590, 89.1, -3.5, 2.1},
	{600, 90.5, -5.8, 3.2},
	{610, 90.3, -7.2, 4.1},
	{620, 88.4, -8.6, 4.7},
	{630, 84, -9.5, 5.1},
	{640, 85.1, -10.9, 6.7},
	{650, 81.9, -10.7, 7.3},
	{660, 82.6, -12, 8.6},
	{670, 84.9, -14, 9.8},
	{680, 81.3, -13.6, 10.2},
	{690, 71.9, -12, 8.3},
	{700, 74.3, -13.3, 9.6},
	{710, 76.4, -12.9, 8.5},
	{720, 63.3, -10.6, 7},
	{730, 71.7, -11.6, 7.6},
	{740, 77, -12.2, 8},
	{750, 65.2, -10.2, 6.7},
	{760, 47.7, -7.8, 5.2},
	{770, 68.6, -11.2, 7.4},
	{780, 65, -10.4, 6.8},
	{790, 66, -10.6, 7},
	{800, 61, -9.7, 6.4},
	{810, 53.3, -8.3, 5.5},
	{820, 58.9, -9.3, 6.1},
	{830, 61.9, -9.8, 6.5},
}

// BasisComponents holds S0, S1 and S2 evaluated at one wavelength
type BasisComponents struct {
	S0, S1, S2 float64
}

// DaylightBasis is an immutable tabulation of the CIE daylight components.
// Interpolation between rows is linear; outside the tabulated range the
// end rows are held.
type DaylightBasis struct {
	wavelengths []float64
	s0, s1, s2  *common.Interpolator
}

// StandardDaylightBasis returns the CIE S0/S1/S2 table
func StandardDaylightBasis() *DaylightBasis {
	basis, err := NewDaylightBasis(daylightBasisRows[:])
	if err != nil {
		panic(fmt.Sprintf("illuminant: standard daylight basis: %v", err))
	}
	return basis
}

// NewDaylightBasis builds a basis from (wavelength, S0, S1, S2) rows in
// strictly increasing wavelength order
func NewDaylightBasis(rows [][4]float64) (*DaylightBasis, error) {
	n := len(rows)
	wl := make([]float64, n)
	s0 := make([]float64, n)
	s1 := make([]float64, n)
	s2 := make([]float64, n)
	for i, row := range rows {
		wl[i], s0[i], s1[i], s2[i] = row[0], row[1], row[2], row[3]
	}

	if !common.IsStrictlyIncreasing(wl) {
		return nil, fmt.Errorf("%w: daylight basis wavelengths must be strictly increasing", spectrum.ErrMalformedInput)
	}

	b := &DaylightBasis{wavelengths: wl}
	var err error
	if b.s0, err = common.NewInterpolator(wl, s0, common.Clamp); err != nil {
		return nil, fmt.Errorf("%w: S0: %v", spectrum.ErrMalformedInput, err)
	}
	if b.s1, err = common.NewInterpolator(wl, s1, common.Clamp); err != nil {
		return nil, fmt.Errorf("%w: S1: %v", spectrum.ErrMalformedInput, err)
	}
	if b.s2, err = common.NewInterpolator(wl, s2, common.Clamp); err != nil {
		return nil, fmt.Errorf("%w: S2: %v", spectrum.ErrMalformedInput, err)
	}
	return b, nil
}

// At interpolates the basis at wavelength wl (nm)
func (b *DaylightBasis) At(wl float64) BasisComponents {
	return BasisComponents{
		S0: b.s0.At(wl),
		S1: b.s1.At(wl),
		S2: b.s2.At(wl),
	}
}

// Wavelengths returns a copy of the tabulated wavelengths
func (b *DaylightBasis) Wavelengths() []float64 {
	out := make([]float64, len(b.wavelengths))
	copy(out, b.wavelengths)
	return out
}
