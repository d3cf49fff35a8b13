package ssi

import (
	"errors"
	"math"
	"testing"

	"github.com/RyanBlaney/sonido-ssi/algorithms/common"
	"github.com/RyanBlaney/sonido-ssi/colorimetry/illuminant"
	"github.com/RyanBlaney/sonido-ssi/colorimetry/spectrum"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatSpectrum(t *testing.T, min, max, step int, level float64) *spectrum.Spectrum {
	t.Helper()
	grid := common.IntegerGrid(min, max, step)
	values := make([]float64, len(grid))
	for i := range values {
		values[i] = level
	}
	s, err := spectrum.New(grid, values)
	require.NoError(t, err)
	return s
}

func TestWeightsLiteral(t *testing.T) {
	want := []float64{
		4.0 / 15, 22.0 / 45, 32.0 / 45, 8.0 / 9, 44.0 / 45,
		1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
		11.0 / 15, 3.0 / 15,
	}
	assert.Equal(t, want, Weights())
	assert.Len(t, Weights(), NumBins)
	assert.Equal(t, 30, NumBins)

	ones := 0
	for _, w := range Weights() {
		if w == 1 {
			ones++
		}
	}
	assert.Equal(t, 23, ones)

	assert.Equal(t, []float64{0.22, 0.56, 0.22}, SmoothingKernel())
	assert.Equal(t, 1.0/30, lowEnergyOffset)
}

func TestComputeIdentity(t *testing.T) {
	c := NewCalculator()

	daylight, err := illuminant.NewDaylight(illuminant.StandardDaylightBasis()).Generate(5500, nil)
	require.NoError(t, err)
	blackbody, err := illuminant.NewPlanckian().Radiate(3200, common.IntegerGrid(300, 830, 1))
	require.NoError(t, err)
	sparse, err := spectrum.New([]float64{380, 450, 451, 600, 780}, []float64{0.1, 3, 0.2, 1, 0.5})
	require.NoError(t, err)

	for name, s := range map[string]*spectrum.Spectrum{
		"flat":      flatSpectrum(t, 300, 830, 1, 1),
		"daylight":  daylight,
		"blackbody": blackbody,
		"sparse":    sparse,
	} {
		t.Run(name, func(t *testing.T) {
			result, err := c.Compute(s, s)
			require.NoError(t, err)
			assert.Equal(t, 100, result.Index)
			assert.Equal(t, 0.0, result.Deviation)
		})
	}
}

func TestComputeIgnoresScaleAndGrid(t *testing.T) {
	c := NewCalculator()

	fine := flatSpectrum(t, 300, 830, 1, 1)
	coarse := flatSpectrum(t, 360, 780, 5, 42)

	result, err := c.Compute(fine, coarse)
	require.NoError(t, err)
	assert.Equal(t, 100, result.Index)
	assert.InDelta(t, 0, result.Deviation, 1e-12)
}

func TestComputeDissimilarSpectra(t *testing.T) {
	c := NewCalculator()

	grid := common.IntegerGrid(300, 830, 1)
	ramp := make([]float64, len(grid))
	for i, wl := range grid {
		ramp[i] = wl - 299
	}
	rising, err := spectrum.New(grid, ramp)
	require.NoError(t, err)
	flat := flatSpectrum(t, 300, 830, 1, 1)

	result, err := c.Compute(rising, flat)
	require.NoError(t, err)
	assert.Less(t, result.Index, 100)
	assert.Greater(t, result.Deviation, 0.0)
	assert.Equal(t, int(math.RoundToEven(100-32*result.Deviation)), result.Index)
}

func TestComputeIsNotClamped(t *testing.T) {
	c := NewCalculator()

	// all test energy at the blue end, all reference energy at the red end
	blue, err := spectrum.New([]float64{375, 420}, []float64{1, 1})
	require.NoError(t, err)
	red, err := spectrum.New([]float64{630, 675}, []float64{1, 1})
	require.NoError(t, err)

	result, err := c.Compute(blue, red)
	require.NoError(t, err)
	assert.Less(t, result.Index, 0)
}

func TestComputeDetailBins(t *testing.T) {
	c := NewCalculator()
	flat := flatSpectrum(t, 300, 830, 1, 2)

	_, detail, err := c.ComputeDetail(flat, flat)
	require.NoError(t, err)

	want := make([]float64, NumBins)
	for i := range want {
		want[i] = 20
	}
	assert.Equal(t, want, detail.TestBins)
	assert.Equal(t, want, detail.ReferenceBins)
	assert.Len(t, detail.Smoothed, NumBins)
}

func TestComputeZeroFillsOutsideDomain(t *testing.T) {
	c := NewCalculator()

	// spectrum covering only 400-600 nm: bins whose window lies wholly
	// outside the domain receive nothing
	narrow := flatSpectrum(t, 400, 600, 1, 1)
	_, detail, err := c.ComputeDetail(narrow, narrow)
	require.NoError(t, err)

	bins := detail.TestBins
	assert.Equal(t, 0.0, bins[0])  // 375-385
	assert.Equal(t, 0.0, bins[1])  // 385-395
	assert.Equal(t, 5.5, bins[2])  // 395-405: 400-404 inside, 405 at half weight
	assert.Equal(t, 10.0, bins[5]) // 425-435
	assert.Equal(t, 0.0, bins[29]) // 665-675
}

func TestComputeDegenerateSurfacesNaN(t *testing.T) {
	c := NewCalculator()

	// entirely outside the 375-675 nm band
	infrared := flatSpectrum(t, 700, 830, 1, 1)
	flat := flatSpectrum(t, 300, 830, 1, 1)

	result, err := c.Compute(infrared, flat)
	require.Error(t, err)
	assert.True(t, errors.Is(err, spectrum.ErrDegenerateSpectrum))
	assert.True(t, math.IsNaN(result.Deviation))

	result, err = c.Compute(flat, infrared)
	require.Error(t, err)
	assert.True(t, math.IsNaN(result.Deviation))

	_, err = c.Compute(nil, flat)
	assert.True(t, errors.Is(err, spectrum.ErrMalformedInput))
}

func TestSmoothingMatchesHandComputation(t *testing.T) {
	c := NewCalculator()

	test := flatSpectrum(t, 300, 830, 1, 1)
	ref, err := illuminant.NewPlanckian().Radiate(3000, common.IntegerGrid(300, 830, 1))
	require.NoError(t, err)

	_, detail, err := c.ComputeDetail(test, ref)
	require.NoError(t, err)

	padded := append(append([]float64{0}, detail.Weighted...), 0)
	want := make([]float64, NumBins)
	for i := range want {
		want[i] = 0.22*padded[i] + 0.56*padded[i+1] + 0.22*padded[i+2]
	}
	if diff := cmp.Diff(want, detail.Smoothed, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Fatalf("smoothed mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeGoldenScores(t *testing.T) {
	c := NewCalculator()
	integers := common.IntegerGrid(300, 830, 1)

	blackbody, err := illuminant.NewPlanckian().Radiate(3000, integers)
	require.NoError(t, err)
	daylight := illuminant.NewDaylight(illuminant.StandardDaylightBasis())
	d6500, err := daylight.Generate(6500, nil)
	require.NoError(t, err)
	d5000, err := daylight.Generate(5000, integers)
	require.NoError(t, err)

	tests := []struct {
		name      string
		test      *spectrum.Spectrum
		reference *spectrum.Spectrum
		index     int
		deviation float64
	}{
		{
			name:      "blackbody 3000K against flat",
			test:      blackbody,
			reference: flatSpectrum(t, 300, 830, 1, 1),
			index:     57,
			deviation: 1.3467379817006635,
		},
		{
			name:      "daylight 6500K on 5nm grid against daylight 5000K on 1nm grid",
			test:      d6500,
			reference: d5000,
			index:     84,
			deviation: 0.49483659072458197,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := c.Compute(tt.test, tt.reference)
			require.NoError(t, err)
			assert.Equal(t, tt.index, result.Index)
			assert.InDelta(t, tt.deviation, result.Deviation, 1e-9)
		})
	}
}

func TestComputeDifferenceLiteral(t *testing.T) {
	c := NewCalculator()

	// doubled intensity inside the first bin only
	grid := common.IntegerGrid(375, 675, 1)
	values := make([]float64, len(grid))
	for i, wl := range grid {
		values[i] = 1
		if wl >= 376 && wl <= 384 {
			values[i] = 2
		}
	}
	step, err := spectrum.New(grid, values)
	require.NoError(t, err)
	flat := flatSpectrum(t, 375, 675, 1, 1)

	result, detail, err := c.ComputeDetail(step, flat)
	require.NoError(t, err)

	assert.Equal(t, 19.0, detail.TestBins[0])
	assert.Equal(t, 10.0, detail.TestBins[1])

	want := make([]float64, NumBins)
	want[0] = 87.0 / 206
	for i := 1; i < NumBins; i++ {
		want[i] = -3.0 / 206
	}
	if diff := cmp.Diff(want, detail.Difference, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Fatalf("difference mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 97, result.Index)
	assert.InDelta(t, math.Sqrt(227973607.0/23870250000), result.Deviation, 1e-12)
}

func TestComputeDifferenceFromBins(t *testing.T) {
	c := NewCalculator()

	test, err := illuminant.NewPlanckian().Radiate(2700, common.IntegerGrid(300, 830, 1))
	require.NoError(t, err)
	ref, err := illuminant.NewDaylight(illuminant.StandardDaylightBasis()).Generate(6500, nil)
	require.NoError(t, err)

	_, detail, err := c.ComputeDetail(test, ref)
	require.NoError(t, err)

	unitSum := func(bins []float64) []float64 {
		var total float64
		for _, v := range bins {
			total += v
		}
		out := make([]float64, len(bins))
		for i, v := range bins {
			out[i] = v / total
		}
		return out
	}
	tn := unitSum(detail.TestBins)
	rn := unitSum(detail.ReferenceBins)

	want := make([]float64, NumBins)
	for i := range want {
		want[i] = (tn[i] - rn[i]) / (rn[i] + 1.0/30)
	}
	if diff := cmp.Diff(want, detail.Difference, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Fatalf("difference mismatch (-want +got):\n%s", diff)
	}
}
