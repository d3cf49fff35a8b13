package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidates(t *testing.T) {
	testCases := []struct {
		name        string
		wavelengths []float64
		intensities []float64
	}{
		{"length mismatch", []float64{400, 500}, []float64{1}},
		{"too short", []float64{400}, []float64{1}},
		{"unsorted", []float64{500, 400}, []float64{1, 1}},
		{"duplicate", []float64{400, 400, 500}, []float64{1, 1, 1}},
		{"nan wavelength", []float64{400, math.NaN()}, []float64{1, 1}},
		{"nan intensity", []float64{400, 500}, []float64{1, math.NaN()}},
		{"inf intensity", []float64{400, 500}, []float64{math.Inf(1), 1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.wavelengths, tc.intensities)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedInput))
		})
	}
}

func TestSpectrumIsImmutable(t *testing.T) {
	wl := []float64{400, 500, 600}
	in := []float64{1, 2, 3}
	s, err := New(wl, in)
	require.NoError(t, err)

	wl[0] = 0
	in[0] = 99
	got := s.Intensities()
	got[1] = 42

	assert.Equal(t, []float64{400, 500, 600}, s.Wavelengths())
	assert.Equal(t, []float64{1, 2, 3}, s.Intensities())
}

func TestSpectrumAccessors(t *testing.T) {
	s, err := FromSamples([]Sample{{400, 1}, {500, 2}, {600, 4}})
	require.NoError(t, err)

	assert.Equal(t, 3, s.Len())
	lo, hi := s.Domain()
	assert.Equal(t, 400.0, lo)
	assert.Equal(t, 600.0, hi)

	v, ok := s.IntensityAt(500)
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)
	_, ok = s.IntensityAt(550)
	assert.False(t, ok)

	assert.Equal(t, []Sample{{400, 1}, {500, 2}, {600, 4}}, s.Samples())

	doubled, err := s.Scale(2)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4, 8}, doubled.Intensities())
	assert.Equal(t, []float64{1, 2, 4}, s.Intensities())
}

func TestScaleKeepsIntensitiesFinite(t *testing.T) {
	s, err := New([]float64{400, 500}, []float64{1, 2})
	require.NoError(t, err)

	for _, k := range []float64{math.Inf(1), math.NaN(), math.MaxFloat64} {
		_, err := s.Scale(k)
		require.Error(t, err, "scale %v", k)
		assert.True(t, errors.Is(err, ErrMalformedInput))
	}

	zero, err := s.Scale(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, zero.Intensities())
}

func TestSpectrumRound(t *testing.T) {
	s, err := New([]float64{1, 2}, []float64{0.123456, 0.5})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.12346, 0.5}, s.Round(5).Intensities(), 1e-15)
}

func TestRangeError(t *testing.T) {
	err := CheckRange("daylight CCT", 3999, 4000, 25000)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDomain))

	var rangeErr *RangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, LowerBound, rangeErr.Bound)
	assert.Equal(t, 4000.0, rangeErr.Limit)
	assert.Contains(t, err.Error(), "lower bound 4000")

	err = CheckRange("daylight CCT", 25001, 4000, 25000)
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, UpperBound, rangeErr.Bound)

	assert.NoError(t, CheckRange("daylight CCT", 4000, 4000, 25000))
	assert.NoError(t, CheckRange("daylight CCT", 25000, 4000, 25000))

	err = CheckPositive("temperature", 0)
	require.True(t, errors.As(err, &rangeErr))
	assert.True(t, rangeErr.Strict)
	assert.Contains(t, err.Error(), "greater than 0")
	assert.Error(t, CheckPositive("temperature", math.NaN()))
	assert.NoError(t, CheckPositive("temperature", 1e-9))
}
