package windowing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrapezoidalCoefficients(t *testing.T) {
	w, err := NewTrapezoidal(11)
	require.NoError(t, err)

	want := []float64{0.5, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0.5}
	assert.Equal(t, want, w.GetCoefficients())
	assert.Equal(t, 11, w.GetSize())

	_, err = NewTrapezoidal(1)
	assert.Error(t, err)
}

func TestTrapezoidalBinRejectsBadHop(t *testing.T) {
	w, err := NewTrapezoidal(3)
	require.NoError(t, err)

	_, err = w.Bin([]float64{1, 2, 3}, 0)
	assert.Error(t, err)

	// a signal shorter than the window yields no bins
	bins, err := w.Bin([]float64{1, 2}, 1)
	require.NoError(t, err)
	assert.Empty(t, bins)
}

func TestTrapezoidalBinOnesTiles(t *testing.T) {
	w, err := NewTrapezoidal(11)
	require.NoError(t, err)

	ones := make([]float64, 301)
	for i := range ones {
		ones[i] = 1
	}

	bins, err := w.Bin(ones, 10)
	require.NoError(t, err)
	require.Len(t, bins, 30)
	for i, b := range bins {
		assert.Equal(t, 10.0, b, "bin %d", i)
	}
}

func TestTrapezoidalSumAt(t *testing.T) {
	w, err := NewTrapezoidal(11)
	require.NoError(t, err)

	signal := make([]float64, 11)
	for i := range signal {
		signal[i] = float64(i)
	}
	got, err := w.SumAt(signal, 5)
	require.NoError(t, err)
	// 0.5*0 + (1+...+9) + 0.5*10
	assert.Equal(t, 50.0, got)

	_, err = w.SumAt(signal, 4)
	assert.Error(t, err)

	even, err := NewTrapezoidal(4)
	require.NoError(t, err)
	_, err = even.SumAt(signal, 5)
	assert.Error(t, err)
}
