// Package ssi implements the Academy Spectral Similarity Index.
//
// Reference: Academy of Motion Picture Arts and Sciences, "Spectral
// Similarity Index (SSI) Overview" (2018-12-04), https://www.oscars.org/ssi.
package ssi

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-ssi/algorithms/common"
	"github.com/RyanBlaney/sonido-ssi/algorithms/windowing"
	"github.com/RyanBlaney/sonido-ssi/colorimetry/spectrum"
	"github.com/RyanBlaney/sonido-ssi/logging"
	"gonum.org/v1/gonum/floats"
)

// Band axis: every integer nm from 375 to 675 inclusive
const (
	BandMin = 375
	BandMax = 675
)

// Binning: 11-sample trapezoidal windows stepped every 10 nm, giving 30 bins
// centered on 380, 390, ..., 670 nm
const (
	binWindow = 11
	binHop    = 10
	NumBins   = (BandMax - BandMin) / binHop
)

// lowEnergyOffset is added to each reference bin in the relative difference
// denominator
const lowEnergyOffset = 1.0 / 30.0

// Score scaling: SSI = round(100 - scoreSlope * e)
const (
	scoreCeiling = 100.0
	scoreSlope   = 32.0
)

// binWeights de-emphasizes the band edges; one weight per bin from 380 nm
// to 670 nm
var binWeights = [NumBins]float64{
	4.0 / 15, 22.0 / 45, 32.0 / 45, 8.0 / 9, 44.0 / 45,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	11.0 / 15, 3.0 / 15,
}

// smoothingKernel is applied to the weighted differences after one zero of
// padding on each side
var smoothingKernel = [3]float64{0.22, 0.56, 0.22}

// Weights returns a copy of the per-bin weighting vector
func Weights() []float64 {
	return append([]float64(nil), binWeights[:]...)
}

// SmoothingKernel returns a copy of the 3-tap smoothing kernel
func SmoothingKernel() []float64 {
	return append([]float64(nil), smoothingKernel[:]...)
}

// Result is the outcome of an SSI computation
type Result struct {
	// Index is the similarity score. It is nominally near [0, 100] but is
	// not clamped.
	Index int `json:"ssi"`
	// Deviation is the smoothed weighted spectral difference e. Index is
	// round(100 - 32e). NaN when either spectrum has no energy in band.
	Deviation float64 `json:"deviation"`
}

// Detail exposes the intermediate vectors of one computation
type Detail struct {
	TestBins      []float64 `json:"test_bins"`
	ReferenceBins []float64 `json:"reference_bins"`
	Difference    []float64 `json:"difference"`
	Weighted      []float64 `json:"weighted"`
	Smoothed      []float64 `json:"smoothed"`
}

// Calculator computes the Spectral Similarity Index of a test spectrum
// against a reference. It holds no per-call state and is safe for concurrent
// use.
type Calculator struct {
	axis   []float64
	window *windowing.Trapezoidal
	logger logging.Logger
}

// NewCalculator creates a new SSI calculator
func NewCalculator() *Calculator {
	window, err := windowing.NewTrapezoidal(binWindow)
	if err != nil {
		panic(err)
	}

	return &Calculator{
		axis:   common.IntegerGrid(BandMin, BandMax, 1),
		window: window,
		logger: logging.WithFields(logging.Fields{
			"component": "ssi_calculator",
		}),
	}
}

// Compute returns the SSI of test against reference. The spectra may use
// different grids and ranges; each is sampled on the 375-675 nm axis with
// zero outside its own domain.
//
// A spectrum with no energy in the band produces NaN; Compute then returns
// the Result carrying it together with an error wrapping
// spectrum.ErrDegenerateSpectrum.
func (c *Calculator) Compute(test, reference *spectrum.Spectrum) (Result, error) {
	result, _, err := c.ComputeDetail(test, reference)
	return result, err
}

// ComputeDetail is Compute that also returns the intermediate vectors
func (c *Calculator) ComputeDetail(test, reference *spectrum.Spectrum) (Result, *Detail, error) {
	if test == nil || reference == nil {
		return Result{}, nil, fmt.Errorf("%w: test and reference spectra are required", spectrum.ErrMalformedInput)
	}

	testBins, err := c.bandBins(test)
	if err != nil {
		return Result{}, nil, fmt.Errorf("failed to bin test spectrum: %w", err)
	}
	refBins, err := c.bandBins(reference)
	if err != nil {
		return Result{}, nil, fmt.Errorf("failed to bin reference spectrum: %w", err)
	}

	// no zero-sum guard: NaN must reach the score
	testNorm := common.NormalizeSum(testBins)
	refNorm := common.NormalizeSum(refBins)

	diff := make([]float64, NumBins)
	for i := range diff {
		diff[i] = (testNorm[i] - refNorm[i]) / (refNorm[i] + lowEnergyOffset)
	}

	weighted := make([]float64, NumBins)
	floats.MulTo(weighted, diff, binWeights[:])

	padded := make([]float64, NumBins+2)
	copy(padded[1:], weighted)
	smoothed, err := common.Convolve(padded, smoothingKernel[:], common.Valid)
	if err != nil {
		return Result{}, nil, fmt.Errorf("failed to smooth differences: %w", err)
	}

	e := common.L2Norm(smoothed)
	detail := &Detail{
		TestBins:      testBins,
		ReferenceBins: refBins,
		Difference:    diff,
		Weighted:      weighted,
		Smoothed:      smoothed,
	}

	if math.IsNaN(e) || math.IsInf(e, 0) {
		c.logger.Debug("SSI undefined for degenerate input", logging.Fields{
			"test_band_energy":      common.Sum(testBins),
			"reference_band_energy": common.Sum(refBins),
		})
		return Result{Deviation: e}, detail, fmt.Errorf("%w: no energy in the %d-%d nm band (e = %v)",
			spectrum.ErrDegenerateSpectrum, BandMin, BandMax, e)
	}

	return Result{
		Index:     int(math.RoundToEven(scoreCeiling - scoreSlope*e)),
		Deviation: e,
	}, detail, nil
}

// bandBins samples s on the band axis, zero outside its domain, and sums it
// into 10 nm bins
func (c *Calculator) bandBins(s *spectrum.Spectrum) ([]float64, error) {
	sampled := s.Interpolator(common.ZeroFill).Resample(c.axis)
	return c.window.Bin(sampled, binHop)
}
