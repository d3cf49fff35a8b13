// Package colorimetry evaluates light sources with the Academy Spectral
// Similarity Index. Calculator ties together spectrum normalization, McCamy
// CCT estimation, reference illuminant synthesis and the SSI computation.
package colorimetry

import (
	"errors"
	"fmt"

	"github.com/RyanBlaney/sonido-ssi/algorithms/common"
	"github.com/RyanBlaney/sonido-ssi/colorimetry/cct"
	"github.com/RyanBlaney/sonido-ssi/colorimetry/cmf"
	"github.com/RyanBlaney/sonido-ssi/colorimetry/config"
	"github.com/RyanBlaney/sonido-ssi/colorimetry/illuminant"
	"github.com/RyanBlaney/sonido-ssi/colorimetry/spectrum"
	"github.com/RyanBlaney/sonido-ssi/colorimetry/ssi"
	"github.com/RyanBlaney/sonido-ssi/logging"
	"github.com/kovidgoyal/go-parallel"
)

// NamedSpectrum is a test spectrum with a label for reports
type NamedSpectrum struct {
	Name     string
	Spectrum *spectrum.Spectrum
}

// Option configures a Calculator
type Option func(*Calculator)

// WithLogger sets the logger
func WithLogger(logger logging.Logger) Option {
	return func(c *Calculator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSources replaces the blackbody and daylight synthesizers
func WithSources(sources illuminant.Sources) Option {
	return func(c *Calculator) {
		c.sources = sources
	}
}

// Calculator evaluates test spectra against reference illuminants. It is
// immutable after construction and safe for concurrent use.
type Calculator struct {
	cfg           *config.Config
	resampler     *spectrum.Resampler
	estimator     *cct.Estimator
	sources       illuminant.Sources
	ssi           *ssi.Calculator
	synthesisGrid []float64
	logger        logging.Logger
}

// NewCalculator creates a calculator. A nil cfg uses config.Default(). A nil
// table loads cfg.CMFPath, or the embedded CIE 1931 table when no path is
// set.
func NewCalculator(cfg *config.Config, table *cmf.Table, opts ...Option) (*Calculator, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.WithFields(logging.Fields{
		"component": "ssi_evaluator",
	})

	if table == nil {
		var err error
		if cfg.CMFPath != "" {
			table, err = cmf.LoadFile(cfg.CMFPath)
		} else {
			table, err = cmf.Default()
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load colour matching functions: %w", err)
		}
	}

	estimator, err := cct.NewEstimator(table)
	if err != nil {
		return nil, err
	}

	r := cfg.Resample
	resampler, err := spectrum.NewResampler(r.MinWavelength, r.MaxWavelength, r.Step, r.ReferenceWavelength)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	c := &Calculator{
		cfg:           cfg,
		resampler:     resampler,
		estimator:     estimator,
		sources:       illuminant.StandardSources(),
		ssi:           ssi.NewCalculator(),
		synthesisGrid: common.Linspace(cfg.Synthesis.MinWavelength, cfg.Synthesis.MaxWavelength, cfg.Synthesis.Points),
		logger:        logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.logger.Debug("Calculator initialized", logging.Fields{
		"cmf_points":          table.Len(),
		"blackbody_threshold": cfg.Reference.BlackbodyThreshold,
		"synthesis_points":    cfg.Synthesis.Points,
	})

	return c, nil
}

// Config returns the configuration in use
func (c *Calculator) Config() *config.Config {
	return c.cfg
}

// Normalize resamples s onto the normalization grid, scales it to unit
// intensity at the reference wavelength and applies the configured rounding
func (c *Calculator) Normalize(s *spectrum.Spectrum) (*spectrum.Spectrum, error) {
	normalized, err := c.resampler.Normalize(s)
	if err != nil {
		return nil, err
	}
	if d := c.cfg.Output.IntensityDecimals; d >= 0 {
		normalized = normalized.Round(d)
	}
	return normalized, nil
}

// Evaluate scores test against ref
func (c *Calculator) Evaluate(test *spectrum.Spectrum, ref Reference) (*Report, error) {
	return c.evaluate(NamedSpectrum{Spectrum: test}, ref, nil)
}

// EvaluateNamed is Evaluate with a label carried into the report
func (c *Calculator) EvaluateNamed(test NamedSpectrum, ref Reference) (*Report, error) {
	return c.evaluate(test, ref, nil)
}

// EvaluateBatch scores every test spectrum against ref in parallel using
// cfg.Workers goroutines. Reports are returned in input order. If any
// evaluation fails the error of the first failing input is returned along
// with the reports that succeeded (nil entries for failures).
func (c *Calculator) EvaluateBatch(tests []NamedSpectrum, ref Reference) ([]*Report, error) {
	reports := make([]*Report, len(tests))
	if len(tests) == 0 {
		return reports, nil
	}

	// references that do not depend on the test spectrum are built once
	var shared *resolvedReference
	if ref.Kind() != ReferenceAuto {
		resolved, err := c.resolveReference(ref, 0)
		if err != nil {
			return reports, err
		}
		shared = resolved
	}

	errs := make([]error, len(tests))
	err := parallel.Run_in_parallel_over_range(c.cfg.Workers, func(start, limit int) {
		for i := start; i < limit; i++ {
			reports[i], errs[i] = c.evaluate(tests[i], ref, shared)
		}
	}, 0, len(tests))
	if err != nil {
		return reports, fmt.Errorf("batch evaluation failed: %w", err)
	}

	failed := 0
	var first error
	for i, e := range errs {
		if e == nil {
			continue
		}
		failed++
		if first == nil {
			first = fmt.Errorf("%s: %w", label(tests[i], i), e)
		}
	}

	c.logger.Info("Batch evaluated", logging.Fields{
		"spectra":   len(tests),
		"failed":    failed,
		"reference": ref.String(),
		"workers":   c.cfg.Workers,
	})
	return reports, first
}

func label(t NamedSpectrum, i int) string {
	if t.Name != "" {
		return fmt.Sprintf("spectrum %q", t.Name)
	}
	return fmt.Sprintf("spectrum %d", i)
}

type resolvedReference struct {
	report   ReferenceReport
	spectrum *spectrum.Spectrum
}

func (c *Calculator) evaluate(test NamedSpectrum, ref Reference, shared *resolvedReference) (*Report, error) {
	if test.Spectrum == nil {
		return nil, fmt.Errorf("%w: test spectrum is required", spectrum.ErrMalformedInput)
	}

	testNorm, err := c.Normalize(test.Spectrum)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize test spectrum: %w", err)
	}
	testChroma, err := c.estimator.Chromaticity(testNorm)
	if err != nil {
		return nil, fmt.Errorf("failed to estimate test CCT: %w", err)
	}
	testCCT := cct.McCamy(testChroma.X, testChroma.Y)

	resolved := shared
	if resolved == nil {
		resolved, err = c.resolveReference(ref, testCCT)
		if err != nil {
			return nil, err
		}
	}

	result, err := c.ssi.Compute(testNorm, resolved.spectrum)
	if err != nil {
		return nil, fmt.Errorf("failed to compute SSI: %w", err)
	}

	report := &Report{
		Name:      test.Name,
		SSI:       result.Index,
		Deviation: result.Deviation,
		Test: Measurement{
			CCT:          common.RoundTo(testCCT, c.cfg.Output.CCTDecimals),
			Chromaticity: testChroma,
			Preview:      previewHex(testChroma),
			Spectrum:     testNorm,
		},
		Reference: resolved.report,
	}

	c.logger.Debug("Spectrum evaluated", logging.Fields{
		"name":      test.Name,
		"ssi":       result.Index,
		"test_cct":  report.Test.CCT,
		"reference": resolved.report.Description,
	})
	return report, nil
}

// resolveReference synthesizes (or normalizes) the reference spectrum and
// measures it. testCCT is only used by the automatic policy.
func (c *Calculator) resolveReference(ref Reference, testCCT float64) (*resolvedReference, error) {
	out := &resolvedReference{
		report: ReferenceReport{Kind: ref.Kind()},
	}

	var raw *spectrum.Spectrum
	switch ref.Kind() {
	case ReferenceSpectrum:
		if ref.spectrum == nil {
			return nil, fmt.Errorf("%w: reference spectrum is required", spectrum.ErrMalformedInput)
		}
		raw = ref.spectrum
		out.report.Name = ref.name

	default:
		family, target, err := c.referenceTarget(ref, testCCT)
		if err != nil {
			return nil, err
		}
		source, err := c.sources.For(family)
		if err != nil {
			return nil, err
		}
		raw, err = source.Generate(target, c.synthesisGrid)
		if err != nil {
			return nil, fmt.Errorf("failed to synthesize %s reference at %g K: %w", family, target, err)
		}
		out.report.Family = family
		out.report.SynthesisCCT = target
		out.report.Name = ref.preset.Name
	}

	normalized, err := c.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize reference spectrum: %w", err)
	}
	chroma, err := c.estimator.Chromaticity(normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to estimate reference CCT: %w", err)
	}

	refCCT := common.RoundTo(cct.McCamy(chroma.X, chroma.Y), c.cfg.Output.CCTDecimals)
	out.spectrum = normalized
	out.report.Measurement = Measurement{
		CCT:          refCCT,
		Chromaticity: chroma,
		Preview:      previewHex(chroma),
		Spectrum:     normalized,
	}
	out.report.Description = describe(out.report.Family, out.report.Name, refCCT)
	return out, nil
}

func (c *Calculator) referenceTarget(ref Reference, testCCT float64) (illuminant.Family, float64, error) {
	rc := c.cfg.Reference

	switch ref.Kind() {
	case ReferenceAuto:
		return illuminant.SelectFamily(testCCT, rc.BlackbodyThreshold), testCCT, nil

	case ReferencePreset:
		return ref.preset.Family, ref.preset.CCT, nil

	case ReferenceBlackbody:
		target := ref.cct
		if target <= 0 {
			target = rc.DefaultBlackbodyCCT
		}
		if err := spectrum.CheckRange("blackbody CCT", target, rc.BlackbodyRange[0], rc.BlackbodyRange[1]); err != nil {
			return "", 0, err
		}
		return illuminant.FamilyBlackbody, target, nil

	case ReferenceDaylight:
		target := ref.cct
		if target <= 0 {
			target = rc.DefaultDaylightCCT
		}
		return illuminant.FamilyDaylight, target, nil

	default:
		return "", 0, fmt.Errorf("unknown reference kind %q", ref.Kind())
	}
}

// IsDegenerate reports whether err came from a spectrum without usable energy
func IsDegenerate(err error) bool {
	return errors.Is(err, spectrum.ErrDegenerateSpectrum)
}
