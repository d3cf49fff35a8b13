// Package config holds the tunable parameters of the SSI calculator and
// loads them from YAML or JSON files.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/RyanBlaney/sonido-ssi/colorimetry/illuminant"
	"github.com/RyanBlaney/sonido-ssi/colorimetry/spectrum"
	"github.com/RyanBlaney/sonido-ssi/logging"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// ResampleConfig is the integer-nm grid spectra are normalized onto
type ResampleConfig struct {
	MinWavelength       int `yaml:"min_wavelength" json:"min_wavelength"`
	MaxWavelength       int `yaml:"max_wavelength" json:"max_wavelength"`
	Step                int `yaml:"step" json:"step"`
	ReferenceWavelength int `yaml:"reference_wavelength" json:"reference_wavelength"`
}

// SynthesisConfig is the grid reference illuminants are generated on before
// normalization
type SynthesisConfig struct {
	MinWavelength float64 `yaml:"min_wavelength" json:"min_wavelength"`
	MaxWavelength float64 `yaml:"max_wavelength" json:"max_wavelength"`
	Points        int     `yaml:"points" json:"points"`
}

// ReferenceConfig controls how reference illuminants are chosen
type ReferenceConfig struct {
	// Test CCTs below this use a blackbody reference, others daylight
	BlackbodyThreshold float64 `yaml:"blackbody_threshold" json:"blackbody_threshold"`
	// Accepted range for an explicitly requested blackbody CCT [min, max] K
	BlackbodyRange [2]float64 `yaml:"blackbody_range" json:"blackbody_range"`
	// CCTs used when a family is requested without a temperature
	DefaultBlackbodyCCT float64 `yaml:"default_blackbody_cct" json:"default_blackbody_cct"`
	DefaultDaylightCCT  float64 `yaml:"default_daylight_cct" json:"default_daylight_cct"`
}

// OutputConfig controls rounding of reported values
type OutputConfig struct {
	// Normalized intensities are rounded to this many decimals before CCT
	// and SSI are computed. Negative disables rounding.
	IntensityDecimals int `yaml:"intensity_decimals" json:"intensity_decimals"`
	CCTDecimals       int `yaml:"cct_decimals" json:"cct_decimals"`
}

// Config is the complete calculator configuration
type Config struct {
	Resample  ResampleConfig  `yaml:"resample" json:"resample"`
	Synthesis SynthesisConfig `yaml:"synthesis" json:"synthesis"`
	Reference ReferenceConfig `yaml:"reference" json:"reference"`
	Output    OutputConfig    `yaml:"output" json:"output"`

	// Optional CIE 1931 table replacing the embedded one
	CMFPath  string `yaml:"cmf_path" json:"cmf_path"`
	LogLevel string `yaml:"log_level" json:"log_level"`
	// Batch evaluation parallelism, 0 for one worker per CPU
	Workers int `yaml:"workers" json:"workers"`
}

// Default returns the configuration matching the published SSI procedure
func Default() *Config {
	return &Config{
		Resample: ResampleConfig{
			MinWavelength:       spectrum.MinWavelength,
			MaxWavelength:       spectrum.MaxWavelength,
			Step:                1,
			ReferenceWavelength: spectrum.ReferenceWavelength,
		},
		Synthesis: SynthesisConfig{
			MinWavelength: spectrum.MinWavelength,
			MaxWavelength: spectrum.MaxWavelength,
			Points:        530,
		},
		Reference: ReferenceConfig{
			BlackbodyThreshold:  illuminant.DefaultBlackbodyThreshold,
			BlackbodyRange:      [2]float64{1000, 10000},
			DefaultBlackbodyCCT: 3200,
			DefaultDaylightCCT:  5000,
		},
		Output: OutputConfig{
			IntensityDecimals: 5,
			CCTDecimals:       2,
		},
		LogLevel: "info",
	}
}

// Load reads a YAML (or JSON, which YAML accepts) file over the defaults and
// validates the result. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads configuration from r over the defaults. An empty document
// yields the defaults.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// AsYAML renders the configuration as YAML
func (c *Config) AsYAML() (string, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(b), nil
}

// Validate checks that every parameter is usable
func (c *Config) Validate() error {
	r := c.Resample
	if r.Step <= 0 {
		return fmt.Errorf("%w: resample step must be positive, got %d", ErrInvalidConfig, r.Step)
	}
	if r.MinWavelength <= 0 || r.MaxWavelength-r.MinWavelength < r.Step {
		return fmt.Errorf("%w: resample range [%d, %d] needs at least two grid points",
			ErrInvalidConfig, r.MinWavelength, r.MaxWavelength)
	}
	if r.ReferenceWavelength < r.MinWavelength || r.ReferenceWavelength > r.MaxWavelength ||
		(r.ReferenceWavelength-r.MinWavelength)%r.Step != 0 {
		return fmt.Errorf("%w: reference wavelength %d nm is not on the resample grid",
			ErrInvalidConfig, r.ReferenceWavelength)
	}

	s := c.Synthesis
	if s.Points < 2 {
		return fmt.Errorf("%w: synthesis grid needs at least 2 points, got %d", ErrInvalidConfig, s.Points)
	}
	if s.MinWavelength <= 0 || s.MaxWavelength <= s.MinWavelength {
		return fmt.Errorf("%w: synthesis range [%g, %g] is empty or non-positive",
			ErrInvalidConfig, s.MinWavelength, s.MaxWavelength)
	}

	ref := c.Reference
	if ref.BlackbodyThreshold <= 0 {
		return fmt.Errorf("%w: blackbody threshold must be positive, got %g", ErrInvalidConfig, ref.BlackbodyThreshold)
	}
	if ref.BlackbodyRange[0] <= 0 || ref.BlackbodyRange[1] < ref.BlackbodyRange[0] {
		return fmt.Errorf("%w: blackbody range %v is invalid", ErrInvalidConfig, ref.BlackbodyRange)
	}
	if ref.DefaultBlackbodyCCT < ref.BlackbodyRange[0] || ref.DefaultBlackbodyCCT > ref.BlackbodyRange[1] {
		return fmt.Errorf("%w: default blackbody CCT %g is outside the blackbody range %v",
			ErrInvalidConfig, ref.DefaultBlackbodyCCT, ref.BlackbodyRange)
	}
	if ref.DefaultDaylightCCT < illuminant.MinDaylightCCT || ref.DefaultDaylightCCT > illuminant.MaxDaylightCCT {
		return fmt.Errorf("%w: default daylight CCT %g is outside [%g, %g]",
			ErrInvalidConfig, ref.DefaultDaylightCCT, illuminant.MinDaylightCCT, illuminant.MaxDaylightCCT)
	}

	if c.Output.CCTDecimals < 0 {
		return fmt.Errorf("%w: cct decimals must not be negative, got %d", ErrInvalidConfig, c.Output.CCTDecimals)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return nil
}

// Level returns the parsed log level
func (c *Config) Level() logging.Level {
	level, _ := logging.ParseLevel(c.LogLevel)
	return level
}
