package illuminant

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-ssi/colorimetry/spectrum"
)

// Physical constants of the Academy SSI reference calculator (rounded, not
// CODATA).
const (
	planckConstant = 6.626e-34 // J·s
	speedOfLight   = 3e8       // m/s
	boltzmann      = 1.381e-23 // J/K

	metresPerNanometre = 1e-9

	radianceFactor = 2 * planckConstant * speedOfLight * speedOfLight
	exponentFactor = planckConstant * speedOfLight / boltzmann
)

// Planckian synthesizes blackbody spectral radiance
type Planckian struct{}

// NewPlanckian creates a blackbody radiator
func NewPlanckian() *Planckian {
	return &Planckian{}
}

// Family implements Source
func (p *Planckian) Family() Family {
	return FamilyBlackbody
}

// Generate implements Source; it is Radiate with cct as the temperature
func (p *Planckian) Generate(cct float64, wavelengths []float64) (*spectrum.Spectrum, error) {
	return p.Radiate(cct, wavelengths)
}

// Radiate returns the unnormalized Planck spectral radiance at temperature
// (K) for each wavelength (nm)
func (p *Planckian) Radiate(temperature float64, wavelengths []float64) (*spectrum.Spectrum, error) {
	if err := spectrum.CheckPositive("blackbody temperature", temperature); err != nil {
		return nil, err
	}
	for _, wl := range wavelengths {
		if err := spectrum.CheckPositive("wavelength", wl); err != nil {
			return nil, err
		}
	}

	radiance := make([]float64, len(wavelengths))
	for i, wl := range wavelengths {
		radiance[i] = PlanckRadiance(temperature, wl)
	}

	s, err := spectrum.New(wavelengths, radiance)
	if err != nil {
		return nil, fmt.Errorf("blackbody at %gK: %w", temperature, err)
	}
	return s, nil
}

// PlanckRadiance returns 2hc²/λ⁵ / (exp(hc/λkT) - 1) for λ in nm
func PlanckRadiance(temperature, wavelengthNM float64) float64 {
	wl := wavelengthNM * metresPerNanometre
	return radianceFactor / math.Pow(wl, 5) / math.Expm1(exponentFactor/(wl*temperature))
}
