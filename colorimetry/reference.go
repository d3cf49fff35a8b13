package colorimetry

import (
	"fmt"
	"strings"

	"github.com/RyanBlaney/sonido-ssi/colorimetry/illuminant"
	"github.com/RyanBlaney/sonido-ssi/colorimetry/spectrum"
)

// ReferenceKind identifies how a reference illuminant is chosen
type ReferenceKind string

const (
	// ReferenceAuto picks blackbody or daylight at the test CCT
	ReferenceAuto      ReferenceKind = "default"
	ReferencePreset    ReferenceKind = "preset"
	ReferenceBlackbody ReferenceKind = "blackbody"
	ReferenceDaylight  ReferenceKind = "daylight"
	// ReferenceSpectrum uses a caller-supplied spectrum as is
	ReferenceSpectrum ReferenceKind = "spectrum"
)

// Reference describes the illuminant a test spectrum is compared against.
// Build one with AutoReference, PresetReference, BlackbodyReference,
// DaylightReference or SpectrumReference.
type Reference struct {
	kind     ReferenceKind
	preset   illuminant.Preset
	cct      float64
	name     string
	spectrum *spectrum.Spectrum
}

// AutoReference selects a blackbody below the configured threshold CCT and
// CIE daylight otherwise, synthesized at the test spectrum's CCT
func AutoReference() Reference {
	return Reference{kind: ReferenceAuto}
}

// PresetReference selects a standard illuminant (A, D50, D55, D65, D75)
func PresetReference(name string) (Reference, error) {
	p, ok := illuminant.LookupPreset(name)
	if !ok {
		return Reference{}, fmt.Errorf("unknown reference illuminant %q (presets: %s)",
			name, strings.Join(illuminant.PresetNames(), ", "))
	}
	return Reference{kind: ReferencePreset, preset: p, name: p.Name}, nil
}

// BlackbodyReference selects a Planckian radiator at cct Kelvin
func BlackbodyReference(cct float64) Reference {
	return Reference{kind: ReferenceBlackbody, cct: cct}
}

// DaylightReference selects CIE daylight at cct Kelvin
func DaylightReference(cct float64) Reference {
	return Reference{kind: ReferenceDaylight, cct: cct}
}

// SpectrumReference uses s, normalized like a test spectrum, as the reference
func SpectrumReference(name string, s *spectrum.Spectrum) Reference {
	return Reference{kind: ReferenceSpectrum, name: name, spectrum: s}
}

// ParseReference resolves a reference name as accepted on the command line:
// "default" (or "auto"), a preset name, or "blackbody"/"daylight" at cct.
// A non-positive cct for a family selects the configured default CCT, which
// is filled in by the Calculator.
func ParseReference(name string, cct float64) (Reference, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default", "auto":
		return AutoReference(), nil
	case string(ReferenceBlackbody):
		return BlackbodyReference(cct), nil
	case string(ReferenceDaylight):
		return DaylightReference(cct), nil
	default:
		return PresetReference(name)
	}
}

// Kind returns how the reference is chosen
func (r Reference) Kind() ReferenceKind {
	if r.kind == "" {
		return ReferenceAuto
	}
	return r.kind
}

func (r Reference) String() string {
	switch r.Kind() {
	case ReferencePreset:
		return r.preset.Name
	case ReferenceBlackbody, ReferenceDaylight:
		if r.cct > 0 {
			return fmt.Sprintf("%s@%gK", r.kind, r.cct)
		}
		return string(r.kind)
	case ReferenceSpectrum:
		return fmt.Sprintf("spectrum %q", r.name)
	default:
		return string(ReferenceAuto)
	}
}
