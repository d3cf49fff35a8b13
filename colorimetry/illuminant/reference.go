// Package illuminant synthesizes reference illuminants (Planckian blackbody
// and CIE daylight) and implements the reference selection policy used by
// the SSI calculator.
package illuminant

import (
	"fmt"
	"sort"
	"strings"

	"github.com/RyanBlaney/sonido-ssi/colorimetry/spectrum"
)

// Family identifies a reference illuminant model
type Family string

const (
	FamilyBlackbody Family = "blackbody"
	FamilyDaylight  Family = "daylight"
)

// ParseFamily parses a family name, case-insensitively
func ParseFamily(name string) (Family, error) {
	switch Family(strings.ToLower(strings.TrimSpace(name))) {
	case FamilyBlackbody:
		return FamilyBlackbody, nil
	case FamilyDaylight:
		return FamilyDaylight, nil
	default:
		return "", fmt.Errorf("unknown illuminant family %q", name)
	}
}

// Source synthesizes an unnormalized reference spectrum for a CCT
type Source interface {
	Generate(cct float64, wavelengths []float64) (*spectrum.Spectrum, error)
	Family() Family
}

// DefaultBlackbodyThreshold is the CCT below which the default policy picks a
// blackbody reference instead of daylight
const DefaultBlackbodyThreshold = 4000.0

// SelectFamily applies the default reference policy: blackbody below
// threshold, daylight at or above it
func SelectFamily(cct, threshold float64) Family {
	if cct < threshold {
		return FamilyBlackbody
	}
	return FamilyDaylight
}

// Nominal CCTs of the D series were defined with c2 = 1.4380e-2 m·K; the
// current value is 1.4388e-2 m·K, so nominal D temperatures are scaled by
// 14388/14380 to obtain the CCT actually used.
const DaylightCorrection = 14388.0 / 14380.0

// IlluminantACCT is the temperature of CIE standard illuminant A on the
// current temperature scale
const IlluminantACCT = 2855.542

// Preset is a named standard reference illuminant
type Preset struct {
	Name   string  `json:"name" yaml:"name"`
	Family Family  `json:"family" yaml:"family"`
	CCT    float64 `json:"cct" yaml:"cct"`
}

var presets = map[string]Preset{
	"A":   {Name: "A", Family: FamilyBlackbody, CCT: IlluminantACCT},
	"D50": {Name: "D50", Family: FamilyDaylight, CCT: 5000 * DaylightCorrection},
	"D55": {Name: "D55", Family: FamilyDaylight, CCT: 5500 * DaylightCorrection},
	"D65": {Name: "D65", Family: FamilyDaylight, CCT: 6500 * DaylightCorrection},
	"D75": {Name: "D75", Family: FamilyDaylight, CCT: 7500 * DaylightCorrection},
}

// LookupPreset returns the standard illuminant preset with the given name
// (case-insensitive)
func LookupPreset(name string) (Preset, bool) {
	p, ok := presets[strings.ToUpper(strings.TrimSpace(name))]
	return p, ok
}

// PresetNames returns the preset names in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sources holds one Source per family
type Sources struct {
	Blackbody Source
	Daylight  Source
}

// StandardSources returns the Planckian radiator and the CIE daylight model
// over the standard basis
func StandardSources() Sources {
	return Sources{
		Blackbody: NewPlanckian(),
		Daylight:  NewDaylight(StandardDaylightBasis()),
	}
}

// For returns the source for family
func (s Sources) For(family Family) (Source, error) {
	switch family {
	case FamilyBlackbody:
		if s.Blackbody != nil {
			return s.Blackbody, nil
		}
	case FamilyDaylight:
		if s.Daylight != nil {
			return s.Daylight, nil
		}
	default:
		return nil, fmt.Errorf("unknown illuminant family %q", family)
	}
	return nil, fmt.Errorf("no %s source configured", family)
}
