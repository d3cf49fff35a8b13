package colorimetry

import (
	"fmt"
	"io"
	"strconv"

	"github.com/RyanBlaney/sonido-ssi/colorimetry/cct"
	"github.com/RyanBlaney/sonido-ssi/colorimetry/illuminant"
	"github.com/RyanBlaney/sonido-ssi/colorimetry/spectrum"
	"github.com/lucasb-eyer/go-colorful"
)

// Measurement summarizes one normalized spectrum
type Measurement struct {
	CCT          float64          `json:"cct"`
	Chromaticity cct.Chromaticity `json:"chromaticity"`
	// Preview is the sRGB hex color of the chromaticity at unit luminance
	Preview string `json:"preview"`
	// Spectrum is the normalized spectrum the scores were computed on
	Spectrum *spectrum.Spectrum `json:"-"`
}

// ReferenceReport describes the resolved reference illuminant
type ReferenceReport struct {
	Measurement
	Kind   ReferenceKind     `json:"kind"`
	Family illuminant.Family `json:"family,omitempty"`
	Name   string            `json:"name,omitempty"`
	// SynthesisCCT is the temperature the reference was generated at
	SynthesisCCT float64 `json:"synthesis_cct,omitempty"`
	Description  string  `json:"description"`
}

// Report is the outcome of evaluating one test spectrum
type Report struct {
	Name      string          `json:"name,omitempty"`
	SSI       int             `json:"ssi"`
	Deviation float64         `json:"deviation"`
	Test      Measurement     `json:"test"`
	Reference ReferenceReport `json:"reference"`
}

// WriteText prints the report in a short human readable form
func (r *Report) WriteText(w io.Writer) error {
	name := r.Name
	if name == "" {
		name = "Test"
	}
	_, err := fmt.Fprintf(w, "%s [CCT: %s, %s]\nReference: %s [%s]\nSpectral Similarity Index: %d\n",
		name, formatCCT(r.Test.CCT), r.Test.Preview,
		r.Reference.Description, r.Reference.Preview,
		r.SSI)
	return err
}

func formatCCT(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func describe(family illuminant.Family, name string, cctValue float64) string {
	var text string
	switch family {
	case illuminant.FamilyBlackbody:
		text = "Blackbody with CCT = " + formatCCT(cctValue)
	case illuminant.FamilyDaylight:
		text = "CIE Daylight with CCT = " + formatCCT(cctValue)
	default:
		text = "Reference spectrum with CCT = " + formatCCT(cctValue)
	}
	if name != "" {
		text = name + ": " + text
	}
	return text
}

func previewHex(c cct.Chromaticity) string {
	return colorful.Xyy(c.X, c.Y, 1).Clamped().Hex()
}
