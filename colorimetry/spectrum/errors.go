package spectrum

import (
	"errors"
	"fmt"
)

var (
	// ErrDomain reports a temperature or wavelength outside the physically
	// valid range of an operation
	ErrDomain = errors.New("value outside valid domain")

	// ErrMalformedInput reports an unsorted, duplicated, mismatched or
	// non-numeric spectral table
	ErrMalformedInput = errors.New("malformed spectral input")

	// ErrDegenerateSpectrum reports a zero or undefined normalization
	// denominator, such as zero energy in the measured band
	ErrDegenerateSpectrum = errors.New("degenerate spectrum")

	// ErrMissingReferenceData reports that a fixed reference table could not
	// be loaded. Callers should treat it as fatal at startup.
	ErrMissingReferenceData = errors.New("missing reference data")
)

// Bound names which side of a valid range was violated
type Bound string

const (
	LowerBound Bound = "lower"
	UpperBound Bound = "upper"
)

// RangeError reports a quantity outside its valid range. It matches
// ErrDomain with errors.Is.
type RangeError struct {
	Quantity string  // e.g. "daylight CCT"
	Value    float64 // offending value
	Bound    Bound   // which bound was violated
	Limit    float64 // the bound itself
	Strict   bool    // true when Limit itself is also invalid
}

func (e *RangeError) Error() string {
	switch {
	case e.Bound == LowerBound && e.Strict:
		return fmt.Sprintf("%s %g must be greater than %g", e.Quantity, e.Value, e.Limit)
	case e.Bound == LowerBound:
		return fmt.Sprintf("%s %g is below the lower bound %g", e.Quantity, e.Value, e.Limit)
	case e.Strict:
		return fmt.Sprintf("%s %g must be less than %g", e.Quantity, e.Value, e.Limit)
	default:
		return fmt.Sprintf("%s %g is above the upper bound %g", e.Quantity, e.Value, e.Limit)
	}
}

func (e *RangeError) Unwrap() error {
	return ErrDomain
}

// CheckRange returns a *RangeError if v lies outside [min, max]
func CheckRange(quantity string, v, min, max float64) error {
	if v < min {
		return &RangeError{Quantity: quantity, Value: v, Bound: LowerBound, Limit: min}
	}
	if v > max {
		return &RangeError{Quantity: quantity, Value: v, Bound: UpperBound, Limit: max}
	}
	return nil
}

// CheckPositive returns a *RangeError if v is not strictly greater than zero
func CheckPositive(quantity string, v float64) error {
	if !(v > 0) {
		return &RangeError{Quantity: quantity, Value: v, Bound: LowerBound, Limit: 0, Strict: true}
	}
	return nil
}
