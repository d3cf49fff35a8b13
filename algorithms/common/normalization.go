package common

// NormalizationType defines normalization method
type NormalizationType int

const (
	// UnitSum divides by the sum so the result sums to 1
	UnitSum NormalizationType = iota
	// AtIndex divides by the value at a reference index
	AtIndex
)

// Normalizer scales vectors. Zero denominators are not guarded: a zero sum
// yields NaN or Inf.
type Normalizer struct {
	method    NormalizationType
	reference int
}

// NewNormalizer creates a new normalizer
func NewNormalizer(method NormalizationType) *Normalizer {
	return &Normalizer{
		method: method,
	}
}

// NewReferenceNormalizer creates a normalizer dividing by data[reference]
func NewReferenceNormalizer(reference int) *Normalizer {
	return &Normalizer{
		method:    AtIndex,
		reference: reference,
	}
}

// Normalize returns a normalized copy of data
func (n *Normalizer) Normalize(data []float64) []float64 {
	switch n.method {
	case AtIndex:
		if n.reference < 0 || n.reference >= len(data) {
			return nil
		}
		return DivideBy(data, data[n.reference])
	default:
		return NormalizeSum(data)
	}
}

// NormalizeSum divides every element by the sum of data
func NormalizeSum(data []float64) []float64 {
	return DivideBy(data, Sum(data))
}

// DivideBy returns data / d elementwise
func DivideBy(data []float64, d float64) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v / d
	}
	return out
}
