package common

import (
	"fmt"
)

// ConvolutionMode selects which part of the full linear convolution is returned
type ConvolutionMode int

const (
	// Full returns all len(signal)+len(kernel)-1 outputs
	Full ConvolutionMode = iota
	// Same returns len(signal) outputs centered on the full result
	Same
	// Valid returns only outputs computed without implicit zero padding
	Valid
)

// Convolve computes the linear convolution of signal and kernel by direct
// summation and returns the part selected by mode
func Convolve(signal, kernel []float64, mode ConvolutionMode) ([]float64, error) {
	if len(signal) == 0 || len(kernel) == 0 {
		return nil, fmt.Errorf("convolution inputs must be non-empty")
	}
	full := ConvolveDirect(signal, kernel)
	return trimConvolution(full, len(signal), len(kernel), mode)
}

// ConvolveDirect computes the full linear convolution by direct summation
func ConvolveDirect(signal, kernel []float64) []float64 {
	out := make([]float64, len(signal)+len(kernel)-1)
	for i := range out {
		sum := 0.0
		for j := range kernel {
			k := i - j
			if k < 0 || k >= len(signal) {
				continue
			}
			sum += signal[k] * kernel[j]
		}
		out[i] = sum
	}
	return out
}

func trimConvolution(full []float64, signalLen, kernelLen int, mode ConvolutionMode) ([]float64, error) {
	switch mode {
	case Full:
		return full, nil
	case Same:
		start := (kernelLen - 1) / 2
		out := make([]float64, signalLen)
		copy(out, full[start:start+signalLen])
		return out, nil
	case Valid:
		long, short := signalLen, kernelLen
		if short > long {
			long, short = short, long
		}
		out := make([]float64, long-short+1)
		copy(out, full[short-1:long])
		return out, nil
	default:
		return nil, fmt.Errorf("unknown convolution mode %d", mode)
	}
}
