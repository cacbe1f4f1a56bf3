package resample

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-dynamics/dsp/interp"
)

// ErrInvalidRate indicates a non-positive or non-finite sample rate.
var ErrInvalidRate = errors.New("resample: invalid sample rate")

type config struct {
	order int
}

// Option configures the converter.
type Option func(*config)

// WithCubic selects 4-point Hermite interpolation instead of the default
// 2-point linear interpolation. Output length and edge behavior are
// unchanged; only the fractional reconstruction differs.
func WithCubic() Option {
	return func(cfg *config) {
		cfg.order = 3
	}
}

func defaultConfig() config {
	return config{order: 1}
}

// OutputLen returns the number of samples produced when converting srcLen
// samples from srcRate to dstRate: round(srcLen * dstRate / srcRate).
func OutputLen(srcLen int, srcRate, dstRate float64) int {
	if srcLen <= 0 {
		return 0
	}

	return int(math.Round(float64(srcLen) * dstRate / srcRate))
}

// Linear converts input from srcRate to dstRate using linear interpolation.
// It is a one-shot convenience wrapper around Convert with defaults.
func Linear(input []float64, srcRate, dstRate float64) ([]float64, error) {
	return Convert(input, srcRate, dstRate)
}

// Convert resamples input from srcRate to dstRate.
//
// For each output index the fractional source position is reconstructed
// from neighboring samples; positions past the last source sample hold that
// sample, and positions beyond the source support produce silence. The
// conversion is stateless and deterministic, and it is the identity
// transform when both rates are equal.
func Convert(input []float64, srcRate, dstRate float64, opts ...Option) ([]float64, error) {
	if !validRate(srcRate) || !validRate(dstRate) {
		return nil, ErrInvalidRate
	}

	cfg := defaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	dstLen := OutputLen(len(input), srcRate, dstRate)
	if dstLen == 0 {
		return nil, nil
	}

	out := make([]float64, dstLen)
	ratio := srcRate / dstRate

	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		frac := pos - float64(idx)

		switch {
		case idx+1 < len(input):
			if cfg.order == 3 {
				out[i] = interp.Hermite4(frac,
					input[maxInt(idx-1, 0)],
					input[idx],
					input[idx+1],
					input[minInt(idx+2, len(input)-1)])
			} else {
				out[i] = interp.Linear2(frac, input[idx], input[idx+1])
			}
		case idx < len(input):
			out[i] = input[idx]
		default:
			// Destination extends past the source support: silence pad.
			out[i] = 0
		}
	}

	return out, nil
}

func validRate(rate float64) bool {
	return rate > 0 && !math.IsNaN(rate) && !math.IsInf(rate, 0)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}

	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}

	return b
}
