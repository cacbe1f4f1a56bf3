package effects

import (
	"github.com/cwbudde/algo-dynamics/dsp/effects/dynamics"
)

// CompressorParams carries the per-call compressor settings.
// Out-of-range values are clamped to usable ranges, never rejected.
type CompressorParams struct {
	ThresholdDB  float64 // level above which compression applies
	Ratio        float64 // compression ratio; values <= 1 pass through
	AttackMs     float64 // envelope attack time
	ReleaseMs    float64 // envelope release time
	KneeDB       float64 // soft-knee width; 0 = hard knee
	MakeupGainDB float64 // post-compression gain
	Mix          float64 // dry/wet mix in [0, 1]
}

// Compress applies soft-knee compression to buf in place.
//
// A nil or empty buffer, or a non-positive sample rate, is a silent no-op.
// Envelope state starts from zero for every call; see the package comment
// for streaming use.
func Compress(buf []float64, sampleRate int, params CompressorParams) {
	if len(buf) == 0 || sampleRate <= 0 {
		return
	}

	c, err := dynamics.NewCompressor(float64(sampleRate))
	if err != nil {
		return
	}

	c.SetThreshold(params.ThresholdDB)
	c.SetRatio(params.Ratio)
	c.SetAttack(params.AttackMs)
	c.SetRelease(params.ReleaseMs)
	c.SetKnee(params.KneeDB)
	c.SetMakeupGain(params.MakeupGainDB)
	c.SetMix(params.Mix)

	c.ProcessInPlace(buf)
}
