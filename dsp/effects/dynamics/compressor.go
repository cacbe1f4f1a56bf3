package dynamics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dynamics/dsp/core"
)

const (
	// Default compressor parameters
	defaultCompressorThresholdDB = -20.0
	defaultCompressorRatio       = 4.0
	defaultCompressorKneeDB      = 6.0
	defaultCompressorAttackMs    = 10.0
	defaultCompressorReleaseMs   = 100.0
	defaultCompressorMakeupDB    = 0.0
	defaultCompressorMix         = 1.0

	// Usable parameter floors; values below are silently raised.
	minCompressorAttackMs  = 0.01
	minCompressorReleaseMs = 0.1

	// outputCeiling bounds every output sample against makeup-gain
	// overshoot.
	outputCeiling = 0.999
)

// CompressorMetrics holds metering information for visualization and analysis.
type CompressorMetrics struct {
	InputPeak     float64 // Maximum input level since last reset
	OutputPeak    float64 // Maximum output level since last reset
	GainReduction float64 // Minimum gain (maximum reduction) since last reset
}

// Compressor implements a feed-forward soft-knee compressor with dB-domain
// gain calculation, makeup gain, dry/wet mixing and output limiting.
//
// The gain computer is continuous across the knee: reduction is zero up to
// half a knee below the threshold, follows a quadratic curve through the
// knee, and continues linearly above it. The two curve segments agree at
// both knee boundaries. With ratio at or below 1:1 the compressor is a
// pass-through (no gain reduction ever applies).
//
// The compressor is mono; for stereo processing, instantiate two
// compressors or implement stereo-linking externally. Envelope state
// persists across Process calls so one compressor can run a stream of
// buffers continuously; use Reset between unrelated streams.
//
// Out-of-range parameters are clamped to the nearest usable value rather
// than rejected; non-finite parameter values are ignored. This keeps every
// processing path free of failure modes beyond construction.
type Compressor struct {
	// User-configurable parameters
	thresholdDB  float64
	ratio        float64
	kneeDB       float64
	attackMs     float64
	releaseMs    float64
	makeupGainDB float64
	mix          float64

	// Sample rate
	sampleRate float64

	// Envelope follower state
	follower Follower

	// Computed coefficients (cached for performance)
	makeupGainLin float64

	// Optional metering
	metrics CompressorMetrics
}

// NewCompressor creates a soft-knee compressor with musical defaults.
//
// Sample rate must be positive and finite.
//
// Default parameters:
//   - Threshold: -20 dB
//   - Ratio: 4:1
//   - Knee: 6 dB
//   - Attack: 10 ms
//   - Release: 100 ms
//   - Makeup gain: 0 dB
//   - Mix: 1.0 (fully wet)
func NewCompressor(sampleRate float64) (*Compressor, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("compressor sample rate must be positive and finite: %f", sampleRate)
	}

	c := &Compressor{
		thresholdDB:  defaultCompressorThresholdDB,
		ratio:        defaultCompressorRatio,
		kneeDB:       defaultCompressorKneeDB,
		attackMs:     defaultCompressorAttackMs,
		releaseMs:    defaultCompressorReleaseMs,
		makeupGainDB: defaultCompressorMakeupDB,
		mix:          defaultCompressorMix,
		sampleRate:   sampleRate,
	}

	c.updateCoefficients()
	c.Reset()

	return c, nil
}

// SetThreshold sets the compression threshold in dB.
// Typical range: -60 to 0 dB. Signals above this level will be compressed.
func (c *Compressor) SetThreshold(dB float64) {
	if math.IsNaN(dB) || math.IsInf(dB, 0) {
		return
	}
	c.thresholdDB = dB
}

// SetRatio sets the compression ratio.
//   - values at or below 1.0 disable compression entirely
//   - 4.0 = 4:1 (musical compression)
//   - 100.0 ≈ limiting
func (c *Compressor) SetRatio(ratio float64) {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return
	}
	c.ratio = ratio
}

// SetKnee sets the soft-knee width in dB. Negative values clamp to 0
// (hard knee); 6-12 dB gives a smooth musical transition.
func (c *Compressor) SetKnee(kneeDB float64) {
	if math.IsNaN(kneeDB) || math.IsInf(kneeDB, 0) {
		return
	}
	c.kneeDB = math.Max(kneeDB, 0)
}

// SetAttack sets the attack time in milliseconds, floored at 0.01 ms.
func (c *Compressor) SetAttack(ms float64) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return
	}
	c.attackMs = math.Max(ms, minCompressorAttackMs)
	c.updateTimeConstants()
}

// SetRelease sets the release time in milliseconds, floored at 0.1 ms.
func (c *Compressor) SetRelease(ms float64) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return
	}
	c.releaseMs = math.Max(ms, minCompressorReleaseMs)
	c.updateTimeConstants()
}

// SetMakeupGain sets the post-compression makeup gain in dB.
func (c *Compressor) SetMakeupGain(dB float64) {
	if math.IsNaN(dB) || math.IsInf(dB, 0) {
		return
	}
	c.makeupGainDB = dB
	c.makeupGainLin = mathPower10(dB / 20)
}

// SetMix sets the dry/wet mix, clamped to [0, 1]. 0 leaves the input
// untouched (aside from output limiting); 1 is fully processed.
func (c *Compressor) SetMix(mix float64) {
	if math.IsNaN(mix) {
		return
	}
	c.mix = core.Clamp(mix, 0, 1)
}

// SetSampleRate updates the sample rate and recalculates time constants.
func (c *Compressor) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("compressor sample rate must be positive and finite: %f", sampleRate)
	}
	c.sampleRate = sampleRate
	c.updateTimeConstants()
	return nil
}

// Threshold returns the current threshold in dB.
func (c *Compressor) Threshold() float64 { return c.thresholdDB }

// Ratio returns the current compression ratio.
func (c *Compressor) Ratio() float64 { return c.ratio }

// Knee returns the current knee width in dB.
func (c *Compressor) Knee() float64 { return c.kneeDB }

// Attack returns the current attack time in milliseconds.
func (c *Compressor) Attack() float64 { return c.attackMs }

// Release returns the current release time in milliseconds.
func (c *Compressor) Release() float64 { return c.releaseMs }

// MakeupGain returns the current makeup gain in dB.
func (c *Compressor) MakeupGain() float64 { return c.makeupGainDB }

// Mix returns the current dry/wet mix.
func (c *Compressor) Mix() float64 { return c.mix }

// SampleRate returns the current sample rate in Hz.
func (c *Compressor) SampleRate() float64 { return c.sampleRate }

// ProcessSample processes one sample through the compressor.
func (c *Compressor) ProcessSample(input float64) float64 {
	envelope := c.follower.Process(input)

	gain := c.gainForEnvelope(envelope)

	processed := input * gain * c.makeupGainLin

	output := processed
	if c.mix < 1-epsilon {
		output = input*(1-c.mix) + processed*c.mix
	}

	output = core.Clamp(output, -outputCeiling, outputCeiling)

	c.updateMetrics(math.Abs(input), math.Abs(output), gain)

	return output
}

// ProcessInPlace applies compression to buf in place.
func (c *Compressor) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = c.ProcessSample(buf[i])
	}
}

// CalculateOutputLevel computes the steady-state output level for a given
// input magnitude, ignoring mix and output limiting. This allows
// visualizing the compression curve.
func (c *Compressor) CalculateOutputLevel(inputMagnitude float64) float64 {
	inputMagnitude = math.Abs(inputMagnitude)
	gain := c.gainForEnvelope(inputMagnitude)
	return inputMagnitude * gain * c.makeupGainLin
}

// GainReductionDB computes the reduction in dB applied at the given
// envelope level in dB. Exposed for curve inspection and analysis.
func (c *Compressor) GainReductionDB(envelopeDB float64) float64 {
	return c.reductionDB(envelopeDB)
}

// Reset clears envelope follower and metrics.
func (c *Compressor) Reset() {
	c.follower.Reset()
	c.metrics = CompressorMetrics{
		GainReduction: 1.0, // Initialize to no reduction
	}
}

// Metrics returns current metering values.
func (c *Compressor) Metrics() CompressorMetrics {
	return c.metrics
}

// ResetMetrics clears metering state without touching the envelope.
func (c *Compressor) ResetMetrics() {
	c.metrics = CompressorMetrics{
		GainReduction: 1.0,
	}
}

// updateCoefficients recalculates all internal cached values.
func (c *Compressor) updateCoefficients() {
	c.makeupGainLin = mathPower10(c.makeupGainDB / 20)
	c.updateTimeConstants()
}

// updateTimeConstants recalculates attack and release coefficients.
func (c *Compressor) updateTimeConstants() {
	c.follower.Configure(c.attackMs, c.releaseMs, c.sampleRate)
}

// gainForEnvelope converts an envelope level to a linear gain multiplier.
// The multiplier is forced finite and clamped so gain reduction never
// amplifies and never collapses to zero.
func (c *Compressor) gainForEnvelope(envelope float64) float64 {
	envelopeDB := linearToDBSafe(envelope)

	gain := mathPower10(-c.reductionDB(envelopeDB) / 20)
	if math.IsNaN(gain) || math.IsInf(gain, 0) {
		gain = 1.0
	}

	return core.Clamp(gain, epsilon, 1.0)
}

// reductionDB computes gain reduction in dB for an envelope level in dB.
//
// The curve has three regions relative to the threshold: zero reduction
// below -knee/2 of overshoot, a quadratic transition inside the knee, and
// the straight compression line above +knee/2. The quadratic evaluates to
// zero at the lower boundary and to slope*knee/2 at the upper one, which is
// exactly where the linear continuation starts.
func (c *Compressor) reductionDB(envelopeDB float64) float64 {
	if c.ratio <= 1+epsilon {
		return 0
	}

	overshoot := envelopeDB - c.thresholdDB
	slope := 1 - 1/c.ratio

	if c.kneeDB <= epsilon {
		if overshoot > 0 {
			return overshoot * slope
		}

		return 0
	}

	halfKnee := c.kneeDB / 2

	switch {
	case overshoot <= -halfKnee:
		return 0
	case overshoot < halfKnee:
		inKnee := overshoot + halfKnee
		return slope * inKnee * inKnee / (2 * c.kneeDB)
	default:
		return slope*halfKnee + (overshoot-halfKnee)*slope
	}
}

// updateMetrics tracks peak levels and gain reduction.
func (c *Compressor) updateMetrics(inputLevel, outputLevel, gain float64) {
	if inputLevel > c.metrics.InputPeak {
		c.metrics.InputPeak = inputLevel
	}
	if outputLevel > c.metrics.OutputPeak {
		c.metrics.OutputPeak = outputLevel
	}
	if gain < c.metrics.GainReduction {
		c.metrics.GainReduction = gain
	}
}
