package dynamics

import "math"

// epsilon is the numeric guard band used for ratio, mix and gain
// comparisons throughout the package.
const epsilon = 1e-9

// Follower is a one-pole attack/release envelope follower. It tracks the
// smoothed absolute level of a signal, rising with the attack coefficient
// and falling with the release coefficient.
//
// The follower keeps its envelope across Process calls so that successive
// buffers of one stream are tracked continuously; call Reset for a
// discontinuous restart.
type Follower struct {
	attackCoeff  float64
	releaseCoeff float64
	envelope     float64
}

// NewFollower returns a follower with coefficients derived from the attack
// and release times at the given sample rate.
func NewFollower(attackMs, releaseMs, sampleRate float64) *Follower {
	f := &Follower{}
	f.Configure(attackMs, releaseMs, sampleRate)

	return f
}

// Configure recomputes the smoothing coefficients. The envelope itself is
// left untouched so parameters can change mid-stream without a click.
func (f *Follower) Configure(attackMs, releaseMs, sampleRate float64) {
	f.attackCoeff = smoothingCoeff(attackMs, sampleRate)
	f.releaseCoeff = smoothingCoeff(releaseMs, sampleRate)
}

// Process advances the envelope by one input sample and returns the updated
// envelope. The absolute value of the input is tracked, and the envelope
// never goes negative.
func (f *Follower) Process(input float64) float64 {
	level := math.Abs(input)

	coeff := f.releaseCoeff
	if level > f.envelope {
		coeff = f.attackCoeff
	}

	f.envelope = coeff*f.envelope + (1-coeff)*level
	if f.envelope < 0 {
		f.envelope = 0
	}

	return f.envelope
}

// Envelope returns the current envelope value.
func (f *Follower) Envelope() float64 { return f.envelope }

// AttackCoeff returns the attack smoothing coefficient.
func (f *Follower) AttackCoeff() float64 { return f.attackCoeff }

// ReleaseCoeff returns the release smoothing coefficient.
func (f *Follower) ReleaseCoeff() float64 { return f.releaseCoeff }

// Reset clears the envelope to zero.
func (f *Follower) Reset() { f.envelope = 0 }

// smoothingCoeff derives a one-pole coefficient from a time constant:
// exp(-1/samples), with the window floored at one sample so very short
// times or low rates never produce an unstable coefficient.
func smoothingCoeff(timeMs, sampleRate float64) float64 {
	samples := math.Max(timeMs/1000*sampleRate, 1)

	return math.Exp(-1 / samples)
}

// linearToDBSafe converts linear amplitude to dB with a -140 dB floor below
// the measurable level. Mirrors core.LinearToDBSafe but routes through the
// fastmath-switchable log implementation for detector loops.
func linearToDBSafe(linear float64) float64 {
	if linear < minLinearLevel {
		return dbFloor
	}

	return 20 * mathLog10(linear)
}

const (
	minLinearLevel = 1e-7
	dbFloor        = -140.0
)
