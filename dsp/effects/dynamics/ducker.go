package dynamics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-dynamics/dsp/resample"
)

const (
	// Default ducker parameters
	defaultDuckerThresholdDB = -40.0
	defaultDuckerReductionDB = 12.0
	defaultDuckerAttackMs    = 10.0
	defaultDuckerReleaseMs   = 100.0

	// Usable parameter floors; values below are silently raised.
	minDuckerAttackMs  = 0.1
	minDuckerReleaseMs = 1.0
)

// DuckerMetrics holds metering information for visualization and analysis.
type DuckerMetrics struct {
	SidechainPeak float64 // Maximum gained sidechain level since last reset
	MinGain       float64 // Minimum applied gain (maximum ducking) since last reset
}

// Ducker attenuates a main signal whenever the envelope of a sidechain
// signal exceeds a threshold, then mixes the sidechain into the output.
//
// Both inputs first receive independent linear gains; a sidechain recorded
// at a different sample rate is resampled to the main rate before
// detection. Over the region where both signals overlap, a binary gain
// target (full reduction above threshold, unity below) is smoothed with the
// attack coefficient when ducking deepens and the release coefficient when
// it recovers. Past the end of the sidechain the applied gain fades
// linearly back to unity over one release time, after which the main
// signal passes through unchanged.
//
// Note that the output is main*gain + sidechain, not a pure attenuation of
// the main signal: the ducker doubles as an automatic downmixer, the way a
// broadcast voice-over bus behaves.
//
// Envelope and gain state persist across Process calls; use Reset between
// unrelated streams. Out-of-range parameters are clamped, never rejected.
type Ducker struct {
	// User-configurable parameters
	mainGainDB      float64
	sidechainGainDB float64
	thresholdDB     float64
	reductionDB     float64 // stored non-positive: attenuation amount
	attackMs        float64
	releaseMs       float64

	// Sample rate of the main signal
	sampleRate float64

	// Detector state
	follower Follower

	// Smoothed applied gain, within [reduction_lin, 1]
	gainReduction float64

	// Computed coefficients (cached for performance)
	mainGainLin      float64
	sidechainGainLin float64
	thresholdLin     float64
	reductionLin     float64
	attackCoeff      float64
	releaseCoeff     float64

	// Optional metering
	metrics DuckerMetrics
}

// NewDucker creates a ducker with broadcast-style defaults.
//
// Sample rate is the rate of the main signal and must be positive and
// finite.
//
// Default parameters:
//   - Threshold: -40 dB
//   - Reduction: 12 dB
//   - Attack: 10 ms
//   - Release: 100 ms
//   - Main/sidechain input gain: 0 dB
func NewDucker(sampleRate float64) (*Ducker, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("ducker sample rate must be positive and finite: %f", sampleRate)
	}

	d := &Ducker{
		thresholdDB: defaultDuckerThresholdDB,
		attackMs:    defaultDuckerAttackMs,
		releaseMs:   defaultDuckerReleaseMs,
		sampleRate:  sampleRate,
	}

	d.SetReduction(defaultDuckerReductionDB)
	d.updateCoefficients()
	d.Reset()

	return d, nil
}

// SetMainGain sets the input gain applied to the main signal, in dB.
func (d *Ducker) SetMainGain(dB float64) {
	if math.IsNaN(dB) || math.IsInf(dB, 0) {
		return
	}
	d.mainGainDB = dB
	d.mainGainLin = mathPower10(dB / 20)
}

// SetSidechainGain sets the input gain applied to the sidechain signal, in dB.
func (d *Ducker) SetSidechainGain(dB float64) {
	if math.IsNaN(dB) || math.IsInf(dB, 0) {
		return
	}
	d.sidechainGainDB = dB
	d.sidechainGainLin = mathPower10(dB / 20)
}

// SetThreshold sets the sidechain detection threshold in dB.
func (d *Ducker) SetThreshold(dB float64) {
	if math.IsNaN(dB) || math.IsInf(dB, 0) {
		return
	}
	d.thresholdDB = dB
	d.thresholdLin = mathPower10(dB / 20)
}

// SetReduction sets the attenuation depth in dB. The sign of the input is
// ignored; the magnitude is always stored as an attenuation amount.
func (d *Ducker) SetReduction(dB float64) {
	if math.IsNaN(dB) || math.IsInf(dB, 0) {
		return
	}
	d.reductionDB = -math.Abs(dB)
	d.reductionLin = mathPower10(d.reductionDB / 20)
}

// SetAttack sets the ducking attack time in milliseconds, floored at 0.1 ms.
func (d *Ducker) SetAttack(ms float64) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return
	}
	d.attackMs = math.Max(ms, minDuckerAttackMs)
	d.updateTimeConstants()
}

// SetRelease sets the recovery time in milliseconds, floored at 1.0 ms.
// It also sizes the fade-out window past the end of the sidechain.
func (d *Ducker) SetRelease(ms float64) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return
	}
	d.releaseMs = math.Max(ms, minDuckerReleaseMs)
	d.updateTimeConstants()
}

// MainGain returns the main input gain in dB.
func (d *Ducker) MainGain() float64 { return d.mainGainDB }

// SidechainGain returns the sidechain input gain in dB.
func (d *Ducker) SidechainGain() float64 { return d.sidechainGainDB }

// Threshold returns the detection threshold in dB.
func (d *Ducker) Threshold() float64 { return d.thresholdDB }

// Reduction returns the stored attenuation amount in dB (non-positive).
func (d *Ducker) Reduction() float64 { return d.reductionDB }

// Attack returns the attack time in milliseconds.
func (d *Ducker) Attack() float64 { return d.attackMs }

// Release returns the release time in milliseconds.
func (d *Ducker) Release() float64 { return d.releaseMs }

// SampleRate returns the main-signal sample rate in Hz.
func (d *Ducker) SampleRate() float64 { return d.sampleRate }

// GainReduction returns the currently applied smoothed gain.
func (d *Ducker) GainReduction() float64 { return d.gainReduction }

// Process runs the ducking engine over one pair of buffers and returns a
// newly allocated output at the main sample rate. The inputs are read-only;
// sidechainRate is the rate sidechain was captured at.
//
// A nil or empty main or sidechain buffer, or a degenerate sidechain rate,
// yields a nil output rather than an error. A sidechain too short to span
// one sample at the main rate contributes nothing; the output is then the
// gained main signal.
func (d *Ducker) Process(main, sidechain []float64, sidechainRate float64) []float64 {
	if len(main) == 0 || len(sidechain) == 0 {
		return nil
	}
	if sidechainRate <= 0 || math.IsNaN(sidechainRate) || math.IsInf(sidechainRate, 0) {
		return nil
	}

	gainedMain := make([]float64, len(main))
	vecmath.ScaleBlock(gainedMain, main, d.mainGainLin)

	gainedSidechain := make([]float64, len(sidechain))
	vecmath.ScaleBlock(gainedSidechain, sidechain, d.sidechainGainLin)

	if sidechainRate != d.sampleRate {
		resampled, err := resample.Linear(gainedSidechain, sidechainRate, d.sampleRate)
		if err != nil {
			return nil
		}
		// A sidechain shorter than one sample at the main rate resamples
		// to nothing; the engine then only runs the recovery fade.
		gainedSidechain = resampled
	}

	if peak := vecmath.MaxAbs(gainedSidechain); peak > d.metrics.SidechainPeak {
		d.metrics.SidechainPeak = peak
	}

	out := make([]float64, len(gainedMain))
	copy(out, gainedMain)

	overlap := len(out)
	if len(gainedSidechain) < overlap {
		overlap = len(gainedSidechain)
	}

	for i := 0; i < overlap; i++ {
		envelope := d.follower.Process(gainedSidechain[i])

		target := 1.0
		if envelope > d.thresholdLin {
			target = d.reductionLin
		}

		// Deeper ducking follows the attack time, recovery the release
		// time. Same one-pole smoothing as the detector, applied to the
		// gain itself.
		coeff := d.releaseCoeff
		if target < d.gainReduction {
			coeff = d.attackCoeff
		}
		d.gainReduction = coeff*d.gainReduction + (1-coeff)*target

		if d.gainReduction < d.metrics.MinGain {
			d.metrics.MinGain = d.gainReduction
		}

		out[i] = gainedMain[i]*d.gainReduction + gainedSidechain[i]
	}

	d.fadeOutTail(out, gainedMain, overlap)

	return out
}

// fadeOutTail ramps the applied gain linearly back to unity over one
// release time once the sidechain has ended, so the main signal recovers
// without a step. Samples past the fade window pass through unchanged.
func (d *Ducker) fadeOutTail(out, gainedMain []float64, overlap int) {
	remaining := len(out) - overlap
	if remaining <= 0 {
		return
	}

	fadeLen := int(d.releaseMs / 1000 * d.sampleRate)
	if fadeLen > remaining {
		fadeLen = remaining
	}

	finalGain := d.gainReduction
	for i := 0; i < fadeLen; i++ {
		progress := float64(i) / float64(fadeLen)
		gain := finalGain + (1-finalGain)*progress
		out[overlap+i] = gainedMain[overlap+i] * gain
		d.gainReduction = gain
	}

	if remaining > fadeLen {
		// The fade completed inside this buffer; everything after it is
		// unity-gain main signal, already in place from the initial copy.
		d.gainReduction = 1.0
	}
}

// Reset clears detector and gain state back to idle (unity gain).
func (d *Ducker) Reset() {
	d.follower.Reset()
	d.gainReduction = 1.0
	d.metrics = DuckerMetrics{MinGain: 1.0}
}

// Metrics returns current metering values.
func (d *Ducker) Metrics() DuckerMetrics {
	return d.metrics
}

// updateCoefficients recalculates all cached linear values and time
// constants from the current parameters.
func (d *Ducker) updateCoefficients() {
	d.mainGainLin = mathPower10(d.mainGainDB / 20)
	d.sidechainGainLin = mathPower10(d.sidechainGainDB / 20)
	d.thresholdLin = mathPower10(d.thresholdDB / 20)
	d.reductionLin = mathPower10(d.reductionDB / 20)
	d.updateTimeConstants()
}

// updateTimeConstants recalculates attack and release coefficients at the
// main sample rate, shared by the detector and the gain smoother.
func (d *Ducker) updateTimeConstants() {
	d.follower.Configure(d.attackMs, d.releaseMs, d.sampleRate)
	d.attackCoeff = d.follower.AttackCoeff()
	d.releaseCoeff = d.follower.ReleaseCoeff()
}
