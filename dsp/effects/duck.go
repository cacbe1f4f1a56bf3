package effects

import (
	"github.com/cwbudde/algo-dynamics/dsp/effects/dynamics"
)

// DuckingParams carries the per-call ducking settings.
// Out-of-range values are clamped to usable ranges, never rejected. The
// sign of ReductionDB is ignored; its magnitude is the attenuation depth.
type DuckingParams struct {
	MainGainDB      float64 // input gain applied to the main signal
	SidechainGainDB float64 // input gain applied to the sidechain signal
	ThresholdDB     float64 // sidechain level that triggers ducking
	ReductionDB     float64 // attenuation depth when fully ducked
	AttackMs        float64 // ducking onset time
	ReleaseMs       float64 // recovery and fade-out time
}

// Duck attenuates main wherever the sidechain envelope exceeds the
// threshold and mixes the sidechain into the result, resampling the
// sidechain to the main rate when the rates differ. The inputs are
// read-only; the returned Result owns a freshly allocated buffer at the
// main sample rate.
//
// Duck returns nil if either buffer is nil or empty or either sample rate
// is non-positive. Detector state starts fresh for every call.
func Duck(main []float64, mainSampleRate int, sidechain []float64, sidechainSampleRate int, params DuckingParams) *Result {
	if len(main) == 0 || len(sidechain) == 0 {
		return nil
	}
	if mainSampleRate <= 0 || sidechainSampleRate <= 0 {
		return nil
	}

	d, err := dynamics.NewDucker(float64(mainSampleRate))
	if err != nil {
		return nil
	}

	d.SetMainGain(params.MainGainDB)
	d.SetSidechainGain(params.SidechainGainDB)
	d.SetThreshold(params.ThresholdDB)
	d.SetReduction(params.ReductionDB)
	d.SetAttack(params.AttackMs)
	d.SetRelease(params.ReleaseMs)

	out := d.Process(main, sidechain, float64(sidechainSampleRate))
	if out == nil {
		return nil
	}

	return newResult(out, mainSampleRate)
}
