package dynamics

import (
	"math"
	"testing"
)

func newTestDucker(t *testing.T, sampleRate float64) *Ducker {
	t.Helper()

	d, err := NewDucker(sampleRate)
	if err != nil {
		t.Fatalf("NewDucker() error = %v", err)
	}

	return d
}

func TestNewDucker(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate float64
		wantErr    bool
	}{
		{"valid 48000", 48000, false},
		{"valid 44100", 44100, false},
		{"invalid zero", 0, true},
		{"invalid negative", -48000, true},
		{"invalid NaN", math.NaN(), true},
		{"invalid Inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDucker(tt.sampleRate)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewDucker() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && d.GainReduction() != 1.0 {
				t.Errorf("GainReduction() = %v at start, want 1", d.GainReduction())
			}
		})
	}
}

func TestDuckerReductionStoredAsAttenuation(t *testing.T) {
	d := newTestDucker(t, 48000)

	d.SetReduction(12)
	if d.Reduction() != -12 {
		t.Errorf("Reduction() = %v after SetReduction(12), want -12", d.Reduction())
	}

	d.SetReduction(-9)
	if d.Reduction() != -9 {
		t.Errorf("Reduction() = %v after SetReduction(-9), want -9", d.Reduction())
	}
}

func TestDuckerDegenerateInputs(t *testing.T) {
	d := newTestDucker(t, 48000)

	main := []float64{0.1, 0.2, 0.3, 0.4, 0.5}
	sidechain := []float64{0.5, 0.5}

	tests := []struct {
		name          string
		main          []float64
		sidechain     []float64
		sidechainRate float64
	}{
		{"nil main", nil, sidechain, 48000},
		{"empty main", []float64{}, sidechain, 48000},
		{"nil sidechain", main, nil, 48000},
		{"empty sidechain", main, []float64{}, 48000},
		{"zero sidechain rate", main, sidechain, 0},
		{"negative sidechain rate", main, sidechain, -1},
		{"NaN sidechain rate", main, sidechain, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if out := d.Process(tt.main, tt.sidechain, tt.sidechainRate); out != nil {
				t.Fatalf("Process() = %v, want nil", out)
			}
		})
	}
}

// TestDuckerQuietSidechainPassesSum verifies that below threshold the gain
// stays at unity and the output is the plain sum of both gained inputs.
func TestDuckerQuietSidechainPassesSum(t *testing.T) {
	d := newTestDucker(t, 48000)
	d.SetThreshold(-6)

	main := make([]float64, 300)
	sidechain := make([]float64, 300)
	for i := range main {
		main[i] = 0.4
		sidechain[i] = 0.001 // far below -6 dB
	}

	out := d.Process(main, sidechain, 48000)
	if len(out) != len(main) {
		t.Fatalf("len = %d, want %d", len(out), len(main))
	}

	for i := range out {
		want := main[i] + sidechain[i]
		if math.Abs(out[i]-want) > 1e-12 {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want)
		}
	}

	if d.GainReduction() != 1.0 {
		t.Fatalf("GainReduction() = %v, want 1", d.GainReduction())
	}
}

// TestDuckerSteadyStateDownmix verifies the loud-sidechain steady state
// approaches main*reduction_lin + sidechain.
func TestDuckerSteadyStateDownmix(t *testing.T) {
	d := newTestDucker(t, 48000)
	d.SetThreshold(-6)
	d.SetReduction(12)
	d.SetAttack(1)
	d.SetRelease(1)

	n := 4800
	main := make([]float64, n)
	sidechain := make([]float64, n)
	for i := range main {
		main[i] = 1.0
		sidechain[i] = 1.0
	}

	out := d.Process(main, sidechain, 48000)

	reductionLin := math.Pow(10, -12.0/20) // ≈ 0.2512
	want := 1.0*reductionLin + 1.0         // ≈ 1.2512

	for i := n - 100; i < n; i++ {
		if math.Abs(out[i]-want) > 1e-3 {
			t.Fatalf("out[%d] = %v, want steady state %v", i, out[i], want)
		}
	}

	if gr := d.GainReduction(); math.Abs(gr-reductionLin) > 1e-3 {
		t.Fatalf("GainReduction() = %v, want %v", gr, reductionLin)
	}
}

// TestDuckerGainWithinBounds verifies the applied gain never leaves
// [reduction_lin, 1].
func TestDuckerGainWithinBounds(t *testing.T) {
	d := newTestDucker(t, 48000)
	d.SetThreshold(-20)
	d.SetReduction(18)
	d.SetAttack(0.5)
	d.SetRelease(5)

	reductionLin := math.Pow(10, -18.0/20)

	main := make([]float64, 2000)
	sidechain := make([]float64, 2000)
	for i := range main {
		main[i] = 0.5
		// Bursty sidechain: alternating loud and silent stretches.
		if (i/200)%2 == 0 {
			sidechain[i] = 0.9
		}
	}

	// Process in chunks to also cover cross-call state.
	for start := 0; start < len(main); start += 500 {
		d.Process(main[start:start+500], sidechain[start:start+500], 48000)
		gr := d.GainReduction()
		if gr < reductionLin-1e-9 || gr > 1+1e-9 {
			t.Fatalf("GainReduction() = %v, outside [%v, 1]", gr, reductionLin)
		}
	}

	m := d.Metrics()
	if m.MinGain < reductionLin-1e-9 {
		t.Fatalf("MinGain = %v, below %v", m.MinGain, reductionLin)
	}
	if m.MinGain >= 1 {
		t.Fatalf("MinGain = %v, expected ducking to engage", m.MinGain)
	}
	if m.SidechainPeak != 0.9 {
		t.Fatalf("SidechainPeak = %v, want 0.9", m.SidechainPeak)
	}
}

// TestDuckerInputGains verifies the independent dB input gains are applied
// before detection and mixing.
func TestDuckerInputGains(t *testing.T) {
	d := newTestDucker(t, 48000)
	d.SetThreshold(-6)
	d.SetMainGain(-6)
	d.SetSidechainGain(-20)

	mainGainLin := math.Pow(10, -6.0/20)
	sidechainGainLin := math.Pow(10, -20.0/20)

	main := make([]float64, 100)
	sidechain := make([]float64, 100)
	for i := range main {
		main[i] = 0.8
		sidechain[i] = 0.5 // -20 dB gain puts this well below threshold
	}

	out := d.Process(main, sidechain, 48000)
	for i := range out {
		want := 0.8*mainGainLin + 0.5*sidechainGainLin
		if math.Abs(out[i]-want) > 1e-12 {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want)
		}
	}
}

// TestDuckerResampledSidechain verifies a sidechain at a different rate is
// aligned to the main rate and still drives the same steady state.
func TestDuckerResampledSidechain(t *testing.T) {
	d := newTestDucker(t, 48000)
	d.SetThreshold(-6)
	d.SetReduction(12)
	d.SetAttack(1)
	d.SetRelease(1)

	n := 4800
	main := make([]float64, n)
	for i := range main {
		main[i] = 1.0
	}
	// Half-rate sidechain covering the same duration.
	sidechain := make([]float64, n/2)
	for i := range sidechain {
		sidechain[i] = 1.0
	}

	out := d.Process(main, sidechain, 24000)
	if len(out) != n {
		t.Fatalf("len = %d, want %d", len(out), n)
	}

	want := math.Pow(10, -12.0/20) + 1.0
	for i := n - 100; i < n; i++ {
		if math.Abs(out[i]-want) > 1e-3 {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want)
		}
	}
}

// TestDuckerSidechainResamplesToNothing verifies that a sidechain too
// short to span one sample at the main rate still yields a full-length
// pass-through output instead of nil.
func TestDuckerSidechainResamplesToNothing(t *testing.T) {
	d := newTestDucker(t, 8000)

	main := []float64{0.1, 0.2, 0.3, 0.4, 0.5}
	// One sample at 48 kHz rounds to zero samples at 8 kHz.
	sidechain := []float64{0.9}

	out := d.Process(main, sidechain, 48000)
	if out == nil {
		t.Fatal("Process() = nil for non-empty inputs")
	}
	if len(out) != len(main) {
		t.Fatalf("len = %d, want %d", len(out), len(main))
	}
	for i := range main {
		if out[i] != main[i] {
			t.Fatalf("out[%d] = %v, want pass-through %v", i, out[i], main[i])
		}
	}
	if g := d.GainReduction(); g != 1.0 {
		t.Fatalf("GainReduction() = %v, want 1", g)
	}
}

// TestDuckerFadeOutTail verifies the gain recovers linearly to unity over
// one release time past the sidechain, then passes through unchanged.
func TestDuckerFadeOutTail(t *testing.T) {
	const (
		sampleRate = 48000.0
		releaseMs  = 1.0
		overlap    = 960
		total      = 2000
	)

	d := newTestDucker(t, sampleRate)
	d.SetThreshold(-20)
	d.SetReduction(20)
	d.SetAttack(0.5)
	d.SetRelease(releaseMs)

	main := make([]float64, total)
	for i := range main {
		main[i] = 0.5
	}
	sidechain := make([]float64, overlap)
	for i := range sidechain {
		sidechain[i] = 0.9
	}

	out := d.Process(main, sidechain, sampleRate)

	fadeLen := int(releaseMs / 1000 * sampleRate) // 48 samples

	// The fade region rises monotonically toward the dry main level.
	prev := out[overlap]
	for i := 1; i < fadeLen; i++ {
		cur := out[overlap+i]
		if cur < prev {
			t.Fatalf("fade not monotonic at %d: %v < %v", i, cur, prev)
		}
		prev = cur
	}

	// Past the fade window the main signal passes through at unity gain.
	for i := overlap + fadeLen; i < total; i++ {
		if out[i] != 0.5 {
			t.Fatalf("out[%d] = %v, want pass-through 0.5", i, out[i])
		}
	}

	if d.GainReduction() != 1.0 {
		t.Fatalf("GainReduction() = %v after completed fade, want 1", d.GainReduction())
	}
}

func TestDuckerReset(t *testing.T) {
	d := newTestDucker(t, 48000)
	d.SetThreshold(-30)

	main := make([]float64, 500)
	sidechain := make([]float64, 500)
	for i := range main {
		main[i] = 0.5
		sidechain[i] = 0.9
	}
	d.Process(main, sidechain, 48000)

	if d.GainReduction() >= 1.0 {
		t.Fatal("expected ducking to engage before Reset")
	}

	d.Reset()
	if d.GainReduction() != 1.0 {
		t.Fatalf("GainReduction() = %v after Reset, want 1", d.GainReduction())
	}
	if m := d.Metrics(); m.MinGain != 1.0 || m.SidechainPeak != 0 {
		t.Fatalf("metrics after Reset = %+v", m)
	}
}
