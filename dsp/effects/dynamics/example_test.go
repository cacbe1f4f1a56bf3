package dynamics_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dynamics/dsp/effects/dynamics"
)

// ExampleCompressor demonstrates streaming compression with one processor
// instance per logical stream.
func ExampleCompressor() {
	comp, err := dynamics.NewCompressor(48000)
	if err != nil {
		panic(err)
	}

	comp.SetThreshold(-18.0)
	comp.SetRatio(4.0)
	comp.SetKnee(6.0)
	comp.SetAttack(5.0)
	comp.SetRelease(80.0)

	// Successive buffers of the same stream share envelope state.
	for block := 0; block < 4; block++ {
		buf := make([]float64, 256)
		for i := range buf {
			buf[i] = 0.8 * math.Sin(2*math.Pi*440*float64(block*256+i)/48000)
		}
		comp.ProcessInPlace(buf)
	}

	fmt.Printf("reduction engaged: %v\n", comp.Metrics().GainReduction < 1.0)
	// Output:
	// reduction engaged: true
}

// ExampleDucker demonstrates voice-over ducking of a music bed.
func ExampleDucker() {
	duck, err := dynamics.NewDucker(48000)
	if err != nil {
		panic(err)
	}

	duck.SetThreshold(-30.0)
	duck.SetReduction(12.0)
	duck.SetAttack(5.0)
	duck.SetRelease(150.0)

	music := make([]float64, 4800)
	voice := make([]float64, 4800)
	for i := range music {
		music[i] = 0.4
		voice[i] = 0.7
	}

	out := duck.Process(music, voice, 48000)

	fmt.Printf("%d samples, gain %.3f\n", len(out), duck.GainReduction())
	// Output:
	// 4800 samples, gain 0.251
}
