// Command curveinfo prints the static transfer curve of a compressor
// configuration as a table of input level, output level and gain reduction.
//
// Usage:
//
//	curveinfo [flags]
//
// Examples:
//
//	curveinfo
//	curveinfo -threshold -24 -ratio 8 -knee 12
//	curveinfo -from -80 -to 6 -step 3 -makeup 6
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-dynamics/dsp/core"
	"github.com/cwbudde/algo-dynamics/dsp/effects/dynamics"
)

func main() {
	thresholdDB := flag.Float64("threshold", -20, "compression threshold in dB")
	ratio := flag.Float64("ratio", 4, "compression ratio")
	kneeDB := flag.Float64("knee", 6, "soft-knee width in dB")
	makeupDB := flag.Float64("makeup", 0, "makeup gain in dB")
	fromDB := flag.Float64("from", -60, "first input level in dB")
	toDB := flag.Float64("to", 0, "last input level in dB")
	stepDB := flag.Float64("step", 3, "input level step in dB")
	flag.Parse()

	if *stepDB <= 0 {
		fmt.Fprintln(os.Stderr, "curveinfo: step must be positive")
		os.Exit(2)
	}
	if *fromDB > *toDB {
		*fromDB, *toDB = *toDB, *fromDB
	}

	// Sample rate only affects time constants, which the static curve
	// ignores; any valid rate will do.
	comp, err := dynamics.NewCompressor(48000)
	if err != nil {
		fmt.Fprintf(os.Stderr, "curveinfo: %v\n", err)
		os.Exit(1)
	}

	comp.SetThreshold(*thresholdDB)
	comp.SetRatio(*ratio)
	comp.SetKnee(*kneeDB)
	comp.SetMakeupGain(*makeupDB)

	fmt.Printf("threshold %.1f dB, ratio %.1f:1, knee %.1f dB, makeup %.1f dB\n\n",
		comp.Threshold(), comp.Ratio(), comp.Knee(), comp.MakeupGain())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "in (dB)\tout (dB)\treduction (dB)\t")

	for in := *fromDB; in <= *toDB+1e-9; in += *stepDB {
		outLevel := comp.CalculateOutputLevel(core.DBToLinear(in))
		outDB := core.LinearToDBSafe(outLevel)
		reduction := comp.GainReductionDB(in)

		fmt.Fprintf(w, "%.1f\t%.2f\t%.2f\t\n", in, outDB, reduction)
	}

	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "curveinfo: %v\n", err)
		os.Exit(1)
	}
}
