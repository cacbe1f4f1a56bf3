// Package buffer provides a rate-carrying float64 buffer type and pool for
// allocation-friendly DSP processing. All DSP functions accept raw
// []float64 slices; Buffer is the convenience that bundles samples with
// their sample rate for results that cross API boundaries.
package buffer
