// Package resample provides stateless interpolating sample-rate conversion.
//
// The converter is intentionally cheap: it reconstructs fractional source
// positions with 2-point linear interpolation (optionally 4-point Hermite
// via [WithCubic]) and applies no anti-aliasing filter. It is meant for
// control-path material such as sidechain detector signals, where phase
// accuracy and cost matter more than stopband attenuation.
//
// Common workflows:
//   - Linear(input, srcRate, dstRate)
//   - Convert(input, srcRate, dstRate, opts...)
//   - OutputLen(srcLen, srcRate, dstRate)
package resample
