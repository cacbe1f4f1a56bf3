// Package dynamics provides reusable non-I/O dynamics processors.
//
// Included processors:
//   - Compressor: Feed-forward soft-knee compressor with dB-domain gain
//     computation, makeup gain, dry/wet mix and output limiting.
//   - Ducker: Sidechain-driven gain reduction with cross-rate sidechain
//     alignment, additive sidechain mixing and a release-timed fade-out
//     tail.
//   - Follower: One-pole attack/release envelope follower shared by both.
//
// Processors keep their envelope and gain state across Process calls, so a
// single instance runs one logical stream continuously; Reset restarts a
// processor for unrelated material.
//
// Building with the fastmath tag swaps the hot-path log/pow implementations
// for polynomial approximations.
package dynamics
