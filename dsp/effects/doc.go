// Package effects provides one-shot entry points over the dynamics
// processors, shaped for callers that hand in one buffer at a time and
// cannot hold processor objects, typically a thin foreign-function shim.
//
// Compress mutates its buffer in place. Duck returns a Result handle that
// owns a newly allocated output buffer; callers release it with
// ReleaseResult when done (an unreleased Result is still reclaimed by the
// garbage collector, releasing just recycles the allocation).
//
// Each call constructs a fresh processor, so envelope and gain state never
// carry across calls. Callers processing a continuous stream should use
// the dynamics package directly and keep one processor per stream.
package effects
