package buffer

import "github.com/cwbudde/algo-dynamics/dsp/core"

// Buffer wraps a float64 slice together with the sample rate it was
// recorded or rendered at. DSP functions accept raw []float64; use
// Samples() to bridge.
type Buffer struct {
	samples    []float64
	sampleRate int
}

// New returns a zero-filled Buffer of the given length and sample rate.
func New(length, sampleRate int) *Buffer {
	if length < 0 {
		length = 0
	}
	return &Buffer{samples: make([]float64, length), sampleRate: sampleRate}
}

// FromSlice wraps an existing slice without copying.
// Mutations to the slice are visible through the Buffer and vice versa.
func FromSlice(s []float64, sampleRate int) *Buffer {
	return &Buffer{samples: s, sampleRate: sampleRate}
}

// Samples returns the underlying slice.
func (b *Buffer) Samples() []float64 {
	return b.samples
}

// SampleRate returns the sample rate associated with the buffer.
func (b *Buffer) SampleRate() int {
	return b.sampleRate
}

// SetSampleRate updates the associated sample rate without touching samples.
func (b *Buffer) SetSampleRate(sampleRate int) {
	b.sampleRate = sampleRate
}

// Len returns the current number of samples.
func (b *Buffer) Len() int {
	return len(b.samples)
}

// Cap returns the current capacity of the backing slice.
func (b *Buffer) Cap() int {
	return cap(b.samples)
}

// Resize sets the length to n, reusing existing capacity when possible.
// New elements beyond the previous length are zeroed.
func (b *Buffer) Resize(n int) {
	if n < 0 {
		n = 0
	}
	oldLen := len(b.samples)
	if n <= cap(b.samples) {
		b.samples = b.samples[:n]
	} else {
		s := make([]float64, n)
		copy(s, b.samples)
		b.samples = s
	}
	// Re-exposed capacity may hold stale data from previous use of the
	// backing array.
	if n > oldLen {
		core.Zero(b.samples[oldLen:])
	}
}

// Zero sets all samples to 0.
func (b *Buffer) Zero() {
	core.Zero(b.samples)
}

// CopyFrom replaces the buffer contents with a copy of src, resizing as
// needed, and records the given sample rate.
func (b *Buffer) CopyFrom(src []float64, sampleRate int) {
	b.samples = core.EnsureLen(b.samples, len(src))
	core.CopyInto(b.samples, src)
	b.sampleRate = sampleRate
}

// Copy returns a deep copy of the buffer.
func (b *Buffer) Copy() *Buffer {
	s := make([]float64, len(b.samples))
	copy(s, b.samples)
	return &Buffer{samples: s, sampleRate: b.sampleRate}
}
