package effects

import (
	"github.com/cwbudde/algo-dynamics/dsp/buffer"
)

// resultPool recycles result buffers across Duck calls.
var resultPool = buffer.NewPool()

// Result owns a processed output buffer and its sample rate. It stays
// valid until passed to ReleaseResult; after that the samples must not be
// touched, as the backing storage is recycled.
type Result struct {
	buf *buffer.Buffer
}

func newResult(samples []float64, sampleRate int) *Result {
	b := resultPool.Get(len(samples), sampleRate)
	copy(b.Samples(), samples)

	return &Result{buf: b}
}

// Samples returns the owned output samples. Returns nil after release.
func (r *Result) Samples() []float64 {
	if r == nil || r.buf == nil {
		return nil
	}

	return r.buf.Samples()
}

// Len returns the number of output samples, 0 after release.
func (r *Result) Len() int {
	if r == nil || r.buf == nil {
		return 0
	}

	return r.buf.Len()
}

// SampleRate returns the output sample rate, 0 after release.
func (r *Result) SampleRate() int {
	if r == nil || r.buf == nil {
		return 0
	}

	return r.buf.SampleRate()
}

// ReleaseResult returns the result's backing buffer to the pool. Calling
// it with nil, or with an already-released result, is a safe no-op.
func ReleaseResult(r *Result) {
	if r == nil || r.buf == nil {
		return
	}

	resultPool.Put(r.buf)
	r.buf = nil
}
