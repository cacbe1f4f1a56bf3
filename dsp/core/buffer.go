package core

// EnsureLen returns a sample slice of length n, reusing buf's backing
// array when its capacity suffices. Existing contents are not preserved
// on reallocation; callers that need them copy first.
func EnsureLen(buf []float64, n int) []float64 {
	switch {
	case n <= 0:
		return buf[:0]
	case n <= cap(buf):
		return buf[:n]
	default:
		return make([]float64, n)
	}
}

// Zero silences buf in place.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// CopyInto copies as many samples from src into dst as fit and returns
// the number copied.
func CopyInto(dst, src []float64) int {
	n := len(src)
	if len(dst) < n {
		n = len(dst)
	}
	copy(dst, src[:n])

	return n
}
