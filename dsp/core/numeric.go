package core

import "math"

const defaultEpsilon = 1e-12

// MinLinearLevel is the smallest linear amplitude considered measurable.
// Levels below it map to DBFloor instead of running into log(0).
const MinLinearLevel = 1e-7

// DBFloor is the decibel value reported for immeasurably small levels.
const DBFloor = -140.0

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// FlushDenormals converts tiny denormal-like values to exact zero.
// This can reduce denormal-related CPU slowdowns in hot DSP loops.
func FlushDenormals(x float64) float64 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// LinearToDBSafe converts linear amplitude to dB, flooring the result at
// DBFloor for inputs below MinLinearLevel. Unlike LinearToDB it never
// returns -Inf or NaN, which makes it safe inside detector loops.
func LinearToDBSafe(linear float64) float64 {
	if linear < MinLinearLevel {
		return DBFloor
	}

	return 20 * math.Log10(linear)
}
