package geometry

import "github.com/chewxy/math32"

// Tolerance is the absolute tolerance used for all approximate float comparisons.
// Vertices closer than this on every axis are considered coincident.
const Tolerance float32 = 1e-6

// AreFloatsEqual reports whether a and b differ by less than Tolerance
func AreFloatsEqual(a, b float32) bool {
	return math32.Abs(a-b) < Tolerance
}

// IsLessOrEqual reports whether a < b, or a and b are equal within Tolerance
func IsLessOrEqual(a, b float32) bool {
	return a < b || AreFloatsEqual(a, b)
}

// IsGreaterOrEqual reports whether a > b, or a and b are equal within Tolerance
func IsGreaterOrEqual(a, b float32) bool {
	return a > b || AreFloatsEqual(a, b)
}
