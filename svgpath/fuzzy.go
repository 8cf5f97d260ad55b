package svgpath

import "math"

// maxUlps is the tolerance of FuzzyEqual, in units in the last place.
const maxUlps = 4

// absEpsilon absorbs the rounding noise around zero, where ulps are meaningless.
const absEpsilon = 1e-12

// FuzzyEqual reports whether a and b are equal up to a few ulps.
func FuzzyEqual(a, b float64) bool {
	if a == b {
		return true
	}
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	if math.Abs(a-b) <= absEpsilon {
		return true
	}
	if math.Signbit(a) != math.Signbit(b) {
		return false
	}
	ia, ib := int64(math.Float64bits(a)), int64(math.Float64bits(b))
	diff := ia - ib
	if diff < 0 {
		diff = -diff
	}
	return diff <= maxUlps
}

// FuzzyZero is a shortcut for FuzzyEqual(f, 0).
func FuzzyZero(f float64) bool {
	return FuzzyEqual(f, 0)
}

// PointsEqual compares two points with FuzzyEqual.
func PointsEqual(x1, y1, x2, y2 float64) bool {
	return FuzzyEqual(x1, x2) && FuzzyEqual(y1, y2)
}
