package svgpath

import (
	"fmt"
	"math"
)

// Matrix2D represents an affine transformation, with the same
// layout as the SVG matrix(a b c d e f) function:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Matrix2D struct {
	A, B, C, D, E, F float64
}

// Identity is the identity matrix
var Identity = Matrix2D{1, 0, 0, 1, 0, 0}

// Transform multiplies the input vector by matrix m and outputs the results vector
// components.
func (m Matrix2D) Transform(x1, y1 float64) (x2, y2 float64) {
	x2 = x1*m.A + y1*m.C + m.E
	y2 = x1*m.B + y1*m.D + m.F
	return
}

// TransformVector applies the linear part of m, ignoring the translation.
func (m Matrix2D) TransformVector(x1, y1 float64) (x2, y2 float64) {
	x2 = x1*m.A + y1*m.C
	y2 = x1*m.B + y1*m.D
	return
}

// Mult returns m*b: b is applied first, then m.
func (m Matrix2D) Mult(b Matrix2D) Matrix2D {
	return Matrix2D{
		A: m.A*b.A + m.C*b.B,
		B: m.B*b.A + m.D*b.B,
		C: m.A*b.C + m.C*b.D,
		D: m.B*b.C + m.D*b.D,
		E: m.A*b.E + m.C*b.F + m.E,
		F: m.B*b.E + m.D*b.F + m.F,
	}
}

// Translate appends a translation to m.
func (m Matrix2D) Translate(x, y float64) Matrix2D {
	return m.Mult(Matrix2D{1, 0, 0, 1, x, y})
}

// Scale appends a scaling to m.
func (m Matrix2D) Scale(x, y float64) Matrix2D {
	return m.Mult(Matrix2D{x, 0, 0, y, 0, 0})
}

// Rotate appends a rotation of theta radians to m.
func (m Matrix2D) Rotate(theta float64) Matrix2D {
	s, c := math.Sincos(theta)
	return m.Mult(Matrix2D{c, s, -s, c, 0, 0})
}

// RotateDeg appends a rotation of angle degrees to m.
func (m Matrix2D) RotateDeg(angle float64) Matrix2D {
	return m.Rotate(angle * math.Pi / 180)
}

// SkewX appends a skew along the x axis, of theta radians.
func (m Matrix2D) SkewX(theta float64) Matrix2D {
	return m.Mult(Matrix2D{1, 0, math.Tan(theta), 1, 0, 0})
}

// SkewY appends a skew along the y axis, of theta radians.
func (m Matrix2D) SkewY(theta float64) Matrix2D {
	return m.Mult(Matrix2D{1, math.Tan(theta), 0, 1, 0, 0})
}

// GetScale returns the scale factors along both axis.
func (m Matrix2D) GetScale() (sx, sy float64) {
	return math.Hypot(m.A, m.B), math.Hypot(m.C, m.D)
}

// Invert returns the inverse matrix, or false if m is not invertible.
func (m Matrix2D) Invert() (Matrix2D, bool) {
	det := m.A*m.D - m.B*m.C
	if FuzzyZero(det) {
		return Matrix2D{}, false
	}
	return Matrix2D{
		A: m.D / det,
		B: -m.B / det,
		C: -m.C / det,
		D: m.A / det,
		E: (m.C*m.F - m.D*m.E) / det,
		F: (m.B*m.E - m.A*m.F) / det,
	}, true
}

// IsIdentity compares m to the identity matrix, with fuzzy equality.
func (m Matrix2D) IsIdentity() bool {
	return m.FuzzyEqual(Identity)
}

// IsDefault is true for the identity matrix. It is used to skip
// empty transform in outputs.
func (m Matrix2D) IsDefault() bool { return m.IsIdentity() }

// FuzzyEqual compares each coefficient with FuzzyEqual.
func (m Matrix2D) FuzzyEqual(o Matrix2D) bool {
	return FuzzyEqual(m.A, o.A) && FuzzyEqual(m.B, o.B) && FuzzyEqual(m.C, o.C) &&
		FuzzyEqual(m.D, o.D) && FuzzyEqual(m.E, o.E) && FuzzyEqual(m.F, o.F)
}

// String returns the SVG matrix(...) notation.
func (m Matrix2D) String() string {
	return fmt.Sprintf("matrix(%g %g %g %g %g %g)", m.A, m.B, m.C, m.D, m.E, m.F)
}
