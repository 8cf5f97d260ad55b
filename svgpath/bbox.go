package svgpath

import "math"

// compute the bouding box of a path, needed when using
// objectBoundingBox units

type line [2]Point

func (l line) criticalPoints() (tX, tY []float64) {
	return nil, nil
}

func (l line) evaluateCurve(t float64) (x, y float64) {
	return bezierLine(l[0].X, l[1].X, t), bezierLine(l[0].Y, l[1].Y, t)
}

func bezierLine(p0, p1, t float64) float64 {
	return (p1-p0)*t + p0
}

type cubicBezier [4]Point

func (cu cubicBezier) criticalPoints() (tX, tY []float64) {
	aX, bX, cX := cubicDerivative(cu[0].X, cu[1].X, cu[2].X, cu[3].X)
	aY, bY, cY := cubicDerivative(cu[0].Y, cu[1].Y, cu[2].Y, cu[3].Y)
	return quadraticRoots(aX, bX, cX), quadraticRoots(aY, bY, cY)
}

func (cu cubicBezier) evaluateCurve(t float64) (x, y float64) {
	return bezierSpline(cu[0].X, cu[1].X, cu[2].X, cu[3].X, t),
		bezierSpline(cu[0].Y, cu[1].Y, cu[2].Y, cu[3].Y, t)
}

// cubic polinomial
// x = At^3 + Bt^2 + Ct + D
// where A,B,C,D:
// A = p3 -3 * p2 + 3 * p1 - p0
// B = 3 * p2 - 6 * p1 +3 * p0
// C = 3 * p1 - 3 * p0
// D = p0
func bezierSpline(p0, p1, p2, p3, t float64) float64 {
	return (p3-3*p2+3*p1-p0)*t*t*t +
		(3*p2-6*p1+3*p0)*t*t +
		(3*p1-3*p0)*t +
		(p0)
}

// X' = (3*p3-9*p2+9*p1-3*p0)t^2 + (6*p2-12*p1+6*p0)t + (3*p1-3*p0)
// taken as aX^2 + bX + c  a,b and c are:
func cubicDerivative(p0, p1, p2, p3 float64) (a, b, c float64) {
	return 3*p3 - 9*p2 + 9*p1 - 3*p0, 6*p2 - 12*p1 + 6*p0, 3*p1 - 3*p0
}

func quadraticRoots(a, b, c float64) []float64 {
	if a == 0 {
		if b == 0 {
			return nil
		}
		// simple line
		return []float64{-c / b}
	}
	d := b*b - 4*a*c
	if d < 0 {
		return nil
	}
	if d == 0 {
		return []float64{-b / (2 * a)}
	}
	sq := math.Sqrt(d)
	return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
}

type bezier interface {
	// compute the t zeroing the derivative
	criticalPoints() (tX, tY []float64)
	// compute the point a time t
	evaluateCurve(t float64) (x, y float64)
}

// extent accumulates the minimum and maximum coordinates
type extent struct {
	minX, minY, maxX, maxY float64
}

func newExtent() extent {
	return extent{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
}

func (e *extent) add(x, y float64) {
	e.minX = math.Min(x, e.minX)
	e.minY = math.Min(y, e.minY)
	e.maxX = math.Max(x, e.maxX)
	e.maxY = math.Max(y, e.maxY)
}

func (e *extent) addCurve(curve bezier) {
	resX, resY := curve.criticalPoints()
	// add begin and end point
	for _, t := range append(append(resX, 0, 1), resY...) {
		// filter invalid value
		if !(0 <= t && t <= 1) {
			continue
		}
		e.add(curve.evaluateCurve(t))
	}
}

func (e extent) rect() (Rect, bool) {
	if math.IsInf(e.minX, 1) {
		return Rect{}, false
	}
	return Rect{e.minX, e.minY, e.maxX - e.minX, e.maxY - e.minY}, true
}

// BoundingBox returns the exact extent of the path, computed
// from the critical points of its curves. It returns false
// for a path without drawable segments.
// The result may have a zero width or height (for instance
// for an horizontal line).
func (p Path) BoundingBox() (Rect, bool) {
	if !p.HasDrawableSegments() {
		return Rect{}, false
	}
	ext := newExtent()
	var current Point
	for i, op := range p {
		switch op := op.(type) {
		case MoveTo:
			current = Point(op)
		case LineTo:
			ext.addCurve(line{current, Point(op)})
			current = Point(op)
		case CubicTo:
			end := Point{op.X, op.Y}
			ext.addCurve(cubicBezier{current, {op.X1, op.Y1}, {op.X2, op.Y2}, end})
			current = end
		case Close:
			current = p.SubpathStart(i)
		}
	}
	return ext.rect()
}
