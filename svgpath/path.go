// Implements an abstract representation of
// svg paths, normalized to absolute move, line,
// cubic bezier and close commands.
package svgpath

import (
	"fmt"
	"strings"
)

type pathCommand uint8

// Human readable path constants
const (
	pathMoveTo pathCommand = iota
	pathLineTo
	pathCubicTo
	pathClose
)

// Point is a position in user units.
type Point struct{ X, Y float64 }

// Operation groups the different normalized path commands.
// Only MoveTo, LineTo, CubicTo and Close implement it:
// quadratic curves, arcs and shapes are converted on insertion.
type Operation interface {
	command() pathCommand
}

// MoveTo starts a new subpath.
type MoveTo Point

// LineTo draws a straight line to the point.
type LineTo Point

// CubicTo holds the two control points and the end point
// of a cubic bezier curve.
type CubicTo struct {
	X1, Y1 float64
	X2, Y2 float64
	X, Y   float64
}

// Close joins the current point to the start of the subpath.
type Close struct{}

func (MoveTo) command() pathCommand  { return pathMoveTo }
func (LineTo) command() pathCommand  { return pathLineTo }
func (CubicTo) command() pathCommand { return pathCubicTo }
func (Close) command() pathCommand   { return pathClose }

// Path describes a sequence of basic SVG operations.
// Higher-level shapes may be reduced to a path.
type Path []Operation

// ToSVGPath returns a string representation of the path
func (p Path) ToSVGPath() string {
	chunks := make([]string, len(p))
	for i, op := range p {
		switch op := op.(type) {
		case MoveTo:
			chunks[i] = fmt.Sprintf("M%g,%g", op.X, op.Y)
		case LineTo:
			chunks[i] = fmt.Sprintf("L%g,%g", op.X, op.Y)
		case CubicTo:
			chunks[i] = fmt.Sprintf("C%g,%g,%g,%g,%g,%g", op.X1, op.Y1, op.X2, op.Y2, op.X, op.Y)
		case Close:
			chunks[i] = "Z"
		}
	}
	return strings.Join(chunks, " ")
}

// String returns a readable representation of a Path.
func (p Path) String() string {
	return p.ToSVGPath()
}

// Clear zeros the path slice
func (p *Path) Clear() {
	*p = (*p)[:0]
}

// Start starts a new curve at the given point.
func (p *Path) Start(x, y float64) {
	*p = append(*p, MoveTo{x, y})
}

// Line adds a linear segment to the current curve.
func (p *Path) Line(x, y float64) {
	*p = append(*p, LineTo{x, y})
}

// QuadBezier adds a quadratic segment to the current curve,
// elevated to a cubic one.
func (p *Path) QuadBezier(x1, y1, x, y float64) {
	px, py := p.CurrentPoint()
	*p = append(*p, CubicTo{
		X1: px + 2.0/3.0*(x1-px),
		Y1: py + 2.0/3.0*(y1-py),
		X2: x + 2.0/3.0*(x1-x),
		Y2: y + 2.0/3.0*(y1-y),
		X:  x,
		Y:  y,
	})
}

// CubeBezier adds a cubic segment to the current curve.
func (p *Path) CubeBezier(x1, y1, x2, y2, x, y float64) {
	*p = append(*p, CubicTo{x1, y1, x2, y2, x, y})
}

// Stop joins the ends of the path
func (p *Path) Stop(closeLoop bool) {
	if closeLoop {
		*p = append(*p, Close{})
	}
}

// CurrentPoint returns the pen position after the last operation,
// or (0, 0) for an empty path.
func (p Path) CurrentPoint() (x, y float64) {
	if len(p) == 0 {
		return 0, 0
	}
	if pt, ok := p.EndPoint(len(p) - 1); ok {
		return pt.X, pt.Y
	}
	return 0, 0
}

// EndPoint returns the position reached after the operation at index i.
// For a Close operation, this is the start of the enclosing subpath.
func (p Path) EndPoint(i int) (Point, bool) {
	if i < 0 || i >= len(p) {
		return Point{}, false
	}
	switch op := p[i].(type) {
	case MoveTo:
		return Point(op), true
	case LineTo:
		return Point(op), true
	case CubicTo:
		return Point{op.X, op.Y}, true
	case Close:
		return p.SubpathStart(i), true
	}
	return Point{}, false
}

// SubpathStart scans backward from index i (excluded) for the nearest
// MoveTo and returns its coordinates, or (0, 0) when there is none.
func (p Path) SubpathStart(i int) Point {
	if i > len(p) {
		i = len(p)
	}
	for j := i - 1; j >= 0; j-- {
		if m, ok := p[j].(MoveTo); ok {
			return Point(m)
		}
	}
	return Point{}
}

// Transform returns a copy of the path with every point transformed by m.
func (p Path) Transform(m Matrix2D) Path {
	out := make(Path, len(p))
	for i, op := range p {
		switch op := op.(type) {
		case MoveTo:
			x, y := m.Transform(op.X, op.Y)
			out[i] = MoveTo{x, y}
		case LineTo:
			x, y := m.Transform(op.X, op.Y)
			out[i] = LineTo{x, y}
		case CubicTo:
			x1, y1 := m.Transform(op.X1, op.Y1)
			x2, y2 := m.Transform(op.X2, op.Y2)
			x, y := m.Transform(op.X, op.Y)
			out[i] = CubicTo{x1, y1, x2, y2, x, y}
		case Close:
			out[i] = Close{}
		}
	}
	return out
}

// HasDrawableSegments is true when the path contains at least
// one line or curve; a path made of MoveTo only renders nothing.
func (p Path) HasDrawableSegments() bool {
	for _, op := range p {
		switch op.(type) {
		case LineTo, CubicTo:
			return true
		}
	}
	return false
}
