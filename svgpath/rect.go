package svgpath

import "math"

// Rect defines a bounding box, such as a viewport
// or a path extent.
type Rect struct{ X, Y, W, H float64 }

// Size is a width and a height, in user units.
type Size struct{ W, H float64 }

// IsValid is true for a rectangle with strictly positive
// (and finite) dimensions.
func (r Rect) IsValid() bool {
	return r.W > 0 && r.H > 0 && !math.IsInf(r.W, 0) && !math.IsInf(r.H, 0)
}

// Size returns the dimensions of the rectangle.
func (r Rect) Size() Size { return Size{r.W, r.H} }

// Right returns the maximum x coordinate.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the maximum y coordinate.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	x, y := math.Min(r.X, o.X), math.Min(r.Y, o.Y)
	return Rect{x, y, math.Max(r.Right(), o.Right()) - x, math.Max(r.Bottom(), o.Bottom()) - y}
}

// ToPath returns the closed rectangle outline.
func (r Rect) ToPath() Path {
	var p Path
	p.AddRect(r.X, r.Y, r.Right(), r.Bottom())
	return p
}

// IsValid is true for strictly positive dimensions.
func (s Size) IsValid() bool { return s.W > 0 && s.H > 0 }

// Align is the alignment part of the preserveAspectRatio attribute.
type Align uint8

const (
	AlignNone Align = iota
	AlignXMinYMin
	AlignXMidYMin
	AlignXMaxYMin
	AlignXMinYMid
	AlignXMidYMid // default value
	AlignXMaxYMid
	AlignXMinYMax
	AlignXMidYMax
	AlignXMaxYMax
)

var alignNames = [...]string{
	AlignNone:     "none",
	AlignXMinYMin: "xMinYMin",
	AlignXMidYMin: "xMidYMin",
	AlignXMaxYMin: "xMaxYMin",
	AlignXMinYMid: "xMinYMid",
	AlignXMidYMid: "xMidYMid",
	AlignXMaxYMid: "xMaxYMid",
	AlignXMinYMax: "xMinYMax",
	AlignXMidYMax: "xMidYMax",
	AlignXMaxYMax: "xMaxYMax",
}

func (a Align) String() string {
	if int(a) < len(alignNames) {
		return alignNames[a]
	}
	return "<unknown Align>"
}

// ParseAlign returns the alignment with the given SVG name.
func ParseAlign(s string) (Align, bool) {
	for i, name := range alignNames {
		if name == s {
			return Align(i), true
		}
	}
	return AlignXMidYMid, false
}

// AspectRatio is the value of the preserveAspectRatio attribute.
type AspectRatio struct {
	Defer bool
	Align Align
	Slice bool // false means "meet"
}

// DefaultAspectRatio is xMidYMid meet.
var DefaultAspectRatio = AspectRatio{Align: AlignXMidYMid}

func (a AspectRatio) String() string {
	s := a.Align.String()
	if a.Defer {
		s = "defer " + s
	}
	if a.Slice {
		s += " slice"
	}
	return s
}

// ViewBox groups the viewBox and preserveAspectRatio attributes.
type ViewBox struct {
	Rect   Rect
	Aspect AspectRatio
}

// ViewBoxTransform returns the transform mapping the viewBox `vb`
// into a viewport of the given size, honoring the aspect ratio.
func ViewBoxTransform(vb Rect, aspect AspectRatio, size Size) Matrix2D {
	sx := size.W / vb.W
	sy := size.H / vb.H
	if aspect.Align != AlignNone {
		var s float64
		if aspect.Slice {
			s = math.Max(sx, sy)
		} else {
			s = math.Min(sx, sy)
		}
		sx, sy = s, s
	}

	x := -vb.X * sx
	y := -vb.Y * sy
	w := size.W - vb.W*sx
	h := size.H - vb.H*sy
	tx, ty := alignedPos(aspect.Align, x, y, w, h)
	return Matrix2D{sx, 0, 0, sy, tx, ty}
}

func alignedPos(align Align, x, y, w, h float64) (float64, float64) {
	switch align {
	case AlignXMidYMin:
		return x + w/2, y
	case AlignXMaxYMin:
		return x + w, y
	case AlignXMinYMid:
		return x, y + h/2
	case AlignXMidYMid:
		return x + w/2, y + h/2
	case AlignXMaxYMid:
		return x + w, y + h/2
	case AlignXMinYMax:
		return x, y + h
	case AlignXMidYMax:
		return x + w/2, y + h
	case AlignXMaxYMax:
		return x + w, y + h
	default: // none, xMinYMin
		return x, y
	}
}
