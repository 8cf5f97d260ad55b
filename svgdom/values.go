package svgdom

import (
	"fmt"
	"strings"

	"github.com/benoitkugler/svgtree/svgpath"
)

// Value is the classified content of an attribute.
// The loader chooses the concrete type from the attribute (and sometimes
// element) identity, so that consumers never parse strings.
type Value interface {
	isValue()
}

func (Length) isValue()      {}
func (LengthList) isValue()  {}
func (Number) isValue()      {}
func (NumberList) isValue()  {}
func (Color) isValue()       {}
func (Angle) isValue()       {}
func (String) isValue()      {}
func (Link) isValue()        {}
func (Paint) isValue()       {}
func (Points) isValue()      {}
func (PathData) isValue()    {}
func (Transform) isValue()   {}
func (ViewBox) isValue()     {}
func (AspectRatio) isValue() {}
func (None) isValue()        {}

// Unit is the unit of a length.
type Unit uint8

const (
	UnitNone Unit = iota
	UnitEm
	UnitEx
	UnitPx
	UnitIn
	UnitCm
	UnitMm
	UnitPt
	UnitPc
	UnitPercent
)

var unitNames = [...]string{
	UnitNone:    "",
	UnitEm:      "em",
	UnitEx:      "ex",
	UnitPx:      "px",
	UnitIn:      "in",
	UnitCm:      "cm",
	UnitMm:      "mm",
	UnitPt:      "pt",
	UnitPc:      "pc",
	UnitPercent: "%",
}

func (u Unit) String() string {
	if int(u) < len(unitNames) {
		return unitNames[u]
	}
	return "<invalid Unit>"
}

// Length is a number with an optional unit.
type Length struct {
	Num  float64
	Unit Unit
}

// NewLength returns a unit-less length.
func NewLength(num float64) Length { return Length{Num: num} }

func (l Length) String() string { return fmt.Sprintf("%g%s", l.Num, l.Unit) }

// LengthList is used by stroke-dasharray and text positions.
type LengthList []Length

// Number is a plain number.
type Number float64

// NumberList is a list of numbers, such as stdDeviation.
type NumberList []float64

// Color is an opaque RGB color.
type Color struct{ R, G, B uint8 }

// Black is the default color.
var Black = Color{}

func (c Color) String() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// AngleUnit is the unit of an Angle.
type AngleUnit uint8

const (
	AngleDegrees AngleUnit = iota // also used for unit-less values
	AngleGradians
	AngleRadians
)

// Angle is a number with an angle unit.
type Angle struct {
	Num  float64
	Unit AngleUnit
}

// String stores keywords and free text.
type String string

// Link is a reference to another element of the document,
// from an href attribute or a FuncIRI (url(#id)).
// The target is resolved by the loader once the whole document is known;
// Node is nil for unresolved links kept for their side effects
// (see the filter attribute).
type Link struct {
	ID   string
	Node *Node
}

// PaintKind distinguishes the variants of Paint.
type PaintKind uint8

const (
	PaintNone PaintKind = iota
	PaintColor
	PaintLink
)

// Paint is the value of the fill and stroke attributes.
// currentColor is resolved by the loader, so only three kinds remain.
type Paint struct {
	Kind     PaintKind
	Color    Color // for PaintColor
	Link     Link  // for PaintLink
	Fallback *Paint
}

func (p Paint) String() string {
	switch p.Kind {
	case PaintColor:
		return p.Color.String()
	case PaintLink:
		s := "url(#" + p.Link.ID + ")"
		if p.Fallback != nil {
			s += " " + p.Fallback.String()
		}
		return s
	default:
		return "none"
	}
}

// Points is the content of the points attribute.
type Points []svgpath.Point

// PathData is the content of the d attribute, already normalized.
type PathData svgpath.Path

// Transform is the content of the transform and *Transform attributes.
type Transform svgpath.Matrix2D

// ViewBox is the content of the viewBox attribute.
type ViewBox svgpath.Rect

// AspectRatio is the content of the preserveAspectRatio attribute.
type AspectRatio svgpath.AspectRatio

// None is used for the "none" keyword, when it has a meaning
// distinct from the attribute being absent.
type None struct{}

// Attribute binds a value to its identifier.
type Attribute struct {
	ID    AttributeID
	Value Value
}

func (a Attribute) String() string {
	return fmt.Sprintf("%s=%v", a.ID, a.Value)
}

// splitOnCommaOrSpace returns a list of strings after splitting the input on comma and space delimiters
func splitOnCommaOrSpace(s string) []string {
	return strings.FieldsFunc(s,
		func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
		})
}
