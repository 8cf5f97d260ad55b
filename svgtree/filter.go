package svgtree

import (
	"fmt"

	"github.com/benoitkugler/svgtree/svgpath"
)

// FilterInputKind lists the possible sources of a filter primitive.
type FilterInputKind uint8

const (
	SourceGraphic FilterInputKind = iota
	SourceAlpha
	BackgroundImage
	BackgroundAlpha
	FillPaint
	StrokePaint
	// Reference is the result of a previous primitive
	Reference
)

var filterInputNames = []string{
	"SourceGraphic", "SourceAlpha", "BackgroundImage", "BackgroundAlpha",
	"FillPaint", "StrokePaint",
}

// ParseFilterInputKind returns Reference for names which are not keywords.
func ParseFilterInputKind(s string) FilterInputKind {
	if k, ok := parseKeyword[FilterInputKind](filterInputNames, s); ok {
		return k
	}
	return Reference
}

// FilterInput is the input of a filter primitive.
type FilterInput struct {
	Kind FilterInputKind
	Name string // for Reference
}

func (f FilterInput) String() string {
	if f.Kind == Reference {
		return f.Name
	}
	return keyword(filterInputNames, f.Kind)
}

type ColorInterpolation uint8

const (
	ColorInterpolationSRGB ColorInterpolation = iota
	ColorInterpolationLinearRGB
)

var colorInterpolationNames = []string{"sRGB", "linearRGB"}

func (c ColorInterpolation) String() string { return keyword(colorInterpolationNames, c) }

func ParseColorInterpolation(s string) (ColorInterpolation, bool) {
	return parseKeyword[ColorInterpolation](colorInterpolationNames, s)
}

type FeBlendMode uint8

const (
	BlendNormal FeBlendMode = iota
	BlendMultiply
	BlendScreen
	BlendDarken
	BlendLighten
)

var blendModeNames = []string{"normal", "multiply", "screen", "darken", "lighten"}

func (b FeBlendMode) String() string { return keyword(blendModeNames, b) }

func ParseFeBlendMode(s string) (FeBlendMode, bool) {
	return parseKeyword[FeBlendMode](blendModeNames, s)
}

type FeCompositeOperator uint8

const (
	CompositeOver FeCompositeOperator = iota
	CompositeIn
	CompositeOut
	CompositeAtop
	CompositeXor
	CompositeArithmetic
)

var compositeNames = []string{"over", "in", "out", "atop", "xor", "arithmetic"}

func (c FeCompositeOperator) String() string { return keyword(compositeNames, c) }

func ParseFeCompositeOperator(s string) (FeCompositeOperator, bool) {
	return parseKeyword[FeCompositeOperator](compositeNames, s)
}

// FilterKind is the operation of a filter primitive.
type FilterKind interface {
	// Inputs returns the inputs of the primitive, in declaration order.
	Inputs() []FilterInput
}

func (k FeBlend) Inputs() []FilterInput        { return []FilterInput{k.Input1, k.Input2} }
func (FeFlood) Inputs() []FilterInput          { return nil }
func (k FeGaussianBlur) Inputs() []FilterInput { return []FilterInput{k.Input} }
func (k FeOffset) Inputs() []FilterInput       { return []FilterInput{k.Input} }
func (k FeComposite) Inputs() []FilterInput    { return []FilterInput{k.Input1, k.Input2} }
func (k FeMerge) Inputs() []FilterInput        { return k.Sources }
func (k FeTile) Inputs() []FilterInput         { return []FilterInput{k.Input} }
func (FeImage) Inputs() []FilterInput          { return nil }

type FeBlend struct {
	Mode           FeBlendMode
	Input1, Input2 FilterInput
}

type FeFlood struct {
	Color   Color
	Opacity float64
}

type FeGaussianBlur struct {
	Input            FilterInput
	StdDevX, StdDevY float64
}

type FeOffset struct {
	Input  FilterInput
	Dx, Dy float64
}

type FeComposite struct {
	Operator       FeCompositeOperator
	Input1, Input2 FilterInput
	// for the arithmetic operator
	K1, K2, K3, K4 float64
}

type FeMerge struct {
	Sources []FilterInput
}

type FeTile struct {
	Input FilterInput
}

// FeImageKind is the content of a feImage: nothing,
// an external or embedded image, or an element of the tree (by id).
type FeImageKind struct {
	Data   *ImageData // nil for None or Use
	Format ImageFormat
	Use    string
}

func (k FeImageKind) String() string {
	switch {
	case k.Data != nil:
		return "image(" + k.Format.String() + ")"
	case k.Use != "":
		return "use(#" + k.Use + ")"
	default:
		return "none"
	}
}

type FeImage struct {
	Aspect svgpath.AspectRatio
	Data   FeImageKind
}

// FilterPrimitive is one node of the filter graph.
// The optional subregion is expressed in the filter primitive units.
type FilterPrimitive struct {
	X, Y, Width, Height *float64
	ColorInterpolation  ColorInterpolation
	Result              string // always set, generated when missing
	Kind                FilterKind
}

func (f FilterPrimitive) String() string {
	return fmt.Sprintf("%T(%v) -> %s", f.Kind, f.Kind.Inputs(), f.Result)
}
