package svgtree

import (
	"fmt"

	"github.com/go-text/typesetting/font"

	"github.com/benoitkugler/svgtree/svgpath"
)

// Color is an opaque RGB color. Opacity is stored apart.
type Color struct{ R, G, B uint8 }

// Black is the default paint color.
var Black = Color{}

func (c Color) String() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// parseKeyword returns the index of s in names.
func parseKeyword[T ~uint8](names []string, s string) (T, bool) {
	for i, name := range names {
		if name == s {
			return T(i), true
		}
	}
	return 0, false
}

func keyword[T ~uint8](names []string, v T) string {
	if int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("<invalid %d>", v)
}

// LineCap is the shape at the end of open subpaths.
type LineCap uint8

const (
	LineCapButt LineCap = iota
	LineCapRound
	LineCapSquare
)

var lineCapNames = []string{"butt", "round", "square"}

func (l LineCap) String() string { return keyword(lineCapNames, l) }

// ParseLineCap returns false for unknown keywords.
func ParseLineCap(s string) (LineCap, bool) { return parseKeyword[LineCap](lineCapNames, s) }

// LineJoin is the shape at the corners of stroked paths.
type LineJoin uint8

const (
	LineJoinMiter LineJoin = iota
	LineJoinRound
	LineJoinBevel
)

var lineJoinNames = []string{"miter", "round", "bevel"}

func (l LineJoin) String() string { return keyword(lineJoinNames, l) }

func ParseLineJoin(s string) (LineJoin, bool) { return parseKeyword[LineJoin](lineJoinNames, s) }

// FillRule decides what is inside a path.
type FillRule uint8

const (
	FillRuleNonZero FillRule = iota
	FillRuleEvenOdd
)

var fillRuleNames = []string{"nonzero", "evenodd"}

func (f FillRule) String() string { return keyword(fillRuleNames, f) }

func ParseFillRule(s string) (FillRule, bool) { return parseKeyword[FillRule](fillRuleNames, s) }

// Units is the coordinate system of the content of
// clip paths, masks, gradients, patterns and filters.
type Units uint8

const (
	UnitsUserSpaceOnUse Units = iota
	UnitsObjectBoundingBox
)

var unitsNames = []string{"userSpaceOnUse", "objectBoundingBox"}

func (u Units) String() string { return keyword(unitsNames, u) }

func ParseUnits(s string) (Units, bool) { return parseKeyword[Units](unitsNames, s) }

// SpreadMethod tells how a gradient is extended outside its bounds.
type SpreadMethod uint8

const (
	SpreadPad SpreadMethod = iota
	SpreadReflect
	SpreadRepeat
)

var spreadNames = []string{"pad", "reflect", "repeat"}

func (s SpreadMethod) String() string { return keyword(spreadNames, s) }

func ParseSpreadMethod(s string) (SpreadMethod, bool) {
	return parseKeyword[SpreadMethod](spreadNames, s)
}

type Visibility uint8

const (
	Visible Visibility = iota
	Hidden
	Collapse
)

var visibilityNames = []string{"visible", "hidden", "collapse"}

func (v Visibility) String() string { return keyword(visibilityNames, v) }

func ParseVisibility(s string) (Visibility, bool) {
	return parseKeyword[Visibility](visibilityNames, s)
}

type TextAnchor uint8

const (
	TextAnchorStart TextAnchor = iota
	TextAnchorMiddle
	TextAnchorEnd
)

var textAnchorNames = []string{"start", "middle", "end"}

func (t TextAnchor) String() string { return keyword(textAnchorNames, t) }

func ParseTextAnchor(s string) (TextAnchor, bool) {
	return parseKeyword[TextAnchor](textAnchorNames, s)
}

type FontStyle uint8

const (
	FontStyleNormal FontStyle = iota
	FontStyleItalic
	FontStyleOblique
)

var fontStyleNames = []string{"normal", "italic", "oblique"}

func (f FontStyle) String() string { return keyword(fontStyleNames, f) }

func ParseFontStyle(s string) (FontStyle, bool) {
	return parseKeyword[FontStyle](fontStyleNames, s)
}

type FontVariant uint8

const (
	FontVariantNormal FontVariant = iota
	FontVariantSmallCaps
)

var fontVariantNames = []string{"normal", "small-caps"}

func (f FontVariant) String() string { return keyword(fontVariantNames, f) }

func ParseFontVariant(s string) (FontVariant, bool) {
	return parseKeyword[FontVariant](fontVariantNames, s)
}

// FontWeight is a numeric weight, from 100 to 900.
type FontWeight uint16

const (
	FontWeightNormal FontWeight = 400
	FontWeightBold   FontWeight = 700
)

func (f FontWeight) String() string { return fmt.Sprintf("%d", f) }

type FontStretch uint8

const (
	FontStretchNormal FontStretch = iota
	FontStretchWider
	FontStretchNarrower
	FontStretchUltraCondensed
	FontStretchExtraCondensed
	FontStretchCondensed
	FontStretchSemiCondensed
	FontStretchSemiExpanded
	FontStretchExpanded
	FontStretchExtraExpanded
	FontStretchUltraExpanded
)

var fontStretchNames = []string{
	"normal", "wider", "narrower", "ultra-condensed", "extra-condensed", "condensed",
	"semi-condensed", "semi-expanded", "expanded", "extra-expanded", "ultra-expanded",
}

func (f FontStretch) String() string { return keyword(fontStretchNames, f) }

func ParseFontStretch(s string) (FontStretch, bool) {
	return parseKeyword[FontStretch](fontStretchNames, s)
}

// width factor, as used by OpenType
var fontStretchFactors = [...]float32{
	FontStretchNormal:         1,
	FontStretchWider:          1.125,
	FontStretchNarrower:       0.875,
	FontStretchUltraCondensed: 0.5,
	FontStretchExtraCondensed: 0.625,
	FontStretchCondensed:      0.75,
	FontStretchSemiCondensed:  0.875,
	FontStretchSemiExpanded:   1.125,
	FontStretchExpanded:       1.25,
	FontStretchExtraExpanded:  1.5,
	FontStretchUltraExpanded:  2,
}

// Paint is either a plain color, or a link to a
// gradient or a pattern of the defs, by id.
type Paint struct {
	Color Color
	Link  string // when not empty, Color is ignored
}

// IsLink reports whether the paint refers to a paint server.
func (p Paint) IsLink() bool { return p.Link != "" }

func (p Paint) String() string {
	if p.IsLink() {
		return "url(#" + p.Link + ")"
	}
	return p.Color.String()
}

// Fill describes how to paint the interior of a shape.
type Fill struct {
	Paint   Paint
	Opacity float64
	Rule    FillRule
}

// DefaultFill is black, opaque and uses the nonzero rule.
func DefaultFill() Fill {
	return Fill{Paint: Paint{Color: Black}, Opacity: 1, Rule: FillRuleNonZero}
}

// Stroke describes how to paint the outline of a shape.
type Stroke struct {
	Paint Paint
	// Dasharray is nil for a solid line. Otherwise, it has
	// an even number of non negative entries, with a positive sum.
	Dasharray  []float64
	Dashoffset float64
	Miterlimit float64 // greater or equal to 1
	Opacity    float64
	Width      float64 // strictly positive
	Linecap    LineCap
	Linejoin   LineJoin
}

// DefaultStroke is a black, solid, 1 unit wide stroke.
func DefaultStroke() Stroke {
	return Stroke{
		Paint:      Paint{Color: Black},
		Miterlimit: 4,
		Opacity:    1,
		Width:      1,
		Linecap:    LineCapButt,
		Linejoin:   LineJoinMiter,
	}
}

// Font is a font descriptor: no font is loaded or shaped
// when building the tree.
type Font struct {
	Family  string
	Size    float64
	Style   FontStyle
	Variant FontVariant
	Weight  FontWeight
	Stretch FontStretch
	// nil means "normal"
	LetterSpacing *float64
	WordSpacing   *float64
}

// Aspect returns the parameters used to select a face,
// for backends relying on go-text.
func (f Font) Aspect() font.Aspect {
	style := font.StyleNormal
	if f.Style != FontStyleNormal {
		style = font.StyleItalic
	}
	stretch := float32(1)
	if int(f.Stretch) < len(fontStretchFactors) {
		stretch = fontStretchFactors[f.Stretch]
	}
	return font.Aspect{
		Style:   style,
		Weight:  font.Weight(f.Weight),
		Stretch: font.Stretch(stretch),
	}
}

// TextDecorationStyle is the style used to draw
// a text decoration line.
type TextDecorationStyle struct {
	Fill   *Fill
	Stroke *Stroke
}

// TextDecoration lists the lines drawn with a text span.
// A nil field means no line.
type TextDecoration struct {
	Underline   *TextDecorationStyle
	Overline    *TextDecorationStyle
	LineThrough *TextDecorationStyle
}

// ImageFormat is the format of an embedded image.
type ImageFormat uint8

const (
	ImagePNG ImageFormat = iota
	ImageJPEG
	ImageSVG
)

var imageFormatNames = []string{"png", "jpeg", "svg"}

func (f ImageFormat) String() string { return keyword(imageFormatNames, f) }

// ImageData is either a file path (as found in the document) or
// the raw content of the image.
type ImageData struct {
	Path string
	Raw  []byte
}

// ViewBox is re-exported for convenience.
type ViewBox = svgpath.ViewBox
