package svgconv

import (
	"math"
	"strings"

	"github.com/benoitkugler/svgtree/svgdom"
	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

// resolveFill returns nil when the element is not filled.
// hasBBox is false for shapes with a zero width or height, which
// cannot use objectBoundingBox paint servers.
func (c *converter) resolveFill(n *svgdom.Node, hasBBox bool, st state) *svgtree.Fill {
	rule := keyword(n, svgdom.AttrFillRule, svgtree.ParseFillRule, svgtree.FillRuleNonZero)
	if st.parentClipPath != nil {
		// clip paths only use the geometry
		fill := svgtree.DefaultFill()
		fill.Rule = keyword(n, svgdom.AttrClipRule, svgtree.ParseFillRule, svgtree.FillRuleNonZero)
		return &fill
	}
	paint, opacity, ok := c.resolvePaint(n, svgdom.AttrFill, hasBBox, st)
	if !ok {
		return nil
	}
	return &svgtree.Fill{
		Paint:   paint,
		Opacity: opacity * resolveOpacity(n, svgdom.AttrFillOpacity),
		Rule:    rule,
	}
}

// resolveStroke returns nil when the element is not stroked.
func (c *converter) resolveStroke(n *svgdom.Node, hasBBox bool, st state) *svgtree.Stroke {
	if st.parentClipPath != nil {
		return nil
	}
	paint, opacity, ok := c.resolvePaint(n, svgdom.AttrStroke, hasBBox, st)
	if !ok {
		return nil
	}
	width, ok := st.validLength(n, svgdom.AttrStrokeWidth, 1)
	if !ok {
		return nil
	}
	// must be bigger than 1
	miterlimit := resolveNumber(n, svgdom.AttrStrokeMiterlimit, 4)
	if miterlimit < 1 {
		miterlimit = 1
	}
	return &svgtree.Stroke{
		Paint:      paint,
		Dasharray:  st.dasharray(n),
		Dashoffset: st.userLength(n, svgdom.AttrStrokeDashoffset, svgdom.Length{}),
		Miterlimit: miterlimit,
		Opacity:    opacity * resolveOpacity(n, svgdom.AttrStrokeOpacity),
		Width:      width,
		Linecap:    keyword(n, svgdom.AttrStrokeLinecap, svgtree.ParseLineCap, svgtree.LineCapButt),
		Linejoin:   keyword(n, svgdom.AttrStrokeLinejoin, svgtree.ParseLineJoin, svgtree.LineJoinMiter),
	}
}

// dasharray returns nil for solid lines, including the invalid
// arrays: a negative value or a zero sum disables dashing.
func (st state) dasharray(n *svgdom.Node) []float64 {
	holder := n.FindAttribute(svgdom.AttrStrokeDasharray)
	if holder == nil {
		return nil
	}
	list, ok := st.lengthList(holder, svgdom.AttrStrokeDasharray)
	if !ok || len(list) == 0 {
		return nil
	}
	var sum float64
	for _, v := range list {
		if v < 0 || math.IsNaN(v) {
			return nil
		}
		sum += v
	}
	if svgpath.FuzzyZero(sum) {
		return nil
	}
	// an odd number of values is repeated
	if len(list)%2 != 0 {
		list = append(list, list...)
	}
	return list
}

// resolvePaint returns false for "none". The returned opacity comes from
// gradients reduced to a single color, and is 1 otherwise.
func (c *converter) resolvePaint(n *svgdom.Node, id svgdom.AttributeID, hasBBox bool, st state) (svgtree.Paint, float64, bool) {
	holder := n.FindAttribute(id)
	if holder == nil {
		if id == svgdom.AttrFill {
			return svgtree.Paint{Color: svgtree.Black}, 1, true
		}
		return svgtree.Paint{}, 0, false
	}
	p, _ := holder.Paint(id)
	switch p.Kind {
	case svgdom.PaintColor:
		return svgtree.Paint{Color: svgtree.Color(p.Color)}, 1, true
	case svgdom.PaintLink:
		server, ok := c.convertPaintServer(p.Link.Node, st)
		if !ok {
			return paintFallback(p)
		}
		if server.isColor {
			return svgtree.Paint{Color: server.color}, server.opacity, true
		}
		if server.units == svgtree.UnitsObjectBoundingBox && !hasBBox {
			return paintFallback(p)
		}
		return svgtree.Paint{Link: server.id}, 1, true
	default:
		return svgtree.Paint{}, 0, false
	}
}

func paintFallback(p svgdom.Paint) (svgtree.Paint, float64, bool) {
	if p.Fallback != nil && p.Fallback.Kind == svgdom.PaintColor {
		return svgtree.Paint{Color: svgtree.Color(p.Fallback.Color)}, 1, true
	}
	return svgtree.Paint{}, 0, false
}

// resolveFont builds the font descriptor of a text chunk.
func (st state) resolveFont(n *svgdom.Node) svgtree.Font {
	family, _ := resolveStr(n, svgdom.AttrFontFamily)
	if family == "" {
		family = st.opts.FontFamily
	}
	font := svgtree.Font{
		Family:  family,
		Size:    st.fontSize(n),
		Style:   keyword(n, svgdom.AttrFontStyle, svgtree.ParseFontStyle, svgtree.FontStyleNormal),
		Variant: keyword(n, svgdom.AttrFontVariant, svgtree.ParseFontVariant, svgtree.FontVariantNormal),
		Weight:  resolveFontWeight(n),
		Stretch: keyword(n, svgdom.AttrFontStretch, svgtree.ParseFontStretch, svgtree.FontStretchNormal),
	}
	if l, ok := lengthAttr(n, svgdom.AttrLetterSpacing); ok {
		v := st.convertLength(n, svgdom.AttrLetterSpacing, l, svgtree.UnitsUserSpaceOnUse)
		font.LetterSpacing = &v
	}
	if l, ok := lengthAttr(n, svgdom.AttrWordSpacing); ok {
		v := st.convertLength(n, svgdom.AttrWordSpacing, l, svgtree.UnitsUserSpaceOnUse)
		font.WordSpacing = &v
	}
	return font
}

// resolveFontWeight applies the relative keywords from the root to n.
func resolveFontWeight(n *svgdom.Node) svgtree.FontWeight {
	var chain []*svgdom.Node
	for a := range n.Ancestors() {
		chain = append(chain, a)
	}
	weight := svgtree.FontWeightNormal
	for i := len(chain) - 1; i >= 0; i-- {
		s, ok := chain[i].Str(svgdom.AttrFontWeight)
		if !ok {
			continue
		}
		switch s {
		case "normal":
			weight = svgtree.FontWeightNormal
		case "bold":
			weight = svgtree.FontWeightBold
		case "bolder":
			switch {
			case weight < 400:
				weight = 400
			case weight < 600:
				weight = 700
			default:
				weight = 900
			}
		case "lighter":
			switch {
			case weight < 600:
				weight = 100
			case weight < 800:
				weight = 400
			default:
				weight = 700
			}
		default:
			v, suffix, err := svgpath.ParseNumber(s)
			if err != nil || suffix != "" || v < 1 || v > 1000 {
				warn("invalid font weight", "value", s)
				continue
			}
			weight = svgtree.FontWeight(v)
		}
	}
	return weight
}

// resolveDecoration looks for the text-decoration keywords set on
// span or its ancestors, up to the text element.
// Each line uses the style of the element declaring it.
func (c *converter) resolveDecoration(text, span *svgdom.Node, st state) svgtree.TextDecoration {
	find := func(kw string) *svgtree.TextDecorationStyle {
		for a := range span.Ancestors() {
			if s, ok := a.Str(svgdom.AttrTextDecoration); ok {
				for _, f := range strings.Fields(s) {
					if f == kw {
						return &svgtree.TextDecorationStyle{
							Fill:   c.resolveFill(a, true, st),
							Stroke: c.resolveStroke(a, true, st),
						}
					}
				}
			}
			if a == text {
				break
			}
		}
		return nil
	}
	return svgtree.TextDecoration{
		Underline:   find("underline"),
		Overline:    find("overline"),
		LineThrough: find("line-through"),
	}
}
