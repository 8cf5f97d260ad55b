package svgconv

import (
	"math"

	"github.com/benoitkugler/svgtree/svgdom"
	"github.com/benoitkugler/svgtree/svgtree"
)

// convertLength converts `l` to user units. The attribute `id` selects
// the reference used for percentages: the viewport width or height
// for horizontal or vertical attributes, its normalized diagonal otherwise.
// With objectBoundingBox units, percentages are fractions of the box.
func (st state) convertLength(n *svgdom.Node, id svgdom.AttributeID, l svgdom.Length, units svgtree.Units) float64 {
	dpi := st.opts.DPI
	switch l.Unit {
	case svgdom.UnitEm:
		return l.Num * st.fontSize(n)
	case svgdom.UnitEx:
		return l.Num * st.fontSize(n) / 2
	case svgdom.UnitIn:
		return l.Num * dpi
	case svgdom.UnitCm:
		return l.Num * dpi / 2.54
	case svgdom.UnitMm:
		return l.Num * dpi / 25.4
	case svgdom.UnitPt:
		return l.Num * dpi / 72
	case svgdom.UnitPc:
		return l.Num * dpi / 6
	case svgdom.UnitPercent:
		if units == svgtree.UnitsObjectBoundingBox {
			return l.Num / 100
		}
		vb := st.viewBox
		switch id {
		case svgdom.AttrCx, svgdom.AttrDx, svgdom.AttrFx, svgdom.AttrMarkerWidth, svgdom.AttrRefX,
			svgdom.AttrRx, svgdom.AttrWidth, svgdom.AttrX, svgdom.AttrX1, svgdom.AttrX2:
			return vb.W * l.Num / 100
		case svgdom.AttrCy, svgdom.AttrDy, svgdom.AttrFy, svgdom.AttrHeight, svgdom.AttrMarkerHeight,
			svgdom.AttrRefY, svgdom.AttrRy, svgdom.AttrY, svgdom.AttrY1, svgdom.AttrY2:
			return vb.H * l.Num / 100
		default:
			diag := math.Sqrt(vb.W*vb.W+vb.H*vb.H) / math.Sqrt2
			return diag * l.Num / 100
		}
	default: // none, px
		return l.Num
	}
}

// lengthAttr returns the value of the length attribute,
// following the inheritance rules.
func lengthAttr(n *svgdom.Node, id svgdom.AttributeID) (svgdom.Length, bool) {
	holder := n.FindAttribute(id)
	if holder == nil {
		return svgdom.Length{}, false
	}
	return holder.Length(id)
}

// resolveLength converts the attribute `id` of `n` with the given units,
// or the default value `def` when it is missing.
func (st state) resolveLength(n *svgdom.Node, id svgdom.AttributeID, units svgtree.Units, def svgdom.Length) float64 {
	l, ok := lengthAttr(n, id)
	if !ok {
		l = def
	}
	return st.convertLength(n, id, l, units)
}

// userLength is resolveLength in user space.
func (st state) userLength(n *svgdom.Node, id svgdom.AttributeID, def svgdom.Length) float64 {
	return st.resolveLength(n, id, svgtree.UnitsUserSpaceOnUse, def)
}

// validLength returns false if the resolved length is not strictly positive.
func (st state) validLength(n *svgdom.Node, id svgdom.AttributeID, def float64) (float64, bool) {
	v := st.userLength(n, id, svgdom.NewLength(def))
	return v, v > 0
}

// optLength returns nil when the attribute is not set on n.
func (st state) optLength(n *svgdom.Node, id svgdom.AttributeID, units svgtree.Units) *float64 {
	l, ok := n.Length(id)
	if !ok {
		return nil
	}
	v := st.convertLength(n, id, l, units)
	return &v
}

// lengthList converts the list of lengths of n.
func (st state) lengthList(n *svgdom.Node, id svgdom.AttributeID) ([]float64, bool) {
	v, _ := n.Attribute(id)
	list, ok := v.(svgdom.LengthList)
	if !ok {
		return nil, false
	}
	out := make([]float64, len(list))
	for i, l := range list {
		out[i] = st.convertLength(n, id, l, svgtree.UnitsUserSpaceOnUse)
	}
	return out, true
}

// resolveNumber returns the number attribute, following the
// inheritance rules.
func resolveNumber(n *svgdom.Node, id svgdom.AttributeID, def float64) float64 {
	if holder := n.FindAttribute(id); holder != nil {
		if v, ok := holder.Number(id); ok {
			return v
		}
	}
	return def
}

// resolveOpacity clamps the number to [0, 1].
func resolveOpacity(n *svgdom.Node, id svgdom.AttributeID) float64 {
	return clamp(resolveNumber(n, id, 1), 0, 1)
}

// resolveStr returns the keyword attribute, following
// the inheritance rules.
func resolveStr(n *svgdom.Node, id svgdom.AttributeID) (string, bool) {
	if holder := n.FindAttribute(id); holder != nil {
		return holder.Str(id)
	}
	return "", false
}

// keyword parses an inheritable keyword attribute, using the
// default for missing or invalid values.
func keyword[T any](n *svgdom.Node, id svgdom.AttributeID, parse func(string) (T, bool), def T) T {
	s, ok := resolveStr(n, id)
	if !ok {
		return def
	}
	v, ok := parse(s)
	if !ok {
		warn("invalid keyword", "attribute", id.String(), "value", s)
		return def
	}
	return v
}

// unitsAttr reads a *Units attribute, which is not inherited.
func unitsAttr(n *svgdom.Node, id svgdom.AttributeID, def svgtree.Units) svgtree.Units {
	s, ok := n.Str(id)
	if !ok {
		return def
	}
	if u, ok := svgtree.ParseUnits(s); ok {
		return u
	}
	return def
}

// fontSize resolves the font-size of n, from the root to n.
func (st state) fontSize(n *svgdom.Node) float64 {
	var chain []*svgdom.Node
	for a := range n.Ancestors() {
		chain = append(chain, a)
	}
	size := st.opts.FontSize
	for i := len(chain) - 1; i >= 0; i-- {
		a := chain[i]
		if name, ok := a.Str(svgdom.AttrFontSize); ok {
			size = namedFontSize(name, size, st.opts.FontSize)
			continue
		}
		l, ok := a.Length(svgdom.AttrFontSize)
		if !ok {
			continue
		}
		// relative units scale the parent size
		switch l.Unit {
		case svgdom.UnitEm:
			size = l.Num * size
		case svgdom.UnitEx:
			size = l.Num * size / 2
		case svgdom.UnitPercent:
			size = l.Num * size / 100
		default:
			size = st.convertLength(a, svgdom.AttrFontSize, l, svgtree.UnitsUserSpaceOnUse)
		}
	}
	return size
}

// namedFontSize uses a scaling factor of 1.2 between adjacent sizes.
// Absolute keywords are relative to the default font size.
func namedFontSize(name string, parent, medium float64) float64 {
	var factor int
	switch name {
	case "xx-small":
		factor = -3
	case "x-small":
		factor = -2
	case "small":
		factor = -1
	case "medium":
		factor = 0
	case "large":
		factor = 1
	case "x-large":
		factor = 2
	case "xx-large":
		factor = 3
	case "larger":
		return parent * 1.2
	case "smaller":
		return parent / 1.2
	}
	return medium * math.Pow(1.2, float64(factor))
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
