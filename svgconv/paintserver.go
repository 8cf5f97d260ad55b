package svgconv

import (
	"iter"

	"github.com/benoitkugler/svgtree/svgdom"
	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

// paintServer is the result of a paint server conversion:
// either a definition, or a plain color for degenerate gradients.
type paintServer struct {
	id    string
	units svgtree.Units

	isColor bool
	color   svgtree.Color
	opacity float64
}

// convertPaintServer adds the gradient or pattern to the defs,
// if needed. It returns false when the server renders nothing.
func (c *converter) convertPaintServer(n *svgdom.Node, st state) (paintServer, bool) {
	if n == nil {
		return paintServer{}, false
	}
	switch n.Tag {
	case svgdom.ElementLinearGradient:
		return c.convertLinearGradient(n, st)
	case svgdom.ElementRadialGradient:
		return c.convertRadialGradient(n, st)
	case svgdom.ElementPattern:
		return c.convertPattern(n, st)
	}
	return paintServer{}, false
}

// hrefChain iterates over n and the elements it references with href.
func hrefChain(n *svgdom.Node) iter.Seq[*svgdom.Node] {
	return func(yield func(*svgdom.Node) bool) {
		seen := map[*svgdom.Node]bool{}
		for ; n != nil && !seen[n]; n = n.Link(svgdom.AttrHref) {
			seen[n] = true
			if !yield(n) {
				return
			}
		}
	}
}

// canInherit tells if the attribute `id` may be taken from
// a referenced element with tag `tag`.
func canInherit(from svgdom.ElementID, id svgdom.AttributeID, tag svgdom.ElementID) bool {
	isGradient := tag == svgdom.ElementLinearGradient || tag == svgdom.ElementRadialGradient
	switch from {
	case svgdom.ElementLinearGradient, svgdom.ElementRadialGradient:
		switch id {
		case svgdom.AttrX1, svgdom.AttrY1, svgdom.AttrX2, svgdom.AttrY2,
			svgdom.AttrCx, svgdom.AttrCy, svgdom.AttrR, svgdom.AttrFx, svgdom.AttrFy:
			// coordinates are only shared between gradients of the same type
			return tag == from
		case svgdom.AttrGradientUnits, svgdom.AttrGradientTransform, svgdom.AttrSpreadMethod:
			return isGradient
		}
	case svgdom.ElementPattern:
		return tag == svgdom.ElementPattern
	case svgdom.ElementFilter:
		return tag == svgdom.ElementFilter
	}
	return false
}

// resolveAttr returns the element of the href chain of n
// defining the attribute, or n itself.
func resolveAttr(n *svgdom.Node, id svgdom.AttributeID) *svgdom.Node {
	if n.Has(id) {
		return n
	}
	for link := range hrefChain(n) {
		if link == n {
			continue
		}
		if !canInherit(n.Tag, id, link.Tag) {
			break
		}
		if link.Has(id) {
			return link
		}
	}
	return n
}

// hasElementChildren ignores text nodes
func hasElementChildren(n *svgdom.Node) bool {
	for _, c := range n.Children() {
		if !c.IsText() {
			return true
		}
	}
	return false
}

func (st state) linkedLength(n *svgdom.Node, id svgdom.AttributeID, units svgtree.Units, def svgdom.Length) float64 {
	return st.resolveLength(resolveAttr(n, id), id, units, def)
}

func gradientBase(n *svgdom.Node, stops []svgtree.Stop) svgtree.BaseGradient {
	spread := svgtree.SpreadPad
	if s, ok := resolveAttr(n, svgdom.AttrSpreadMethod).Str(svgdom.AttrSpreadMethod); ok {
		if v, ok := svgtree.ParseSpreadMethod(s); ok {
			spread = v
		}
	}
	return svgtree.BaseGradient{
		Units:     unitsAttr(resolveAttr(n, svgdom.AttrGradientUnits), svgdom.AttrGradientUnits, svgtree.UnitsObjectBoundingBox),
		Transform: resolveAttr(n, svgdom.AttrGradientTransform).Transform(svgdom.AttrGradientTransform),
		Spread:    spread,
		Stops:     stops,
	}
}

// stopsToColor handles gradients with less than two stops:
// no stop means no paint, one stop means a plain color.
func stopsToColor(stops []svgtree.Stop) (paintServer, bool) {
	if len(stops) == 0 {
		return paintServer{}, false
	}
	return paintServer{isColor: true, color: stops[0].Color, opacity: stops[0].Opacity}, true
}

func (c *converter) convertLinearGradient(n *svgdom.Node, st state) (paintServer, bool) {
	stops := convertStops(findGradientWithStops(n))
	if len(stops) < 2 {
		return stopsToColor(stops)
	}
	base := gradientBase(n, stops)
	if c.tree.DefsByID(n.ID) == nil {
		c.tree.AppendToDefs(&svgtree.LinearGradient{
			ID:           n.ID,
			X1:           st.linkedLength(n, svgdom.AttrX1, base.Units, svgdom.Length{}),
			Y1:           st.linkedLength(n, svgdom.AttrY1, base.Units, svgdom.Length{}),
			X2:           st.linkedLength(n, svgdom.AttrX2, base.Units, svgdom.Length{Num: 100, Unit: svgdom.UnitPercent}),
			Y2:           st.linkedLength(n, svgdom.AttrY2, base.Units, svgdom.Length{}),
			BaseGradient: base,
		})
	}
	return paintServer{id: n.ID, units: base.Units}, true
}

func (c *converter) convertRadialGradient(n *svgdom.Node, st state) (paintServer, bool) {
	stops := convertStops(findGradientWithStops(n))
	if len(stops) < 2 {
		return stopsToColor(stops)
	}
	base := gradientBase(n, stops)
	half := svgdom.Length{Num: 50, Unit: svgdom.UnitPercent}
	r := st.linkedLength(n, svgdom.AttrR, base.Units, half)
	if !(r > 0) {
		// painted with the last stop
		last := stops[len(stops)-1]
		return paintServer{isColor: true, color: last.Color, opacity: last.Opacity}, true
	}
	if c.tree.DefsByID(n.ID) == nil {
		cx := st.linkedLength(n, svgdom.AttrCx, base.Units, half)
		cy := st.linkedLength(n, svgdom.AttrCy, base.Units, half)
		// the focal point defaults to the center
		fx, fy := cx, cy
		if holder := resolveAttr(n, svgdom.AttrFx); holder.Has(svgdom.AttrFx) {
			fx = st.linkedLength(n, svgdom.AttrFx, base.Units, half)
		}
		if holder := resolveAttr(n, svgdom.AttrFy); holder.Has(svgdom.AttrFy) {
			fy = st.linkedLength(n, svgdom.AttrFy, base.Units, half)
		}
		c.tree.AppendToDefs(&svgtree.RadialGradient{
			ID: n.ID, Cx: cx, Cy: cy, R: r, Fx: fx, Fy: fy,
			BaseGradient: base,
		})
	}
	return paintServer{id: n.ID, units: base.Units}, true
}

// findGradientWithStops returns the first gradient of the href
// chain having stops.
func findGradientWithStops(n *svgdom.Node) *svgdom.Node {
	for link := range hrefChain(n) {
		if link.Tag != svgdom.ElementLinearGradient && link.Tag != svgdom.ElementRadialGradient {
			break
		}
		for _, child := range link.Children() {
			if child.IsTag(svgdom.ElementStop) {
				return link
			}
		}
	}
	return nil
}

// convertStops returns sorted stops, with strictly increasing offsets.
func convertStops(grad *svgdom.Node) []svgtree.Stop {
	if grad == nil {
		return nil
	}
	var (
		stops      []svgtree.Stop
		prevOffset float64
	)
	for _, child := range grad.Children() {
		if !child.IsTag(svgdom.ElementStop) {
			continue
		}
		offset, ok := child.Number(svgdom.AttrOffset)
		if !ok {
			offset = prevOffset
		}
		offset = clamp(offset, 0, 1)
		prevOffset = offset

		color := svgtree.Black
		if c, ok := child.Color(svgdom.AttrStopColor); ok {
			color = svgtree.Color(c)
		}
		opacity := 1.
		if v, ok := child.Number(svgdom.AttrStopOpacity); ok {
			opacity = clamp(v, 0, 1)
		}
		stops = append(stops, svgtree.Stop{Offset: offset, Color: color, Opacity: opacity})
	}

	// remove the middle stop of three stops with the same offset
	for i := 0; i+2 < len(stops); {
		o1, o2, o3 := stops[i].Offset, stops[i+1].Offset, stops[i+2].Offset
		if svgpath.FuzzyEqual(o1, o2) && svgpath.FuzzyEqual(o2, o3) {
			stops = append(stops[:i+1], stops[i+2:]...)
		} else {
			i++
		}
	}

	// shift equal offsets
	const epsilon = 2.220446049250313e-16
	for i := 1; i < len(stops); i++ {
		o1, o2 := stops[i-1].Offset, stops[i].Offset
		if o1 > o2 || svgpath.FuzzyEqual(o1, o2) {
			stops[i-1].Offset = clamp(o1-epsilon, 0, 1)
			stops[i].Offset = o1
		}
	}
	return stops
}

func (c *converter) convertPattern(n *svgdom.Node, st state) (paintServer, bool) {
	var content *svgdom.Node
	for link := range hrefChain(n) {
		if link.Tag != svgdom.ElementPattern {
			break
		}
		if hasElementChildren(link) {
			content = link
			break
		}
	}
	if content == nil {
		return paintServer{}, false
	}

	units := unitsAttr(resolveAttr(n, svgdom.AttrPatternUnits), svgdom.AttrPatternUnits, svgtree.UnitsObjectBoundingBox)
	contentUnits := unitsAttr(resolveAttr(n, svgdom.AttrPatternContentUnits), svgdom.AttrPatternContentUnits, svgtree.UnitsUserSpaceOnUse)
	rect := svgpath.Rect{
		X: st.linkedLength(n, svgdom.AttrX, units, svgdom.Length{}),
		Y: st.linkedLength(n, svgdom.AttrY, units, svgdom.Length{}),
		W: st.linkedLength(n, svgdom.AttrWidth, units, svgdom.Length{}),
		H: st.linkedLength(n, svgdom.AttrHeight, units, svgdom.Length{}),
	}
	if !rect.IsValid() {
		warn("pattern has an invalid size, skipped", "id", n.ID)
		return paintServer{}, false
	}

	if c.tree.DefsByID(n.ID) == nil {
		pattern := &svgtree.Pattern{
			ID:           n.ID,
			Units:        units,
			ContentUnits: contentUnits,
			Transform:    resolveAttr(n, svgdom.AttrPatternTransform).Transform(svgdom.AttrPatternTransform),
			Rect:         rect,
		}
		if vb, ok := resolveAttr(n, svgdom.AttrViewBox).ViewBox(); ok {
			vb.Aspect = resolveAttr(n, svgdom.AttrPreserveAspectRatio).AspectRatio()
			pattern.ViewBox = &vb
		}
		// appended before its content, so that a self reference
		// in the content ends the recursion
		node := c.tree.AppendToDefs(pattern)
		c.convertChildren(content, st, node)
		if !node.HasChildren() {
			node.Detach()
			return paintServer{}, false
		}
	}
	return paintServer{id: n.ID, units: units}, true
}
