package svgconv

import (
	"fmt"

	"github.com/benoitkugler/svgtree/svgdom"
	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

// elementFilter resolves the filter attribute of n. An empty id with
// true means no filter; false means that n must not be rendered.
func (c *converter) elementFilter(n *svgdom.Node, st state) (string, bool) {
	v, ok := n.Attribute(svgdom.AttrFilter)
	if !ok {
		return "", true
	}
	link, ok := v.(svgdom.Link)
	if !ok { // none
		return "", true
	}
	if link.Node == nil || !link.Node.IsTag(svgdom.ElementFilter) {
		warn("invalid filter reference, element skipped", "id", n.ID, "filter", link.ID)
		return "", false
	}
	return c.convertFilter(link.Node, st)
}

// convertFilter adds the filter to the defs, if needed.
func (c *converter) convertFilter(n *svgdom.Node, st state) (string, bool) {
	if c.tree.DefsByID(n.ID) != nil {
		return n.ID, true
	}

	units := unitsAttr(resolveAttr(n, svgdom.AttrFilterUnits), svgdom.AttrFilterUnits, svgtree.UnitsObjectBoundingBox)
	primitiveUnits := unitsAttr(resolveAttr(n, svgdom.AttrPrimitiveUnits), svgdom.AttrPrimitiveUnits, svgtree.UnitsUserSpaceOnUse)
	minus10 := svgdom.Length{Num: -10, Unit: svgdom.UnitPercent}
	full := svgdom.Length{Num: 120, Unit: svgdom.UnitPercent}
	rect := svgpath.Rect{
		X: st.linkedLength(n, svgdom.AttrX, units, minus10),
		Y: st.linkedLength(n, svgdom.AttrY, units, minus10),
		W: st.linkedLength(n, svgdom.AttrWidth, units, full),
		H: st.linkedLength(n, svgdom.AttrHeight, units, full),
	}
	if !rect.IsValid() {
		warn("filter has an invalid region", "id", n.ID)
		return "", false
	}

	primitives := c.convertPrimitives(findFilterWithPrimitives(n), primitiveUnits, st)
	if len(primitives) == 0 {
		warn("filter has no valid primitives", "id", n.ID)
		return "", false
	}

	c.tree.AppendToDefs(&svgtree.Filter{
		ID:             n.ID,
		Units:          units,
		PrimitiveUnits: primitiveUnits,
		Rect:           rect,
		Primitives:     primitives,
	})
	return n.ID, true
}

func findFilterWithPrimitives(n *svgdom.Node) *svgdom.Node {
	for link := range hrefChain(n) {
		if !link.IsTag(svgdom.ElementFilter) {
			break
		}
		if hasElementChildren(link) {
			return link
		}
	}
	return nil
}

// filterGraph accumulates the primitives, resolving the inputs
// against the results already defined.
type filterGraph struct {
	primitives []svgtree.FilterPrimitive
	// explicit names, which generated ones must avoid
	reserved map[string]bool
	counter  int
}

func (g *filterGraph) hasResult(name string) bool {
	for _, p := range g.primitives {
		if p.Result == name {
			return true
		}
	}
	return false
}

// input resolves the in or in2 attribute. Unknown references
// fall back to SourceGraphic; a missing attribute uses the previous
// result, or SourceGraphic for the first primitive.
func (g *filterGraph) input(n *svgdom.Node, id svgdom.AttributeID) svgtree.FilterInput {
	if s, ok := n.Str(id); ok && s != "" {
		kind := svgtree.ParseFilterInputKind(s)
		if kind != svgtree.Reference {
			return svgtree.FilterInput{Kind: kind}
		}
		if g.hasResult(s) {
			return svgtree.FilterInput{Kind: svgtree.Reference, Name: s}
		}
		warn("unknown filter input, using SourceGraphic", "element", n.TagName, "in", s)
		return svgtree.FilterInput{Kind: svgtree.SourceGraphic}
	}
	if len(g.primitives) != 0 {
		return svgtree.FilterInput{Kind: svgtree.Reference, Name: g.primitives[len(g.primitives)-1].Result}
	}
	return svgtree.FilterInput{Kind: svgtree.SourceGraphic}
}

func (g *filterGraph) result(n *svgdom.Node) string {
	if s, ok := n.Str(svgdom.AttrResult); ok && s != "" {
		return s
	}
	for {
		g.counter++
		name := fmt.Sprintf("result%d", g.counter)
		if !g.reserved[name] && !g.hasResult(name) {
			return name
		}
	}
}

func (c *converter) convertPrimitives(filter *svgdom.Node, units svgtree.Units, st state) []svgtree.FilterPrimitive {
	if filter == nil {
		return nil
	}
	g := filterGraph{reserved: map[string]bool{}}
	for _, child := range filter.Children() {
		if s, ok := child.Str(svgdom.AttrResult); ok {
			g.reserved[s] = true
		}
	}

	for _, child := range filter.Children() {
		if child.IsText() {
			continue
		}
		var kind svgtree.FilterKind
		switch child.Tag {
		case svgdom.ElementFeBlend:
			kind = svgtree.FeBlend{
				Mode:   ownKeyword(child, svgdom.AttrMode, svgtree.ParseFeBlendMode, svgtree.BlendNormal),
				Input1: g.input(child, svgdom.AttrIn),
				Input2: g.input(child, svgdom.AttrIn2),
			}
		case svgdom.ElementFeFlood:
			color := svgtree.Black
			if v, ok := child.Color(svgdom.AttrFloodColor); ok {
				color = svgtree.Color(v)
			}
			opacity := 1.
			if v, ok := child.Number(svgdom.AttrFloodOpacity); ok {
				opacity = clamp(v, 0, 1)
			}
			kind = svgtree.FeFlood{Color: color, Opacity: opacity}
		case svgdom.ElementFeGaussianBlur:
			sx, sy := stdDeviation(child)
			kind = svgtree.FeGaussianBlur{Input: g.input(child, svgdom.AttrIn), StdDevX: sx, StdDevY: sy}
		case svgdom.ElementFeOffset:
			dx, _ := child.Number(svgdom.AttrDx)
			dy, _ := child.Number(svgdom.AttrDy)
			kind = svgtree.FeOffset{Input: g.input(child, svgdom.AttrIn), Dx: dx, Dy: dy}
		case svgdom.ElementFeComposite:
			k := func(id svgdom.AttributeID) float64 {
				v, _ := child.Number(id)
				return v
			}
			kind = svgtree.FeComposite{
				Operator: ownKeyword(child, svgdom.AttrOperator, svgtree.ParseFeCompositeOperator, svgtree.CompositeOver),
				Input1:   g.input(child, svgdom.AttrIn),
				Input2:   g.input(child, svgdom.AttrIn2),
				K1:       k(svgdom.AttrK1),
				K2:       k(svgdom.AttrK2),
				K3:       k(svgdom.AttrK3),
				K4:       k(svgdom.AttrK4),
			}
		case svgdom.ElementFeMerge:
			var merge svgtree.FeMerge
			for _, node := range child.Children() {
				if node.IsTag(svgdom.ElementFeMergeNode) {
					merge.Sources = append(merge.Sources, g.input(node, svgdom.AttrIn))
				}
			}
			kind = merge
		case svgdom.ElementFeTile:
			kind = svgtree.FeTile{Input: g.input(child, svgdom.AttrIn)}
		case svgdom.ElementFeImage:
			kind = svgtree.FeImage{Aspect: child.AspectRatio(), Data: feImageData(child)}
		default:
			warn("unsupported filter primitive, skipped", "element", child.TagName)
			continue
		}

		g.primitives = append(g.primitives, svgtree.FilterPrimitive{
			X:                  st.optLength(child, svgdom.AttrX, units),
			Y:                  st.optLength(child, svgdom.AttrY, units),
			Width:              st.optLength(child, svgdom.AttrWidth, units),
			Height:             st.optLength(child, svgdom.AttrHeight, units),
			ColorInterpolation: keyword(child, svgdom.AttrColorInterpolationFilters, svgtree.ParseColorInterpolation, svgtree.ColorInterpolationLinearRGB),
			Result:             g.result(child),
			Kind:               kind,
		})
	}
	return g.primitives
}

// stdDeviation accepts one or two values; negative values disable the blur.
func stdDeviation(n *svgdom.Node) (float64, float64) {
	v, _ := n.Attribute(svgdom.AttrStdDeviation)
	list, _ := v.(svgdom.NumberList)
	var sx, sy float64
	switch len(list) {
	case 1:
		sx, sy = list[0], list[0]
	case 2:
		sx, sy = list[0], list[1]
	}
	return max(sx, 0), max(sy, 0)
}

func feImageData(n *svgdom.Node) svgtree.FeImageKind {
	if target := n.Link(svgdom.AttrHref); target != nil {
		return svgtree.FeImageKind{Use: target.ID}
	}
	href, ok := n.Str(svgdom.AttrHref)
	if !ok {
		return svgtree.FeImageKind{}
	}
	data, format, ok := loadImageHref(href)
	if !ok {
		return svgtree.FeImageKind{}
	}
	return svgtree.FeImageKind{Data: &data, Format: format}
}

// ownKeyword parses a keyword attribute set on n itself.
func ownKeyword[T any](n *svgdom.Node, id svgdom.AttributeID, parse func(string) (T, bool), def T) T {
	s, ok := n.Str(id)
	if !ok {
		return def
	}
	if v, ok := parse(s); ok {
		return v
	}
	warn("invalid keyword", "attribute", id.String(), "value", s)
	return def
}
