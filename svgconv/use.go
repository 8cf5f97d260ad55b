package svgconv

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/benoitkugler/svgtree/svgdom"
	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

// convertUse expands a use element, through the copy of its
// target built by the loader.
func (c *converter) convertUse(n *svgdom.Node, st state, parent *svgtree.Node) {
	instance := n.Instance()
	if instance == nil {
		return
	}
	if st.uses.contains(n) {
		warn("recursive use element", "id", n.ID)
		return
	}
	if target := n.Link(svgdom.AttrHref); target != nil {
		for a := range n.Ancestors() {
			if a == target {
				warn("use element referencing its ancestor", "id", n.ID)
				return
			}
		}
	}
	if st.parentClipPath != nil && !instance.Tag.IsShape() && instance.Tag != svgdom.ElementText {
		warn("only shapes and texts can be used in a clipPath", "id", n.ID)
		return
	}

	origTs := n.Transform(svgdom.AttrTransform)
	newTs := svgpath.Identity.Translate(
		st.userLength(n, svgdom.AttrX, svgdom.Length{}),
		st.userLength(n, svgdom.AttrY, svgdom.Length{}),
	)
	useSt := st
	useSt.uses = st.uses.push(n)

	if instance.Tag == svgdom.ElementSymbol {
		if ts, ok := st.viewportTransform(n, instance); ok {
			newTs = newTs.Mult(ts)
		}
		if clip, ok := st.viewportClip(n, instance); ok {
			g := c.clipElement(n, clip, origTs, st, parent)
			c.convertContainer(instance, instance.Children(), newTs, useSt, useSt, g)
			return
		}
		c.convertContainer(instance, instance.Children(), origTs.Mult(newTs), useSt, useSt, parent)
		return
	}

	// the use element is the group holding the instance
	c.convertContainer(n, []*svgdom.Node{instance}, origTs.Mult(newTs), st, useSt, parent)
}

// convertNestedSvg handles an svg element which is not the root,
// establishing a new viewport.
func (c *converter) convertNestedSvg(n *svgdom.Node, st state, parent *svgtree.Node) {
	x := st.userLength(n, svgdom.AttrX, svgdom.Length{})
	y := st.userLength(n, svgdom.AttrY, svgdom.Length{})
	origTs := n.Transform(svgdom.AttrTransform)
	newTs := svgpath.Identity.Translate(x, y)
	if ts, ok := st.viewportTransform(n, n); ok {
		newTs = newTs.Mult(ts)
	}

	svgSt := st
	if vb, ok := n.ViewBox(); ok {
		svgSt.viewBox = vb.Rect
	} else {
		w, h := st.viewportSize(n)
		if r := (svgpath.Rect{X: x, Y: y, W: w, H: h}); r.IsValid() {
			svgSt.viewBox = r
		}
	}

	if clip, ok := st.viewportClip(n, n); ok {
		g := c.clipElement(n, clip, origTs, st, parent)
		c.convertContainer(n, n.Children(), newTs, st, svgSt, g)
		return
	}
	c.convertContainer(n, n.Children(), origTs.Mult(newTs), st, svgSt, parent)
}

// convertContainer converts `children` with the state childSt, inside
// the group built for n, whose transform is replaced by ts.
func (c *converter) convertContainer(n *svgdom.Node, children []*svgdom.Node, ts svgpath.Matrix2D,
	st, childSt state, parent *svgtree.Node,
) {
	g, kind := c.convertGroup(n, st, !ts.IsIdentity(), parent)
	switch kind {
	case groupIgnore:
		return
	case groupSkip:
		g = parent
	case groupCreate:
		g.Kind().(*svgtree.Group).Transform = ts
	}
	for _, child := range children {
		if childSt.parentClipPath != nil {
			c.convertClipPathChild(child, childSt, g)
		} else {
			c.convertElement(child, childSt, g)
		}
	}
}

// viewportSize returns the width and height of a use or svg element,
// defaulting to 100%.
func (st state) viewportSize(n *svgdom.Node) (float64, float64) {
	full := svgdom.Length{Num: 100, Unit: svgdom.UnitPercent}
	return st.userLength(n, svgdom.AttrWidth, full), st.userLength(n, svgdom.AttrHeight, full)
}

// viewportTransform maps the viewBox of `linked` (a symbol or an svg)
// to the viewport defined by n.
func (st state) viewportTransform(n, linked *svgdom.Node) (svgpath.Matrix2D, bool) {
	vb, ok := linked.ViewBox()
	if !ok {
		return svgpath.Matrix2D{}, false
	}
	w, h := st.viewportSize(n)
	size := svgpath.Size{W: w, H: h}
	if !size.IsValid() {
		return svgpath.Matrix2D{}, false
	}
	return svgpath.ViewBoxTransform(vb.Rect, vb.Aspect, size), true
}

// viewportClip returns the clipping rectangle of a viewport, unless
// the overflow is visible.
func (st state) viewportClip(n, linked *svgdom.Node) (svgpath.Rect, bool) {
	if s, ok := linked.Str(svgdom.AttrOverflow); ok && (s == "visible" || s == "auto") {
		return svgpath.Rect{}, false
	}
	// nested svg without an explicit size are not clipped
	if linked.Tag == svgdom.ElementSvg && !(n.Has(svgdom.AttrWidth) && n.Has(svgdom.AttrHeight)) {
		return svgpath.Rect{}, false
	}
	w, h := st.viewportSize(n)
	rect := svgpath.Rect{
		X: st.userLength(n, svgdom.AttrX, svgdom.Length{}),
		Y: st.userLength(n, svgdom.AttrY, svgdom.Length{}),
		W: w,
		H: h,
	}
	return rect, rect.IsValid()
}

// clipElement adds a rectangular clip path to the defs, and returns
// the group using it.
func (c *converter) clipElement(n *svgdom.Node, rect svgpath.Rect, ts svgpath.Matrix2D, st state, parent *svgtree.Node) *svgtree.Node {
	id := c.genID("clipPath")
	clip := c.tree.AppendToDefs(&svgtree.ClipPath{
		ID:        id,
		Units:     svgtree.UnitsUserSpaceOnUse,
		Transform: svgpath.Identity,
	})
	fill := svgtree.DefaultFill()
	clip.Append(&svgtree.Path{Visibility: svgtree.Visible, Fill: &fill, Data: rect.ToPath()})

	return parent.Append(&svgtree.Group{
		ID:        st.groupID(n),
		Transform: ts,
		Opacity:   1,
		ClipPath:  id,
	})
}

// convertSwitch renders the first child whose conditions pass.
func (c *converter) convertSwitch(n *svgdom.Node, st state, parent *svgtree.Node) {
	var child *svgdom.Node
	for _, ch := range n.Children() {
		if !ch.IsText() && st.matchLanguage(ch) {
			child = ch
			break
		}
	}
	if child == nil {
		return
	}
	g, kind := c.convertGroup(n, st, false, parent)
	switch kind {
	case groupIgnore:
		return
	case groupSkip:
		g = parent
	}
	c.convertElement(child, st, g)
}

// matchLanguage evaluates the systemLanguage attribute: one of the
// accepted languages must be equal to one of the listed tags, or to its
// primary part.
func (st state) matchLanguage(n *svgdom.Node) bool {
	s, ok := n.Str(svgdom.AttrSystemLanguage)
	if !ok {
		return true
	}
	accepted := make([]language.Tag, 0, len(st.opts.Languages))
	for _, l := range st.opts.Languages {
		if tag, err := language.Parse(l); err == nil {
			accepted = append(accepted, tag)
		}
	}
	for _, l := range strings.Split(s, ",") {
		tag, err := language.Parse(strings.TrimSpace(l))
		if err != nil {
			continue
		}
		prefix, _, hasPrefix := strings.Cut(tag.String(), "-")
		for _, a := range accepted {
			if a == tag || (hasPrefix && a.String() == prefix) {
				return true
			}
		}
	}
	return false
}
