package svgconv

import (
	"github.com/benoitkugler/svgtree/svgdom"
	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

// isValidTransform is false for transforms collapsing
// the content to a line or a point.
func isValidTransform(m svgpath.Matrix2D) bool {
	sx, sy := m.GetScale()
	return !svgpath.FuzzyZero(sx) && !svgpath.FuzzyZero(sy)
}

// convertClipPath adds the clip path to the defs, if needed,
// and returns its id. An invalid clip path returns false: the
// element using it must not be rendered.
func (c *converter) convertClipPath(n *svgdom.Node, st state) (string, bool) {
	if n == nil || !n.IsTag(svgdom.ElementClipPath) {
		return "", false
	}
	ts := n.Transform(svgdom.AttrTransform)
	if !isValidTransform(ts) {
		warn("clipPath has an invalid transform", "id", n.ID)
		return "", false
	}
	if c.tree.DefsByID(n.ID) != nil {
		return n.ID, true
	}
	if c.pending[n] {
		warn("recursive clipPath", "id", n.ID)
		return "", false
	}
	c.pending[n] = true
	defer delete(c.pending, n)

	clip := &svgtree.ClipPath{
		ID:        n.ID,
		Units:     unitsAttr(n, svgdom.AttrClipPathUnits, svgtree.UnitsUserSpaceOnUse),
		Transform: ts,
	}
	if link := n.Link(svgdom.AttrClipPath); link != nil {
		id, ok := c.convertClipPath(link, st)
		if !ok {
			return "", false
		}
		clip.ClipPath = id
	}

	node := c.tree.AppendToDefs(clip)
	clipSt := st
	clipSt.parentClipPath = n
	for _, child := range n.Children() {
		c.convertClipPathChild(child, clipSt, node)
	}
	// an empty clip path is valid, and hides the element
	return n.ID, true
}

// convertClipPathChild only accepts shapes, texts,
// and use elements referencing them.
func (c *converter) convertClipPathChild(child *svgdom.Node, st state, parent *svgtree.Node) {
	if child.IsText() || !child.Tag.IsGraphic() || !st.isVisibleElement(child) {
		return
	}
	if child.Tag == svgdom.ElementUse {
		c.convertUse(child, st, parent)
		return
	}
	g, kind := c.convertGroup(child, st, false, parent)
	switch kind {
	case groupIgnore:
		return
	case groupSkip:
		g = parent
	}
	switch {
	case child.Tag.IsShape():
		c.convertShape(child, st, g)
	case child.Tag == svgdom.ElementText:
		c.convertText(child, st, g)
	default:
		warn("unsupported element in clipPath", "element", child.TagName)
	}
}

// convertMask adds the mask to the defs, if needed, and returns its id.
// Masks without content are invalid.
func (c *converter) convertMask(n *svgdom.Node, st state) (string, bool) {
	if n == nil || !n.IsTag(svgdom.ElementMask) {
		return "", false
	}
	if c.tree.DefsByID(n.ID) != nil {
		return n.ID, true
	}
	if c.pending[n] {
		warn("recursive mask", "id", n.ID)
		return "", false
	}
	c.pending[n] = true
	defer delete(c.pending, n)

	units := unitsAttr(n, svgdom.AttrMaskUnits, svgtree.UnitsObjectBoundingBox)
	minus10 := svgdom.Length{Num: -10, Unit: svgdom.UnitPercent}
	full := svgdom.Length{Num: 120, Unit: svgdom.UnitPercent}
	rect := svgpath.Rect{
		X: st.resolveLength(n, svgdom.AttrX, units, minus10),
		Y: st.resolveLength(n, svgdom.AttrY, units, minus10),
		W: st.resolveLength(n, svgdom.AttrWidth, units, full),
		H: st.resolveLength(n, svgdom.AttrHeight, units, full),
	}
	if !rect.IsValid() {
		warn("mask has an invalid size", "id", n.ID)
		return "", false
	}

	mask := &svgtree.Mask{
		ID:           n.ID,
		Units:        units,
		ContentUnits: unitsAttr(n, svgdom.AttrMaskContentUnits, svgtree.UnitsUserSpaceOnUse),
		Rect:         rect,
	}
	if link := n.Link(svgdom.AttrMask); link != nil {
		id, ok := c.convertMask(link, st)
		if !ok {
			return "", false
		}
		mask.Mask = id
	}

	node := c.tree.AppendToDefs(mask)
	c.convertChildren(n, st, node)
	if !node.HasChildren() {
		node.Detach()
		return "", false
	}
	return n.ID, true
}
