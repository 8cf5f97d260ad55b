package svgconv

import (
	"github.com/benoitkugler/svgtree/svgdom"
	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

// shapeToPath returns the outline of a basic shape, or false
// if the shape is invalid and must not be rendered.
func (st state) shapeToPath(n *svgdom.Node) (svgpath.Path, bool) {
	switch n.Tag {
	case svgdom.ElementRect:
		return st.rectToPath(n)
	case svgdom.ElementCircle:
		r := st.userLength(n, svgdom.AttrR, svgdom.Length{})
		if !(r > 0) {
			warn("circle has an invalid radius, skipped", "id", n.ID)
			return nil, false
		}
		return st.ellipseToPath(n, r, r), true
	case svgdom.ElementEllipse:
		rx := st.userLength(n, svgdom.AttrRx, svgdom.Length{})
		ry := st.userLength(n, svgdom.AttrRy, svgdom.Length{})
		if !(rx > 0 && ry > 0) {
			warn("ellipse has an invalid radius, skipped", "id", n.ID)
			return nil, false
		}
		return st.ellipseToPath(n, rx, ry), true
	case svgdom.ElementLine:
		var p svgpath.Path
		p.Start(st.userLength(n, svgdom.AttrX1, svgdom.Length{}), st.userLength(n, svgdom.AttrY1, svgdom.Length{}))
		p.Line(st.userLength(n, svgdom.AttrX2, svgdom.Length{}), st.userLength(n, svgdom.AttrY2, svgdom.Length{}))
		return p, true
	case svgdom.ElementPolyline, svgdom.ElementPolygon:
		v, _ := n.Attribute(svgdom.AttrPoints)
		points, _ := v.(svgdom.Points)
		if len(points) < 2 {
			warn("polyline needs at least two points, skipped", "id", n.ID)
			return nil, false
		}
		flat := make([]float64, 0, 2*len(points))
		for _, pt := range points {
			flat = append(flat, pt.X, pt.Y)
		}
		var p svgpath.Path
		p.AddPolyline(flat, n.Tag == svgdom.ElementPolygon)
		return p, true
	case svgdom.ElementPath:
		v, _ := n.Attribute(svgdom.AttrD)
		d, _ := v.(svgdom.PathData)
		if len(d) < 2 {
			return nil, false
		}
		return svgpath.Path(d), true
	}
	return nil, false
}

func (st state) ellipseToPath(n *svgdom.Node, rx, ry float64) svgpath.Path {
	cx := st.userLength(n, svgdom.AttrCx, svgdom.Length{})
	cy := st.userLength(n, svgdom.AttrCy, svgdom.Length{})
	var p svgpath.Path
	p.AddEllipse(cx, cy, rx, ry)
	return p
}

func (st state) rectToPath(n *svgdom.Node) (svgpath.Path, bool) {
	w := st.userLength(n, svgdom.AttrWidth, svgdom.Length{})
	h := st.userLength(n, svgdom.AttrHeight, svgdom.Length{})
	if !(w > 0 && h > 0) {
		warn("rect has an invalid size, skipped", "id", n.ID)
		return nil, false
	}
	x := st.userLength(n, svgdom.AttrX, svgdom.Length{})
	y := st.userLength(n, svgdom.AttrY, svgdom.Length{})

	// negative radii are ignored, and a missing one
	// takes the value of the other
	radius := func(id svgdom.AttributeID) (float64, bool) {
		l, ok := n.Length(id)
		if !ok {
			return 0, false
		}
		v := st.convertLength(n, id, l, svgtree.UnitsUserSpaceOnUse)
		return v, v >= 0
	}
	rx, okX := radius(svgdom.AttrRx)
	ry, okY := radius(svgdom.AttrRy)
	switch {
	case !okX && !okY:
		rx, ry = 0, 0
	case !okX:
		rx = ry
	case !okY:
		ry = rx
	}
	rx = min(rx, w/2)
	ry = min(ry, h/2)

	var p svgpath.Path
	if svgpath.FuzzyZero(rx) || svgpath.FuzzyZero(ry) {
		p.AddRect(x, y, x+w, y+h)
	} else {
		p.AddRoundRect(x, y, x+w, y+h, rx, ry)
	}
	return p, true
}

// convertShape appends the path of a shape element, followed
// by its markers.
func (c *converter) convertShape(n *svgdom.Node, st state, parent *svgtree.Node) {
	path, ok := st.shapeToPath(n)
	if !ok {
		return
	}
	c.convertPath(n, path, st, parent)
}

func (c *converter) convertPath(n *svgdom.Node, path svgpath.Path, st state, parent *svgtree.Node) {
	if len(path) < 2 {
		return
	}
	bbox, ok := path.BoundingBox()
	hasBBox := ok && bbox.W > 0 && bbox.H > 0

	fill := c.resolveFill(n, hasBBox, st)
	stroke := c.resolveStroke(n, hasBBox, st)
	visibility := keyword(n, svgdom.AttrVisibility, svgtree.ParseVisibility, svgtree.Visible)
	if fill == nil && stroke == nil {
		// kept for the bounding box, but never painted
		visibility = svgtree.Hidden
	}

	parent.Append(&svgtree.Path{
		ID:         st.elementID(n),
		Visibility: visibility,
		Fill:       fill,
		Stroke:     stroke,
		Data:       path,
	})

	if visibility == svgtree.Visible && hasMarkers(n, st) {
		g := parent.Append(&svgtree.Group{Transform: svgpath.Identity, Opacity: 1})
		c.convertMarkers(n, path, st, g)
		if !g.HasChildren() {
			g.Detach()
		}
	}
}
