package svgconv

import (
	"math"

	"github.com/benoitkugler/svgtree/svgdom"
	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

type markerKind uint8

const (
	markerStart markerKind = iota
	markerMiddle
	markerEnd
)

var markerAttributes = [...]struct {
	id   svgdom.AttributeID
	kind markerKind
}{
	{svgdom.AttrMarkerStart, markerStart},
	{svgdom.AttrMarkerMid, markerMiddle},
	{svgdom.AttrMarkerEnd, markerEnd},
}

// hasMarkers reports whether markers may be drawn on n: only
// path, line, polyline and polygon outside clip paths support them.
func hasMarkers(n *svgdom.Node, st state) bool {
	switch n.Tag {
	case svgdom.ElementPath, svgdom.ElementLine, svgdom.ElementPolyline, svgdom.ElementPolygon:
	default:
		return false
	}
	if st.parentClipPath != nil {
		return false
	}
	for a := range n.Ancestors() {
		if a.IsTag(svgdom.ElementClipPath) {
			return false
		}
	}
	for _, m := range markerAttributes {
		if markerElement(n, m.id) != nil {
			return true
		}
	}
	return false
}

// markerElement returns the marker referenced by n or its
// nearest ancestor. Links to other elements are ignored.
func markerElement(n *svgdom.Node, id svgdom.AttributeID) *svgdom.Node {
	for node := range n.Ancestors() {
		if target := node.Link(id); target != nil && target.IsTag(svgdom.ElementMarker) {
			return target
		}
	}
	return nil
}

// convertMarkers stamps the start, mid and end markers of the shape
// along its path.
func (c *converter) convertMarkers(shape *svgdom.Node, path svgpath.Path, st state, parent *svgtree.Node) {
	for _, m := range markerAttributes {
		marker := markerElement(shape, m.id)
		if marker == nil {
			continue
		}
		if marker == st.currentRoot || st.markers.contains(marker) {
			warn("recursive marker, skipped", "id", marker.ID)
			continue
		}
		c.resolveMarker(shape, path, marker, m.kind, st, parent)
	}
}

// markerStrokeScale returns false when the stroke width is not
// strictly positive, which hides the marker.
func (st state) markerStrokeScale(shape, marker *svgdom.Node) (float64, bool) {
	if s, _ := marker.Str(svgdom.AttrMarkerUnits); s == "userSpaceOnUse" {
		return 1, true
	}
	return st.validLength(shape, svgdom.AttrStrokeWidth, 1)
}

// markerClips reports whether the content is clipped
// to the marker viewport. It is the default.
func markerClips(marker *svgdom.Node) bool {
	s, ok := marker.Str(svgdom.AttrOverflow)
	return !ok || s == "hidden" || s == "scroll"
}

// markerOrientation returns the fixed angle of the marker in degrees,
// or auto. reverse is set for auto-start-reverse.
func markerOrientation(marker *svgdom.Node) (angle float64, auto, reverse bool) {
	v, _ := marker.Attribute(svgdom.AttrOrient)
	switch v := v.(type) {
	case svgdom.String:
		switch v {
		case "auto":
			return 0, true, false
		case "auto-start-reverse":
			return 0, true, true
		}
	case svgdom.Angle:
		switch v.Unit {
		case svgdom.AngleGradians:
			return v.Num * 180 / 200, false, false
		case svgdom.AngleRadians:
			return v.Num * 180 / math.Pi, false, false
		default:
			return v.Num, false, false
		}
	}
	return 0, false, false
}

func (c *converter) resolveMarker(shape *svgdom.Node, path svgpath.Path, marker *svgdom.Node,
	kind markerKind, st state, parent *svgtree.Node,
) {
	strokeScale, ok := st.markerStrokeScale(shape, marker)
	if !ok {
		return
	}

	r := svgpath.Rect{
		X: st.userLength(marker, svgdom.AttrRefX, svgdom.Length{}),
		Y: st.userLength(marker, svgdom.AttrRefY, svgdom.Length{}),
		W: st.userLength(marker, svgdom.AttrMarkerWidth, svgdom.NewLength(3)),
		H: st.userLength(marker, svgdom.AttrMarkerHeight, svgdom.NewLength(3)),
	}
	if !r.IsValid() {
		return
	}
	vb, hasViewBox := marker.ViewBox()

	var clipID string
	if markerClips(marker) {
		clipRect := svgpath.Rect{W: r.W, H: r.H}
		if hasViewBox {
			clipRect = vb.Rect
		}
		id, existed := c.markerClipID(shape, marker)
		if !existed {
			clip := c.tree.AppendToDefs(&svgtree.ClipPath{
				ID:        id,
				Units:     svgtree.UnitsUserSpaceOnUse,
				Transform: svgpath.Identity,
			})
			fill := svgtree.DefaultFill()
			clip.Append(&svgtree.Path{Visibility: svgtree.Visible, Fill: &fill, Data: clipRect.ToPath()})
		}
		clipID = id
	}

	fixedAngle, auto, reverse := markerOrientation(marker)
	markerSt := st
	markerSt.currentRoot = marker
	markerSt.markers = st.markers.push(marker)

	draw := func(x, y float64, idx int) {
		ts := svgpath.Identity.Translate(x, y)

		angle := fixedAngle
		if auto {
			angle = vertexAngle(path, idx)
			if reverse && kind == markerStart {
				angle = math.Mod(angle+180, 360)
			}
		}
		if !svgpath.FuzzyZero(angle) {
			ts = ts.RotateDeg(angle)
		}

		if hasViewBox {
			size := svgpath.Size{W: r.W * strokeScale, H: r.H * strokeScale}
			sx, sy := svgpath.ViewBoxTransform(vb.Rect, vb.Aspect, size).GetScale()
			ts = ts.Scale(sx, sy)
		} else {
			ts = ts.Scale(strokeScale, strokeScale)
		}
		ts = ts.Translate(-r.X, -r.Y)

		g := parent.Append(&svgtree.Group{Transform: ts, Opacity: 1, ClipPath: clipID})
		c.convertChildren(marker, markerSt, g)
		if !g.HasChildren() {
			g.Detach()
		}
	}

	drawMarkers(path, kind, draw)
}

// drawMarkers calls draw for each vertex of the path
// selected by kind, with its segment index.
func drawMarkers(path svgpath.Path, kind markerKind, draw func(x, y float64, idx int)) {
	if len(path) == 0 {
		return
	}
	switch kind {
	case markerStart:
		if m, ok := path[0].(svgpath.MoveTo); ok {
			draw(m.X, m.Y, 0)
		}
	case markerMiddle:
		for i := 1; i < len(path)-1; i++ {
			if _, isClose := path[i].(svgpath.Close); isClose {
				continue
			}
			p, _ := path.EndPoint(i)
			draw(p.X, p.Y, i)
		}
	case markerEnd:
		idx := len(path) - 1
		switch path[idx].(type) {
		case svgpath.LineTo, svgpath.CubicTo, svgpath.Close:
			p, _ := path.EndPoint(idx)
			draw(p.X, p.Y, idx)
		}
	}
}

// prevVertex returns the end point of the segment before idx.
func prevVertex(path svgpath.Path, idx int) svgpath.Point {
	p, _ := path.EndPoint(idx - 1)
	return p
}

// vertexAngle returns the direction of the path at the vertex
// of segment idx, in degrees. Unsupported configurations return 0.
func vertexAngle(path svgpath.Path, idx int) float64 {
	if len(path) < 2 || idx < 0 || idx >= len(path) {
		return 0
	}

	switch idx {
	case 0:
		m, ok := path[0].(svgpath.MoveTo)
		if !ok {
			return 0
		}
		switch next := path[1].(type) {
		case svgpath.LineTo:
			return lineAngle(m.X, m.Y, next.X, next.Y)
		case svgpath.CubicTo:
			if svgpath.PointsEqual(m.X, m.Y, next.X1, next.Y1) {
				return lineAngle(m.X, m.Y, next.X, next.Y)
			}
			return lineAngle(m.X, m.Y, next.X1, next.Y1)
		}
		return 0

	case len(path) - 1:
		switch seg := path[idx].(type) {
		case svgpath.LineTo:
			p := prevVertex(path, idx)
			return lineAngle(p.X, p.Y, seg.X, seg.Y)
		case svgpath.CubicTo:
			if svgpath.PointsEqual(seg.X2, seg.Y2, seg.X, seg.Y) {
				p := prevVertex(path, idx)
				return lineAngle(p.X, p.Y, seg.X, seg.Y)
			}
			return lineAngle(seg.X2, seg.Y2, seg.X, seg.Y)
		case svgpath.Close:
			start := path.SubpathStart(idx)
			switch prev := path[idx-1].(type) {
			case svgpath.LineTo:
				return lineAngle(prev.X, prev.Y, start.X, start.Y)
			case svgpath.CubicTo:
				p := prevVertex(path, idx)
				return curvesAngle(p.X, p.Y, prev.X2, prev.Y2, prev.X, prev.Y, start.X, start.Y, start.X, start.Y)
			}
		}
		return 0
	}

	// middle vertex
	p := prevVertex(path, idx)
	if _, ok := path[idx+1].(svgpath.Close); ok {
		start := path.SubpathStart(idx)
		if seg, ok := path[idx].(svgpath.LineTo); ok {
			return bisectorAngle(p.X, p.Y, seg.X, seg.Y, seg.X, seg.Y, start.X, start.Y)
		}
		return lineAngle(p.X, p.Y, start.X, start.Y)
	}
	switch seg := path[idx].(type) {
	case svgpath.MoveTo:
		switch next := path[idx+1].(type) {
		case svgpath.LineTo:
			return lineAngle(seg.X, seg.Y, next.X, next.Y)
		case svgpath.CubicTo:
			return lineAngle(seg.X, seg.Y, next.X1, next.Y1)
		}
	case svgpath.LineTo:
		switch next := path[idx+1].(type) {
		case svgpath.LineTo:
			return bisectorAngle(p.X, p.Y, seg.X, seg.Y, seg.X, seg.Y, next.X, next.Y)
		case svgpath.CubicTo:
			return curvesAngle(p.X, p.Y, p.X, p.Y, seg.X, seg.Y, next.X1, next.Y1, next.X, next.Y)
		case svgpath.MoveTo:
			return lineAngle(p.X, p.Y, seg.X, seg.Y)
		}
	case svgpath.CubicTo:
		switch next := path[idx+1].(type) {
		case svgpath.CubicTo:
			return curvesAngle(p.X, p.Y, seg.X2, seg.Y2, seg.X, seg.Y, next.X1, next.Y1, next.X, next.Y)
		case svgpath.LineTo:
			return curvesAngle(p.X, p.Y, seg.X2, seg.Y2, seg.X, seg.Y, next.X, next.Y, next.X, next.Y)
		case svgpath.MoveTo:
			if svgpath.PointsEqual(seg.X, seg.Y, seg.X2, seg.Y2) {
				return lineAngle(p.X, p.Y, seg.X, seg.Y)
			}
			return lineAngle(seg.X2, seg.Y2, seg.X, seg.Y)
		}
	}
	return 0
}

func lineAngle(x1, y1, x2, y2 float64) float64 {
	return bisectorAngle(x1, y1, x2, y2, x1, y1, x2, y2)
}

// curvesAngle avoids the zero length tangents found when a control
// point coincides with the vertex, using the adjacent vertex instead.
func curvesAngle(
	px, py float64, // previous vertex
	cx1, cy1 float64, // previous control point
	x, y float64, // current vertex
	cx2, cy2 float64, // next control point
	nx, ny float64, // next vertex
) float64 {
	switch {
	case svgpath.PointsEqual(cx1, cy1, x, y):
		return bisectorAngle(px, py, x, y, x, y, cx2, cy2)
	case svgpath.PointsEqual(x, y, cx2, cy2):
		return bisectorAngle(cx1, cy1, x, y, x, y, nx, ny)
	default:
		return bisectorAngle(cx1, cy1, x, y, x, y, cx2, cy2)
	}
}

// bisectorAngle returns the angle, in degrees in [0, 360), of the bisector
// between the incoming vector (x1,y1)->(x2,y2) and the outgoing
// vector (x3,y3)->(x4,y4).
func bisectorAngle(x1, y1, x2, y2, x3, y3, x4, y4 float64) float64 {
	in := vectorAngle(x2-x1, y2-y1)
	out := vectorAngle(x4-x3, y4-y3)
	d := (out - in) / 2

	angle := in + d
	if math.Abs(d) > math.Pi/2 {
		angle -= math.Pi
	}
	return normalizeAngle(angle) * 180 / math.Pi
}

func normalizeAngle(rad float64) float64 {
	v := math.Mod(rad, 2*math.Pi)
	if v < 0 {
		v += 2 * math.Pi
	}
	return v
}

func vectorAngle(vx, vy float64) float64 {
	rad := math.Atan2(vy, vx)
	if math.IsNaN(rad) {
		return 0
	}
	return normalizeAngle(rad)
}
