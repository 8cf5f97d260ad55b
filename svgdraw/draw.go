// Given a render tree, implements how to
// draw it on screen.
// This requires a driver implementing the actual draw operations,
// such as a rasterizer to output .png images or a pdf writer.
package svgdraw

import (
	"math"

	"golang.org/x/image/math/fixed"

	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

// Drawer knows how to do the actual draw operations
// but doesn't need any SVG knowledge.
// In particular, transformations are already applied to the points
// before sending them to the Drawer.
type Drawer interface {
	// Clear must reset the internal state (used before starting a new path painting)
	Clear()

	// Start starts a new subpath at the given point.
	Start(a fixed.Point26_6)

	// Line adds a line from the current point to `b`
	Line(b fixed.Point26_6)

	// CubeBezier adds a cubic bezier curve to the path
	CubeBezier(b, c, d fixed.Point26_6)

	// Stop closes the subpath to its start point if `closeLoop` is true
	Stop(closeLoop bool)

	// SetColor sets the paint for the current path. Links to
	// paint servers are resolved by the driver, using the tree defs.
	SetColor(paint svgtree.Paint, opacity float64)

	// Draw fills or strokes the accumulated path using the current settings
	Draw()
}

type Filler interface {
	Drawer

	// Decide to use or not the NonZeroWinding rule for the current path
	SetWinding(useNonZeroWinding bool)
}

type Stroker interface {
	Drawer

	// Parametrize the stroking style for the current path
	SetStrokeOptions(options StrokeOptions)
}

type Driver interface {
	// SetupDrawers returns the backend painters, and
	// will be called at the beginning of every path.
	// If the `willXXX` boolean is false, the returned drawer should be nil
	// to avoid useless operations.
	// When both booleans are true, one can assume that the exact same draw operations
	// will be performed on the Filler first and then on the Stroker.
	SetupDrawers(willFill, willStroke bool) (Filler, Stroker)
}

// Grouper may be implemented by drivers supporting group
// compositing (opacity, clip paths, masks and filters).
// Other drivers receive the group opacity folded into
// the opacity of the paths.
type Grouper interface {
	// BeginGroup is called before the content of `g`, with
	// its absolute transform.
	BeginGroup(g *svgtree.Group, abs svgpath.Matrix2D)
	EndGroup(g *svgtree.Group)
}

type DashOptions struct {
	Dash       []float64 // values for the dash pattern (nil for no dashes), in device units
	DashOffset float64   // starting offset into the dash array
}

type StrokeOptions struct {
	LineWidth  fixed.Int26_6 // width of the line, in device units
	MiterLimit fixed.Int26_6
	Join       svgtree.LineJoin
	Cap        svgtree.LineCap
	Dash       DashOptions
}

// Draw walks the render tree and sends the visible paths to the driver.
// Definitions are only drawn through references. Images and texts
// are skipped, since they require decoding and layout.
func Draw(tree *svgtree.Tree, d Driver) {
	grouper, _ := d.(Grouper)
	for _, child := range tree.Root().Children() {
		if _, isDefs := child.Kind().(*svgtree.Defs); isDefs {
			continue
		}
		drawNode(child, d, grouper, 1)
	}
}

func drawNode(n *svgtree.Node, d Driver, grouper Grouper, opacity float64) {
	switch k := n.Kind().(type) {
	case *svgtree.Group:
		if grouper != nil {
			grouper.BeginGroup(k, n.AbsTransform())
			defer grouper.EndGroup(k)
		} else {
			opacity *= k.Opacity
		}
		for _, child := range n.Children() {
			drawNode(child, d, grouper, opacity)
		}
	case *svgtree.Path:
		if k.Visibility != svgtree.Visible {
			return
		}
		DrawPath(k, n.AbsTransform(), d, opacity)
	}
}

// DrawPath draws the path into the driver `d`, while applying transform ts.
func DrawPath(p *svgtree.Path, ts svgpath.Matrix2D, d Driver, opacity float64) {
	filler, stroker := d.SetupDrawers(p.Fill != nil, p.Stroke != nil)
	if filler != nil { // nil fill disables filling
		filler.Clear()
		filler.SetWinding(p.Fill.Rule == svgtree.FillRuleNonZero)

		emit(p.Data, ts, filler)

		filler.SetColor(p.Fill.Paint, p.Fill.Opacity*opacity)
		filler.Draw()
		filler.SetWinding(true) // default is true
	}

	if stroker != nil { // nil stroke disables lining
		stroker.Clear()
		stroker.SetStrokeOptions(strokeOptions(p.Stroke, ts))

		emit(p.Data, ts, stroker)

		stroker.SetColor(p.Stroke.Paint, p.Stroke.Opacity*opacity)
		stroker.Draw()
	}
}

// strokeOptions converts the user space lengths of s to device units,
// using the mean scale of ts.
func strokeOptions(s *svgtree.Stroke, ts svgpath.Matrix2D) StrokeOptions {
	sx, sy := ts.GetScale()
	scale := math.Sqrt(sx * sy)
	out := StrokeOptions{
		LineWidth:  toFixed(s.Width * scale),
		MiterLimit: toFixed(s.Miterlimit),
		Join:       s.Linejoin,
		Cap:        s.Linecap,
	}
	if s.Dasharray != nil {
		out.Dash.Dash = make([]float64, len(s.Dasharray))
		for i, v := range s.Dasharray {
			out.Dash.Dash[i] = v * scale
		}
		out.Dash.DashOffset = s.Dashoffset * scale
	}
	return out
}

func toFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(math.Round(v * 64)) }

func toPoint(ts svgpath.Matrix2D, x, y float64) fixed.Point26_6 {
	x, y = ts.Transform(x, y)
	return fixed.Point26_6{X: toFixed(x), Y: toFixed(y)}
}

// emit sends the path operations to dr. Segments following a close
// command, without a move, restart from the start of the closed subpath.
func emit(path svgpath.Path, ts svgpath.Matrix2D, dr Drawer) {
	var (
		started bool
		start   svgpath.Point
	)
	restart := func() {
		if !started {
			dr.Start(toPoint(ts, start.X, start.Y))
			started = true
		}
	}
	for _, op := range path {
		switch op := op.(type) {
		case svgpath.MoveTo:
			if started {
				dr.Stop(false)
			}
			start = svgpath.Point(op)
			dr.Start(toPoint(ts, op.X, op.Y))
			started = true
		case svgpath.LineTo:
			restart()
			dr.Line(toPoint(ts, op.X, op.Y))
		case svgpath.CubicTo:
			restart()
			dr.CubeBezier(toPoint(ts, op.X1, op.Y1), toPoint(ts, op.X2, op.Y2), toPoint(ts, op.X, op.Y))
		case svgpath.Close:
			if started {
				dr.Stop(true)
				started = false
			}
		}
	}
	if started {
		dr.Stop(false)
	}
}
