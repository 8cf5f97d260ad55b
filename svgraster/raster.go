// Implements a raster backend measuring the extent of
// render tree nodes, by wrapping rasterx.
// Paths are flattened and stroked exactly as for painting,
// but no pixel is produced.
package svgraster

import (
	"image"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/benoitkugler/svgtree/svgdraw"
	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

var (
	_ svgdraw.Driver         = (*BBoxMeasurer)(nil) // assert interface conformance
	_ svgtree.BBoxCalculator = (*BBoxMeasurer)(nil)
)

// BBoxMeasurer accumulates the extent of the paths drawn into it.
// It is not safe for concurrent use.
type BBoxMeasurer struct {
	dasher *rasterx.Dasher // to avoid shared state
	filler *rasterx.Filler // we use separated instance

	extent fixed.Rectangle26_6
	found  bool
}

// NewBBoxMeasurer returns a measurer with an empty extent.
func NewBBoxMeasurer() *BBoxMeasurer {
	// the scanners only track the extent of the points, so that
	// the rasterizer bounds are irrelevant
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	newScanner := func() rasterx.Scanner { return rasterx.NewScannerGV(1, 1, img, img.Bounds()) }
	return &BBoxMeasurer{
		dasher: rasterx.NewDasher(1, 1, newScanner()),
		filler: rasterx.NewFiller(1, 1, newScanner()),
	}
}

// Reset forgets the extent accumulated so far.
func (m *BBoxMeasurer) Reset() {
	m.found = false
	m.extent = fixed.Rectangle26_6{}
}

// Extent returns the union of the extents of the paths drawn
// since the last Reset, or false if nothing has been drawn.
func (m *BBoxMeasurer) Extent() (svgpath.Rect, bool) {
	if !m.found {
		return svgpath.Rect{}, false
	}
	minX, minY := float64(m.extent.Min.X)/64, float64(m.extent.Min.Y)/64
	maxX, maxY := float64(m.extent.Max.X)/64, float64(m.extent.Max.Y)/64
	return svgpath.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, true
}

// PathBBox implements svgtree.BBoxCalculator, including the stroke outline.
func (m *BBoxMeasurer) PathBBox(p *svgtree.Path, ts svgpath.Matrix2D) (svgpath.Rect, bool) {
	m.Reset()
	svgdraw.DrawPath(p, ts, m, 1)
	return m.Extent()
}

// NodeBBox is a shortcut for tree.NodeBBox(n, NewBBoxMeasurer()).
func NodeBBox(tree *svgtree.Tree, n *svgtree.Node) (svgpath.Rect, bool) {
	return tree.NodeBBox(n, NewBBoxMeasurer())
}

func (m *BBoxMeasurer) SetupDrawers(willFill, willStroke bool) (svgdraw.Filler, svgdraw.Stroker) {
	var (
		f svgdraw.Filler
		s svgdraw.Stroker
	)
	if willFill {
		f = fillMeasurer{Filler: m.filler, m: m}
	}
	if willStroke {
		s = strokeMeasurer{Dasher: m.dasher, m: m}
	}
	return f, s
}

// add merges the extent of the path accumulated by the scanner.
func (m *BBoxMeasurer) add(scanner rasterx.Scanner) {
	r := scanner.GetPathExtent()
	if r.Min.X > r.Max.X || r.Min.Y > r.Max.Y {
		return // nothing drawn
	}
	if !m.found {
		m.extent, m.found = r, true
		return
	}
	// fixed.Rectangle26_6.Union ignores the flat rectangles
	m.extent.Min.X = min(m.extent.Min.X, r.Min.X)
	m.extent.Min.Y = min(m.extent.Min.Y, r.Min.Y)
	m.extent.Max.X = max(m.extent.Max.X, r.Max.X)
	m.extent.Max.Y = max(m.extent.Max.Y, r.Max.Y)
}

type fillMeasurer struct {
	*rasterx.Filler
	m *BBoxMeasurer
}

func (fillMeasurer) SetColor(svgtree.Paint, float64) {}

func (f fillMeasurer) Draw() { f.m.add(f.Scanner) }

type strokeMeasurer struct {
	*rasterx.Dasher
	m *BBoxMeasurer
}

func (strokeMeasurer) SetColor(svgtree.Paint, float64) {}

func (s strokeMeasurer) Draw() { s.m.add(s.Scanner) }

var (
	joinToJoin = [...]rasterx.JoinMode{
		svgtree.LineJoinMiter: rasterx.Miter,
		svgtree.LineJoinRound: rasterx.Round,
		svgtree.LineJoinBevel: rasterx.Bevel,
	}

	capToFunc = [...]rasterx.CapFunc{
		svgtree.LineCapButt:   rasterx.ButtCap,
		svgtree.LineCapRound:  rasterx.RoundCap,
		svgtree.LineCapSquare: rasterx.SquareCap,
	}
)

func (s strokeMeasurer) SetStrokeOptions(options svgdraw.StrokeOptions) {
	join := rasterx.Miter
	if int(options.Join) < len(joinToJoin) {
		join = joinToJoin[options.Join]
	}
	var lineCap rasterx.CapFunc = rasterx.ButtCap
	if int(options.Cap) < len(capToFunc) {
		lineCap = capToFunc[options.Cap]
	}
	s.SetStroke(
		options.LineWidth, options.MiterLimit, lineCap, lineCap, rasterx.FlatGap,
		join, options.Dash.Dash, options.Dash.DashOffset,
	)
}
