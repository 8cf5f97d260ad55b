package svgdraw

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/math/fixed"

	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

// recorder logs the operations it receives, in user friendly units.
type recorder struct {
	ops     []string
	winding bool
	opacity float64
	options StrokeOptions
	kind    string
	parent  *recordDriver
	drawn   int
	// winding rule used by the last Draw
	drawnNonZero bool
}

func fx(v fixed.Int26_6) float64 { return float64(v) / 64 }

func (r *recorder) Clear()                           { r.ops = nil }
func (r *recorder) Start(a fixed.Point26_6)          { r.ops = append(r.ops, fmt.Sprintf("M%g,%g", fx(a.X), fx(a.Y))) }
func (r *recorder) Line(b fixed.Point26_6)           { r.ops = append(r.ops, fmt.Sprintf("L%g,%g", fx(b.X), fx(b.Y))) }
func (r *recorder) SetWinding(nonZero bool)          { r.winding = nonZero }
func (r *recorder) SetStrokeOptions(o StrokeOptions) { r.options = o }

func (r *recorder) CubeBezier(b, c, d fixed.Point26_6) {
	r.ops = append(r.ops, fmt.Sprintf("C%g,%g", fx(d.X), fx(d.Y)))
}

func (r *recorder) Stop(closeLoop bool) {
	if closeLoop {
		r.ops = append(r.ops, "Z")
	}
}

func (r *recorder) SetColor(_ svgtree.Paint, opacity float64) { r.opacity = opacity }

func (r *recorder) Draw() {
	r.drawn++
	r.drawnNonZero = r.winding
	r.parent.log = append(r.parent.log, fmt.Sprintf("%s %v", r.kind, r.ops))
}

type recordDriver struct {
	filler, stroker *recorder
	log             []string
}

func newRecordDriver() *recordDriver {
	d := &recordDriver{}
	d.filler = &recorder{kind: "fill", parent: d}
	d.stroker = &recorder{kind: "stroke", parent: d}
	return d
}

func (d *recordDriver) SetupDrawers(willFill, willStroke bool) (Filler, Stroker) {
	var (
		f Filler
		s Stroker
	)
	if willFill {
		f = d.filler
	}
	if willStroke {
		s = d.stroker
	}
	return f, s
}

type groupDriver struct {
	*recordDriver
}

func (g groupDriver) BeginGroup(gr *svgtree.Group, abs svgpath.Matrix2D) {
	g.log = append(g.log, fmt.Sprintf("begin %g", gr.Opacity))
}

func (g groupDriver) EndGroup(gr *svgtree.Group) { g.log = append(g.log, "end") }

func square() svgpath.Path {
	var p svgpath.Path
	p.AddRect(0, 0, 10, 10)
	return p
}

func TestDrawPath(t *testing.T) {
	fill := svgtree.DefaultFill()
	fill.Rule = svgtree.FillRuleEvenOdd
	fill.Opacity = 0.5
	p := &svgtree.Path{Visibility: svgtree.Visible, Fill: &fill, Data: square()}

	d := newRecordDriver()
	DrawPath(p, svgpath.Identity.Translate(5, 1), d, 0.5)
	assert.Equal(t, []string{"fill [M5,1 L15,1 L15,11 L5,11 Z]"}, d.log)
	assert.False(t, d.filler.drawnNonZero)
	// the default rule is restored
	assert.True(t, d.filler.winding)
	assert.Equal(t, 0.25, d.filler.opacity)
	assert.Zero(t, d.stroker.drawn)
}

func TestEmitAfterClose(t *testing.T) {
	path := svgpath.Path{
		svgpath.MoveTo{X: 1, Y: 1},
		svgpath.LineTo{X: 2, Y: 1},
		svgpath.Close{},
		svgpath.LineTo{X: 1, Y: 3},
		svgpath.CubicTo{X1: 0, Y1: 0, X2: 0, Y2: 0, X: 4, Y: 4},
	}
	r := &recorder{}
	emit(path, svgpath.Identity, r)
	assert.Equal(t, []string{"M1,1", "L2,1", "Z", "M1,1", "L1,3", "C4,4"}, r.ops)
}

func TestStrokeOptions(t *testing.T) {
	stroke := svgtree.DefaultStroke()
	stroke.Width = 2
	stroke.Dasharray = []float64{1, 2}
	stroke.Dashoffset = 1
	stroke.Linecap = svgtree.LineCapRound

	opts := strokeOptions(&stroke, svgpath.Identity.Scale(3, 3))
	assert.Equal(t, fixed.Int26_6(6*64), opts.LineWidth)
	assert.Equal(t, fixed.Int26_6(4*64), opts.MiterLimit)
	assert.Equal(t, []float64{3, 6}, opts.Dash.Dash)
	assert.Equal(t, 3., opts.Dash.DashOffset)
	assert.Equal(t, svgtree.LineCapRound, opts.Cap)
	// the source is not modified
	assert.Equal(t, []float64{1, 2}, stroke.Dasharray)

	stroke.Dasharray = nil
	opts = strokeOptions(&stroke, svgpath.Identity)
	assert.Nil(t, opts.Dash.Dash)
}

func newTree() *svgtree.Tree {
	tree := svgtree.New(svgtree.Svg{Size: svgpath.Size{W: 100, H: 100}})
	fill := svgtree.DefaultFill()
	stroke := svgtree.DefaultStroke()

	// never drawn directly
	clip := tree.AppendToDefs(&svgtree.ClipPath{ID: "c", Transform: svgpath.Identity})
	clip.Append(&svgtree.Path{Visibility: svgtree.Visible, Fill: &fill, Data: square()})

	g := tree.Append(&svgtree.Group{Transform: svgpath.Identity.Translate(10, 0), Opacity: 0.5})
	g.Append(&svgtree.Path{Visibility: svgtree.Visible, Fill: &fill, Stroke: &stroke, Data: square()})
	g.Append(&svgtree.Path{Visibility: svgtree.Hidden, Fill: &fill, Data: square()})
	return tree
}

func TestDraw(t *testing.T) {
	d := newRecordDriver()
	Draw(newTree(), d)
	want := "[M10,0 L20,0 L20,10 L10,10 Z]"
	assert.Equal(t, []string{"fill " + want, "stroke " + want}, d.log)
	// group opacity is applied to the paths
	assert.Equal(t, 0.5, d.filler.opacity)
	assert.Equal(t, 0.5, d.stroker.opacity)
	assert.Equal(t, fixed.Int26_6(64), d.stroker.options.LineWidth)
}

func TestDrawGroups(t *testing.T) {
	d := groupDriver{newRecordDriver()}
	Draw(newTree(), d)
	assert.Len(t, d.log, 4)
	assert.Equal(t, "begin 0.5", d.log[0])
	assert.Equal(t, "end", d.log[3])
	// opacity is left to the driver
	assert.Equal(t, 1., d.filler.opacity)
}
