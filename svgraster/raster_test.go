package svgraster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benoitkugler/svgtree/svgconv"
	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

// rasterx works with 1/64 precision, and strokes are approximated
const delta = 0.1

func assertRect(t *testing.T, want, got svgpath.Rect) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, "X")
	assert.InDelta(t, want.Y, got.Y, delta, "Y")
	assert.InDelta(t, want.W, got.W, delta, "W")
	assert.InDelta(t, want.H, got.H, delta, "H")
}

func line() svgpath.Path {
	return svgpath.Path{svgpath.MoveTo{X: 0, Y: 5}, svgpath.LineTo{X: 10, Y: 5}}
}

func TestFillBBox(t *testing.T) {
	fill := svgtree.DefaultFill()
	var data svgpath.Path
	data.AddRect(1, 2, 11, 22)
	p := &svgtree.Path{Visibility: svgtree.Visible, Fill: &fill, Data: data}

	m := NewBBoxMeasurer()
	r, ok := m.PathBBox(p, svgpath.Identity)
	require.True(t, ok)
	assertRect(t, svgpath.Rect{X: 1, Y: 2, W: 10, H: 20}, r)

	r, ok = m.PathBBox(p, svgpath.Identity.Translate(10, 0).Scale(2, 1))
	require.True(t, ok)
	assertRect(t, svgpath.Rect{X: 12, Y: 2, W: 20, H: 20}, r)

	// a curve is measured on its outline, not on its control points
	data = nil
	data.AddEllipse(0, 0, 10, 5)
	p.Data = data
	r, ok = m.PathBBox(p, svgpath.Identity)
	require.True(t, ok)
	assertRect(t, svgpath.Rect{X: -10, Y: -5, W: 20, H: 10}, r)
}

func TestStrokeBBox(t *testing.T) {
	stroke := svgtree.DefaultStroke()
	stroke.Width = 2
	p := &svgtree.Path{Visibility: svgtree.Visible, Stroke: &stroke, Data: line()}

	m := NewBBoxMeasurer()
	r, ok := m.PathBBox(p, svgpath.Identity)
	require.True(t, ok)
	assertRect(t, svgpath.Rect{X: 0, Y: 4, W: 10, H: 2}, r)

	stroke.Linecap = svgtree.LineCapSquare
	r, ok = m.PathBBox(p, svgpath.Identity)
	require.True(t, ok)
	assertRect(t, svgpath.Rect{X: -1, Y: 4, W: 12, H: 2}, r)

	// the stroke width follows the transform
	r, ok = m.PathBBox(p, svgpath.Identity.Scale(2, 2))
	require.True(t, ok)
	assertRect(t, svgpath.Rect{X: -2, Y: 8, W: 24, H: 4}, r)
}

func TestFillAndStroke(t *testing.T) {
	fill := svgtree.DefaultFill()
	stroke := svgtree.DefaultStroke()
	stroke.Width = 4
	stroke.Linejoin = svgtree.LineJoinBevel
	var data svgpath.Path
	data.AddRect(0, 0, 10, 10)
	p := &svgtree.Path{Visibility: svgtree.Visible, Fill: &fill, Stroke: &stroke, Data: data}

	r, ok := NewBBoxMeasurer().PathBBox(p, svgpath.Identity)
	require.True(t, ok)
	// bevel joins do not reach the corners of the outer square
	assertRect(t, svgpath.Rect{X: -2, Y: -2, W: 14, H: 14}, r)
}

func TestEmptyBBox(t *testing.T) {
	fill := svgtree.DefaultFill()
	m := NewBBoxMeasurer()
	_, ok := m.PathBBox(&svgtree.Path{Visibility: svgtree.Visible, Fill: &fill}, svgpath.Identity)
	assert.False(t, ok)

	// neither fill nor stroke
	_, ok = m.PathBBox(&svgtree.Path{Visibility: svgtree.Visible, Data: line()}, svgpath.Identity)
	assert.False(t, ok)

	// a flat fill still has an extent
	r, ok := m.PathBBox(&svgtree.Path{Visibility: svgtree.Visible, Fill: &fill, Data: line()}, svgpath.Identity)
	require.True(t, ok)
	assertRect(t, svgpath.Rect{X: 0, Y: 5, W: 10}, r)
}

func TestNodeBBox(t *testing.T) {
	opts := svgconv.DefaultOptions()
	opts.KeepNamedGroups = true
	tree, err := svgconv.ConvertString(`<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
		<g id="g" transform="translate(10 10)">
			<rect width="10" height="10"/>
			<rect x="20" width="5" height="5"/>
		</g>
		<rect id="r" x="50" y="50" width="10" height="10" fill="none" stroke="black" stroke-width="2"/>
	</svg>`, &opts)
	require.NoError(t, err)

	g := tree.NodeByID("g")
	require.NotNil(t, g)
	r, ok := NodeBBox(tree, g)
	require.True(t, ok)
	assertRect(t, svgpath.Rect{X: 10, Y: 10, W: 25, H: 10}, r)

	r, ok = NodeBBox(tree, tree.NodeByID("r"))
	require.True(t, ok)
	assertRect(t, svgpath.Rect{X: 49, Y: 49, W: 12, H: 12}, r)

	// the whole canvas
	r, ok = NodeBBox(tree, tree.Root())
	require.True(t, ok)
	assertRect(t, svgpath.Rect{X: 10, Y: 10, W: 51, H: 51}, r)
}
