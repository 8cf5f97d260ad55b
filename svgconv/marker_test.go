package svgconv

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

func parsePath(t *testing.T, d string) svgpath.Path {
	t.Helper()
	p, err := svgpath.ParsePathData(d)
	require.NoError(t, err)
	return p
}

func TestVertexAngle(t *testing.T) {
	for _, test := range []struct {
		d    string
		idx  int
		want float64
	}{
		{"M0 0 L10 0 L10 10", 0, 0},
		{"M0 0 L10 0 L10 10", 1, 45},
		{"M0 0 L10 0 L10 10", 2, 90},
		{"M0 0 L10 0 L10 10 L0 10 Z", 3, 225},
		{"M0 0 L10 0 L10 10 L0 10 Z", 4, 270},
		{"M0 0 L0 10", 0, 90},
		{"M0 0 L0 -10", 0, 270},
		// a curve leaving along its first control point
		{"M0 0 C0 10 10 10 10 0", 0, 90},
		// the first control point coincides with the start
		{"M0 0 C0 0 10 10 10 10", 0, 45},
		// incoming tangent of the last curve
		{"M0 0 C0 10 10 10 10 0", 1, 270},
		// degenerated cases
		{"M0 0 M10 10", 0, 0},
		{"M0 0 L0 0", 0, 0},
		{"M0 0 L10 0", 5, 0},
	} {
		got := vertexAngle(parsePath(t, test.d), test.idx)
		assert.InDelta(t, test.want, got, 1e-9, "%s at %d", test.d, test.idx)
	}

	assert.Equal(t, 0., vertexAngle(svgpath.Path{svgpath.Close{}, svgpath.LineTo{X: 1}}, 0))
	assert.Equal(t, 0., vertexAngle(nil, 0))
}

func TestBisectorAngle(t *testing.T) {
	// a U-turn chooses the bisector on the left
	assert.InDelta(t, 90., bisectorAngle(0, 0, 10, 0, 10, 0, 0, 0), 1e-9)
	// results are normalized
	assert.InDelta(t, 315., bisectorAngle(0, 0, 10, -10, 0, 0, 10, -10), 1e-9)
	// zero length vectors use a null direction
	assert.InDelta(t, 0., bisectorAngle(1, 1, 1, 1, 1, 1, 1, 1), 1e-9)
}

func TestDrawMarkers(t *testing.T) {
	type vertex struct {
		x, y float64
		idx  int
	}
	collect := func(d string, kind markerKind) []vertex {
		var out []vertex
		var path svgpath.Path
		if d != "" {
			path = parsePath(t, d)
		}
		drawMarkers(path, kind, func(x, y float64, idx int) {
			out = append(out, vertex{x, y, idx})
		})
		return out
	}

	closed := "M0 0 L10 0 L10 10 Z"
	assert.Equal(t, []vertex{{0, 0, 0}}, collect(closed, markerStart))
	assert.Equal(t, []vertex{{10, 0, 1}, {10, 10, 2}}, collect(closed, markerMiddle))
	// a closing segment ends at the start of its subpath
	assert.Equal(t, []vertex{{0, 0, 3}}, collect(closed, markerEnd))

	twoSubpaths := "M0 0 L10 0 M20 0 L30 0 Z"
	assert.Equal(t, []vertex{{10, 0, 1}, {20, 0, 2}, {30, 0, 3}}, collect(twoSubpaths, markerMiddle))
	assert.Equal(t, []vertex{{20, 0, 4}}, collect(twoSubpaths, markerEnd))

	assert.Empty(t, collect("", markerStart))
	assert.Empty(t, collect("M0 0", markerEnd))
}

func TestMarkerOrientation(t *testing.T) {
	for _, test := range []struct {
		orient        string
		angle         float64
		auto, reverse bool
	}{
		{"", 0, false, false},
		{"auto", 0, true, false},
		{"auto-start-reverse", 0, true, true},
		{"45", 45, false, false},
		{"50grad", 45, false, false},
		{"3.141592653589793rad", 180, false, false},
	} {
		attr := ""
		if test.orient != "" {
			attr = `orient="` + test.orient + `"`
		}
		doc := parseDoc(t, `<svg xmlns="http://www.w3.org/2000/svg"><marker id="m" `+attr+`/></svg>`)
		angle, auto, reverse := markerOrientation(doc.NodeByID("m"))
		assert.InDelta(t, test.angle, angle, 1e-9, test.orient)
		assert.Equal(t, test.auto, auto, test.orient)
		assert.Equal(t, test.reverse, reverse, test.orient)
	}
}

// markerGroups returns the groups created for the marker instances.
func markerGroups(tree *svgtree.Tree) []*svgtree.Group {
	var out []*svgtree.Group
	for _, child := range tree.Root().Children()[1:] {
		if _, ok := child.Kind().(*svgtree.Group); !ok {
			continue
		}
		for _, m := range child.Children() {
			out = append(out, m.Kind().(*svgtree.Group))
		}
	}
	return out
}

func TestMarkerPlacement(t *testing.T) {
	tree := convertString(t, `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
		<marker id="m" markerWidth="4" markerHeight="4" refX="1" refY="2" orient="auto">
			<rect width="4" height="4"/>
		</marker>
		<path d="M10 0 L20 0" stroke="black" stroke-width="2" marker-end="url(#m)"/>
	</svg>`, nil)

	groups := markerGroups(tree)
	require.Len(t, groups, 1)
	g := groups[0]
	// translate(20, 0) scale(2) translate(-1, -2)
	assert.True(t, g.Transform.FuzzyEqual(svgpath.Matrix2D{A: 2, D: 2, E: 18, F: -4}), g.Transform.String())
	x, y := g.Transform.Transform(1, 2)
	assert.InDelta(t, 20., x, 1e-9)
	assert.InDelta(t, 0., y, 1e-9)

	// hidden overflow by default
	require.NotEmpty(t, g.ClipPath)
	clip := tree.DefsByID(g.ClipPath)
	require.NotNil(t, clip)
	require.Len(t, clip.Children(), 1)
	bbox, ok := clip.Children()[0].Kind().(*svgtree.Path).Data.BoundingBox()
	assert.True(t, ok)
	assert.Equal(t, svgpath.Rect{W: 4, H: 4}, bbox)
}

func TestMarkerRotationAndViewBox(t *testing.T) {
	tree := convertString(t, `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
		<marker id="m" viewBox="0 0 10 10" markerWidth="5" markerHeight="5" markerUnits="userSpaceOnUse"
			orient="auto" overflow="visible">
			<rect width="10" height="10"/>
		</marker>
		<polyline points="0 0 0 10" fill="none" stroke="black" marker-start="url(#m)"/>
	</svg>`, nil)

	groups := markerGroups(tree)
	require.Len(t, groups, 1)
	g := groups[0]
	assert.Empty(t, g.ClipPath)
	// rotate(90) scale(0.5)
	want := svgpath.Identity.RotateDeg(90).Scale(0.5, 0.5)
	assert.True(t, g.Transform.FuzzyEqual(want), g.Transform.String())
}

func TestMarkerStrokeScale(t *testing.T) {
	const src = `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
		<marker id="m"><rect width="3" height="3"/></marker>
		<line x2="10" stroke="black" stroke-width="%s" marker-start="url(#m)"/>
	</svg>`

	// a zero stroke width hides the markers
	tree := convertString(t, fmt.Sprintf(src, "0"), nil)
	assert.Empty(t, markerGroups(tree))

	tree = convertString(t, fmt.Sprintf(src, "3"), nil)
	groups := markerGroups(tree)
	require.Len(t, groups, 1)
	sx, sy := groups[0].Transform.GetScale()
	assert.InDelta(t, 3., sx, 1e-9)
	assert.InDelta(t, 3., sy, 1e-9)

	// user space markers ignore the stroke width
	tree = convertString(t, `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
		<marker id="m" markerUnits="userSpaceOnUse"><rect width="3" height="3"/></marker>
		<line x2="10" stroke="black" stroke-width="7" marker-start="url(#m)"/>
	</svg>`, nil)
	groups = markerGroups(tree)
	require.Len(t, groups, 1)
	sx, sy = groups[0].Transform.GetScale()
	assert.InDelta(t, 1., sx, 1e-9)
	assert.InDelta(t, 1., sy, 1e-9)
}

func TestMarkerViewBoxAndStrokeWidth(t *testing.T) {
	tree := convertString(t, `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
		<marker id="m" viewBox="0 0 2 2" markerWidth="2" markerHeight="2" refX="1" refY="1" orient="auto">
			<rect width="2" height="2"/>
		</marker>
		<path d="M0 0 L10 0" stroke="black" stroke-width="3" marker-end="url(#m)"/>
	</svg>`, nil)

	groups := markerGroups(tree)
	require.Len(t, groups, 1)
	g := groups[0]
	// translate(10, 0) scale(3) translate(-1, -1)
	assert.True(t, g.Transform.FuzzyEqual(svgpath.Matrix2D{A: 3, D: 3, E: 7, F: -3}), g.Transform.String())
	x, y := g.Transform.Transform(1, 1)
	assert.InDelta(t, 10., x, 1e-9)
	assert.InDelta(t, 0., y, 1e-9)
}

func TestMarkerApplicability(t *testing.T) {
	tree := convertString(t, `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
		<marker id="m"><rect width="3" height="3"/></marker>
		<clipPath id="c"><path d="M0 0 L10 0 L10 10" marker-mid="url(#m)"/></clipPath>
		<g marker-mid="url(#m)" stroke="black" clip-path="url(#c)">
			<rect width="10" height="10"/>
		</g>
	</svg>`, nil)
	// neither on rectangles nor inside clip paths
	for n := range tree.Descendants() {
		if g, ok := n.Kind().(*svgtree.Group); ok {
			assert.Equal(t, "c", g.ClipPath)
		}
	}
	clip := tree.DefsByID("c")
	require.NotNil(t, clip)
	assert.Len(t, clip.Children(), 1)
}

func TestMarkerInheritance(t *testing.T) {
	tree := convertString(t, `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
		<marker id="m"><rect width="3" height="3"/></marker>
		<g marker-start="url(#m)" stroke="black">
			<path d="M0 0 L10 0"/>
		</g>
	</svg>`, nil)
	assert.Len(t, markerGroups(tree), 1)

	// a nearer link to another element does not hide the marker
	tree = convertString(t, `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
		<marker id="m"><rect width="3" height="3"/></marker>
		<rect id="r" width="3" height="3"/>
		<g marker-end="url(#m)" stroke="black">
			<path d="M0 0 L10 0" marker-end="url(#r)"/>
		</g>
	</svg>`, nil)
	groups := markerGroups(tree)
	require.Len(t, groups, 1)
	x, y := groups[0].Transform.Transform(0, 0)
	assert.InDelta(t, 10., x, 1e-9)
	assert.InDelta(t, 0., y, 1e-9)
}

func TestMarkerRecursion(t *testing.T) {
	tree := convertString(t, `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
		<marker id="m1" overflow="visible">
			<path id="inner" d="M0 0 L1 1" stroke="black" marker-start="url(#m2)"/>
		</marker>
		<marker id="m2" overflow="visible">
			<path d="M0 0 L1 1" stroke="black" marker-start="url(#m1)"/>
		</marker>
		<marker id="self" overflow="visible">
			<path d="M0 0 L1 1" stroke="black" marker-end="url(#self)"/>
		</marker>
		<path d="M0 0 L10 0" stroke="black" marker-start="url(#m1)"/>
		<path d="M0 0 L10 0" stroke="black" marker-start="url(#self)"/>
	</svg>`, nil)

	var paths int
	for n := range tree.Descendants() {
		if _, ok := n.Kind().(*svgtree.Path); ok {
			paths++
		}
	}
	// first path: itself, m1, m2 (m1 is not expanded again)
	// second path: itself, self
	assert.Equal(t, 5, paths)
	// content of markers is anonymous
	assert.Nil(t, tree.NodeByID("inner"))
}

func TestMarkerClipIDs(t *testing.T) {
	const src = `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
		<rect id="clipPath1" width="1" height="1"/>
		<marker id="m"><rect width="3" height="3"/></marker>
		<path d="M0 0 L10 0 L20 0" stroke="black" marker-start="url(#m)" marker-mid="url(#m)"/>
		<path d="M0 0 L10 0" stroke="black" marker-start="url(#m)"/>
	</svg>`
	doc := parseDoc(t, src)

	var first []string
	for range 2 {
		tree, err := Convert(doc, nil)
		require.NoError(t, err)
		var ids []string
		for _, def := range tree.Defs().Children() {
			ids = append(ids, def.ID())
		}
		// one clip path per element, shared by its markers,
		// avoiding the ids of the document
		assert.Equal(t, []string{"clipPath2", "clipPath3"}, ids)
		if first == nil {
			first = ids
		} else {
			// a second build restarts from scratch
			assert.Equal(t, first, ids)
		}
	}
}
