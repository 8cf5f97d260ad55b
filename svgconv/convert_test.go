package svgconv

import (
	"bytes"
	"compress/gzip"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benoitkugler/svgtree/svgdom"
	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

func parseDoc(t *testing.T, s string) *svgdom.Document {
	t.Helper()
	doc, err := svgdom.Parse(strings.NewReader(s), svgdom.WarnErrorMode)
	require.NoError(t, err)
	return doc
}

func convertString(t *testing.T, s string, opts *Options) *svgtree.Tree {
	t.Helper()
	tree, err := ConvertString(s, opts)
	require.NoError(t, err)
	return tree
}

// content returns the rendered nodes, skipping the defs.
func content(tree *svgtree.Tree) []*svgtree.Node {
	return tree.Root().Children()[1:]
}

func TestErrors(t *testing.T) {
	for _, test := range []struct {
		input string
		code  ErrorCode
	}{
		{`<svg xmlns="http://www.w3.org/2000/svg"><g></svg>`, ParsingFailed},
		{`no markup`, NoRootElement},
		{`<svg xmlns="http://www.w3.org/2000/svg" width="0" height="10"/>`, InvalidSize},
		{`<svg xmlns="http://www.w3.org/2000/svg" width="-5" height="10"/>`, InvalidSize},
		{"<svg>\xff</svg>", NotAnUTF8Str},
	} {
		_, err := ConvertString(test.input, nil)
		var convErr *Error
		require.True(t, errors.As(err, &convErr), test.input)
		assert.Equal(t, test.code, convErr.Code, test.input)
		assert.NotEmpty(t, err.Error())
	}

	_, err := ConvertFile("testdata/missing.svg", nil)
	var convErr *Error
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, FileOpenFailed, convErr.Code)
}

func TestRootSize(t *testing.T) {
	for _, test := range []struct {
		attrs   string
		size    svgpath.Size
		viewBox svgpath.Rect
	}{
		{``, svgpath.Size{W: 100, H: 100}, svgpath.Rect{W: 100, H: 100}},
		{`width="20" height="10"`, svgpath.Size{W: 20, H: 10}, svgpath.Rect{W: 20, H: 10}},
		{`viewBox="0 0 200 100"`, svgpath.Size{W: 200, H: 100}, svgpath.Rect{W: 200, H: 100}},
		{`viewBox="10 10 200 100" width="50%"`, svgpath.Size{W: 100, H: 100}, svgpath.Rect{X: 10, Y: 10, W: 200, H: 100}},
		{`width="1in" height="72pt"`, svgpath.Size{W: 96, H: 96}, svgpath.Rect{W: 96, H: 96}},
	} {
		tree := convertString(t, `<svg xmlns="http://www.w3.org/2000/svg" `+test.attrs+`/>`, nil)
		assert.Equal(t, test.size, tree.Svg().Size, test.attrs)
		assert.Equal(t, test.viewBox, tree.Svg().ViewBox.Rect, test.attrs)
		assert.True(t, tree.IsEmpty())
	}
}

func TestGzipData(t *testing.T) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(`<svg xmlns="http://www.w3.org/2000/svg" width="5" height="5"/>`))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	tree, err := ConvertData(buf.Bytes(), nil)
	require.NoError(t, err)
	assert.Equal(t, svgpath.Size{W: 5, H: 5}, tree.Svg().Size)

	// a corrupted stream
	data := buf.Bytes()[:12]
	_, err = ConvertData(data, nil)
	var convErr *Error
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, ParsingFailed, convErr.Code)
}

func TestDefaults(t *testing.T) {
	const src = `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
		<rect id="r" width="10" height="10"/>
		<rect id="s" width="10" height="10" fill="none" stroke="blue"/>
	</svg>`
	// building twice gives the same result
	for range 2 {
		tree := convertString(t, src, nil)
		r := tree.NodeByID("r").Kind().(*svgtree.Path)
		require.NotNil(t, r.Fill)
		assert.Equal(t, svgtree.DefaultFill(), *r.Fill)
		assert.Nil(t, r.Stroke)
		assert.Equal(t, svgtree.Visible, r.Visibility)

		s := tree.NodeByID("s").Kind().(*svgtree.Path)
		assert.Nil(t, s.Fill)
		require.NotNil(t, s.Stroke)
		want := svgtree.DefaultStroke()
		want.Paint = svgtree.Paint{Color: svgtree.Color{B: 255}}
		assert.Equal(t, want, *s.Stroke)
	}
}

func TestStyleResolution(t *testing.T) {
	tree := convertString(t, `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="100">
		<g fill="red" fill-opacity="0.5" stroke="green" stroke-width="10%" stroke-dasharray="0 0">
			<rect id="r" width="10" height="10" opacity="0.5" stroke-miterlimit="0.5"/>
			<rect id="n" width="10" height="10" fill="none" stroke="none"/>
			<rect id="d" width="10" height="10" stroke-dasharray="1 2 3" stroke-linecap="round"/>
		</g>
	</svg>`, nil)

	rNode := tree.NodeByID("r")
	require.NotNil(t, rNode)
	// opacity is carried by a group
	g, ok := rNode.Parent().Kind().(*svgtree.Group)
	require.True(t, ok)
	assert.Equal(t, 0.5, g.Opacity)

	r := rNode.Kind().(*svgtree.Path)
	assert.Equal(t, svgtree.Color{R: 255}, r.Fill.Paint.Color)
	assert.Equal(t, 0.5, r.Fill.Opacity)
	// 10% of the normalized diagonal
	assert.InDelta(t, 15.811388, r.Stroke.Width, 1e-6)
	assert.Equal(t, 1., r.Stroke.Miterlimit)
	assert.Nil(t, r.Stroke.Dasharray)

	n := tree.NodeByID("n").Kind().(*svgtree.Path)
	assert.Equal(t, svgtree.Hidden, n.Visibility)

	d := tree.NodeByID("d").Kind().(*svgtree.Path)
	// odd lengths are repeated
	assert.Equal(t, []float64{1, 2, 3, 1, 2, 3}, d.Stroke.Dasharray)
	assert.Equal(t, svgtree.LineCapRound, d.Stroke.Linecap)
}

func TestShapes(t *testing.T) {
	tree := convertString(t, `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
		<rect id="rect" x="1" y="2" width="10" height="20" rx="2"/>
		<circle id="circle" cx="50" cy="50" r="10"/>
		<ellipse id="ellipse" cx="50" cy="50" rx="10" ry="5"/>
		<line id="line" x1="1" y1="1" x2="5" y2="5" stroke="black"/>
		<polygon id="polygon" points="0 0 10 0 10 10"/>
		<rect id="empty" width="0" height="10"/>
		<circle id="noRadius" cx="5" cy="5"/>
		<polyline id="single" points="0 0"/>
	</svg>`, nil)

	for _, test := range []struct {
		id   string
		bbox svgpath.Rect
	}{
		{"rect", svgpath.Rect{X: 1, Y: 2, W: 10, H: 20}},
		{"circle", svgpath.Rect{X: 40, Y: 40, W: 20, H: 20}},
		{"ellipse", svgpath.Rect{X: 40, Y: 45, W: 20, H: 10}},
		{"line", svgpath.Rect{X: 1, Y: 1, W: 4, H: 4}},
		{"polygon", svgpath.Rect{W: 10, H: 10}},
	} {
		node := tree.NodeByID(test.id)
		require.NotNil(t, node, test.id)
		bbox, ok := node.Kind().(*svgtree.Path).Data.BoundingBox()
		require.True(t, ok, test.id)
		assert.InDelta(t, test.bbox.X, bbox.X, 1e-6, test.id)
		assert.InDelta(t, test.bbox.Y, bbox.Y, 1e-6, test.id)
		assert.InDelta(t, test.bbox.W, bbox.W, 1e-6, test.id)
		assert.InDelta(t, test.bbox.H, bbox.H, 1e-6, test.id)
	}

	for _, id := range []string{"empty", "noRadius", "single"} {
		assert.Nil(t, tree.NodeByID(id), id)
	}

	polygon := tree.NodeByID("polygon").Kind().(*svgtree.Path)
	_, isClosed := polygon.Data[len(polygon.Data)-1].(svgpath.Close)
	assert.True(t, isClosed)
}

func TestGroups(t *testing.T) {
	const src = `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
		<g id="plain"><rect id="a" width="1" height="1"/></g>
		<g id="moved" transform="translate(5 0)"><rect id="b" width="1" height="1"/></g>
		<g id="hidden" display="none"><rect id="c" width="1" height="1"/></g>
		<g id="flat" transform="scale(0 1)"><rect id="d" width="1" height="1"/></g>
		<g id="empty" opacity="0.5"/>
	</svg>`
	tree := convertString(t, src, nil)

	// plain groups are flattened
	assert.Nil(t, tree.NodeByID("plain"))
	assert.Equal(t, tree.Root(), tree.NodeByID("a").Parent())

	b := tree.NodeByID("b")
	assert.Equal(t, svgpath.Identity.Translate(5, 0), b.Parent().Transform())
	assert.Equal(t, svgpath.Identity.Translate(5, 0), b.AbsTransform())

	assert.Nil(t, tree.NodeByID("c"))
	assert.Nil(t, tree.NodeByID("d"))
	// a, the group of b, and nothing for the empty group
	assert.Len(t, content(tree), 2)

	tree = convertString(t, src, &Options{KeepNamedGroups: true})
	plain := tree.NodeByID("plain")
	require.NotNil(t, plain)
	assert.Equal(t, plain, tree.NodeByID("a").Parent())
	assert.NotNil(t, tree.NodeByID("moved"))
}

func TestClipPathAndMask(t *testing.T) {
	tree := convertString(t, `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
		<clipPath id="c" clipPathUnits="objectBoundingBox">
			<rect width="0.5" height="0.5" stroke="red" fill="blue" opacity="0.5"/>
			<g><rect width="1" height="1"/></g>
		</clipPath>
		<clipPath id="empty"/>
		<clipPath id="self" clip-path="url(#self)"><rect width="1" height="1"/></clipPath>
		<mask id="m"><rect width="100" height="100" fill="white"/></mask>
		<mask id="emptyMask"/>

		<rect id="clipped" width="10" height="10" clip-path="url(#c)"/>
		<rect id="hidden" width="10" height="10" clip-path="url(#empty)"/>
		<rect id="recursive" width="10" height="10" clip-path="url(#self)"/>
		<rect id="masked" width="10" height="10" mask="url(#m)"/>
		<rect id="invalidMask" width="10" height="10" mask="url(#emptyMask)"/>
	</svg>`, nil)

	clipped := tree.NodeByID("clipped")
	require.NotNil(t, clipped)
	g := clipped.Parent().Kind().(*svgtree.Group)
	assert.Equal(t, "c", g.ClipPath)

	clip := tree.DefsByID("c")
	require.NotNil(t, clip)
	assert.Equal(t, svgtree.UnitsObjectBoundingBox, clip.Kind().(*svgtree.ClipPath).Units)
	// g elements are not allowed in clip paths
	require.Len(t, clip.Children(), 1)
	// only the geometry is kept, and opacity is ignored
	shape := clip.Children()[0].Kind().(*svgtree.Path)
	assert.Nil(t, shape.Stroke)
	assert.Equal(t, svgtree.DefaultFill(), *shape.Fill)

	// an empty clip path is valid
	assert.NotNil(t, tree.NodeByID("hidden"))
	assert.Nil(t, tree.NodeByID("recursive"))

	masked := tree.NodeByID("masked")
	require.NotNil(t, masked)
	assert.Equal(t, "m", masked.Parent().Kind().(*svgtree.Group).Mask)
	mask := tree.DefsByID("m").Kind().(*svgtree.Mask)
	assert.Equal(t, svgtree.UnitsObjectBoundingBox, mask.Units)
	assert.InDelta(t, -0.1, mask.Rect.X, 1e-9)
	assert.InDelta(t, 1.2, mask.Rect.W, 1e-9)

	assert.Nil(t, tree.NodeByID("invalidMask"))
}

func TestGradients(t *testing.T) {
	tree := convertString(t, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="100" height="100">
		<linearGradient id="lg" x1="10%">
			<stop offset="0" stop-color="red"/>
			<stop offset="2" stop-color="blue" stop-opacity="0.5"/>
		</linearGradient>
		<linearGradient id="child" xlink:href="#lg" x2="50%" gradientUnits="userSpaceOnUse"/>
		<radialGradient id="single"><stop offset="0.5" stop-color="lime"/></radialGradient>
		<radialGradient id="rg" xlink:href="#lg" fx="20%"/>
		<radialGradient id="none"/>

		<rect id="a" width="10" height="10" fill="url(#lg)"/>
		<rect id="b" width="10" height="10" fill="url(#child)"/>
		<rect id="c" width="10" height="10" fill="url(#single)"/>
		<rect id="d" width="10" height="10" fill="url(#rg)"/>
		<rect id="e" width="10" height="10" fill="url(#none) green"/>
		<line id="f" x2="10" stroke="url(#lg) yellow"/>
	</svg>`, nil)

	a := tree.NodeByID("a").Kind().(*svgtree.Path)
	assert.Equal(t, "lg", a.Fill.Paint.Link)
	lg := tree.DefsByID("lg").Kind().(*svgtree.LinearGradient)
	assert.Equal(t, svgtree.UnitsObjectBoundingBox, lg.Units)
	assert.InDelta(t, 0.1, lg.X1, 1e-9)
	assert.Equal(t, 1., lg.X2)
	require.Len(t, lg.Stops, 2)
	assert.Equal(t, svgtree.Stop{Offset: 0, Color: svgtree.Color{R: 255}, Opacity: 1}, lg.Stops[0])
	assert.Equal(t, svgtree.Stop{Offset: 1, Color: svgtree.Color{B: 255}, Opacity: 0.5}, lg.Stops[1])

	// x1 and the stops are inherited from lg
	child := tree.DefsByID("child").Kind().(*svgtree.LinearGradient)
	assert.Equal(t, svgtree.UnitsUserSpaceOnUse, child.Units)
	assert.InDelta(t, 10., child.X1, 1e-9)
	assert.InDelta(t, 50., child.X2, 1e-9)
	assert.Len(t, child.Stops, 2)

	// a single stop is a plain color
	c := tree.NodeByID("c").Kind().(*svgtree.Path)
	assert.False(t, c.Fill.Paint.IsLink())
	assert.Equal(t, svgtree.Color{G: 255}, c.Fill.Paint.Color)
	assert.Nil(t, tree.DefsByID("single"))

	// coordinates are not shared between gradient types
	rg := tree.DefsByID("rg").Kind().(*svgtree.RadialGradient)
	assert.Equal(t, 0.5, rg.Cx)
	assert.Equal(t, 0.2, rg.Fx)
	assert.Equal(t, 0.5, rg.Fy)
	assert.Len(t, rg.Stops, 2)

	// the fallback color is used without stops
	e := tree.NodeByID("e").Kind().(*svgtree.Path)
	assert.Equal(t, svgtree.Color{G: 128}, e.Fill.Paint.Color)

	// no objectBoundingBox paint servers on a flat shape
	f := tree.NodeByID("f").Kind().(*svgtree.Path)
	assert.Equal(t, svgtree.Color{R: 255, G: 255}, f.Stroke.Paint.Color)
}

func TestPattern(t *testing.T) {
	tree := convertString(t, `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
		<pattern id="p" width="0.5" height="0.5" viewBox="0 0 10 10">
			<rect width="5" height="5" fill="url(#p)"/>
		</pattern>
		<pattern id="invalid" width="0" height="10"><rect width="5" height="5"/></pattern>
		<rect id="a" width="10" height="10" fill="url(#p)"/>
		<rect id="b" width="10" height="10" fill="url(#invalid)"/>
	</svg>`, nil)

	a := tree.NodeByID("a").Kind().(*svgtree.Path)
	assert.Equal(t, "p", a.Fill.Paint.Link)
	node := tree.DefsByID("p")
	p := node.Kind().(*svgtree.Pattern)
	assert.Equal(t, svgtree.UnitsObjectBoundingBox, p.Units)
	assert.Equal(t, svgtree.UnitsUserSpaceOnUse, p.ContentUnits)
	assert.Equal(t, svgpath.Rect{W: 0.5, H: 0.5}, p.Rect)
	require.NotNil(t, p.ViewBox)
	// the self reference inside the content does not recurse
	require.Len(t, node.Children(), 1)
	assert.Equal(t, "p", node.Children()[0].Kind().(*svgtree.Path).Fill.Paint.Link)

	assert.Nil(t, tree.NodeByID("b").Kind().(*svgtree.Path).Fill)
}

func TestFilterGraph(t *testing.T) {
	tree := convertString(t, `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
		<filter id="f">
			<feGaussianBlur stdDeviation="2" result="blur"/>
			<feOffset in="blur" dx="3"/>
			<feBlend in="SourceGraphic" in2="missing" mode="multiply"/>
			<feMerge>
				<feMergeNode in="blur"/>
				<feMergeNode/>
			</feMerge>
			<feUnknown/>
		</filter>
		<filter id="empty"/>
		<rect id="a" width="10" height="10" filter="url(#f)"/>
		<rect id="b" width="10" height="10" filter="url(#missing)"/>
		<rect id="c" width="10" height="10" filter="url(#empty)"/>
		<rect id="d" width="10" height="10" filter="none"/>
	</svg>`, nil)

	a := tree.NodeByID("a")
	require.NotNil(t, a)
	assert.Equal(t, "f", a.Parent().Kind().(*svgtree.Group).Filter)

	f := tree.DefsByID("f").Kind().(*svgtree.Filter)
	assert.Equal(t, svgtree.UnitsObjectBoundingBox, f.Units)
	assert.Equal(t, svgtree.UnitsUserSpaceOnUse, f.PrimitiveUnits)
	assert.Equal(t, svgpath.Rect{X: -0.1, Y: -0.1, W: 1.2, H: 1.2}, f.Rect)
	require.Len(t, f.Primitives, 4)

	blur := f.Primitives[0]
	assert.Equal(t, "blur", blur.Result)
	assert.Equal(t, svgtree.FeGaussianBlur{Input: svgtree.FilterInput{Kind: svgtree.SourceGraphic}, StdDevX: 2, StdDevY: 2}, blur.Kind)
	assert.Equal(t, svgtree.ColorInterpolationLinearRGB, blur.ColorInterpolation)
	assert.Nil(t, blur.X)

	offset := f.Primitives[1]
	assert.Equal(t, "result1", offset.Result)
	assert.Equal(t, svgtree.FeOffset{Input: svgtree.FilterInput{Kind: svgtree.Reference, Name: "blur"}, Dx: 3}, offset.Kind)

	blend := f.Primitives[2].Kind.(svgtree.FeBlend)
	assert.Equal(t, svgtree.SourceGraphic, blend.Input1.Kind)
	// unknown references fall back to the source
	assert.Equal(t, svgtree.SourceGraphic, blend.Input2.Kind)

	merge := f.Primitives[3].Kind.(svgtree.FeMerge)
	assert.Equal(t, []svgtree.FilterInput{
		{Kind: svgtree.Reference, Name: "blur"},
		{Kind: svgtree.Reference, Name: f.Primitives[2].Result},
	}, merge.Sources)

	// invalid filters hide the element
	assert.Nil(t, tree.NodeByID("b"))
	assert.Nil(t, tree.NodeByID("c"))
	assert.Equal(t, tree.Root(), tree.NodeByID("d").Parent())
}

func TestUse(t *testing.T) {
	tree := convertString(t, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="100" height="100">
		<defs>
			<rect id="r" width="10" height="10"/>
			<symbol id="s" viewBox="0 0 10 10"><circle cx="5" cy="5" r="5"/></symbol>
			<g id="loop"><use xlink:href="#loop"/></g>
		</defs>
		<use id="u1" xlink:href="#r" x="5" y="6" fill="red"/>
		<use id="u2" xlink:href="#s" width="20" height="20"/>
		<use id="u3" xlink:href="#loop"/>
	</svg>`, &Options{KeepNamedGroups: true})

	u1 := tree.NodeByID("u1")
	require.NotNil(t, u1)
	assert.Equal(t, svgpath.Identity.Translate(5, 6), u1.Transform())
	require.Len(t, u1.Children(), 1)
	// the copy is anonymous and inherits from the use element
	rect := u1.Children()[0].Kind().(*svgtree.Path)
	assert.Empty(t, rect.ID)
	assert.Equal(t, svgtree.Color{R: 255}, rect.Fill.Paint.Color)
	assert.Nil(t, tree.NodeByID("r"))

	// symbols are clipped to their viewport
	u2 := tree.NodeByID("u2")
	require.NotNil(t, u2)
	clipID := u2.Kind().(*svgtree.Group).ClipPath
	require.NotEmpty(t, clipID)
	clip := tree.DefsByID(clipID)
	require.NotNil(t, clip)
	bbox, _ := clip.Children()[0].Kind().(*svgtree.Path).Data.BoundingBox()
	assert.Equal(t, svgpath.Rect{W: 20, H: 20}, bbox)
	require.Len(t, u2.Children(), 1)
	assert.True(t, u2.Children()[0].Transform().FuzzyEqual(svgpath.Identity.Scale(2, 2)))

	// recursive references are dropped
	assert.Nil(t, tree.NodeByID("u3"))
}

func TestSwitch(t *testing.T) {
	const src = `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
		<switch>
			<rect id="en" systemLanguage="en" width="1" height="1"/>
			<rect id="fr" systemLanguage="de, fr-CA" width="1" height="1"/>
			<rect id="any" width="1" height="1"/>
		</switch>
	</svg>`

	tree := convertString(t, src, &Options{Languages: []string{"fr"}})
	assert.Nil(t, tree.NodeByID("en"))
	assert.NotNil(t, tree.NodeByID("fr"))
	assert.Nil(t, tree.NodeByID("any"))

	tree = convertString(t, src, nil)
	assert.NotNil(t, tree.NodeByID("en"))
	assert.Nil(t, tree.NodeByID("fr"))

	tree = convertString(t, src, &Options{Languages: []string{"it"}})
	assert.NotNil(t, tree.NodeByID("any"))
}

func TestNestedSvg(t *testing.T) {
	tree := convertString(t, `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
		<svg x="10" y="10" width="50" height="50" viewBox="0 0 10 10">
			<rect id="r" width="100%" height="10"/>
		</svg>
		<svg overflow="visible" viewBox="0 0 50 50">
			<rect id="s" width="1" height="1"/>
		</svg>
	</svg>`, nil)

	r := tree.NodeByID("r")
	require.NotNil(t, r)
	// percentages use the new viewport
	bbox, _ := r.Kind().(*svgtree.Path).Data.BoundingBox()
	assert.Equal(t, svgpath.Rect{W: 10, H: 10}, bbox)
	assert.True(t, r.AbsTransform().FuzzyEqual(svgpath.Identity.Translate(10, 10).Scale(5, 5)))
	assert.NotEmpty(t, r.Parent().Parent().Kind().(*svgtree.Group).ClipPath)

	s := tree.NodeByID("s")
	require.NotNil(t, s)
	assert.True(t, s.AbsTransform().FuzzyEqual(svgpath.Identity.Scale(2, 2)))
}

func TestImage(t *testing.T) {
	tree := convertString(t, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="100" height="100">
		<image id="png" width="10" height="20" xlink:href="data:image/png;base64,iVBORw0K
			GgoAAAAN"/>
		<image id="svg" width="10" height="10" xlink:href="data:image/svg+xml,%3Csvg%2F%3E"/>
		<image id="file" width="10" height="10" preserveAspectRatio="none" xlink:href="img/logo.JPG"/>
		<image id="unknown" width="10" height="10" xlink:href="logo.bmp"/>
		<image id="invalid" width="10" height="10" xlink:href="data:image/png;base64,***"/>
		<image id="noSize" width="0" height="10" xlink:href="logo.png"/>
	</svg>`, nil)

	png := tree.NodeByID("png").Kind().(*svgtree.Image)
	assert.Equal(t, svgtree.ImagePNG, png.Format)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0d"), png.Data.Raw)
	assert.Equal(t, svgpath.Rect{W: 10, H: 20}, png.ViewBox.Rect)
	assert.Equal(t, svgpath.DefaultAspectRatio, png.ViewBox.Aspect)

	svg := tree.NodeByID("svg").Kind().(*svgtree.Image)
	assert.Equal(t, svgtree.ImageSVG, svg.Format)
	assert.Equal(t, []byte("<svg/>"), svg.Data.Raw)

	file := tree.NodeByID("file").Kind().(*svgtree.Image)
	assert.Equal(t, svgtree.ImageJPEG, file.Format)
	assert.Equal(t, "img/logo.JPG", file.Data.Path)
	assert.Equal(t, svgpath.AlignNone, file.ViewBox.Aspect.Align)

	for _, id := range []string{"unknown", "invalid", "noSize"} {
		assert.Nil(t, tree.NodeByID(id), id)
	}
}

func TestText(t *testing.T) {
	tree := convertString(t, `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
		<text id="t" x="10 20" y="5" font-size="20" text-anchor="middle">  Hello   <tspan fill="red" font-weight="bold">world </tspan> </text>
		<text id="chunks" font-family="'DejaVu Sans'">A<tspan x="5" text-decoration="underline">B</tspan>C<tspan display="none">D</tspan></text>
		<text id="pre" xml:space="preserve">&#9;a  b </text>
		<text id="blank">   </text>
	</svg>`, nil)

	text := tree.NodeByID("t").Kind().(*svgtree.Text)
	require.Len(t, text.Chunks, 1)
	chunk := text.Chunks[0]
	require.NotNil(t, chunk.X)
	assert.Equal(t, 10., *chunk.X)
	assert.Equal(t, 5., *chunk.Y)
	assert.Equal(t, svgtree.TextAnchorMiddle, chunk.Anchor)
	require.Len(t, chunk.Spans, 2)
	assert.Equal(t, "Hello ", chunk.Spans[0].Text)
	assert.Equal(t, "world", chunk.Spans[1].Text)
	assert.Equal(t, 20., chunk.Spans[0].Font.Size)
	assert.Equal(t, "Times New Roman", chunk.Spans[0].Font.Family)
	assert.Equal(t, svgtree.FontWeightNormal, chunk.Spans[0].Font.Weight)
	assert.Equal(t, svgtree.FontWeightBold, chunk.Spans[1].Font.Weight)
	assert.Equal(t, svgtree.Color{}, chunk.Spans[0].Fill.Paint.Color)
	assert.Equal(t, svgtree.Color{R: 255}, chunk.Spans[1].Fill.Paint.Color)

	text = tree.NodeByID("chunks").Kind().(*svgtree.Text)
	require.Len(t, text.Chunks, 2)
	assert.Nil(t, text.Chunks[0].X)
	assert.Equal(t, "A", text.Chunks[0].Spans[0].Text)
	assert.Equal(t, "DejaVu Sans", text.Chunks[0].Spans[0].Font.Family)
	require.Len(t, text.Chunks[1].Spans, 2)
	assert.Equal(t, 5., *text.Chunks[1].X)
	assert.Equal(t, "B", text.Chunks[1].Spans[0].Text)
	assert.NotNil(t, text.Chunks[1].Spans[0].Decoration.Underline)
	assert.Nil(t, text.Chunks[1].Spans[1].Decoration.Underline)
	assert.Equal(t, "C", text.Chunks[1].Spans[1].Text)

	text = tree.NodeByID("pre").Kind().(*svgtree.Text)
	assert.Equal(t, " a  b ", text.Chunks[0].Spans[0].Text)

	assert.Nil(t, tree.NodeByID("blank"))
}

func TestUnits(t *testing.T) {
	st := state{viewBox: svgpath.Rect{W: 200, H: 100}, opts: &Options{DPI: 96, FontSize: 10}}
	doc := parseDoc(t, `<svg xmlns="http://www.w3.org/2000/svg"><g font-size="2em"><rect id="r"/></g></svg>`)
	r := doc.NodeByID("r")
	for _, test := range []struct {
		l    svgdom.Length
		id   svgdom.AttributeID
		want float64
	}{
		{svgdom.Length{Num: 2}, svgdom.AttrX, 2},
		{svgdom.Length{Num: 1, Unit: svgdom.UnitIn}, svgdom.AttrX, 96},
		{svgdom.Length{Num: 2.54, Unit: svgdom.UnitCm}, svgdom.AttrX, 96},
		{svgdom.Length{Num: 72, Unit: svgdom.UnitPt}, svgdom.AttrX, 96},
		{svgdom.Length{Num: 6, Unit: svgdom.UnitPc}, svgdom.AttrX, 96},
		{svgdom.Length{Num: 1, Unit: svgdom.UnitEm}, svgdom.AttrX, 20},
		{svgdom.Length{Num: 1, Unit: svgdom.UnitEx}, svgdom.AttrX, 10},
		{svgdom.Length{Num: 10, Unit: svgdom.UnitPercent}, svgdom.AttrX, 20},
		{svgdom.Length{Num: 10, Unit: svgdom.UnitPercent}, svgdom.AttrHeight, 10},
		{svgdom.Length{Num: 10, Unit: svgdom.UnitPercent}, svgdom.AttrR, 15.811388300841896},
	} {
		got := st.convertLength(r, test.id, test.l, svgtree.UnitsUserSpaceOnUse)
		assert.InDelta(t, test.want, got, 1e-9, test.l.String())
	}
	assert.Equal(t, 0.1, st.convertLength(r, svgdom.AttrX,
		svgdom.Length{Num: 10, Unit: svgdom.UnitPercent}, svgtree.UnitsObjectBoundingBox))
}
