package svgconv

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"unicode/utf8"

	"github.com/h2non/filetype"

	"github.com/benoitkugler/svgtree/svgdom"
	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

// Convert builds the render tree of a loaded document.
// A nil opts uses DefaultOptions. The only error
// is an invalid root size.
func Convert(doc *svgdom.Document, opts *Options) (*svgtree.Tree, error) {
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	o.Normalize()

	root := doc.Root()
	size, viewBox, err := rootSize(root, &o)
	if err != nil {
		return nil, err
	}
	tree := svgtree.New(svgtree.Svg{Size: size, ViewBox: viewBox})
	c := newConverter(doc, tree)
	st := state{viewBox: viewBox.Rect, size: size, opts: &o}
	c.convertElement(root, st, tree.Root())
	removeEmptyGroups(tree.Root())
	return tree, nil
}

// ConvertData loads an SVG (or gzip compressed SVGZ) document and
// builds its render tree.
func ConvertData(data []byte, opts *Options) (*svgtree.Tree, error) {
	if filetype.Is(data, "gz") {
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, &Error{Code: ParsingFailed, Err: err}
		}
		data, err = io.ReadAll(r)
		if err != nil {
			return nil, &Error{Code: ParsingFailed, Err: err}
		}
	}
	doc, err := svgdom.Parse(bytes.NewReader(data), svgdom.WarnErrorMode)
	if err != nil {
		return nil, wrapLoadError(err)
	}
	return Convert(doc, opts)
}

// ConvertString is like ConvertData, for a text document.
func ConvertString(text string, opts *Options) (*svgtree.Tree, error) {
	if !utf8.ValidString(text) {
		return nil, &Error{Code: NotAnUTF8Str}
	}
	return ConvertData([]byte(text), opts)
}

// ConvertFile reads the named SVG or SVGZ file and builds its render tree.
func ConvertFile(filename string, opts *Options) (*svgtree.Tree, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, wrapLoadError(err)
	}
	return ConvertData(data, opts)
}

// rootSize resolves the size of the canvas. Percentages are relative
// to the viewBox, or to 100x100 without one.
func rootSize(root *svgdom.Node, opts *Options) (svgpath.Size, svgtree.ViewBox, error) {
	vb, hasViewBox := root.ViewBox()
	st := state{viewBox: svgpath.Rect{W: 100, H: 100}, opts: opts}
	if hasViewBox {
		st.viewBox = vb.Rect
	}
	w, h := st.viewportSize(root)
	size := svgpath.Size{W: w, H: h}
	if !size.IsValid() {
		return svgpath.Size{}, svgtree.ViewBox{}, &Error{Code: InvalidSize, Err: errInvalidSize}
	}
	if !hasViewBox {
		vb = svgtree.ViewBox{Rect: svgpath.Rect{W: w, H: h}, Aspect: root.AspectRatio()}
	}
	if !vb.Rect.IsValid() {
		return svgpath.Size{}, svgtree.ViewBox{}, &Error{Code: InvalidSize, Err: errors.New("invalid viewBox")}
	}
	return size, vb, nil
}

// isVisibleElement filters the elements hidden by display, a
// degenerated transform or a failed systemLanguage condition.
func (st state) isVisibleElement(n *svgdom.Node) bool {
	if s, _ := n.Str(svgdom.AttrDisplay); s == "none" {
		return false
	}
	return isValidTransform(n.Transform(svgdom.AttrTransform)) && st.matchLanguage(n)
}

// convertElement dispatches on the element kind. Non rendered
// elements (definitions, unknown tags) are ignored.
func (c *converter) convertElement(n *svgdom.Node, st state, parent *svgtree.Node) {
	if n.IsText() {
		return
	}
	switch {
	case n.Tag.IsGraphic(), n.Tag == svgdom.ElementG, n.Tag == svgdom.ElementA,
		n.Tag == svgdom.ElementSwitch, n.Tag == svgdom.ElementSvg:
	default:
		return
	}
	if !st.isVisibleElement(n) {
		return
	}

	switch {
	case n.Tag == svgdom.ElementUse:
		c.convertUse(n, st, parent)
		return
	case n.Tag == svgdom.ElementSwitch:
		c.convertSwitch(n, st, parent)
		return
	case n.Tag == svgdom.ElementSvg && n.Parent() != nil:
		c.convertNestedSvg(n, st, parent)
		return
	}

	g, kind := c.convertGroup(n, st, false, parent)
	switch kind {
	case groupIgnore:
		return
	case groupSkip:
		g = parent
	}

	switch {
	case n.Tag.IsShape():
		c.convertShape(n, st, g)
	case n.Tag == svgdom.ElementImage:
		c.convertImage(n, st, g)
	case n.Tag == svgdom.ElementText:
		c.convertText(n, st, g)
	default: // g, a, root svg
		c.convertChildren(n, st, g)
	}
}

func (c *converter) convertChildren(n *svgdom.Node, st state, parent *svgtree.Node) {
	for _, child := range n.Children() {
		c.convertElement(child, st, parent)
	}
}

type groupKind uint8

const (
	// groupCreate means a new group has been appended.
	groupCreate groupKind = iota
	// groupSkip means the content goes directly into the parent.
	groupSkip
	// groupIgnore means the element must not be rendered, because
	// of an invalid clip path, mask or filter.
	groupIgnore
)

// groupID returns the id kept for groups, only for g and use
// elements when named groups are preserved.
func (st state) groupID(n *svgdom.Node) string {
	if !st.opts.KeepNamedGroups || !(n.Tag == svgdom.ElementG || n.Tag == svgdom.ElementUse) {
		return ""
	}
	return st.elementID(n)
}

// convertGroup creates the group carrying the opacity, clip path, mask,
// filter and transform of n, when at least one is set (or if force is true).
func (c *converter) convertGroup(n *svgdom.Node, st state, force bool, parent *svgtree.Node) (*svgtree.Node, groupKind) {
	opacity := 1.
	if st.parentClipPath == nil {
		opacity = resolveOpacity(n, svgdom.AttrOpacity)
	}

	var clipPath string
	if link := n.Link(svgdom.AttrClipPath); link != nil {
		id, ok := c.convertClipPath(link, st)
		if !ok {
			return nil, groupIgnore
		}
		clipPath = id
	}

	var mask string
	if st.parentClipPath == nil {
		if link := n.Link(svgdom.AttrMask); link != nil {
			id, ok := c.convertMask(link, st)
			if !ok {
				return nil, groupIgnore
			}
			mask = id
		}
	}

	filter, ok := c.elementFilter(n, st)
	if !ok {
		return nil, groupIgnore
	}

	ts := n.Transform(svgdom.AttrTransform)
	id := st.groupID(n)
	required := opacity != 1 || clipPath != "" || mask != "" || filter != "" ||
		!ts.IsIdentity() || id != "" || force
	if !required {
		return parent, groupSkip
	}
	g := parent.Append(&svgtree.Group{
		ID:        id,
		Transform: ts,
		Opacity:   opacity,
		ClipPath:  clipPath,
		Mask:      mask,
		Filter:    filter,
	})
	return g, groupCreate
}

// removeEmptyGroups drops the groups without children, except
// the ones with a filter, which may still produce content.
func removeEmptyGroups(n *svgtree.Node) {
	for _, child := range append([]*svgtree.Node(nil), n.Children()...) {
		g, ok := child.Kind().(*svgtree.Group)
		if !ok {
			continue
		}
		removeEmptyGroups(child)
		if !child.HasChildren() && g.Filter == "" {
			child.Detach()
		}
	}
}
