package svgdom

import (
	"iter"

	"github.com/benoitkugler/svgtree/svgpath"
)

// Node is an element (or a text chunk) of the input document.
// Attributes are already cascaded and classified: a Node
// is never modified once the loader returns.
type Node struct {
	Tag     ElementID
	TagName string // the raw local name, also set for unknown elements
	ID      string

	// Text is the character data of a text node, for which
	// Tag is ElementUnknown and TagName is empty.
	Text string

	attrs    []Attribute
	parent   *Node
	children []*Node
	instance *Node // for use elements
}

// IsText is true for character data nodes, found in text elements.
func (n *Node) IsText() bool { return n.TagName == "" }

// IsTag reports whether the node is an element of the given kind.
func (n *Node) IsTag(tag ElementID) bool { return !n.IsText() && n.Tag == tag }

// Parent returns nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the direct children, in document order.
func (n *Node) Children() []*Node { return n.children }

// FirstChild returns nil if n has no children.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// Ancestors iterates from n (included) up to the root.
func (n *Node) Ancestors() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for node := n; node != nil; node = node.parent {
			if !yield(node) {
				return
			}
		}
	}
}

// Descendants iterates over n and all its descendants, depth first.
func (n *Node) Descendants() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.walk(yield)
	}
}

func (n *Node) walk(yield func(*Node) bool) bool {
	if !yield(n) {
		return false
	}
	for _, c := range n.children {
		if !c.walk(yield) {
			return false
		}
	}
	return true
}

// Attributes returns the attributes set on this node (not inherited ones).
func (n *Node) Attributes() []Attribute { return n.attrs }

// Attribute returns the value set on the node itself, without inheritance.
func (n *Node) Attribute(id AttributeID) (Value, bool) {
	for _, a := range n.attrs {
		if a.ID == id {
			return a.Value, true
		}
	}
	return nil, false
}

// Has reports whether the attribute is set on the node.
func (n *Node) Has(id AttributeID) bool {
	_, ok := n.Attribute(id)
	return ok
}

// FindAttribute returns the nearest node, starting at n,
// which has the attribute set. For non inheritable attributes, only
// n is considered.
func (n *Node) FindAttribute(id AttributeID) *Node {
	if !id.Inheritable() {
		if n.Has(id) {
			return n
		}
		return nil
	}
	for node := range n.Ancestors() {
		if node.Has(id) {
			return node
		}
	}
	return nil
}

func (n *Node) setAttribute(id AttributeID, v Value) {
	for i, a := range n.attrs {
		if a.ID == id {
			n.attrs[i].Value = v
			return
		}
	}
	n.attrs = append(n.attrs, Attribute{ID: id, Value: v})
}

func (n *Node) removeAttribute(id AttributeID) {
	for i, a := range n.attrs {
		if a.ID == id {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return
		}
	}
}

func (n *Node) appendChild(c *Node) {
	c.parent = n
	n.children = append(n.children, c)
}

// typed accessors, returning false when the attribute is missing
// or has another kind

func (n *Node) Length(id AttributeID) (Length, bool) {
	v, _ := n.Attribute(id)
	switch v := v.(type) {
	case Length:
		return v, true
	case Number:
		return Length{Num: float64(v)}, true
	}
	return Length{}, false
}

func (n *Node) Number(id AttributeID) (float64, bool) {
	v, _ := n.Attribute(id)
	switch v := v.(type) {
	case Number:
		return float64(v), true
	case Length:
		if v.Unit == UnitNone {
			return v.Num, true
		}
	}
	return 0, false
}

func (n *Node) Str(id AttributeID) (string, bool) {
	v, _ := n.Attribute(id)
	s, ok := v.(String)
	return string(s), ok
}

func (n *Node) Color(id AttributeID) (Color, bool) {
	v, _ := n.Attribute(id)
	c, ok := v.(Color)
	return c, ok
}

func (n *Node) Paint(id AttributeID) (Paint, bool) {
	v, _ := n.Attribute(id)
	p, ok := v.(Paint)
	return p, ok
}

// Link returns the resolved target of a link attribute.
func (n *Node) Link(id AttributeID) *Node {
	v, _ := n.Attribute(id)
	if l, ok := v.(Link); ok {
		return l.Node
	}
	return nil
}

// Transform returns the identity matrix when the attribute is not set.
func (n *Node) Transform(id AttributeID) svgpath.Matrix2D {
	v, _ := n.Attribute(id)
	if m, ok := v.(Transform); ok {
		return svgpath.Matrix2D(m)
	}
	return svgpath.Identity
}

// ViewBox returns the viewBox attribute, with the preserveAspectRatio.
func (n *Node) ViewBox() (svgpath.ViewBox, bool) {
	v, _ := n.Attribute(AttrViewBox)
	vb, ok := v.(ViewBox)
	if !ok {
		return svgpath.ViewBox{}, false
	}
	out := svgpath.ViewBox{Rect: svgpath.Rect(vb), Aspect: n.AspectRatio()}
	return out, true
}

// AspectRatio returns the default xMidYMid meet when not set.
func (n *Node) AspectRatio() svgpath.AspectRatio {
	v, _ := n.Attribute(AttrPreserveAspectRatio)
	if a, ok := v.(AspectRatio); ok {
		return svgpath.AspectRatio(a)
	}
	return svgpath.DefaultAspectRatio
}

// Document is the attributed tree produced by the loader.
type Document struct {
	root *Node
	ids  map[string]*Node
}

// Root returns the root svg element.
func (d *Document) Root() *Node { return d.root }

// NodeByID returns nil when no element has the given id.
func (d *Document) NodeByID(id string) *Node { return d.ids[id] }

// HasID reports whether an element of the document uses the id.
func (d *Document) HasID(id string) bool {
	_, ok := d.ids[id]
	return ok
}

// Descendants iterates over every node of the document.
func (d *Document) Descendants() iter.Seq[*Node] { return d.root.Descendants() }
