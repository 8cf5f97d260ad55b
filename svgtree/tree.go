// Package svgtree defines the render tree: a fully resolved
// scene graph, where every length is in user units, every shape is
// a path and every style property has a concrete value.
//
// References between nodes (clip paths, masks, filters, paint servers)
// are stored by id, and point into the defs of the tree.
package svgtree

import (
	"fmt"
	"iter"

	"github.com/benoitkugler/svgtree/svgpath"
)

// NodeKind is implemented by the payload types of the tree nodes:
// *Svg, *Defs, *Group, *Path, *Image, *Text, *ClipPath, *Mask,
// *LinearGradient, *RadialGradient, *Pattern and *Filter.
type NodeKind interface {
	nodeID() string
}

func (*Svg) nodeID() string              { return "" }
func (*Defs) nodeID() string             { return "" }
func (k *Group) nodeID() string          { return k.ID }
func (k *Path) nodeID() string           { return k.ID }
func (k *Image) nodeID() string          { return k.ID }
func (k *Text) nodeID() string           { return k.ID }
func (k *ClipPath) nodeID() string       { return k.ID }
func (k *Mask) nodeID() string           { return k.ID }
func (k *LinearGradient) nodeID() string { return k.ID }
func (k *RadialGradient) nodeID() string { return k.ID }
func (k *Pattern) nodeID() string        { return k.ID }
func (k *Filter) nodeID() string         { return k.ID }

// Svg is the kind of the root node.
type Svg struct {
	Size    svgpath.Size
	ViewBox ViewBox
}

// Defs is the kind of the definitions container, always
// the first child of the root.
type Defs struct{}

type Group struct {
	ID        string
	Transform svgpath.Matrix2D
	Opacity   float64
	// ids of definitions, empty when not used
	ClipPath string
	Mask     string
	Filter   string
}

// Path is a shape. Paths, images and texts have no transform:
// it is carried by an enclosing group.
type Path struct {
	ID         string
	Visibility Visibility
	Fill       *Fill   // nil means no fill
	Stroke     *Stroke // nil means no stroke
	Data       svgpath.Path
}

type Image struct {
	ID         string
	Visibility Visibility
	// ViewBox is the image viewport, with the aspect ratio
	// used to fit the image into it.
	ViewBox ViewBox
	Data    ImageData
	Format  ImageFormat
}

// TextSpan is a run of characters sharing the same style.
type TextSpan struct {
	Visibility Visibility
	Fill       *Fill
	Stroke     *Stroke
	Font       Font
	Decoration TextDecoration
	Text       string
}

// TextChunk starts at an absolute position, given by the x and y
// attributes. A nil coordinate continues after the previous chunk.
type TextChunk struct {
	X, Y   *float64
	Anchor TextAnchor
	Spans  []TextSpan
}

type Text struct {
	ID     string
	Chunks []TextChunk
}

// ClipPath is a definition; its children are the clipping shapes.
type ClipPath struct {
	ID        string
	Units     Units
	Transform svgpath.Matrix2D
	ClipPath  string // nested clip path, may be empty
}

// Mask is a definition; its children are the mask content.
type Mask struct {
	ID           string
	Units        Units
	ContentUnits Units
	Rect         svgpath.Rect
	Mask         string // nested mask, may be empty
}

type Stop struct {
	Offset  float64 // in [0, 1]
	Color   Color
	Opacity float64
}

// BaseGradient holds the fields shared by linear and radial gradients.
type BaseGradient struct {
	Units     Units
	Transform svgpath.Matrix2D
	Spread    SpreadMethod
	Stops     []Stop // at least two
}

type LinearGradient struct {
	ID             string
	X1, Y1, X2, Y2 float64
	BaseGradient
}

type RadialGradient struct {
	ID        string
	Cx, Cy, R float64
	Fx, Fy    float64
	BaseGradient
}

// Pattern is a definition; its children are the tile content.
type Pattern struct {
	ID           string
	Units        Units
	ContentUnits Units
	Transform    svgpath.Matrix2D
	Rect         svgpath.Rect
	ViewBox      *ViewBox
}

// Filter is a definition holding the filter graph, in
// evaluation order.
type Filter struct {
	ID             string
	Units          Units
	PrimitiveUnits Units
	Rect           svgpath.Rect
	Primitives     []FilterPrimitive
}

// Node is a node of the render tree. It owns its children.
type Node struct {
	kind     NodeKind
	parent   *Node
	children []*Node
}

func (n *Node) Kind() NodeKind { return n.kind }

// ID returns the id of the node, which may be empty.
func (n *Node) ID() string { return n.kind.nodeID() }

// Transform returns the transform of the node, or the identity
// for kinds without one.
func (n *Node) Transform() svgpath.Matrix2D {
	switch k := n.kind.(type) {
	case *Group:
		return k.Transform
	case *ClipPath:
		return k.Transform
	}
	return svgpath.Identity
}

// AbsTransform returns the composition of the transforms
// of all the ancestors of n, and of n itself.
func (n *Node) AbsTransform() svgpath.Matrix2D {
	var chain []*Node
	for p := n; p != nil; p = p.parent {
		chain = append(chain, p)
	}
	m := svgpath.Identity
	for i := len(chain) - 1; i >= 0; i-- {
		m = m.Mult(chain[i].Transform())
	}
	return m
}

func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) Children() []*Node { return n.children }
func (n *Node) HasChildren() bool { return len(n.children) != 0 }

// Append adds a new last child and returns it.
func (n *Node) Append(kind NodeKind) *Node {
	child := &Node{kind: kind, parent: n}
	n.children = append(n.children, child)
	return child
}

// Detach removes n from its parent. It is a no-op for the root.
func (n *Node) Detach() {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// Descendants iterates over n and its descendants, depth first.
func (n *Node) Descendants() iter.Seq[*Node] {
	return func(yield func(*Node) bool) { n.walk(yield) }
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

func (n *Node) String() string {
	if id := n.ID(); id != "" {
		return fmt.Sprintf("%T#%s", n.kind, id)
	}
	return fmt.Sprintf("%T", n.kind)
}

// Tree is a render tree. Use New to create one.
type Tree struct {
	root *Node
}

// New returns a tree with the given root metadata and an empty defs node.
func New(svg Svg) *Tree {
	root := &Node{kind: &svg}
	root.Append(&Defs{})
	return &Tree{root: root}
}

// Root returns the root node, whose kind is *Svg.
func (t *Tree) Root() *Node { return t.root }

// Svg returns the root metadata.
func (t *Tree) Svg() *Svg { return t.root.kind.(*Svg) }

// Defs returns the node holding the definitions.
func (t *Tree) Defs() *Node { return t.root.children[0] }

// Append adds a top level node.
func (t *Tree) Append(kind NodeKind) *Node { return t.root.Append(kind) }

// AppendToDefs adds a definition.
func (t *Tree) AppendToDefs(kind NodeKind) *Node { return t.Defs().Append(kind) }

// IsEmpty is true when the root has no renderable child.
func (t *Tree) IsEmpty() bool { return len(t.root.children) <= 1 }

// NodeByID returns the first node with the given id,
// or nil. Definitions are included.
func (t *Tree) NodeByID(id string) *Node {
	if id == "" {
		return nil
	}
	for n := range t.root.Descendants() {
		if n.ID() == id {
			return n
		}
	}
	return nil
}

// DefsByID only looks at the definitions.
func (t *Tree) DefsByID(id string) *Node {
	if id == "" {
		return nil
	}
	for _, n := range t.Defs().children {
		if n.ID() == id {
			return n
		}
	}
	return nil
}

// Descendants iterates over every node of the tree, definitions included.
func (t *Tree) Descendants() iter.Seq[*Node] { return t.root.Descendants() }

// BBoxCalculator measures the extent of a path drawn
// with the given absolute transform, including its stroke.
type BBoxCalculator interface {
	PathBBox(p *Path, ts svgpath.Matrix2D) (svgpath.Rect, bool)
}

// NodeBBox returns the bounding box of the node and its descendants,
// in canvas coordinates. Text is ignored, since it is not laid out.
// It returns false when nothing has a valid extent.
func (t *Tree) NodeBBox(n *Node, calc BBoxCalculator) (svgpath.Rect, bool) {
	var (
		out   svgpath.Rect
		found bool
	)
	add := func(r svgpath.Rect) {
		if found {
			out = out.Union(r)
		} else {
			out, found = r, true
		}
	}
	var walk func(c *Node)
	walk = func(c *Node) {
		switch k := c.kind.(type) {
		case *Defs, *ClipPath, *Mask, *Pattern, *LinearGradient, *RadialGradient, *Filter:
			return // not rendered directly
		case *Path:
			if r, ok := calc.PathBBox(k, c.AbsTransform()); ok {
				add(r)
			}
		case *Image:
			outline := k.ViewBox.Rect.ToPath().Transform(c.AbsTransform())
			if r, ok := outline.BoundingBox(); ok {
				add(r)
			}
		}
		for _, child := range c.children {
			walk(child)
		}
	}
	walk(n)
	return out, found
}
