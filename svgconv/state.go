package svgconv

import (
	"fmt"

	"github.com/benoitkugler/svgtree/svgdom"
	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

// state is the resolution context, passed by value: entering
// a marker, a use or a clip path copies it, so that
// siblings are not affected.
type state struct {
	// currentRoot is the marker being expanded, if any.
	// It is compared by identity to stop recursive markers.
	currentRoot *svgdom.Node
	// parentClipPath is set when converting the content of a clipPath
	parentClipPath *svgdom.Node
	// markers is the chain of markers being expanded, innermost first
	markers *nodeChain
	// uses is the chain of use elements being expanded
	uses *nodeChain

	// viewBox is the reference for percentages
	viewBox svgpath.Rect
	// size is the size of the canvas
	size svgpath.Size

	opts *Options
}

// nodeChain is a stack of source elements, linked
// from the innermost.
type nodeChain struct {
	node   *svgdom.Node
	parent *nodeChain
}

func (f *nodeChain) push(n *svgdom.Node) *nodeChain {
	return &nodeChain{node: n, parent: f}
}

func (f *nodeChain) contains(n *svgdom.Node) bool {
	for ; f != nil; f = f.parent {
		if f.node == n {
			return true
		}
	}
	return false
}

// elementID returns the id to use in the output tree: nodes
// generated by markers and use elements are anonymous,
// to avoid duplicates.
func (st state) elementID(n *svgdom.Node) string {
	if st.currentRoot != nil || st.uses != nil {
		return ""
	}
	return n.ID
}

// converter holds what is shared by the whole build.
// The defs are only appended to.
type converter struct {
	doc  *svgdom.Document
	tree *svgtree.Tree

	// ids generated for the clip paths of markers, by (element, marker)
	markerClips map[[2]*svgdom.Node]string
	// every generated id
	generated map[string]bool
	// clip paths and masks being converted, to stop reference cycles
	pending map[*svgdom.Node]bool
}

func newConverter(doc *svgdom.Document, tree *svgtree.Tree) *converter {
	return &converter{
		doc:         doc,
		tree:        tree,
		markerClips: make(map[[2]*svgdom.Node]string),
		generated:   make(map[string]bool),
		pending:     make(map[*svgdom.Node]bool),
	}
}

// genID returns the first id of the form <prefix><n> used neither
// by the document nor by the tree.
func (c *converter) genID(prefix string) string {
	for i := 1; ; i++ {
		id := fmt.Sprintf("%s%d", prefix, i)
		if c.generated[id] || c.doc.HasID(id) || c.tree.DefsByID(id) != nil {
			continue
		}
		c.generated[id] = true
		return id
	}
}

// markerClipID returns the id of the clip path of `marker` used
// on `shape`, and true if it was already generated.
func (c *converter) markerClipID(shape, marker *svgdom.Node) (string, bool) {
	key := [2]*svgdom.Node{shape, marker}
	if id, ok := c.markerClips[key]; ok {
		return id, true
	}
	id := c.genID("clipPath")
	c.markerClips[key] = id
	return id, false
}
