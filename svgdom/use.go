package svgdom

import "slices"

// maxInstancedNodes bounds the number of nodes created by use
// elements, which may grow exponentially with nested references.
const maxInstancedNodes = 1_000_000

// Instance returns the copy of the element referenced by a use
// element, attached as its last child so that it inherits the
// properties of the use element. It is nil for other elements and
// for invalid or recursive references.
func (n *Node) Instance() *Node { return n.instance }

// isAncestorOrSelf reports whether n is an ancestor of other, or other itself.
func (n *Node) isAncestorOrSelf(other *Node) bool {
	for a := range other.Ancestors() {
		if a == n {
			return true
		}
	}
	return false
}

// deepCopy copies n and its descendants. Ids are kept but the
// copies are not registered in the document.
func (n *Node) deepCopy(count *int) *Node {
	*count++
	out := &Node{
		Tag:     n.Tag,
		TagName: n.TagName,
		ID:      n.ID,
		Text:    n.Text,
		attrs:   append([]Attribute(nil), n.attrs...),
	}
	for _, c := range n.children {
		if c == n.instance {
			// instances are rebuilt, since they depend on the context
			continue
		}
		out.appendChild(c.deepCopy(count))
	}
	return out
}

// instantiateUses expands every use element of the document.
func (c *docCursor) instantiateUses() {
	var uses []*Node
	for node := range c.doc.root.Descendants() {
		if node.IsTag(ElementUse) {
			uses = append(uses, node)
		}
	}
	count := 0
	for _, use := range uses {
		c.instantiate(use, nil, &count)
	}
}

// instantiate copies the target of use. targets is the chain of
// elements being copied, used to detect cycles through copies.
func (c *docCursor) instantiate(use *Node, targets []*Node, count *int) {
	target := use.Link(AttrHref)
	if target == nil || use.instance != nil {
		return
	}
	if target.isAncestorOrSelf(use) || slices.Contains(targets, target) {
		Logger().Warn("recursive use element", "id", use.ID, "target", target.ID)
		return
	}
	if *count > maxInstancedNodes {
		Logger().Warn("too many nodes created by use elements", "id", use.ID)
		return
	}
	instance := target.deepCopy(count)
	use.appendChild(instance)
	use.instance = instance

	var nested []*Node
	for node := range instance.Descendants() {
		if node.IsTag(ElementUse) {
			nested = append(nested, node)
		}
	}
	targets = append(targets, target)
	for _, n := range nested {
		c.instantiate(n, targets, count)
	}
}
