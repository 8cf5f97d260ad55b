// Package svgdom loads SVG documents into an attributed tree, where
// the CSS cascade is applied, every attribute value is classified
// (length, color, link, ...) and every reference is resolved.
// It is the input of the svgconv package.
package svgdom

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html/charset"
)

// ErrorMode is the for setting how the parser reacts to unsupported elements.
type ErrorMode uint8

const (
	// IgnoreErrorMode skips unsupported elements silently.
	IgnoreErrorMode ErrorMode = iota
	// WarnErrorMode logs a warning about unsupported elements.
	WarnErrorMode
	// StrictErrorMode returns an error on unsupported elements.
	StrictErrorMode
)

var (
	// ErrNoRootElement is returned when the document has no element, or when
	// its first element is not <svg>.
	ErrNoRootElement = errors.New("missing svg root element")

	errUnsupportedElement = errors.New("unsupported svg element")
)

// elements silently ignored, even in strict mode
var descriptiveElements = map[string]bool{
	"title": true, "desc": true, "metadata": true,
}

// rawAttrs stores the declared values of one element, before
// the cascade.
type rawAttrs struct {
	values map[AttributeID]string
	class  []string
	style  string
}

// docCursor is used while parsing SVG files
type docCursor struct {
	errorMode ErrorMode

	doc    *Document
	stack  []*Node
	raws   map[*Node]*rawAttrs
	sheets []string // content of the <style> elements
}

// Parse reads an SVG document from the given io.Reader.
// Only unsupported elements are subject to errMode: malformed
// attribute values are always skipped with a warning.
func Parse(stream io.Reader, errMode ErrorMode) (*Document, error) {
	c := &docCursor{
		errorMode: errMode,
		doc:       &Document{ids: make(map[string]*Node)},
		raws:      make(map[*Node]*rawAttrs),
	}
	decoder := xml.NewDecoder(stream)
	decoder.CharsetReader = charset.NewReaderLabel
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("invalid svg document: %w", err)
		}
		// Inspect the type of the XML token
		switch se := t.(type) {
		case xml.StartElement:
			if err = c.readStartElement(se); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if len(c.stack) > 0 {
				c.stack = c.stack[:len(c.stack)-1]
			}
		case xml.CharData:
			c.readCharData(string(se))
		}
	}
	if c.doc.root == nil {
		return nil, ErrNoRootElement
	}

	c.cascade()
	c.resolveLinks()
	c.instantiateUses()
	return c.doc, nil
}

// ParseFile reads the SVG document from the named file.
func ParseFile(filename string, errMode ErrorMode) (*Document, error) {
	fin, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fin.Close()
	return Parse(fin, errMode)
}

func (c *docCursor) current() *Node {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1]
}

func (c *docCursor) readStartElement(se xml.StartElement) error {
	parent := c.current()
	if parent == nil && c.doc.root != nil {
		// content after the root element is not valid XML anyway
		return nil
	}
	node := &Node{Tag: ParseElementID(se.Name.Local), TagName: se.Name.Local}
	if parent == nil {
		if node.Tag != ElementSvg {
			return ErrNoRootElement
		}
		c.doc.root = node
	} else {
		parent.appendChild(node)
	}
	c.stack = append(c.stack, node)

	if node.Tag == ElementUnknown && !descriptiveElements[se.Name.Local] {
		switch c.errorMode {
		case StrictErrorMode:
			return fmt.Errorf("%w: %s", errUnsupportedElement, se.Name.Local)
		case WarnErrorMode:
			Logger().Warn("cannot process svg element", "element", se.Name.Local)
		}
	}

	raw := &rawAttrs{values: make(map[AttributeID]string)}
	for _, attr := range se.Attr {
		switch attr.Name.Local {
		case "id":
			node.ID = attr.Value
		case "class":
			raw.class = strings.Fields(attr.Value)
		case "style":
			raw.style = attr.Value
		default:
			if id := ParseAttributeID(attr.Name.Local); id != AttrUnknown {
				raw.values[id] = attr.Value
			}
		}
	}
	c.raws[node] = raw

	if node.ID != "" {
		if _, has := c.doc.ids[node.ID]; has {
			Logger().Warn("duplicated element id", "id", node.ID)
		} else {
			c.doc.ids[node.ID] = node
		}
	}
	return nil
}

func (c *docCursor) readCharData(s string) {
	node := c.current()
	if node == nil {
		return
	}
	switch node.Tag {
	case ElementStyle:
		c.sheets = append(c.sheets, s)
	case ElementText, ElementTSpan:
		node.appendChild(&Node{Text: s})
	}
}

// cascade applies, by increasing priority, the presentation attributes,
// the stylesheets and the style attribute, and then classifies the values.
// Nodes are processed parent first, so that "inherit" and currentColor
// can use the already resolved values of the ancestors.
func (c *docCursor) cascade() {
	rules := parseStylesheets(c.sheets)
	for node := range c.doc.root.Descendants() {
		raw := c.raws[node]
		if raw == nil { // text node
			continue
		}
		for _, rule := range rules {
			if rule.selector.match(node, raw.class) {
				applyDeclarations(raw.values, rule.declarations)
			}
		}
		if raw.style != "" {
			decls, err := parser.ParseDeclarations(raw.style)
			if err != nil {
				Logger().Warn("invalid style attribute", "id", node.ID, "error", err)
			}
			applyDeclarations(raw.values, toDeclarations(decls))
		}
		c.classify(node, raw.values)
	}
}

func (c *docCursor) classify(node *Node, values map[AttributeID]string) {
	ids := make([]AttributeID, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	// color must be known to resolve currentColor
	sort.Slice(ids, func(i, j int) bool {
		if ids[i] == AttrColor || ids[j] == AttrColor {
			return ids[i] == AttrColor && ids[j] != AttrColor
		}
		return ids[i] < ids[j]
	})
	for _, id := range ids {
		raw := strings.TrimSpace(values[id])
		if raw == "inherit" {
			if v, ok := inheritedValue(node, id); ok {
				node.setAttribute(id, v)
			}
			continue
		}
		v, err := parseValue(node, id, raw)
		if err != nil {
			Logger().Warn("invalid attribute value", "element", node.TagName, "id", node.ID,
				"attribute", id.String(), "value", raw, "error", err)
			continue
		}
		node.setAttribute(id, v)
	}
}

// inheritedValue returns the value explicitly given by an ancestor
// (only the parent for non-inheritable attributes).
func inheritedValue(node *Node, id AttributeID) (Value, bool) {
	parent := node.parent
	if parent == nil {
		return nil, false
	}
	holder := parent.FindAttribute(id)
	if holder == nil {
		return nil, false
	}
	return holder.Attribute(id)
}

// resolveLinks binds every link to its target element.
// Unresolved references are removed (with a fallback for paints),
// except for filters: an element with an invalid filter is not rendered,
// so the converter needs to see it.
func (c *docCursor) resolveLinks() {
	for node := range c.doc.root.Descendants() {
		var toRemove []AttributeID
		for i, attr := range node.attrs {
			switch v := attr.Value.(type) {
			case Link:
				v.Node = c.doc.ids[v.ID]
				if v.Node == nil && attr.ID != AttrFilter {
					Logger().Warn("unresolved link", "id", node.ID, "attribute", attr.ID.String(), "target", v.ID)
					toRemove = append(toRemove, attr.ID)
					continue
				}
				node.attrs[i].Value = v
			case Paint:
				if v.Kind != PaintLink {
					continue
				}
				target := c.doc.ids[v.Link.ID]
				if target != nil && target.Tag.IsPaintServer() {
					v.Link.Node = target
				} else {
					Logger().Warn("invalid paint server", "id", node.ID, "attribute", attr.ID.String(), "target", v.Link.ID)
					if v.Fallback != nil {
						v = *v.Fallback
					} else {
						v = Paint{Kind: PaintNone}
					}
				}
				node.attrs[i].Value = v
			}
		}
		for _, id := range toRemove {
			node.removeAttribute(id)
		}
	}
}
