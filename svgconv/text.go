package svgconv

import (
	"strings"

	"github.com/benoitkugler/svgtree/svgdom"
	"github.com/benoitkugler/svgtree/svgtree"
)

// textBuilder splits a text element into chunks, starting
// at each absolutely positioned element, and spans of
// uniformly styled characters.
type textBuilder struct {
	c    *converter
	st   state
	text *svgdom.Node

	chunks []svgtree.TextChunk
	// lastSpace is true when the previous character is a collapsible space
	lastSpace bool
}

// convertText appends the text element, without any layout:
// only the style of the characters is resolved.
func (c *converter) convertText(n *svgdom.Node, st state, parent *svgtree.Node) {
	b := textBuilder{c: c, st: st, text: n, lastSpace: true}
	b.newChunk(n)
	b.collect(n)
	chunks := b.finish()
	if len(chunks) == 0 {
		return
	}
	parent.Append(&svgtree.Text{ID: st.elementID(n), Chunks: chunks})
}

func (b *textBuilder) newChunk(elt *svgdom.Node) {
	var chunk svgtree.TextChunk
	if xs, ok := b.st.lengthList(elt, svgdom.AttrX); ok && len(xs) != 0 {
		chunk.X = &xs[0]
	}
	if ys, ok := b.st.lengthList(elt, svgdom.AttrY); ok && len(ys) != 0 {
		chunk.Y = &ys[0]
	}
	chunk.Anchor = keyword(elt, svgdom.AttrTextAnchor, svgtree.ParseTextAnchor, svgtree.TextAnchorStart)
	b.chunks = append(b.chunks, chunk)
}

func (b *textBuilder) collect(elt *svgdom.Node) {
	for _, child := range elt.Children() {
		if child.IsText() {
			b.addSpan(elt, child.Text)
			continue
		}
		if !child.IsTag(svgdom.ElementTSpan) {
			continue
		}
		if s, _ := child.Str(svgdom.AttrDisplay); s == "none" {
			continue
		}
		if child.Has(svgdom.AttrX) || child.Has(svgdom.AttrY) {
			b.newChunk(child)
		}
		b.collect(child)
	}
}

// addSpan appends the characters s, styled by elt.
func (b *textBuilder) addSpan(elt *svgdom.Node, s string) {
	if mode, _ := resolveStr(elt, svgdom.AttrSpace); mode == "preserve" {
		s = preserveSpaces(s)
		b.lastSpace = strings.HasSuffix(s, " ")
	} else {
		s = collapseSpaces(s, &b.lastSpace)
	}
	if s == "" {
		return
	}
	chunk := &b.chunks[len(b.chunks)-1]
	chunk.Spans = append(chunk.Spans, svgtree.TextSpan{
		Visibility: keyword(elt, svgdom.AttrVisibility, svgtree.ParseVisibility, svgtree.Visible),
		Fill:       b.c.resolveFill(elt, true, b.st),
		Stroke:     b.c.resolveStroke(elt, true, b.st),
		Font:       b.st.resolveFont(elt),
		Decoration: b.c.resolveDecoration(b.text, elt, b.st),
		Text:       s,
	})
}

// finish trims the trailing space of the text and drops the empty chunks.
func (b *textBuilder) finish() []svgtree.TextChunk {
	if mode, _ := resolveStr(b.text, svgdom.AttrSpace); mode != "preserve" {
	trim:
		for i := len(b.chunks) - 1; i >= 0; i-- {
			spans := b.chunks[i].Spans
			for j := len(spans) - 1; j >= 0; j-- {
				spans[j].Text = strings.TrimSuffix(spans[j].Text, " ")
				if spans[j].Text != "" {
					b.chunks[i].Spans = spans
					break trim
				}
				spans = spans[:j]
			}
			b.chunks[i].Spans = spans
		}
	}
	var out []svgtree.TextChunk
	for _, chunk := range b.chunks {
		if len(chunk.Spans) != 0 {
			out = append(out, chunk)
		}
	}
	return out
}

// collapseSpaces removes the new lines, converts tabs to spaces
// and merges consecutive spaces, also across spans.
func collapseSpaces(s string, lastSpace *bool) string {
	var out strings.Builder
	for _, r := range s {
		switch r {
		case '\n', '\r':
			continue
		case '\t':
			r = ' '
		}
		if r == ' ' {
			if *lastSpace {
				continue
			}
			*lastSpace = true
		} else {
			*lastSpace = false
		}
		out.WriteRune(r)
	}
	return out.String()
}

// preserveSpaces converts new lines and tabs to spaces.
func preserveSpaces(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t':
			return ' '
		}
		return r
	}, s)
}
