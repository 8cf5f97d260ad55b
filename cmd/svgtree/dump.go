package main

import (
	"fmt"
	"strings"

	"github.com/go-text/typesetting/font"
	"gopkg.in/yaml.v3"

	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

// dumpNode is the YAML representation of a render tree node.
type dumpNode struct {
	Kind      string            `yaml:"kind"`
	ID        string            `yaml:"id,omitempty"`
	Transform string            `yaml:"transform,omitempty"`
	Attrs     map[string]string `yaml:"attrs,omitempty"`
	Children  []dumpNode        `yaml:"children,omitempty"`
}

func dumpTree(tree *svgtree.Tree) ([]byte, error) {
	return yaml.Marshal(newDumpNode(tree.Root()))
}

func newDumpNode(n *svgtree.Node) dumpNode {
	out := dumpNode{ID: n.ID(), Attrs: map[string]string{}}
	if ts := n.Transform(); !ts.IsIdentity() {
		out.Transform = ts.String()
	}
	set := func(key, value string) {
		if value != "" {
			out.Attrs[key] = value
		}
	}
	switch k := n.Kind().(type) {
	case *svgtree.Svg:
		out.Kind = "svg"
		set("size", fmt.Sprintf("%gx%g", k.Size.W, k.Size.H))
		set("viewBox", rectString(k.ViewBox.Rect))
	case *svgtree.Defs:
		out.Kind = "defs"
	case *svgtree.Group:
		out.Kind = "g"
		if k.Opacity != 1 {
			set("opacity", fmt.Sprintf("%g", k.Opacity))
		}
		set("clip-path", k.ClipPath)
		set("mask", k.Mask)
		set("filter", k.Filter)
	case *svgtree.Path:
		out.Kind = "path"
		if k.Visibility != svgtree.Visible {
			set("visibility", k.Visibility.String())
		}
		if k.Fill != nil {
			set("fill", fmt.Sprintf("%s %g %s", k.Fill.Paint, k.Fill.Opacity, k.Fill.Rule))
		}
		if k.Stroke != nil {
			set("stroke", fmt.Sprintf("%s %g width:%g", k.Stroke.Paint, k.Stroke.Opacity, k.Stroke.Width))
		}
		set("d", k.Data.ToSVGPath())
	case *svgtree.Image:
		out.Kind = "image"
		set("format", k.Format.String())
		set("viewBox", rectString(k.ViewBox.Rect))
		if k.Data.Path != "" {
			set("href", k.Data.Path)
		} else {
			set("data", fmt.Sprintf("%d bytes", len(k.Data.Raw)))
		}
	case *svgtree.Text:
		out.Kind = "text"
		var text strings.Builder
		for _, chunk := range k.Chunks {
			for _, span := range chunk.Spans {
				text.WriteString(span.Text)
			}
		}
		set("text", text.String())
		set("chunks", fmt.Sprint(len(k.Chunks)))
		if len(k.Chunks) != 0 && len(k.Chunks[0].Spans) != 0 {
			set("font", fontString(k.Chunks[0].Spans[0].Font))
		}
	case *svgtree.ClipPath:
		out.Kind = "clipPath"
		set("units", k.Units.String())
		set("clip-path", k.ClipPath)
	case *svgtree.Mask:
		out.Kind = "mask"
		set("units", k.Units.String())
		set("rect", rectString(k.Rect))
		set("mask", k.Mask)
	case *svgtree.LinearGradient:
		out.Kind = "linearGradient"
		set("vector", fmt.Sprintf("%g %g %g %g", k.X1, k.Y1, k.X2, k.Y2))
		dumpGradient(&k.BaseGradient, set)
	case *svgtree.RadialGradient:
		out.Kind = "radialGradient"
		set("circle", fmt.Sprintf("%g %g %g", k.Cx, k.Cy, k.R))
		set("focal", fmt.Sprintf("%g %g", k.Fx, k.Fy))
		dumpGradient(&k.BaseGradient, set)
	case *svgtree.Pattern:
		out.Kind = "pattern"
		set("units", k.Units.String())
		set("rect", rectString(k.Rect))
		if !k.Transform.IsIdentity() {
			set("patternTransform", k.Transform.String())
		}
	case *svgtree.Filter:
		out.Kind = "filter"
		set("rect", rectString(k.Rect))
		for i, p := range k.Primitives {
			set(fmt.Sprintf("primitive%d", i), p.String())
		}
	}
	if len(out.Attrs) == 0 {
		out.Attrs = nil
	}
	for _, child := range n.Children() {
		out.Children = append(out.Children, newDumpNode(child))
	}
	return out
}

func dumpGradient(g *svgtree.BaseGradient, set func(key, value string)) {
	set("units", g.Units.String())
	set("spread", g.Spread.String())
	if !g.Transform.IsIdentity() {
		set("gradientTransform", g.Transform.String())
	}
	stops := make([]string, len(g.Stops))
	for i, s := range g.Stops {
		stops[i] = fmt.Sprintf("%g:%s:%g", s.Offset, s.Color, s.Opacity)
	}
	set("stops", strings.Join(stops, " "))
}

// fontString describes the face a backend would select for f.
func fontString(f svgtree.Font) string {
	aspect := f.Aspect()
	style := "normal"
	if aspect.Style == font.StyleItalic {
		style = "italic"
	}
	return fmt.Sprintf("%s %g %s weight:%g stretch:%g", f.Family, f.Size, style, aspect.Weight, aspect.Stretch)
}

func rectString(r svgpath.Rect) string {
	return fmt.Sprintf("%g %g %g %g", r.X, r.Y, r.W, r.H)
}
