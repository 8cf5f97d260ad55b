package svgdom

import (
	"sort"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// declaration is a CSS property, already mapped to an attribute.
type declaration struct {
	id    AttributeID
	value string
}

// toDeclarations keeps the presentation attributes, expanding
// the marker shorthand.
func toDeclarations(decls []*css.Declaration) []declaration {
	var out []declaration
	for _, d := range decls {
		prop := strings.TrimSpace(d.Property)
		if prop == "marker" {
			out = append(out,
				declaration{AttrMarkerStart, d.Value},
				declaration{AttrMarkerMid, d.Value},
				declaration{AttrMarkerEnd, d.Value})
			continue
		}
		id := ParseAttributeID(prop)
		if !id.IsPresentation() {
			continue
		}
		out = append(out, declaration{id, d.Value})
	}
	return out
}

func applyDeclarations(values map[AttributeID]string, decls []declaration) {
	for _, d := range decls {
		values[d.id] = d.value
	}
}

// selector is a compound selector made of an optional type
// and any number of class and id conditions.
// Combinators, attributes and pseudo-classes are not supported.
type selector struct {
	tag     string // empty for the universal selector
	ids     []string
	classes []string
}

// specificity as (ids, classes, types), packed for sorting
func (s selector) specificity() int {
	sp := len(s.ids)*10000 + len(s.classes)*100
	if s.tag != "" {
		sp++
	}
	return sp
}

func (s selector) match(n *Node, classes []string) bool {
	if s.tag != "" && s.tag != n.TagName {
		return false
	}
	for _, id := range s.ids {
		if n.ID != id {
			return false
		}
	}
	for _, cl := range s.classes {
		found := false
		for _, c := range classes {
			if c == cl {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// parseSelector returns false for unsupported selectors.
func parseSelector(s string) (selector, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " >+~[:") {
		return selector{}, false
	}
	var out selector
	// split before each '.' or '#'
	start := 0
	flush := func(end int) bool {
		part := s[start:end]
		switch {
		case len(part) == 1 && (part[0] == '.' || part[0] == '#'):
			return false
		case part[0] == '.':
			out.classes = append(out.classes, part[1:])
		case part[0] == '#':
			out.ids = append(out.ids, part[1:])
		case start == 0:
			if part != "*" {
				out.tag = part
			}
		}
		return true
	}
	for i := 1; i < len(s); i++ {
		if s[i] == '.' || s[i] == '#' {
			if !flush(i) {
				return selector{}, false
			}
			start = i
		}
	}
	if !flush(len(s)) {
		return selector{}, false
	}
	return out, true
}

type cssRule struct {
	selector     selector
	declarations []declaration
}

// parseStylesheets returns the supported rules, sorted by
// increasing priority (specificity, then document order).
func parseStylesheets(sheets []string) []cssRule {
	var rules []cssRule
	for _, sheet := range sheets {
		ss, err := parser.Parse(sheet)
		if err != nil {
			Logger().Warn("invalid stylesheet", "error", err)
			continue
		}
		for _, r := range ss.Rules {
			if r.Kind == css.AtRule {
				continue // not supported
			}
			decls := toDeclarations(r.Declarations)
			if len(decls) == 0 {
				continue
			}
			for _, sel := range r.Selectors {
				s, ok := parseSelector(sel)
				if !ok {
					Logger().Warn("unsupported CSS selector", "selector", sel)
					continue
				}
				rules = append(rules, cssRule{selector: s, declarations: decls})
			}
		}
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].selector.specificity() < rules[j].selector.specificity()
	})
	return rules
}
