package svgdom

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/benoitkugler/svgtree/svgpath"
)

var (
	errParamMismatch = errors.New("param mismatch")
	errInvalidColor  = errors.New("invalid color")
	errInvalidLink   = errors.New("invalid link")
)

// parseValue classifies the raw string `v`, for the attribute `id`
// of the element `n`. `n` is used for context dependent attributes
// (like x on text) and to resolve currentColor.
func parseValue(n *Node, id AttributeID, v string) (Value, error) {
	v = strings.TrimSpace(v)
	switch id {
	case AttrFill, AttrStroke:
		return parsePaint(n, v)
	case AttrColor, AttrStopColor, AttrFloodColor:
		if v == "currentColor" {
			return currentColor(n.parent), nil
		}
		return parseColor(v)
	case AttrClipPath, AttrMask, AttrFilter, AttrMarkerStart, AttrMarkerMid, AttrMarkerEnd:
		if v == "none" {
			return None{}, nil
		}
		iri, err := parseFuncIRI(v)
		if err != nil {
			return nil, err
		}
		return Link{ID: iri}, nil
	case AttrHref:
		if n.Tag == ElementImage || (n.Tag == ElementFeImage && !strings.HasPrefix(v, "#")) {
			return String(v), nil
		}
		iri, err := parseIRI(v)
		if err != nil {
			return nil, err
		}
		return Link{ID: iri}, nil
	case AttrOpacity, AttrFillOpacity, AttrStrokeOpacity, AttrStopOpacity, AttrFloodOpacity, AttrOffset:
		f, unit, err := svgpath.ParseNumber(v)
		if err != nil {
			return nil, err
		}
		switch strings.TrimSpace(unit) {
		case "":
		case "%":
			f /= 100
		default:
			return nil, fmt.Errorf("invalid number %q", v)
		}
		return Number(f), nil
	case AttrStrokeMiterlimit, AttrK1, AttrK2, AttrK3, AttrK4:
		f, unit, err := svgpath.ParseNumber(v)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(unit) != "" {
			return nil, fmt.Errorf("invalid number %q", v)
		}
		return Number(f), nil
	case AttrStdDeviation:
		fs, err := svgpath.ParseNumbers(v)
		if err != nil {
			return nil, err
		}
		return NumberList(fs), nil
	case AttrD:
		p, err := svgpath.ParsePathData(v)
		if err != nil {
			// SVG renders the path up to the error
			Logger().Warn("invalid path data", "id", n.ID, "error", err)
		}
		return PathData(p), nil
	case AttrPoints:
		fs, err := svgpath.ParseNumbers(v)
		if err != nil {
			Logger().Warn("invalid points", "id", n.ID, "error", err)
		}
		pts := make(Points, 0, len(fs)/2)
		for i := 0; i+1 < len(fs); i += 2 {
			pts = append(pts, svgpath.Point{X: fs[i], Y: fs[i+1]})
		}
		return pts, nil
	case AttrTransform, AttrGradientTransform, AttrPatternTransform:
		m, err := parseTransform(v)
		if err != nil {
			return nil, err
		}
		return Transform(m), nil
	case AttrViewBox:
		fs, err := svgpath.ParseNumbers(v)
		if err != nil {
			return nil, err
		}
		if len(fs) != 4 {
			return nil, errParamMismatch
		}
		vb := svgpath.Rect{X: fs[0], Y: fs[1], W: fs[2], H: fs[3]}
		if !vb.IsValid() {
			return nil, fmt.Errorf("invalid viewBox %q", v)
		}
		return ViewBox(vb), nil
	case AttrPreserveAspectRatio:
		a, err := parseAspectRatio(v)
		if err != nil {
			return nil, err
		}
		return AspectRatio(a), nil
	case AttrOrient:
		if v == "auto" || v == "auto-start-reverse" {
			return String(v), nil
		}
		return parseAngle(v)
	case AttrStrokeDasharray:
		if v == "none" {
			return None{}, nil
		}
		return parseLengthList(v)
	case AttrX, AttrY, AttrDx, AttrDy:
		switch n.Tag {
		case ElementText, ElementTSpan:
			return parseLengthList(v)
		case ElementFeOffset:
			f, err := parseNumber(v)
			return Number(f), err
		}
		return parseLength(v)
	case AttrCx, AttrCy, AttrR, AttrRx, AttrRy, AttrFx, AttrFy, AttrX1, AttrX2, AttrY1, AttrY2,
		AttrWidth, AttrHeight, AttrStrokeWidth, AttrStrokeDashoffset, AttrRefX, AttrRefY,
		AttrMarkerWidth, AttrMarkerHeight:
		return parseLength(v)
	case AttrFontSize:
		if _, ok := fontSizeKeywords[v]; ok {
			return String(v), nil
		}
		return parseLength(v)
	case AttrLetterSpacing, AttrWordSpacing:
		if v == "normal" {
			return String(v), nil
		}
		return parseLength(v)
	case AttrFontFamily:
		return String(parseFontFamily(v)), nil
	default:
		return String(v), nil
	}
}

var fontSizeKeywords = map[string]struct{}{
	"xx-small": {}, "x-small": {}, "small": {}, "medium": {}, "large": {},
	"x-large": {}, "xx-large": {}, "larger": {}, "smaller": {},
}

// currentColor returns the color inherited by n (black by default).
func currentColor(n *Node) Color {
	if n == nil {
		return Black
	}
	if holder := n.FindAttribute(AttrColor); holder != nil {
		c, _ := holder.Color(AttrColor)
		return c
	}
	return Black
}

func parseNumber(v string) (float64, error) {
	f, unit, err := svgpath.ParseNumber(v)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(unit) != "" {
		return 0, fmt.Errorf("invalid number %q", v)
	}
	return f, nil
}

// parseLength accepts a number with an optional unit suffix.
func parseLength(v string) (Length, error) {
	v = strings.TrimSpace(v)
	unit := UnitNone
	// the suffix is removed first since "1em" would be read
	// as a truncated exponent
	for u := UnitEm; u <= UnitPercent; u++ {
		if strings.HasSuffix(v, unitNames[u]) {
			unit = u
			v = strings.TrimSuffix(v, unitNames[u])
			break
		}
	}
	f, err := parseNumber(v)
	if err != nil {
		return Length{}, err
	}
	return Length{Num: f, Unit: unit}, nil
}

func parseLengthList(v string) (LengthList, error) {
	chunks := splitOnCommaOrSpace(v)
	out := make(LengthList, len(chunks))
	for i, c := range chunks {
		l, err := parseLength(c)
		if err != nil {
			return nil, err
		}
		out[i] = l
	}
	return out, nil
}

func parseAngle(v string) (Angle, error) {
	unit := AngleDegrees
	switch {
	case strings.HasSuffix(v, "deg"):
		v = strings.TrimSuffix(v, "deg")
	case strings.HasSuffix(v, "grad"):
		unit = AngleGradians
		v = strings.TrimSuffix(v, "grad")
	case strings.HasSuffix(v, "rad"):
		unit = AngleRadians
		v = strings.TrimSuffix(v, "rad")
	}
	f, err := parseNumber(v)
	if err != nil {
		return Angle{}, err
	}
	return Angle{Num: f, Unit: unit}, nil
}

// parseFontFamily removes the quotes around family names.
func parseFontFamily(v string) string {
	families := strings.Split(v, ",")
	for i, f := range families {
		families[i] = strings.Trim(strings.TrimSpace(f), `"'`)
	}
	return strings.Join(families, ", ")
}

// parseIRI parses "#id" and returns "id"
func parseIRI(v string) (string, error) {
	if !strings.HasPrefix(v, "#") || len(v) == 1 {
		return "", fmt.Errorf("%w: %q", errInvalidLink, v)
	}
	return v[1:], nil
}

// parseFuncIRI parses "url(#id)" and returns "id"
func parseFuncIRI(v string) (string, error) {
	iri, _, err := splitFuncIRI(v)
	return iri, err
}

// splitFuncIRI returns the id and the remaining content after the closing parenthesis
func splitFuncIRI(v string) (id, rest string, err error) {
	if !strings.HasPrefix(v, "url(") {
		return "", "", fmt.Errorf("%w: %q", errInvalidLink, v)
	}
	end := strings.IndexByte(v, ')')
	if end == -1 {
		return "", "", fmt.Errorf("%w: %q", errInvalidLink, v)
	}
	inner := strings.Trim(strings.TrimSpace(v[4:end]), `"'`)
	id, err = parseIRI(inner)
	return id, strings.TrimSpace(v[end+1:]), err
}

func parsePaint(n *Node, v string) (Paint, error) {
	switch v {
	case "none":
		return Paint{Kind: PaintNone}, nil
	case "currentColor":
		return Paint{Kind: PaintColor, Color: currentColor(n)}, nil
	}
	if strings.HasPrefix(v, "url(") {
		id, rest, err := splitFuncIRI(v)
		if err != nil {
			return Paint{}, err
		}
		out := Paint{Kind: PaintLink, Link: Link{ID: id}}
		if rest != "" {
			fallback, err := parsePaint(n, rest)
			if err != nil {
				return Paint{}, err
			}
			if fallback.Kind != PaintLink {
				out.Fallback = &fallback
			}
		}
		return out, nil
	}
	c, err := parseColor(v)
	if err != nil {
		return Paint{}, err
	}
	return Paint{Kind: PaintColor, Color: c}, nil
}

// ParseColor parses an SVG color: a #rgb or #rrggbb hex code,
// a rgb() function or a color keyword.
func ParseColor(s string) (Color, error) { return parseColor(s) }

func parseColor(v string) (Color, error) {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "#") {
		hex := v[1:]
		var digits [6]uint8
		if len(hex) != 3 && len(hex) != 6 {
			return Color{}, fmt.Errorf("%w: %q", errInvalidColor, v)
		}
		for i := 0; i < len(hex); i++ {
			d, ok := hexDigit(hex[i])
			if !ok {
				return Color{}, fmt.Errorf("%w: %q", errInvalidColor, v)
			}
			digits[i] = d
		}
		if len(hex) == 3 {
			return Color{digits[0] * 17, digits[1] * 17, digits[2] * 17}, nil
		}
		return Color{digits[0]<<4 | digits[1], digits[2]<<4 | digits[3], digits[4]<<4 | digits[5]}, nil
	}
	if strings.HasPrefix(v, "rgb(") && strings.HasSuffix(v, ")") {
		chunks := splitOnCommaOrSpace(v[4 : len(v)-1])
		if len(chunks) != 3 {
			return Color{}, fmt.Errorf("%w: %q", errInvalidColor, v)
		}
		var comps [3]uint8
		for i, c := range chunks {
			scale := 1.
			if strings.HasSuffix(c, "%") {
				scale = 255. / 100
				c = strings.TrimSuffix(c, "%")
			}
			f, err := parseNumber(c)
			if err != nil {
				return Color{}, fmt.Errorf("%w: %q", errInvalidColor, v)
			}
			comps[i] = uint8(math.Round(math.Max(0, math.Min(255, f*scale))))
		}
		return Color{comps[0], comps[1], comps[2]}, nil
	}
	if c, ok := colornames.Map[strings.ToLower(v)]; ok {
		return Color{c.R, c.G, c.B}, nil
	}
	return Color{}, fmt.Errorf("%w: %q", errInvalidColor, v)
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func parseAspectRatio(v string) (svgpath.AspectRatio, error) {
	out := svgpath.DefaultAspectRatio
	fields := strings.Fields(v)
	if len(fields) > 0 && fields[0] == "defer" {
		out.Defer = true
		fields = fields[1:]
	}
	if len(fields) == 0 || len(fields) > 2 {
		return out, errParamMismatch
	}
	align, ok := svgpath.ParseAlign(fields[0])
	if !ok {
		return out, fmt.Errorf("invalid alignment %q", fields[0])
	}
	out.Align = align
	if len(fields) == 2 {
		switch fields[1] {
		case "meet":
		case "slice":
			out.Slice = true
		default:
			return out, fmt.Errorf("invalid meetOrSlice %q", fields[1])
		}
	}
	return out, nil
}

func readTransformAttr(m1 svgpath.Matrix2D, k string, points []float64) (svgpath.Matrix2D, error) {
	ln := len(points)
	switch k {
	case "rotate":
		if ln == 1 {
			m1 = m1.Rotate(points[0] * math.Pi / 180)
		} else if ln == 3 {
			m1 = m1.Translate(points[1], points[2]).
				Rotate(points[0]*math.Pi/180).
				Translate(-points[1], -points[2])
		} else {
			return m1, errParamMismatch
		}
	case "translate":
		if ln == 1 {
			m1 = m1.Translate(points[0], 0)
		} else if ln == 2 {
			m1 = m1.Translate(points[0], points[1])
		} else {
			return m1, errParamMismatch
		}
	case "skewx":
		if ln == 1 {
			m1 = m1.SkewX(points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "skewy":
		if ln == 1 {
			m1 = m1.SkewY(points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "scale":
		if ln == 1 {
			m1 = m1.Scale(points[0], points[0])
		} else if ln == 2 {
			m1 = m1.Scale(points[0], points[1])
		} else {
			return m1, errParamMismatch
		}
	case "matrix":
		if ln == 6 {
			m1 = m1.Mult(svgpath.Matrix2D{
				A: points[0],
				B: points[1],
				C: points[2],
				D: points[3],
				E: points[4],
				F: points[5]})
		} else {
			return m1, errParamMismatch
		}
	default:
		return m1, errParamMismatch
	}
	return m1, nil
}

// parseTransform parses a list of transform functions, applied
// from left to right.
func parseTransform(v string) (svgpath.Matrix2D, error) {
	ts := strings.Split(v, ")")
	m1 := svgpath.Identity
	for _, t := range ts {
		t = strings.Trim(t, " ,\t\n\r")
		if len(t) == 0 {
			continue
		}
		d := strings.Split(t, "(")
		if len(d) != 2 || len(d[1]) < 1 {
			return m1, errParamMismatch // badly formed transformation
		}
		points, err := svgpath.ParseNumbers(d[1])
		if err != nil {
			return m1, err
		}
		m1, err = readTransformAttr(m1, strings.ToLower(strings.TrimSpace(d[0])), points)
		if err != nil {
			return m1, err
		}
	}
	return m1, nil
}
