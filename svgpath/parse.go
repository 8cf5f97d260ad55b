package svgpath

import (
	"errors"
	"fmt"

	"github.com/tdewolff/parse/v2/strconv"
)

var (
	errParamMismatch  = errors.New("param mismatch")
	errMissingCommand = errors.New("path data should start with a move command")
)

// number of arguments expected by each command
var cmdLens = [256]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1,
	'C': 6, 'S': 4, 'Q': 4, 'T': 2,
	'A': 7, 'Z': 0,
}

func isCommand(c byte) bool {
	switch c {
	case 'M', 'L', 'H', 'V', 'C', 'S', 'Q', 'T', 'A', 'Z',
		'm', 'l', 'h', 'v', 'c', 's', 'q', 't', 'a', 'z':
		return true
	}
	return false
}

func skipCommaWhitespace(b []byte) int {
	i := 0
	for i < len(b) && (b[i] == ' ' || b[i] == ',' || b[i] == '\n' || b[i] == '\r' || b[i] == '\t') {
		i++
	}
	return i
}

// ParseNumbers reads a list of numbers separated by
// whitespaces and/or commas, as used by the points, viewBox
// or transform attributes.
func ParseNumbers(s string) ([]float64, error) {
	b := []byte(s)
	var out []float64
	i := skipCommaWhitespace(b)
	for i < len(b) {
		f, n := strconv.ParseFloat(b[i:])
		if n == 0 {
			return out, fmt.Errorf("invalid number at position %d in %q", i+1, s)
		}
		out = append(out, f)
		i += n
		i += skipCommaWhitespace(b[i:])
	}
	return out, nil
}

// ParseNumber reads one number, followed by an optional suffix
// (typically a unit), which is returned.
func ParseNumber(s string) (float64, string, error) {
	b := []byte(s)
	i := skipCommaWhitespace(b)
	f, n := strconv.ParseFloat(b[i:])
	if n == 0 {
		return 0, "", fmt.Errorf("invalid number %q", s)
	}
	return f, string(b[i+n:]), nil
}

// ParsePathData parses the content of a 'd' attribute, converting
// every command to absolute MoveTo, LineTo, CubicTo and Close operations.
// On error, the path parsed so far is returned, so that the caller
// may render it up to the first error, as required by SVG.
func ParsePathData(d string) (Path, error) {
	var (
		p      Path
		b      = []byte(d)
		f      [7]float64
		p0     Point // current point
		cubic  Point // last cubic control point, for S
		quad   Point // last quadratic control point, for T
		prev   byte  // previous command
		i      = skipCommaWhitespace(b)
		hasCmd bool
	)
	for i < len(b) {
		cmd := prev
		if isCommand(b[i]) {
			cmd = b[i]
			i++
			i += skipCommaWhitespace(b[i:])
		} else if !hasCmd || prev == 'z' || prev == 'Z' {
			return p, fmt.Errorf("invalid path data at position %d: %w", i+1, errMissingCommand)
		}
		if !hasCmd && cmd != 'M' && cmd != 'm' {
			return p, errMissingCommand
		}
		hasCmd = true

		upper := cmd
		if 'a' <= cmd && cmd <= 'z' {
			upper -= 'a' - 'A'
		}
		for j := 0; j < cmdLens[upper]; j++ {
			if upper == 'A' && (j == 3 || j == 4) {
				// flags may be written without separator
				if i < len(b) && (b[i] == '0' || b[i] == '1') {
					f[j] = float64(b[i] - '0')
					i++
				} else {
					return p, fmt.Errorf("invalid arc flag at position %d: %w", i+1, errParamMismatch)
				}
			} else {
				num, n := strconv.ParseFloat(b[i:])
				if n == 0 {
					return p, fmt.Errorf("command '%c' expects %d numbers at position %d: %w",
						cmd, cmdLens[upper], i+1, errParamMismatch)
				}
				f[j] = num
				i += n
			}
			i += skipCommaWhitespace(b[i:])
		}

		rel := cmd != upper
		abs := func(x, y float64) Point {
			if rel {
				return Point{x + p0.X, y + p0.Y}
			}
			return Point{x, y}
		}
		var p1 Point
		switch upper {
		case 'M':
			p1 = abs(f[0], f[1])
			p.Start(p1.X, p1.Y)
			// subsequent pairs are implicit line-to
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		case 'Z':
			p.Stop(true)
			p1 = p.SubpathStart(len(p))
		case 'L':
			p1 = abs(f[0], f[1])
			p.Line(p1.X, p1.Y)
		case 'H':
			p1 = Point{f[0], p0.Y}
			if rel {
				p1.X += p0.X
			}
			p.Line(p1.X, p1.Y)
		case 'V':
			p1 = Point{p0.X, f[0]}
			if rel {
				p1.Y += p0.Y
			}
			p.Line(p1.X, p1.Y)
		case 'C':
			c1, c2 := abs(f[0], f[1]), abs(f[2], f[3])
			p1 = abs(f[4], f[5])
			p.CubeBezier(c1.X, c1.Y, c2.X, c2.Y, p1.X, p1.Y)
			cubic = c2
		case 'S':
			c1 := p0
			if prev == 'C' || prev == 'c' || prev == 'S' || prev == 's' {
				c1 = Point{2*p0.X - cubic.X, 2*p0.Y - cubic.Y}
			}
			c2 := abs(f[0], f[1])
			p1 = abs(f[2], f[3])
			p.CubeBezier(c1.X, c1.Y, c2.X, c2.Y, p1.X, p1.Y)
			cubic = c2
		case 'Q':
			c := abs(f[0], f[1])
			p1 = abs(f[2], f[3])
			p.QuadBezier(c.X, c.Y, p1.X, p1.Y)
			quad = c
		case 'T':
			c := p0
			if prev == 'Q' || prev == 'q' || prev == 'T' || prev == 't' {
				c = Point{2*p0.X - quad.X, 2*p0.Y - quad.Y}
			}
			p1 = abs(f[0], f[1])
			p.QuadBezier(c.X, c.Y, p1.X, p1.Y)
			quad = c
		case 'A':
			p1 = abs(f[5], f[6])
			p.ArcTo(f[0], f[1], f[2], f[3] == 1, f[4] == 1, p1.X, p1.Y)
		}
		prev = cmd
		p0 = p1
	}
	return p, nil
}
