package svgconv

import (
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"github.com/benoitkugler/svgtree/svgdom"
	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

const (
	defaultDPI        = 96
	defaultFontFamily = "Times New Roman"
	defaultFontSize   = 12
)

// FitKind selects how the image size is computed from the document size.
type FitKind uint8

const (
	FitOriginal FitKind = iota
	FitWidth
	FitHeight
	FitZoom
)

// FitTo is the scaling policy applied to the canvas.
type FitTo struct {
	Kind  FitKind
	Value float64 // width, height or zoom factor
}

// Fit returns the size of the output canvas, or false
// if the policy is invalid for the given size.
func (f FitTo) Fit(size svgpath.Size) (svgpath.Size, bool) {
	if !size.IsValid() {
		return size, false
	}
	var out svgpath.Size
	switch f.Kind {
	case FitOriginal:
		out = size
	case FitWidth:
		out = svgpath.Size{W: f.Value, H: math.Ceil(f.Value * size.H / size.W)}
	case FitHeight:
		out = svgpath.Size{W: math.Ceil(f.Value * size.W / size.H), H: f.Value}
	case FitZoom:
		out = svgpath.Size{W: size.W * f.Value, H: size.H * f.Value}
	default:
		return size, false
	}
	return out, out.IsValid()
}

func (f FitTo) String() string {
	switch f.Kind {
	case FitWidth:
		return fmt.Sprintf("width:%g", f.Value)
	case FitHeight:
		return fmt.Sprintf("height:%g", f.Value)
	case FitZoom:
		return fmt.Sprintf("zoom:%g", f.Value)
	default:
		return "original"
	}
}

// ParseFitTo accepts "original", "width:<w>", "height:<h>" and "zoom:<z>".
func ParseFitTo(s string) (FitTo, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "original" {
		return FitTo{}, nil
	}
	kind, value, ok := strings.Cut(s, ":")
	if !ok {
		return FitTo{}, fmt.Errorf("invalid fit policy %q", s)
	}
	v, err := svgpath.ParseNumbers(value)
	if err != nil || len(v) != 1 || v[0] <= 0 {
		return FitTo{}, fmt.Errorf("invalid fit value %q", value)
	}
	out := FitTo{Value: v[0]}
	switch kind {
	case "width":
		out.Kind = FitWidth
	case "height":
		out.Kind = FitHeight
	case "zoom":
		out.Kind = FitZoom
	default:
		return FitTo{}, fmt.Errorf("invalid fit policy %q", s)
	}
	return out, nil
}

// Options configures the conversion.
type Options struct {
	// DPI is used to convert absolute units (in, cm, mm, pt, pc).
	DPI float64
	// FontFamily is used when no font-family is specified.
	FontFamily string
	// FontSize is used when no font-size is specified.
	FontSize float64
	// Languages is the list of accepted languages, used to
	// resolve the systemLanguage attribute in switch elements.
	Languages []string
	// FitTo is the scaling policy for consumers producing images.
	FitTo FitTo
	// Background is an optional canvas color, for consumers.
	Background *svgtree.Color
	// KeepNamedGroups preserves the g and use elements having an id,
	// instead of merging them into their parent.
	KeepNamedGroups bool
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		DPI:        defaultDPI,
		FontFamily: defaultFontFamily,
		FontSize:   defaultFontSize,
		Languages:  []string{"en"},
	}
}

// Normalize replaces the invalid fields by their default value.
func (o *Options) Normalize() {
	if !(o.DPI > 0) {
		warn("invalid DPI, using the default", "dpi", o.DPI)
		o.DPI = defaultDPI
	}
	if o.FontFamily == "" || !utf8.ValidString(o.FontFamily) {
		warn("invalid default font family, using the default", "family", o.FontFamily)
		o.FontFamily = defaultFontFamily
	}
	if !(o.FontSize > 0) {
		warn("invalid default font size, using the default", "size", o.FontSize)
		o.FontSize = defaultFontSize
	}
	o.Languages = validLanguages(o.Languages)
	if !o.FitTo.isValid() {
		warn("invalid fit policy, using the original size", "fit", o.FitTo.String())
		o.FitTo = FitTo{}
	}
}

func (f FitTo) isValid() bool {
	return f.Kind == FitOriginal || (f.Kind <= FitZoom && f.Value > 0)
}

// ParseLanguages parses a comma separated list of language tags.
// Invalid tags are skipped, and an empty result is replaced by ["en"].
func ParseLanguages(s string) []string {
	return validLanguages(strings.Split(s, ","))
}

func validLanguages(tags []string) []string {
	var out []string
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, err := language.Parse(tag); err != nil {
			warn("invalid language", "language", tag, "error", err)
			continue
		}
		out = append(out, tag)
	}
	if len(out) == 0 {
		return []string{"en"}
	}
	return out
}

// optionsFile is the TOML representation of Options.
type optionsFile struct {
	DPI             *float64 `toml:"dpi"`
	FontFamily      *string  `toml:"font_family"`
	FontSize        *float64 `toml:"font_size"`
	Languages       []string `toml:"languages"`
	FitTo           string   `toml:"fit_to"`
	Background      string   `toml:"background"`
	KeepNamedGroups bool     `toml:"keep_named_groups"`
}

// ReadOptions decodes a TOML document, such as
//
//	dpi = 72
//	languages = ["fr", "en"]
//	fit_to = "zoom:2"
//	background = "white"
//
// Missing fields take their default value, and the result is normalized.
func ReadOptions(r io.Reader) (Options, error) {
	var file optionsFile
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&file); err != nil {
		return Options{}, fmt.Errorf("invalid options file: %w", err)
	}
	opts := DefaultOptions()
	if file.DPI != nil {
		opts.DPI = *file.DPI
	}
	if file.FontFamily != nil {
		opts.FontFamily = *file.FontFamily
	}
	if file.FontSize != nil {
		opts.FontSize = *file.FontSize
	}
	if file.Languages != nil {
		opts.Languages = file.Languages
	}
	opts.KeepNamedGroups = file.KeepNamedGroups
	var err error
	if opts.FitTo, err = ParseFitTo(file.FitTo); err != nil {
		return Options{}, err
	}
	if file.Background != "" {
		c, err := svgdom.ParseColor(file.Background)
		if err != nil {
			return Options{}, fmt.Errorf("invalid background: %w", err)
		}
		bg := svgtree.Color(c)
		opts.Background = &bg
	}
	opts.Normalize()
	return opts, nil
}
