package svgdom

// ElementID identifies the SVG elements understood by the converter.
// Other elements are kept in the tree as ElementUnknown, so that
// their children are still reachable by id.
type ElementID uint8

const (
	ElementUnknown ElementID = iota
	ElementA
	ElementCircle
	ElementClipPath
	ElementDefs
	ElementEllipse
	ElementFeBlend
	ElementFeComposite
	ElementFeFlood
	ElementFeGaussianBlur
	ElementFeImage
	ElementFeMerge
	ElementFeMergeNode
	ElementFeOffset
	ElementFeTile
	ElementFilter
	ElementG
	ElementImage
	ElementLine
	ElementLinearGradient
	ElementMarker
	ElementMask
	ElementPath
	ElementPattern
	ElementPolygon
	ElementPolyline
	ElementRadialGradient
	ElementRect
	ElementStop
	ElementStyle
	ElementSvg
	ElementSwitch
	ElementSymbol
	ElementText
	ElementTSpan
	ElementUse
)

var elementNames = [...]string{
	ElementUnknown:        "",
	ElementA:              "a",
	ElementCircle:         "circle",
	ElementClipPath:       "clipPath",
	ElementDefs:           "defs",
	ElementEllipse:        "ellipse",
	ElementFeBlend:        "feBlend",
	ElementFeComposite:    "feComposite",
	ElementFeFlood:        "feFlood",
	ElementFeGaussianBlur: "feGaussianBlur",
	ElementFeImage:        "feImage",
	ElementFeMerge:        "feMerge",
	ElementFeMergeNode:    "feMergeNode",
	ElementFeOffset:       "feOffset",
	ElementFeTile:         "feTile",
	ElementFilter:         "filter",
	ElementG:              "g",
	ElementImage:          "image",
	ElementLine:           "line",
	ElementLinearGradient: "linearGradient",
	ElementMarker:         "marker",
	ElementMask:           "mask",
	ElementPath:           "path",
	ElementPattern:        "pattern",
	ElementPolygon:        "polygon",
	ElementPolyline:       "polyline",
	ElementRadialGradient: "radialGradient",
	ElementRect:           "rect",
	ElementStop:           "stop",
	ElementStyle:          "style",
	ElementSvg:            "svg",
	ElementSwitch:         "switch",
	ElementSymbol:         "symbol",
	ElementText:           "text",
	ElementTSpan:          "tspan",
	ElementUse:            "use",
}

var elementsByName = func() map[string]ElementID {
	out := make(map[string]ElementID, len(elementNames))
	for i, name := range elementNames {
		if name != "" {
			out[name] = ElementID(i)
		}
	}
	return out
}()

// ParseElementID returns ElementUnknown for unsupported tags.
func ParseElementID(name string) ElementID { return elementsByName[name] }

func (e ElementID) String() string {
	if int(e) < len(elementNames) {
		return elementNames[e]
	}
	return "<invalid ElementID>"
}

// IsGraphic is true for the shapes, text, image and use elements.
func (e ElementID) IsGraphic() bool {
	switch e {
	case ElementCircle, ElementEllipse, ElementImage, ElementLine, ElementPath, ElementPolygon,
		ElementPolyline, ElementRect, ElementText, ElementUse:
		return true
	}
	return false
}

// IsShape is true for the elements reduced to a path.
func (e ElementID) IsShape() bool {
	switch e {
	case ElementCircle, ElementEllipse, ElementLine, ElementPath, ElementPolygon, ElementPolyline, ElementRect:
		return true
	}
	return false
}

// IsFilterPrimitive is true for the fe* elements.
func (e ElementID) IsFilterPrimitive() bool {
	switch e {
	case ElementFeBlend, ElementFeComposite, ElementFeFlood, ElementFeGaussianBlur, ElementFeImage,
		ElementFeMerge, ElementFeOffset, ElementFeTile:
		return true
	}
	return false
}

// IsPaintServer is true for gradients and patterns.
func (e ElementID) IsPaintServer() bool {
	return e == ElementLinearGradient || e == ElementRadialGradient || e == ElementPattern
}

// AttributeID identifies the SVG attributes and CSS properties
// understood by the converter.
type AttributeID uint8

const (
	AttrUnknown AttributeID = iota
	AttrClass
	AttrClipPath
	AttrClipRule
	AttrClipPathUnits
	AttrColor
	AttrColorInterpolationFilters
	AttrCx
	AttrCy
	AttrD
	AttrDisplay
	AttrDx
	AttrDy
	AttrFill
	AttrFillOpacity
	AttrFillRule
	AttrFilter
	AttrFilterUnits
	AttrFloodColor
	AttrFloodOpacity
	AttrFontFamily
	AttrFontSize
	AttrFontStretch
	AttrFontStyle
	AttrFontVariant
	AttrFontWeight
	AttrFx
	AttrFy
	AttrGradientTransform
	AttrGradientUnits
	AttrHeight
	AttrHref
	AttrID
	AttrIn
	AttrIn2
	AttrK1
	AttrK2
	AttrK3
	AttrK4
	AttrLetterSpacing
	AttrMarkerEnd
	AttrMarkerHeight
	AttrMarkerMid
	AttrMarkerStart
	AttrMarkerUnits
	AttrMarkerWidth
	AttrMask
	AttrMaskContentUnits
	AttrMaskUnits
	AttrMode
	AttrOffset
	AttrOpacity
	AttrOperator
	AttrOrient
	AttrOverflow
	AttrPatternContentUnits
	AttrPatternTransform
	AttrPatternUnits
	AttrPoints
	AttrPreserveAspectRatio
	AttrPrimitiveUnits
	AttrR
	AttrRefX
	AttrRefY
	AttrResult
	AttrRx
	AttrRy
	AttrSpace
	AttrSpreadMethod
	AttrStdDeviation
	AttrStopColor
	AttrStopOpacity
	AttrStroke
	AttrStrokeDasharray
	AttrStrokeDashoffset
	AttrStrokeLinecap
	AttrStrokeLinejoin
	AttrStrokeMiterlimit
	AttrStrokeOpacity
	AttrStrokeWidth
	AttrStyle
	AttrSystemLanguage
	AttrTextAnchor
	AttrTextDecoration
	AttrTransform
	AttrViewBox
	AttrVisibility
	AttrWidth
	AttrWordSpacing
	AttrX
	AttrX1
	AttrX2
	AttrY
	AttrY1
	AttrY2
)

var attributeNames = [...]string{
	AttrUnknown:                   "",
	AttrClass:                     "class",
	AttrClipPath:                  "clip-path",
	AttrClipRule:                  "clip-rule",
	AttrClipPathUnits:             "clipPathUnits",
	AttrColor:                     "color",
	AttrColorInterpolationFilters: "color-interpolation-filters",
	AttrCx:                        "cx",
	AttrCy:                        "cy",
	AttrD:                         "d",
	AttrDisplay:                   "display",
	AttrDx:                        "dx",
	AttrDy:                        "dy",
	AttrFill:                      "fill",
	AttrFillOpacity:               "fill-opacity",
	AttrFillRule:                  "fill-rule",
	AttrFilter:                    "filter",
	AttrFilterUnits:               "filterUnits",
	AttrFloodColor:                "flood-color",
	AttrFloodOpacity:              "flood-opacity",
	AttrFontFamily:                "font-family",
	AttrFontSize:                  "font-size",
	AttrFontStretch:               "font-stretch",
	AttrFontStyle:                 "font-style",
	AttrFontVariant:               "font-variant",
	AttrFontWeight:                "font-weight",
	AttrFx:                        "fx",
	AttrFy:                        "fy",
	AttrGradientTransform:         "gradientTransform",
	AttrGradientUnits:             "gradientUnits",
	AttrHeight:                    "height",
	AttrHref:                      "href",
	AttrID:                        "id",
	AttrIn:                        "in",
	AttrIn2:                       "in2",
	AttrK1:                        "k1",
	AttrK2:                        "k2",
	AttrK3:                        "k3",
	AttrK4:                        "k4",
	AttrLetterSpacing:             "letter-spacing",
	AttrMarkerEnd:                 "marker-end",
	AttrMarkerHeight:              "markerHeight",
	AttrMarkerMid:                 "marker-mid",
	AttrMarkerStart:               "marker-start",
	AttrMarkerUnits:               "markerUnits",
	AttrMarkerWidth:               "markerWidth",
	AttrMask:                      "mask",
	AttrMaskContentUnits:          "maskContentUnits",
	AttrMaskUnits:                 "maskUnits",
	AttrMode:                      "mode",
	AttrOffset:                    "offset",
	AttrOpacity:                   "opacity",
	AttrOperator:                  "operator",
	AttrOrient:                    "orient",
	AttrOverflow:                  "overflow",
	AttrPatternContentUnits:       "patternContentUnits",
	AttrPatternTransform:          "patternTransform",
	AttrPatternUnits:              "patternUnits",
	AttrPoints:                    "points",
	AttrPreserveAspectRatio:       "preserveAspectRatio",
	AttrPrimitiveUnits:            "primitiveUnits",
	AttrR:                         "r",
	AttrRefX:                      "refX",
	AttrRefY:                      "refY",
	AttrResult:                    "result",
	AttrRx:                        "rx",
	AttrRy:                        "ry",
	AttrSpace:                     "space",
	AttrSpreadMethod:              "spreadMethod",
	AttrStdDeviation:              "stdDeviation",
	AttrStopColor:                 "stop-color",
	AttrStopOpacity:               "stop-opacity",
	AttrStroke:                    "stroke",
	AttrStrokeDasharray:           "stroke-dasharray",
	AttrStrokeDashoffset:          "stroke-dashoffset",
	AttrStrokeLinecap:             "stroke-linecap",
	AttrStrokeLinejoin:            "stroke-linejoin",
	AttrStrokeMiterlimit:          "stroke-miterlimit",
	AttrStrokeOpacity:             "stroke-opacity",
	AttrStrokeWidth:               "stroke-width",
	AttrStyle:                     "style",
	AttrSystemLanguage:            "systemLanguage",
	AttrTextAnchor:                "text-anchor",
	AttrTextDecoration:            "text-decoration",
	AttrTransform:                 "transform",
	AttrViewBox:                   "viewBox",
	AttrVisibility:                "visibility",
	AttrWidth:                     "width",
	AttrWordSpacing:               "word-spacing",
	AttrX:                         "x",
	AttrX1:                        "x1",
	AttrX2:                        "x2",
	AttrY:                         "y",
	AttrY1:                        "y1",
	AttrY2:                        "y2",
}

var attributesByName = func() map[string]AttributeID {
	out := make(map[string]AttributeID, len(attributeNames))
	for i, name := range attributeNames {
		if name != "" {
			out[name] = AttributeID(i)
		}
	}
	return out
}()

// ParseAttributeID returns AttrUnknown for unsupported attributes.
func ParseAttributeID(name string) AttributeID { return attributesByName[name] }

func (a AttributeID) String() string {
	if int(a) < len(attributeNames) {
		return attributeNames[a]
	}
	return "<invalid AttributeID>"
}

// IsPresentation is true for the attributes which may also be set
// from CSS.
func (a AttributeID) IsPresentation() bool {
	switch a {
	case AttrClipPath, AttrClipRule, AttrColor, AttrColorInterpolationFilters, AttrDisplay,
		AttrFill, AttrFillOpacity, AttrFillRule, AttrFilter, AttrFloodColor, AttrFloodOpacity,
		AttrFontFamily, AttrFontSize, AttrFontStretch, AttrFontStyle, AttrFontVariant, AttrFontWeight,
		AttrLetterSpacing, AttrMarkerEnd, AttrMarkerMid, AttrMarkerStart, AttrMask, AttrOpacity,
		AttrOverflow, AttrStopColor, AttrStopOpacity, AttrStroke, AttrStrokeDasharray,
		AttrStrokeDashoffset, AttrStrokeLinecap, AttrStrokeLinejoin, AttrStrokeMiterlimit,
		AttrStrokeOpacity, AttrStrokeWidth, AttrTextAnchor, AttrTextDecoration, AttrVisibility,
		AttrWordSpacing, AttrTransform:
		return true
	}
	return false
}

// Inheritable is true for the presentation attributes whose value
// is taken from the nearest ancestor when not set on an element.
func (a AttributeID) Inheritable() bool {
	if !a.IsPresentation() {
		return false
	}
	switch a {
	case AttrClipPath, AttrDisplay, AttrFilter, AttrFloodColor, AttrFloodOpacity, AttrMask,
		AttrOpacity, AttrOverflow, AttrStopColor, AttrStopOpacity, AttrTextDecoration, AttrTransform:
		return false
	}
	return true
}
