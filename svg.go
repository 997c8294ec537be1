// Package shoplcon converts SVG icons to Android vector drawables. It understands the shape elements
// path, circle, rect, ellipse, line, polyline and polygon with their fill, stroke, stroke width and
// fill rule, and ignores everything else.
package shoplcon

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Errors returned by the transcoder.
var (
	ErrNoSVG      = errors.New("no SVG tag")
	ErrNoElements = errors.New("no convertible graphic elements")
	ErrTranscode  = errors.New("transcode failed")
)

// definitionTags hold shapes that are referenced rather than drawn.
var definitionTags = []string{"defs", "clipPath", "mask", "symbol", "pattern", "marker"}

// Options are the transcoder options.
type Options struct {
	// Density is the unit of the document width and height.
	Density string
	// SkipDefinitions ignores shapes inside defs, clipPath, mask, symbol, pattern and marker.
	SkipDefinitions bool
	// Parser parses the SVG source, LexerParser if nil.
	Parser XMLParser
}

// DefaultOptions are the default transcoder options.
var DefaultOptions = Options{
	Density: "dp",
}

// Transcode converts SVG source to a vector document using DefaultOptions.
func Transcode(svg string) (string, error) {
	return TranscodeWithOptions(svg, nil)
}

// TranscodeWithOptions converts SVG source to a vector document.
func TranscodeWithOptions(svg string, opts *Options) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("%w: %v", ErrTranscode, r)
		}
	}()

	doc, err := ParseSVG(strings.NewReader(svg), opts)
	if err != nil {
		return "", err
	}
	return doc.String(), nil
}

// ParseSVG parses SVG source into a vector document. Shapes are converted in document order and
// shapes without usable geometry are left out. It returns ErrNoSVG when there is no svg element and
// ErrNoElements when the svg element holds no shapes.
func ParseSVG(r io.Reader, opts *Options) (*VectorDocument, error) {
	if opts == nil {
		opts = &DefaultOptions
	}
	parser := opts.Parser
	if parser == nil {
		parser = LexerParser
	}

	xmlDoc, err := parser.ParseXML(r)
	if err != nil {
		return nil, fmt.Errorf("bad XML: %w", err)
	}
	root, ok := xmlDoc.Find("svg")
	if !ok {
		return nil, ErrNoSVG
	}

	doc := &VectorDocument{
		Unit: opts.Density,
	}
	if err := parseViewport(root, doc); err != nil {
		return nil, err
	}

	elements := xmlDoc.Descendants(root, ShapeTags...)
	if opts.SkipDefinitions {
		drawn := elements[:0]
		for _, el := range elements {
			if !insideDefinition(el, root) {
				drawn = append(drawn, el)
			}
		}
		elements = drawn
	}
	if len(elements) == 0 {
		return nil, ErrNoElements
	}

	for _, el := range elements {
		pathData, ok := ConvertElement(el)
		if !ok {
			continue
		}
		doc.Paths = append(doc.Paths, paintPath(pathData, ExtractStyle(el)))
	}
	return doc, nil
}

func paintPath(pathData string, style Style) PathStyle {
	path := PathStyle{
		PathData: pathData,
	}
	if fill := ResolveColor(style.Fill); fill != Transparent {
		path.FillColor = fill
		path.FillType = style.FillRule
	}
	if stroke := ResolveColor(style.Stroke); stroke != Transparent {
		path.StrokeColor = stroke
		path.StrokeWidth = style.StrokeWidth
		path.HasStrokeWidth = style.HasStrokeWidth
	}
	return path
}

// parseViewport sets the document dimensions from the width, height and viewBox of the root.
func parseViewport(root Element, doc *VectorDocument) error {
	width := svgDimension(root, "width")
	height := svgDimension(root, "height")
	viewBox, _ := root.Attr("viewBox")
	if strings.TrimSpace(viewBox) == "" {
		viewBox = "0 0 " + width + " " + height
	}

	viewportWidth, viewportHeight := width, height
	if vals := strings.Fields(viewBox); 4 <= len(vals) {
		viewportWidth, viewportHeight = vals[2], vals[3]
	}

	dims := []struct {
		dst *float64
		v   string
	}{
		{&doc.Width, width},
		{&doc.Height, height},
		{&doc.ViewportWidth, viewportWidth},
		{&doc.ViewportHeight, viewportHeight},
	}
	for _, dim := range dims {
		f, ok := parseNumber(dim.v)
		if !ok {
			return fmt.Errorf("bad dimension: %q", dim.v)
		}
		*dim.dst = f
	}
	return nil
}

// svgDimension returns the width or height attribute with everything but digits and dots removed,
// defaulting to 24.
func svgDimension(root Element, name string) string {
	v, _ := root.Attr(name)
	if strings.TrimSpace(v) == "" {
		v = "24"
	}
	return strings.Map(func(r rune) rune {
		if '0' <= r && r <= '9' || r == '.' {
			return r
		}
		return -1
	}, v)
}

func insideDefinition(el, root Element) bool {
	for p, ok := el.Parent(); ok && p != root; p, ok = p.Parent() {
		if hasTag(p, definitionTags) {
			return true
		}
	}
	return false
}
