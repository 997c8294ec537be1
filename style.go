package shoplcon

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// FillRule is the rule that decides what is inside a shape.
type FillRule int

// see FillRule
const (
	NonZero FillRule = iota
	EvenOdd
)

func (fillRule FillRule) String() string {
	switch fillRule {
	case NonZero:
		return "nonZero"
	case EvenOdd:
		return "evenOdd"
	}
	return "FillRule(?)"
}

// Style holds the paint properties of a shape element. Empty colors are undefined.
type Style struct {
	Fill           string
	Stroke         string
	StrokeWidth    float64
	HasStrokeWidth bool
	FillRule       FillRule
}

// styleSource looks up a style property on an element.
type styleSource func(el Element, property string) (string, bool)

// styleSources are tried in order, the first defined value wins.
var styleSources = []styleSource{
	presentationAttribute,
	inlineStyle,
}

func presentationAttribute(el Element, property string) (string, bool) {
	v, ok := el.Attr(property)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func inlineStyle(el Element, property string) (string, bool) {
	style, ok := el.Attr("style")
	if !ok {
		return "", false
	}
	v, ok := parseInlineStyle(style)[property]
	return v, ok && v != ""
}

// parseInlineStyle returns the declarations of a style attribute by lower-cased property name. Values
// are the source text after the colon up to the semicolon, trimmed at both ends.
func parseInlineStyle(style string) map[string]string {
	decls := map[string]string{}
	l := css.NewLexer(parse.NewInputString(style))

	var name string
	var value *strings.Builder // nil until the colon of a declaration
	invalid := false           // skip up to the next semicolon
	level := 0
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken || tt == css.SemicolonToken && level == 0 {
			if value != nil && name != "" && !invalid {
				decls[name] = strings.TrimSpace(value.String())
			}
			if tt == css.ErrorToken {
				return decls
			}
			name, value, invalid = "", nil, false
			continue
		} else if invalid {
			continue
		}

		if value != nil {
			switch tt {
			case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken, css.LeftBraceToken:
				level++
			case css.RightParenthesisToken, css.RightBracketToken, css.RightBraceToken:
				if 0 < level {
					level--
				}
			}
			if tt != css.CommentToken {
				value.Write(data)
			}
			continue
		}

		switch {
		case tt == css.WhitespaceToken || tt == css.CommentToken:
		case tt == css.IdentToken && name == "":
			name = strings.ToLower(string(data))
		case tt == css.ColonToken && name != "":
			value = &strings.Builder{}
		default:
			invalid = true
		}
	}
}

func lookupStyle(el Element, property string) (string, bool) {
	for _, source := range styleSources {
		if v, ok := source(el, property); ok {
			return v, true
		}
	}
	return "", false
}

// ExtractStyle returns the fill, stroke, stroke width and fill rule of an element. Each property is
// taken from its presentation attribute, or else from the inline style attribute.
func ExtractStyle(el Element) Style {
	style := Style{FillRule: NonZero}
	style.Fill, _ = lookupStyle(el, "fill")
	style.Stroke, _ = lookupStyle(el, "stroke")
	if v, ok := lookupStyle(el, "stroke-width"); ok {
		style.StrokeWidth, style.HasStrokeWidth = parseNumber(v)
	}
	if v, ok := lookupStyle(el, "fill-rule"); ok && strings.EqualFold(v, "evenodd") {
		style.FillRule = EvenOdd
	}
	return style
}
