package shoplcon

import (
	"bytes"
	"html"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"
)

// Element is an XML element with its tag name and attributes.
type Element interface {
	// Tag returns the local tag name, without namespace prefix.
	Tag() string
	// Attr returns the value of the named attribute and whether it is present.
	Attr(name string) (string, bool)
	// Parent returns the enclosing element, or false for the outermost element.
	Parent() (Element, bool)
}

// Document is a parsed XML document that can be queried by tag names.
type Document interface {
	// Find returns the first element with the given tag in document order.
	Find(tag string) (Element, bool)
	// Descendants returns the elements inside root that have one of the given tags, in document order.
	Descendants(root Element, tags ...string) []Element
}

// XMLParser parses XML source into a Document.
type XMLParser interface {
	ParseXML(r io.Reader) (Document, error)
}

// LexerParser is the default XMLParser, built on the tdewolff/parse XML lexer.
var LexerParser XMLParser = lexerParser{}

type lexerParser struct{}

type xmlElement struct {
	name   string // qualified name
	tag    string
	attrs  map[string]string
	parent *xmlElement
}

func (el *xmlElement) Tag() string {
	return el.tag
}

func (el *xmlElement) Attr(name string) (string, bool) {
	v, ok := el.attrs[name]
	return v, ok
}

func (el *xmlElement) Parent() (Element, bool) {
	if el.parent == nil {
		return nil, false
	}
	return el.parent, true
}

type xmlDocument struct {
	elements []*xmlElement // in document order
}

func (doc *xmlDocument) Find(tag string) (Element, bool) {
	for _, el := range doc.elements {
		if el.tag == tag {
			return el, true
		}
	}
	return nil, false
}

func (doc *xmlDocument) Descendants(root Element, tags ...string) []Element {
	els := []Element{}
	for _, el := range doc.elements {
		if !hasTag(el, tags) {
			continue
		}
		for p := el.parent; p != nil; p = p.parent {
			if Element(p) == root {
				els = append(els, el)
				break
			}
		}
	}
	return els
}

func hasTag(el Element, tags []string) bool {
	for _, tag := range tags {
		if el.Tag() == tag {
			return true
		}
	}
	return false
}

// localName strips the namespace prefix of a tag, e.g. svg:path becomes path.
func localName(tag string) string {
	if i := strings.IndexByte(tag, ':'); i != -1 {
		return tag[i+1:]
	}
	return tag
}

// ParseXML parses r and returns an error for documents that are not well-formed: unterminated
// tags, comments or attribute values, attributes without a quoted value, and end tags that do not
// close the innermost open element.
func (lexerParser) ParseXML(r io.Reader) (Document, error) {
	z := parse.NewInput(r)
	defer z.Restore()

	l := xml.NewLexer(z)
	doc := &xmlDocument{}
	var open []*xmlElement
	var cur *xmlElement // element of which the start tag is being read
	inTag := false
	for {
		tt, data := l.Next()
		switch tt {
		case xml.ErrorToken:
			if l.Err() != io.EOF {
				return nil, l.Err()
			} else if inTag {
				return nil, parse.NewErrorLexer(z, "unterminated start tag")
			} else if 0 < len(open) {
				return nil, parse.NewErrorLexer(z, "unclosed element <%s>", open[len(open)-1].name)
			}
			return doc, nil
		case xml.CommentToken:
			if !bytes.HasSuffix(data, []byte("-->")) {
				return nil, parse.NewErrorLexer(z, "unterminated comment")
			}
		case xml.CDATAToken:
			if !bytes.HasSuffix(data, []byte("]]>")) {
				return nil, parse.NewErrorLexer(z, "unterminated CDATA section")
			}
		case xml.StartTagPIToken:
			cur, inTag = nil, true
		case xml.StartTagToken:
			name := string(data[1:])
			if !validName(name) {
				return nil, parse.NewErrorLexer(z, "bad tag name %q", name)
			}
			cur, inTag = &xmlElement{
				name:  name,
				tag:   localName(name),
				attrs: map[string]string{},
			}, true
			if 0 < len(open) {
				cur.parent = open[len(open)-1]
			}
			doc.elements = append(doc.elements, cur)
		case xml.AttributeToken:
			name, val := string(l.Text()), l.AttrVal()
			if !validName(name) {
				return nil, parse.NewErrorLexer(z, "bad attribute name %q", name)
			} else if len(val) < 2 || val[0] != '"' && val[0] != '\'' || val[len(val)-1] != val[0] {
				return nil, parse.NewErrorLexer(z, "attribute %s must have a quoted value", name)
			}
			if cur != nil {
				cur.attrs[name] = html.UnescapeString(string(val[1 : len(val)-1]))
			}
		case xml.StartTagCloseToken:
			if cur != nil {
				open = append(open, cur)
			}
			cur, inTag = nil, false
		case xml.StartTagCloseVoidToken, xml.StartTagClosePIToken:
			cur, inTag = nil, false
		case xml.EndTagToken:
			name := string(l.Text())
			if !bytes.HasSuffix(data, []byte(">")) {
				return nil, parse.NewErrorLexer(z, "unterminated end tag </%s", name)
			} else if len(open) == 0 || open[len(open)-1].name != name {
				return nil, parse.NewErrorLexer(z, "unexpected end tag </%s>", name)
			}
			open = open[:len(open)-1]
		}
	}
}

// validName reports whether s is usable as a tag or attribute name.
func validName(s string) bool {
	return s != "" && !strings.ContainsAny(s, "\"'<>=&/")
}
