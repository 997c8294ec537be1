package shoplcon

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// AndroidNamespace is the XML namespace of the vector document attributes.
const AndroidNamespace = "http://schemas.android.com/apk/res/android"

// PathStyle is a path of the vector document with its paint. Empty colors are not written.
type PathStyle struct {
	PathData       string
	FillColor      string
	FillType       FillRule
	StrokeColor    string
	StrokeWidth    float64
	HasStrokeWidth bool
}

// VectorDocument is a vector drawable with its dimensions and paths in drawing order.
type VectorDocument struct {
	Width, Height                 float64
	ViewportWidth, ViewportHeight float64
	Unit                          string // unit of Width and Height, "dp" if empty
	Paths                         []PathStyle
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `"`, "&quot;")

// WriteTo writes the vector document as XML.
func (doc *VectorDocument) WriteTo(w io.Writer) (int64, error) {
	unit := doc.Unit
	if unit == "" {
		unit = DefaultOptions.Density
	}

	b := &bytes.Buffer{}
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	fmt.Fprintf(b, "<vector xmlns:android=\"%s\"\n", AndroidNamespace)
	fmt.Fprintf(b, "    android:width=\"%v%s\"\n", num(doc.Width), attrEscaper.Replace(unit))
	fmt.Fprintf(b, "    android:height=\"%v%s\"\n", num(doc.Height), attrEscaper.Replace(unit))
	fmt.Fprintf(b, "    android:viewportWidth=\"%v\"\n", num(doc.ViewportWidth))
	fmt.Fprintf(b, "    android:viewportHeight=\"%v\">\n", num(doc.ViewportHeight))
	for _, path := range doc.Paths {
		b.WriteString("    <path\n")
		fmt.Fprintf(b, "        android:pathData=\"%s\"", attrEscaper.Replace(path.PathData))
		if path.FillColor != "" {
			fmt.Fprintf(b, "\n        android:fillColor=\"%s\"", attrEscaper.Replace(path.FillColor))
			fmt.Fprintf(b, "\n        android:fillType=\"%v\"", path.FillType)
		}
		if path.StrokeColor != "" {
			fmt.Fprintf(b, "\n        android:strokeColor=\"%s\"", attrEscaper.Replace(path.StrokeColor))
			if path.HasStrokeWidth {
				fmt.Fprintf(b, "\n        android:strokeWidth=\"%v\"", num(path.StrokeWidth))
			}
		}
		b.WriteString("/>\n")
	}
	b.WriteString("</vector>\n")

	n, err := w.Write(b.Bytes())
	return int64(n), err
}

// String returns the vector document as XML.
func (doc *VectorDocument) String() string {
	sb := &strings.Builder{}
	doc.WriteTo(sb)
	return sb.String()
}
