package shoplcon

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/tdewolff/test"
)

func TestTranscode(t *testing.T) {
	svg := `<svg width="24" height="24" viewBox="0 0 24 24" fill="none" xmlns="http://www.w3.org/2000/svg">
<path fill-rule="evenodd" d="M12 2L2 22h20L12 2z" fill="#212529"/>
<circle cx="12" cy="12" r="3" stroke="#FF0000" stroke-width="1.5"/>
</svg>`
	out, err := Transcode(svg)
	test.Error(t, err)
	test.String(t, out, `<?xml version="1.0" encoding="utf-8"?>
<vector xmlns:android="http://schemas.android.com/apk/res/android"
    android:width="24dp"
    android:height="24dp"
    android:viewportWidth="24"
    android:viewportHeight="24">
    <path
        android:pathData="M12 2L2 22h20L12 2z"
        android:fillColor="#212529"
        android:fillType="evenOdd"/>
    <path
        android:pathData="M 9 12 A 3 3 0 1 0 15 12 A 3 3 0 1 0 9 12 Z"
        android:strokeColor="#FF0000"
        android:strokeWidth="1.5"/>
</vector>
`)
}

func TestTranscodeDimensions(t *testing.T) {
	var tests = []struct {
		name     string
		attrs    string
		expected [4]float64
	}{
		{"defaults", ``, [4]float64{24, 24, 24, 24}},
		{"units", `width="32px" height="16px"`, [4]float64{32, 16, 32, 16}},
		{"viewBox", `width="48" height="48" viewBox="0 0 24 12"`, [4]float64{48, 48, 24, 12}},
		{"short viewBox", `width="20" height="10" viewBox="0 0"`, [4]float64{20, 10, 20, 10}},
		{"fractional", `width="20.5" height="10"`, [4]float64{20.5, 10, 20.5, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseSVG(strings.NewReader(`<svg `+tt.attrs+`><path d="M0 0"/></svg>`), nil)
			test.Error(t, err)
			test.T(t, [4]float64{doc.Width, doc.Height, doc.ViewportWidth, doc.ViewportHeight}, tt.expected)
		})
	}
}

func TestTranscodeErrors(t *testing.T) {
	var tests = []struct {
		name string
		svg  string
		err  error
	}{
		{"no svg", `<html><path d="M0 0"/></html>`, ErrNoSVG},
		{"empty", ``, ErrNoSVG},
		{"only defs", `<svg width="24" height="24"><defs></defs></svg>`, ErrNoElements},
		{"only text", `<svg><text>hi</text></svg>`, ErrNoElements},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Transcode(tt.svg)
			test.That(t, errors.Is(err, tt.err), err)
			test.String(t, out, "")
		})
	}

	_, err := Transcode(`<svg width="auto"><path d="M0 0"/></svg>`)
	test.That(t, err != nil)

	var malformed = []struct {
		name string
		svg  string
	}{
		{"unterminated start tag", `<svg><path d="M0 0"`},
		{"unclosed root", `<svg><path d="M0 0"/>`},
		{"unclosed group", `<svg><g><path d="M0 0"/></svg>`},
		{"stray quote", `<svg><path d="M0 0 fill="red"/></svg>`},
		{"unquoted value", `<svg><path d=M0/></svg>`},
		{"stray end tag", `<svg><path d="M0 0"/></g></svg>`},
		{"unterminated comment", `<svg><path d="M0 0"/></svg><!-- end`},
	}
	for _, tt := range malformed {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Transcode(tt.svg)
			test.That(t, err != nil)
			test.That(t, !errors.Is(err, ErrNoSVG) && !errors.Is(err, ErrNoElements), err)
			test.String(t, out, "")
		})
	}
}

func TestTranscodeOrder(t *testing.T) {
	svg := `<svg><rect width="1" height="1"/><g><path d="M1 1"/><circle r="1"/></g><line x2="1"/><polygon points="0 0 1 0 1 1"/></svg>`
	doc, err := ParseSVG(strings.NewReader(svg), nil)
	test.Error(t, err)

	pathData := []string{}
	for _, path := range doc.Paths {
		pathData = append(pathData, path.PathData)
	}
	test.T(t, pathData, []string{
		"M 0 0 L 1 0 L 1 1 L 0 1 Z",
		"M1 1",
		"M -1 0 A 1 1 0 1 0 1 0 A 1 1 0 1 0 -1 0 Z",
		"M 0 0 L 1 0",
		"M 0 0 L 1 0 L 1 1 Z",
	})
}

func TestTranscodeSkipsUnconvertible(t *testing.T) {
	doc, err := ParseSVG(strings.NewReader(`<svg><polyline points="1,1"/><path d="M0 0"/></svg>`), nil)
	test.Error(t, err)
	test.T(t, len(doc.Paths), 1)
	test.String(t, doc.Paths[0].PathData, "M0 0")

	doc, err = ParseSVG(strings.NewReader(`<svg><polyline points="1,1"/></svg>`), nil)
	test.Error(t, err)
	test.T(t, len(doc.Paths), 0)
}

func TestTranscodePaint(t *testing.T) {
	svg := `<svg>
<path d="M0 0" fill="none" stroke="none"/>
<path d="M0 0" style="fill:#abc;fill-rule:evenodd"/>
<path d="M0 0" fill="transparent" stroke="rgba(0,0,0,0.5)"/>
<path d="M0 0" stroke="#00000000" stroke-width="3"/>
<path d="M0 0" fill="black" stroke-width="3"/>
</svg>`
	doc, err := ParseSVG(strings.NewReader(svg), nil)
	test.Error(t, err)
	test.T(t, doc.Paths, []PathStyle{
		{PathData: "M0 0"},
		{PathData: "M0 0", FillColor: "#aabbcc", FillType: EvenOdd},
		{PathData: "M0 0", StrokeColor: "#80000000"},
		{PathData: "M0 0"},
		{PathData: "M0 0", FillColor: "#000000", FillType: NonZero},
	})
}

func TestTranscodeDefinitions(t *testing.T) {
	svg := `<svg><g clip-path="url(#a)"><path d="M1 1" fill="#000"/></g><defs><clipPath id="a"><rect width="24" height="24" fill="white"/></clipPath></defs></svg>`
	doc, err := ParseSVG(strings.NewReader(svg), nil)
	test.Error(t, err)
	test.T(t, len(doc.Paths), 2)

	doc, err = ParseSVG(strings.NewReader(svg), &Options{SkipDefinitions: true})
	test.Error(t, err)
	test.T(t, len(doc.Paths), 1)
	test.String(t, doc.Paths[0].PathData, "M1 1")

	_, err = ParseSVG(strings.NewReader(`<svg><defs><path d="M0 0"/></defs></svg>`), &Options{SkipDefinitions: true})
	test.That(t, errors.Is(err, ErrNoElements))
}

func TestTranscodeDensity(t *testing.T) {
	out, err := TranscodeWithOptions(`<svg width="10" height="20"><path d="M0 0"/></svg>`, &Options{Density: "px"})
	test.Error(t, err)
	test.That(t, strings.Contains(out, `android:width="10px"`))
	test.That(t, strings.Contains(out, `android:height="20px"`))
}

type failingParser struct{}

func (failingParser) ParseXML(_ io.Reader) (Document, error) {
	panic("boom")
}

func TestTranscodeRecovers(t *testing.T) {
	_, err := TranscodeWithOptions(`<svg/>`, &Options{Parser: failingParser{}})
	test.That(t, errors.Is(err, ErrTranscode), err)
}

func TestVectorDocumentEscapes(t *testing.T) {
	doc := &VectorDocument{
		Width: 1, Height: 1, ViewportWidth: 1, ViewportHeight: 1,
		Paths: []PathStyle{{PathData: `M0 0"<&`}},
	}
	test.That(t, strings.Contains(doc.String(), `android:pathData="M0 0&quot;&lt;&amp;"/>`))
}

func TestTranscodeLargeCoordinates(t *testing.T) {
	doc, err := ParseSVG(strings.NewReader(`<svg><rect x="1e308" width="1" height="1"/></svg>`), nil)
	test.Error(t, err)
	test.String(t, doc.Paths[0].PathData, "M 1e+308 0 L 1e+308 0 L 1e+308 1 L 1e+308 1 Z")
}
