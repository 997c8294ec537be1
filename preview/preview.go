// Package preview rasterizes icons to PNG, both the SVG source and the vector document it is
// transcoded to, so that a conversion can be reviewed before it is published.
package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/shopl/shoplcon"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// DefaultSize is the width and height of previews in pixels.
const DefaultSize = 128

// Render draws SVG source centered on a square transparent image of size pixels, keeping its
// aspect ratio. Unsupported SVG features are ignored.
func Render(r io.Reader, size int) (*image.RGBA, error) {
	if size <= 0 {
		size = DefaultSize
	}

	icon, err := oksvg.ReadIconStream(r, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("read svg: %w", err)
	}

	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0.0 || h <= 0.0 {
		w, h = float64(size), float64(size)
	}
	scale := float64(size) / math.Max(w, h)
	outW, outH := w*scale, h*scale
	icon.SetTarget((float64(size)-outW)/2.0, (float64(size)-outH)/2.0, outW, outH)

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)
	return img, nil
}

// RenderVector draws a vector document like Render draws SVG.
func RenderVector(doc *shoplcon.VectorDocument, size int) (*image.RGBA, error) {
	return Render(strings.NewReader(VectorSVG(doc)), size)
}

// PNG writes the rendered SVG source as PNG.
func PNG(w io.Writer, r io.Reader, size int) error {
	img, err := Render(r, size)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// VectorPNG writes the rendered vector document as PNG.
func VectorPNG(w io.Writer, doc *shoplcon.VectorDocument, size int) error {
	img, err := RenderVector(doc, size)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// VectorSVG returns the vector document as SVG, with #aarrggbb colors split into an RGB color and
// an opacity.
func VectorSVG(doc *shoplcon.VectorDocument) string {
	b := &bytes.Buffer{}
	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatFloat(doc.Width), formatFloat(doc.Height), formatFloat(doc.ViewportWidth), formatFloat(doc.ViewportHeight))
	for _, path := range doc.Paths {
		fmt.Fprintf(b, `<path d="%s"`, escape(path.PathData))
		if path.FillColor != "" {
			writePaint(b, "fill", path.FillColor)
			if path.FillType == shoplcon.EvenOdd {
				b.WriteString(` fill-rule="evenodd"`)
			}
		} else {
			b.WriteString(` fill="none"`)
		}
		if path.StrokeColor != "" {
			writePaint(b, "stroke", path.StrokeColor)
			strokeWidth := 0.0 // drawable default
			if path.HasStrokeWidth {
				strokeWidth = path.StrokeWidth
			}
			fmt.Fprintf(b, ` stroke-width="%s"`, formatFloat(strokeWidth))
		}
		b.WriteString("/>")
	}
	b.WriteString("</svg>")
	return b.String()
}

func writePaint(b *bytes.Buffer, name, color string) {
	rgb, opacity := splitAlpha(color)
	fmt.Fprintf(b, ` %s="%s"`, name, escape(rgb))
	if opacity < 1.0 {
		fmt.Fprintf(b, ` %s-opacity="%s"`, name, formatFloat(opacity))
	}
}

// splitAlpha splits #aarrggbb into #rrggbb and an opacity in [0,1]. Other colors are returned as is.
func splitAlpha(color string) (string, float64) {
	if len(color) != 9 || color[0] != '#' {
		return color, 1.0
	}
	a, err := strconv.ParseUint(color[1:3], 16, 8)
	if err != nil {
		return color, 1.0
	}
	return "#" + color[3:], float64(a) / 255.0
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var escaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `"`, "&quot;")

func escape(s string) string {
	return escaper.Replace(s)
}
