package preview

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/shopl/shoplcon"
	"github.com/tdewolff/test"
)

const redSquare = `<svg width="24" height="24" viewBox="0 0 24 24"><rect x="6" y="6" width="12" height="12" fill="#ff0000"/></svg>`

func TestRender(t *testing.T) {
	img, err := Render(strings.NewReader(redSquare), 48)
	test.Error(t, err)
	test.T(t, img.Bounds().Dx(), 48)
	test.T(t, img.RGBAAt(24, 24), color.RGBA{255, 0, 0, 255})
	test.T(t, img.RGBAAt(2, 2), color.RGBA{})
}

func TestRenderVector(t *testing.T) {
	doc, err := shoplcon.ParseSVG(strings.NewReader(redSquare), nil)
	test.Error(t, err)

	img, err := RenderVector(doc, 48)
	test.Error(t, err)
	test.T(t, img.RGBAAt(24, 24), color.RGBA{255, 0, 0, 255})
	test.T(t, img.RGBAAt(2, 2), color.RGBA{})
}

func TestPNG(t *testing.T) {
	b := &bytes.Buffer{}
	test.Error(t, PNG(b, strings.NewReader(redSquare), 0))
	img, err := png.Decode(b)
	test.Error(t, err)
	test.T(t, img.Bounds().Dx(), DefaultSize)
}

func TestVectorSVG(t *testing.T) {
	doc := &shoplcon.VectorDocument{
		Width: 24, Height: 24, ViewportWidth: 12, ViewportHeight: 12,
		Paths: []shoplcon.PathStyle{
			{PathData: "M0 0L1 1", FillColor: "#80ff0000", FillType: shoplcon.EvenOdd},
			{PathData: "M1 1", StrokeColor: "#00ff00", StrokeWidth: 1.5, HasStrokeWidth: true},
			{PathData: "M2 2", StrokeColor: "#0000ff"},
		},
	}
	test.String(t, VectorSVG(doc), `<svg xmlns="http://www.w3.org/2000/svg" width="24" height="24" viewBox="0 0 12 12">`+
		`<path d="M0 0L1 1" fill="#ff0000" fill-opacity="0.5019607843137255" fill-rule="evenodd"/>`+
		`<path d="M1 1" fill="none" stroke="#00ff00" stroke-width="1.5"/>`+
		`<path d="M2 2" fill="none" stroke="#0000ff" stroke-width="0"/></svg>`)
}

func TestSplitAlpha(t *testing.T) {
	rgb, a := splitAlpha("#00123456")
	test.String(t, rgb, "#123456")
	test.Float(t, a, 0.0)

	rgb, a = splitAlpha("#abc")
	test.String(t, rgb, "#abc")
	test.Float(t, a, 1.0)
}
