package shoplcon

import (
	"math"
	"strings"
)

// ShapeTags are the element tags that can be converted to path data, see ConvertElement.
var ShapeTags = []string{"path", "circle", "rect", "ellipse", "line", "polyline", "polygon"}

// Line returns a line segment from (x1,y1) to (x2,y2). The path is left open.
func Line(x1, y1, x2, y2 float64) *Path {
	p := &Path{}
	p.MoveTo(x1, y1)
	p.LineTo(x2, y2)
	return p
}

// Rectangle returns a closed rectangle at (x,y) of width w and height h.
func Rectangle(x, y, w, h float64) *Path {
	p := &Path{}
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
	return p
}

// RoundedRectangle returns a rectangle at (x,y) of width w and height h with corners of radii rx
// and ry. The corners are quadratic Bézier curves. Radii are limited to half the width and height
// respectively, and when both are zero a plain rectangle is returned.
func RoundedRectangle(x, y, w, h, rx, ry float64) *Path {
	rx = math.Max(0.0, math.Min(rx, w/2.0))
	ry = math.Max(0.0, math.Min(ry, h/2.0))
	if equal(rx, 0.0) && equal(ry, 0.0) {
		return Rectangle(x, y, w, h)
	}

	p := &Path{}
	p.MoveTo(x+rx, y)
	p.LineTo(x+w-rx, y)
	p.QuadTo(x+w, y, x+w, y+ry)
	p.LineTo(x+w, y+h-ry)
	p.QuadTo(x+w, y+h, x+w-rx, y+h)
	p.LineTo(x+rx, y+h)
	p.QuadTo(x, y+h, x, y+h-ry)
	p.LineTo(x, y+ry)
	p.QuadTo(x, y, x+rx, y)
	p.Close()
	return p
}

// Circle returns a circle of radius r centered at (cx,cy).
func Circle(cx, cy, r float64) *Path {
	return Ellipse(cx, cy, r, r)
}

// Ellipse returns an ellipse of radii rx and ry centered at (cx,cy). It starts at the leftmost point
// and uses two half-ellipse arcs.
func Ellipse(cx, cy, rx, ry float64) *Path {
	p := &Path{}
	p.MoveTo(cx-rx, cy)
	p.ArcTo(rx, ry, 0.0, true, false, cx+rx, cy)
	p.ArcTo(rx, ry, 0.0, true, false, cx-rx, cy)
	p.Close()
	return p
}

// Polyline returns a path through the coordinate pairs in points. It returns nil when there are less
// than two pairs, and a trailing unpaired value is ignored. When closed is set the path is closed.
func Polyline(points []float64, closed bool) *Path {
	if len(points) < 4 {
		return nil
	}

	p := &Path{}
	p.MoveTo(points[0], points[1])
	for i := 2; i+1 < len(points); i += 2 {
		p.LineTo(points[i], points[i+1])
	}
	if closed {
		p.Close()
	}
	return p
}

// ConvertElement converts a shape element to path data. Path elements return their path data
// verbatim. It returns false for unsupported tags or when the element holds no usable geometry.
func ConvertElement(el Element) (string, bool) {
	switch el.Tag() {
	case "path":
		d, _ := el.Attr("d")
		if strings.TrimSpace(d) == "" {
			return "", false
		}
		return d, true
	case "circle":
		cx := attrNumber(el, "cx")
		cy := attrNumber(el, "cy")
		r := attrNumber(el, "r")
		return Circle(cx, cy, r).String(), true
	case "ellipse":
		cx := attrNumber(el, "cx")
		cy := attrNumber(el, "cy")
		rx := attrNumber(el, "rx")
		ry := attrNumber(el, "ry")
		return Ellipse(cx, cy, rx, ry).String(), true
	case "rect":
		x := attrNumber(el, "x")
		y := attrNumber(el, "y")
		w := attrNumber(el, "width")
		h := attrNumber(el, "height")
		rx, ry := rectRadii(el)
		return RoundedRectangle(x, y, w, h, rx, ry).String(), true
	case "line":
		x1 := attrNumber(el, "x1")
		y1 := attrNumber(el, "y1")
		x2 := attrNumber(el, "x2")
		y2 := attrNumber(el, "y2")
		return Line(x1, y1, x2, y2).String(), true
	case "polyline", "polygon":
		v, _ := el.Attr("points")
		points, ok := parseNumbers(v)
		if !ok {
			return "", false
		}
		p := Polyline(points, el.Tag() == "polygon")
		if p == nil {
			return "", false
		}
		return p.String(), true
	}
	return "", false
}

// rectRadii returns the corner radii of a rect, where a missing radius takes the value of the other.
func rectRadii(el Element) (float64, float64) {
	_, hasRx := el.Attr("rx")
	_, hasRy := el.Attr("ry")
	rx := attrNumber(el, "rx")
	ry := attrNumber(el, "ry")
	if !hasRy {
		ry = rx
	} else if !hasRx {
		rx = ry
	}
	return rx, ry
}
