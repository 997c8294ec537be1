package shoplcon

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/image/colornames"
)

// Transparent is the fully transparent black color. Fills and strokes that resolve to it are omitted.
const Transparent = "#00000000"

// opaqueBlack is returned for color expressions that are not understood.
const opaqueBlack = "#000000"

// keywordColors maps the supported named colors to their CSS hexadecimal value.
var keywordColors = func() map[string]string {
	names := []string{"black", "white", "red", "green", "blue", "yellow", "cyan", "magenta", "gray", "grey"}
	m := make(map[string]string, len(names))
	for _, name := range names {
		c := colornames.Map[name]
		m[name] = fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return m
}()

// ResolveColor converts a CSS color expression to a hexadecimal color for the vector document.
// Colors derived from rgb() or rgba() are written as #aarrggbb, 3-digit hexadecimal colors are
// expanded to #rrggbb, and other hexadecimal colors are returned unchanged. Empty, "none" and
// "transparent" return Transparent, and anything else that is not recognized returns opaque black.
func ResolveColor(v string) string {
	v = strings.TrimSpace(v)
	lower := strings.ToLower(v)
	switch lower {
	case "", "none", "transparent":
		return Transparent
	}

	if v[0] == '#' {
		if len(v) == 4 {
			return string([]byte{'#', v[1], v[1], v[2], v[2], v[3], v[3]})
		}
		return v
	} else if strings.HasPrefix(lower, "rgb(") || strings.HasPrefix(lower, "rgba(") {
		if col, ok := resolveRGBA(lower); ok {
			return col
		}
		return opaqueBlack
	} else if col, ok := keywordColors[lower]; ok {
		return col
	}
	return opaqueBlack
}

func resolveRGBA(v string) (string, bool) {
	start := strings.IndexByte(v, '(')
	end := strings.LastIndexByte(v, ')')
	if start == -1 || end < start {
		return "", false
	}

	comps := strings.Split(v[start+1:end], ",")
	if len(comps) != 3 && len(comps) != 4 {
		return "", false
	}
	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		f, ok := parseNumber(comps[i])
		if !ok {
			return "", false
		}
		rgb[i] = channel(f)
	}
	alpha := uint8(0xff)
	if len(comps) == 4 {
		a, ok := parseNumber(comps[3])
		if !ok {
			return "", false
		}
		alpha = channel(a * 255.0)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", alpha, rgb[0], rgb[1], rgb[2]), true
}

// channel rounds f to the nearest integer in [0,255].
func channel(f float64) uint8 {
	return uint8(math.Max(0.0, math.Min(255.0, math.Round(f))))
}
