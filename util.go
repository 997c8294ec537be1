package shoplcon

import (
	"math"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
)

// Precision is the number of fractional digits kept when writing coordinates and dimensions.
var Precision = 4

// Epsilon is the tolerance used when comparing lengths against zero.
const Epsilon = 1e-10

// equal returns true if a and b are equal with tolerance Epsilon.
func equal(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

////////////////////////////////////////////////////////////////

// num formats a coordinate in its shortest decimal form. Magnitudes of at least 1e21 are written
// with an exponent.
type num float64

func (f num) String() string {
	if 1e21 <= math.Abs(float64(f)) {
		return strconv.FormatFloat(float64(f), 'g', -1, 64)
	}
	s := strconv.FormatFloat(float64(f), 'f', Precision, 64)
	if strings.IndexByte(s, '.') != -1 {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}

// parseNumber parses the numeric prefix of v, so that unit suffixes such as "px" are ignored.
func parseNumber(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if len(v) == 0 {
		return 0.0, false
	}
	nn, _ := parse.Dimension([]byte(v))
	if nn == 0 {
		return 0.0, false
	}
	f, err := strconv.ParseFloat(v[:nn], 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0.0, false
	}
	return f, true
}

// parseNumbers parses a list of numbers separated by whitespace and/or commas.
func parseNumbers(v string) ([]float64, bool) {
	items := strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	vals := make([]float64, 0, len(items))
	for _, item := range items {
		f, err := strconv.ParseFloat(item, 64)
		if err != nil {
			return nil, false
		}
		vals = append(vals, f)
	}
	return vals, true
}

// attrNumber returns the numeric value of an attribute, or 0 when it is absent or not a number.
func attrNumber(el Element, name string) float64 {
	v, ok := el.Attr(name)
	if !ok {
		return 0.0
	}
	f, _ := parseNumber(v)
	return f
}
