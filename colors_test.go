package shoplcon

import (
	"fmt"
	"strings"
	"testing"

	"github.com/tdewolff/test"
)

func TestResolveColor(t *testing.T) {
	var tests = []struct {
		color    string
		expected string
	}{
		{"", Transparent},
		{"none", Transparent},
		{"transparent", Transparent},
		{" None ", Transparent},
		{"#abc", "#aabbcc"},
		{"#ABC", "#AABBCC"},
		{"#FF0000", "#FF0000"},
		{"#80ff0000", "#80ff0000"},
		{"rgb(255, 0, 0)", "#ffff0000"},
		{"rgb(255,128,0)", "#ffff8000"},
		{"rgb(12.4, 12.5, 300)", "#ff0c0dff"},
		{"rgba(0, 0, 255, 0.5)", "#800000ff"},
		{"RGBA(0,0,0,0)", "#00000000"},
		{"rgba(0,0,0,1)", "#ff000000"},
		{"black", "#000000"},
		{"White", "#ffffff"},
		{"red", "#ff0000"},
		{"green", "#008000"},
		{"blue", "#0000ff"},
		{"yellow", "#ffff00"},
		{"cyan", "#00ffff"},
		{"magenta", "#ff00ff"},
		{"gray", "#808080"},
		{"GREY", "#808080"},
		{"currentColor", "#000000"},
		{"rgb(a,b,c)", "#000000"},
		{"rgb(1,2)", "#000000"},
		{"hsl(0, 100%, 50%)", "#000000"},
	}
	for _, tt := range tests {
		t.Run(tt.color, func(t *testing.T) {
			test.String(t, ResolveColor(tt.color), tt.expected)
		})
	}
}

func TestResolveColorShortHex(t *testing.T) {
	const digits = "0123456789abcdef"
	for _, r := range digits {
		for _, g := range digits {
			b := digits[(int(r)+int(g))%len(digits)]
			col := fmt.Sprintf("#%c%c%c", r, g, b)
			expected := fmt.Sprintf("#%c%c%c%c%c%c", r, r, g, g, b, b)
			test.String(t, ResolveColor(col), expected)
		}
	}
}

func TestResolveColorAlphaPrefix(t *testing.T) {
	for i := 0; i <= 100; i++ {
		a := float64(i) / 100.0
		col := ResolveColor(fmt.Sprintf("rgba(10, 20, 30, %v)", a))
		alpha := fmt.Sprintf("#%02x", channel(a*255.0))
		test.That(t, strings.HasPrefix(col, alpha), col, "must start with", alpha)
		test.String(t, col[3:], "0a141e")
	}
}
