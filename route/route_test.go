package route

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestRoute(t *testing.T) {
	var tests = []struct {
		name     string
		platform Platform
		path     string
		eligible bool
	}{
		{"shopl/ic-home", Web, "packages/shopl-assets/src/icons/assets/ic-home.svg", true},
		{"shoplworks/ic-star", Web, "packages/shoplworks-assets/src/icons/assets/ic-star.svg", true},
		{"hada/ic-home", Mobile, "packages/mobile-assets/src/main/res/drawable/ic-home.xml", true},
		{"hada/sub/ic_back ", Mobile, "packages/mobile-assets/src/main/res/drawable/ic_back.xml", true},
		{"shopl/ic-home", Mobile, "", false},
		{"hada/ic-home", Web, "", false},
		{"ic-plain", Mobile, "packages/mobile-assets/src/main/res/drawable/ic-plain.xml", true},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.platform.String(), func(t *testing.T) {
			dst := DefaultPolicy.Route(tt.name, tt.platform)
			test.String(t, dst.Path, tt.path)
			test.T(t, dst.Eligible, tt.eligible)
			test.String(t, dst.Branch, "update/icon")
			test.T(t, dst.Transcode(), tt.eligible && tt.platform == Mobile)
		})
	}
}

func TestRouteSegments(t *testing.T) {
	dst := DefaultPolicy.Route("shopl/arrows/ic-up", Web)
	test.String(t, dst.Prefix, "shopl")
	test.String(t, dst.FileName, "ic-up")
	test.String(t, dst.Name, "shopl/arrows/ic-up")
}

func TestRouteNormalization(t *testing.T) {
	// decomposed hangul jamo compose to a single syllable
	dst := DefaultPolicy.Route("hada/ic-\u1112\u1161", Mobile)
	test.String(t, dst.FileName, "ic-\ud558")
}

func TestRouteCustomPolicy(t *testing.T) {
	pol := Policy{
		WebBrands:  []string{"acme", "beta"},
		WebPath:    "web/{prefix}/{file}.svg",
		MobileRoot: "res/drawable/",
		Branch:     "icons",
	}
	test.String(t, pol.Route("beta2/ic-a", Web).Path, "web/beta2/ic-a.svg")
	test.String(t, pol.Route("shopl/ic-a", Mobile).Path, "res/drawable/ic-a.xml")
	test.String(t, pol.Route("shopl/ic-a", Mobile).Branch, "icons")
}

func TestParsePlatform(t *testing.T) {
	p, err := ParsePlatform(" Web")
	test.Error(t, err)
	test.T(t, p, Web)

	p, err = ParsePlatform("mobile")
	test.Error(t, err)
	test.T(t, p, Mobile)

	_, err = ParsePlatform("ios")
	test.That(t, err != nil)
}

func TestIsIconName(t *testing.T) {
	test.That(t, IsIconName("shopl/ic-home"))
	test.That(t, IsIconName("shopl/Icon"))
	test.That(t, !IsIconName("shopl/logo"))
	test.That(t, !IsIconName("ic/logo"))
}
