// Package route decides where an exported icon is published, based on its slash-namespaced name
// and the target platform.
package route

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Platform is the target platform of a publish run.
type Platform int

// see Platform
const (
	Mobile Platform = iota
	Web
)

func (p Platform) String() string {
	switch p {
	case Mobile:
		return "mobile"
	case Web:
		return "web"
	}
	return fmt.Sprintf("Platform(%d)", int(p))
}

// ParsePlatform parses "mobile" or "web", case-insensitive.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mobile", "android":
		return Mobile, nil
	case "web":
		return Web, nil
	}
	return 0, fmt.Errorf("unknown platform %q", s)
}

// Destination is where an icon goes in the repository.
type Destination struct {
	Name     string // full icon name, e.g. shopl/ic-home
	FileName string // final name segment, NFC-normalized
	Prefix   string // first name segment
	Path     string
	Branch   string
	Platform Platform
	Eligible bool
}

// Transcode returns true if the icon must be converted to a vector document before upload, which
// is the case for eligible mobile destinations only.
func (d Destination) Transcode() bool {
	return d.Eligible && d.Platform == Mobile
}

// Policy maps icon names to destinations.
type Policy struct {
	// WebBrands are the name prefixes of web icons, every other prefix is a mobile icon.
	WebBrands []string
	// WebPath is the path template of web icons, with {prefix} and {file} placeholders.
	WebPath string
	// MobileRoot is the directory of mobile icons.
	MobileRoot string
	// Branch is the working branch all files are written to.
	Branch string
}

// DefaultPolicy is the routing policy of the shoplflow repository.
var DefaultPolicy = Policy{
	WebBrands:  []string{"shopl"},
	WebPath:    "packages/{prefix}-assets/src/icons/assets/{file}.svg",
	MobileRoot: "packages/mobile-assets/src/main/res/drawable",
	Branch:     "update/icon",
}

// Route returns the destination of the named icon for platform p. Icons with a web brand prefix
// are only eligible for the web, all others only for mobile. Ineligible destinations keep their
// name segments but have no path.
func (pol Policy) Route(name string, p Platform) Destination {
	segs := strings.Split(name, "/")
	dst := Destination{
		Name:     name,
		FileName: norm.NFC.String(strings.TrimSpace(segs[len(segs)-1])),
		Prefix:   strings.TrimSpace(segs[0]),
		Branch:   pol.Branch,
		Platform: p,
	}

	web := pol.IsWebPrefix(dst.Prefix)
	switch {
	case p == Web && web:
		dst.Eligible = true
		dst.Path = strings.NewReplacer("{prefix}", dst.Prefix, "{file}", dst.FileName).Replace(pol.WebPath)
	case p == Mobile && !web:
		dst.Eligible = true
		dst.Path = strings.TrimSuffix(pol.MobileRoot, "/") + "/" + dst.FileName + ".xml"
	}
	return dst
}

// IsWebPrefix returns true if prefix starts with one of the web brands.
func (pol Policy) IsWebPrefix(prefix string) bool {
	for _, brand := range pol.WebBrands {
		if brand != "" && strings.HasPrefix(prefix, brand) {
			return true
		}
	}
	return false
}

// IsIconName returns true if the final segment of name contains "ic", case-insensitive. Other
// exported nodes are not icons and are not published.
func IsIconName(name string) bool {
	segs := strings.Split(name, "/")
	return strings.Contains(strings.ToLower(segs[len(segs)-1]), "ic")
}
