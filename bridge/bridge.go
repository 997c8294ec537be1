// Package bridge exports icons from SVG files in a directory, the way a design tool hands over its
// selected icon nodes.
package bridge

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopl/shoplcon/notify"
	"github.com/shopl/shoplcon/publish"
	"golang.org/x/net/html/charset"
)

// Dir exports the SVG files below Root. The icon name of a file is its slash-separated path relative
// to Root without extension, so that Root/shopl/ic-home.svg becomes shopl/ic-home.
type Dir struct {
	Root string
	// Selection are the icon names to export, all files are exported when empty.
	Selection []string
	// Sink receives errors of files that could not be exported.
	Sink notify.Sink
}

var _ publish.Bridge = (*Dir)(nil)

// NewDir returns a bridge for the SVG files below root, restricted to the given icon names if any.
func NewDir(root string, names ...string) *Dir {
	return &Dir{
		Root:      root,
		Selection: names,
		Sink:      notify.Discard,
	}
}

func (d *Dir) selected(name string) bool {
	if len(d.Selection) == 0 {
		return true
	}
	for _, s := range d.Selection {
		if strings.TrimSuffix(s, ".svg") == name {
			return true
		}
	}
	return false
}

func (d *Dir) walk(ctx context.Context, fn func(name, path string) error) error {
	return filepath.WalkDir(d.Root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		} else if err := ctx.Err(); err != nil {
			return err
		} else if entry.IsDir() || !strings.EqualFold(filepath.Ext(path), ".svg") {
			return nil
		}

		rel, err := filepath.Rel(d.Root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		name = name[:len(name)-len(".svg")]
		if !d.selected(name) {
			return nil
		}
		return fn(name, path)
	})
}

// ExportSelection returns the selected icons in lexical order. Files that cannot be read are
// reported to Sink and left out.
func (d *Dir) ExportSelection(ctx context.Context) ([]publish.Icon, error) {
	sink := d.Sink
	if sink == nil {
		sink = notify.Discard
	}

	icons := []publish.Icon{}
	err := d.walk(ctx, func(name, path string) error {
		data, err := ReadFile(path)
		if err != nil {
			notify.Errorf(sink, "%s: export failed: %v", name, err)
			return nil
		}
		icons = append(icons, publish.Icon{Name: name, Data: data})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return icons, nil
}

// SelectionIconCount returns the number of selected SVG files.
func (d *Dir) SelectionIconCount(ctx context.Context) (int, error) {
	n := 0
	err := d.walk(ctx, func(string, string) error {
		n++
		return nil
	})
	return n, err
}

// ReadFile reads an SVG file and converts it to UTF-8 according to the encoding in its XML
// declaration.
func ReadFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Decode(b)
}

// Decode converts SVG source to UTF-8 according to the encoding in its XML declaration. The
// declaration is rewritten to name UTF-8.
func Decode(b []byte) (string, error) {
	label, start, end := declaredEncoding(b)
	if label == "" || strings.EqualFold(label, "utf-8") || strings.EqualFold(label, "utf8") {
		return string(bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))), nil
	}

	r, err := charset.NewReaderLabel(label, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("encoding %q: %w", label, err)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if s := string(decoded); start < len(s) && strings.HasPrefix(s[start:], label) {
		return s[:start] + "UTF-8" + s[end:], nil
	}
	return string(decoded), nil
}

// declaredEncoding returns the encoding label of the XML declaration and its byte offsets.
func declaredEncoding(b []byte) (string, int, int) {
	if !bytes.HasPrefix(b, []byte("<?xml")) {
		return "", 0, 0
	}
	end := bytes.Index(b, []byte("?>"))
	if end == -1 {
		return "", 0, 0
	}
	decl := b[:end]
	i := bytes.Index(decl, []byte("encoding"))
	if i == -1 {
		return "", 0, 0
	}
	rest := bytes.TrimLeft(decl[i+len("encoding"):], " \t\r\n=")
	if len(rest) == 0 || rest[0] != '"' && rest[0] != '\'' {
		return "", 0, 0
	}
	quote := rest[0]
	j := bytes.IndexByte(rest[1:], quote)
	if j == -1 {
		return "", 0, 0
	}
	start := len(decl) - len(rest) + 1
	return string(rest[1 : 1+j]), start, start + j
}
