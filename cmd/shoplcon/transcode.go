package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/shopl/shoplcon"
	"github.com/shopl/shoplcon/bridge"
	"github.com/shopl/shoplcon/preview"
	"github.com/shopl/shoplcon/route"
	"github.com/tdewolff/argp"
)

type Transcode struct {
	Density         string `short:"d" default:"dp" desc:"Unit of the drawable width and height"`
	SkipDefinitions bool   `desc:"Ignore shapes inside defs, clipPath, mask, symbol, pattern and marker"`
	Precision       int    `default:"4" desc:"Number of fractional digits of coordinates"`
	Output          string `short:"o" desc:"Output file"`
	Input           string `index:"0" desc:"Input SVG file, - for stdin"`
}

func (cmd *Transcode) Run() error {
	doc, err := parseInput(cmd.Input, &shoplcon.Options{
		Density:         cmd.Density,
		SkipDefinitions: cmd.SkipDefinitions,
	}, cmd.Precision)
	if err != nil {
		return err
	}

	w, err := createOutput(cmd.Output)
	if err != nil {
		return err
	}
	if _, err := doc.WriteTo(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// readSVG reads an SVG file, or stdin, as UTF-8.
func readSVG(name string) (string, error) {
	r, err := openInput(name)
	if err != nil {
		return "", err
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return bridge.Decode(b)
}

func parseInput(name string, opts *shoplcon.Options, precision int) (*shoplcon.VectorDocument, error) {
	svg, err := readSVG(name)
	if err != nil {
		return nil, err
	}
	if 0 <= precision {
		shoplcon.Precision = precision
	}
	return shoplcon.ParseSVG(bytes.NewBufferString(svg), opts)
}

type Route struct {
	Platform string `short:"p" default:"mobile" desc:"Target platform, mobile or web"`
	Name     string `index:"0" desc:"Icon name, e.g. shopl/ic-home"`
}

func (cmd *Route) Run() error {
	if cmd.Name == "" {
		return argp.ShowUsage
	}
	platform, err := route.ParsePlatform(cmd.Platform)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dst := cfg.Policy().Route(cmd.Name, platform)
	if !dst.Eligible {
		return fmt.Errorf("%s is not a %v icon", cmd.Name, platform)
	}
	fmt.Printf("%s (branch %s, transcode %v)\n", dst.Path, dst.Branch, dst.Transcode())
	return nil
}

type Preview struct {
	Size   int    `short:"s" default:"128" desc:"Image width and height in pixels"`
	Vector bool   `desc:"Render the transcoded vector drawable instead of the SVG source"`
	Output string `short:"o" desc:"Output PNG file"`
	Input  string `index:"0" desc:"Input SVG file, - for stdin"`
}

func (cmd *Preview) Run() error {
	if cmd.Output == "" {
		return argp.ShowUsage
	}

	svg, err := readSVG(cmd.Input)
	if err != nil {
		return err
	}
	var doc *shoplcon.VectorDocument
	if cmd.Vector {
		if doc, err = shoplcon.ParseSVG(bytes.NewBufferString(svg), nil); err != nil {
			return err
		}
	}

	w, err := createOutput(cmd.Output)
	if err != nil {
		return err
	}
	if doc != nil {
		err = preview.VectorPNG(w, doc, cmd.Size)
	} else {
		err = preview.PNG(w, bytes.NewBufferString(svg), cmd.Size)
	}
	if err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
