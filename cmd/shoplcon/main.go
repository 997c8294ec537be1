package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopl/shoplcon/config"
	"github.com/shopl/shoplcon/notify"
	"github.com/tdewolff/argp"
	"golang.org/x/term"
)

type Main struct{}

func main() {
	root := argp.NewCmd(&Main{}, "Icon transcoder and publisher for Android vector drawables and web SVG")
	root.AddCmd(&Transcode{}, "transcode", "Convert SVG to an Android vector drawable")
	root.AddCmd(&Route{}, "route", "Show the destination path of an icon")
	root.AddCmd(&Publish{}, "publish", "Publish the SVG icons of a directory to the working branch")
	root.AddCmd(&Delete{}, "delete", "Delete the icons of a directory from the working branch")
	root.AddCmd(&Preview{}, "preview", "Render an SVG icon or its vector drawable to PNG")
	root.AddCmd(&Token{}, "token", "Get, set or delete the stored GitHub token")
	root.AddCmd(&History{}, "history", "Show recent publish runs")
	root.Parse()
	root.PrintHelp()
}

func (cmd *Main) Run() error {
	return argp.ShowUsage
}

// loadConfig loads the environment configuration.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func terminal() *notify.Terminal {
	return notify.NewTerminal(os.Stderr)
}

// openInput opens a file, or stdin for "-" or an empty name.
func openInput(name string) (io.ReadCloser, error) {
	if name == "" || name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(name)
}

// createOutput creates a file, or returns stdout for "-" or an empty name.
func createOutput(name string) (io.WriteCloser, error) {
	if name == "" || name == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(name)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

// prompt asks for a line of input, without echo when stdin is a terminal.
func prompt(label string) (string, error) {
	fmt.Fprint(os.Stderr, label+": ")
	if term.IsTerminal(int(os.Stdin.Fd())) {
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// passphrase returns the configured passphrase or asks for it.
func passphrase(cfg config.Config) (string, error) {
	if cfg.Passphrase != "" {
		return cfg.Passphrase, nil
	}
	return prompt("Passphrase")
}

func splitNames(s string) []string {
	names := []string{}
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func withTelemetry(cfg config.Config, fn func(context.Context) error) error {
	ctx := context.Background()
	shutdown, err := setupTelemetry(ctx, cfg)
	if err != nil {
		return err
	}
	defer shutdown(ctx)
	return fn(ctx)
}
