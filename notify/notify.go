// Package notify reports the progress of a publish run as severity-tagged lines.
package notify

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// Severity is the severity of a log line.
type Severity int

// see Severity
const (
	Info Severity = iota
	Success
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Success:
		return "success"
	case Error:
		return "error"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Sink receives log lines.
type Sink interface {
	Notify(Severity, string)
}

// Infof sends a formatted info line to sink.
func Infof(sink Sink, format string, args ...interface{}) {
	sink.Notify(Info, fmt.Sprintf(format, args...))
}

// Successf sends a formatted success line to sink.
func Successf(sink Sink, format string, args ...interface{}) {
	sink.Notify(Success, fmt.Sprintf(format, args...))
}

// Errorf sends a formatted error line to sink.
func Errorf(sink Sink, format string, args ...interface{}) {
	sink.Notify(Error, fmt.Sprintf(format, args...))
}

////////////////////////////////////////////////////////////////

// Entry is a recorded log line.
type Entry struct {
	Severity Severity
	Message  string
}

func (e Entry) String() string {
	return e.Severity.String() + ": " + e.Message
}

// Recorder keeps all log lines in order. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// Notify records a log line.
func (r *Recorder) Notify(severity Severity, msg string) {
	r.mu.Lock()
	r.entries = append(r.entries, Entry{severity, msg})
	r.mu.Unlock()
}

// Entries returns a copy of the recorded lines.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry{}, r.entries...)
}

// Count returns the number of recorded lines of the given severity.
func (r *Recorder) Count(severity Severity) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.Severity == severity {
			n++
		}
	}
	return n
}

////////////////////////////////////////////////////////////////

// Colors of the terminal output.
const (
	DefaultColor = "\x1b[0m"
	InfoColor    = "\x1b[36m"
	SuccessColor = "\x1b[32m"
	ErrorColor   = "\x1b[31m"
)

// Terminal writes log lines to a writer, colored by severity when it is a terminal.
type Terminal struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
}

// NewTerminal returns a sink that writes to w. Colors are used if w is a terminal.
func NewTerminal(w io.Writer) *Terminal {
	color := false
	if f, ok := w.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}
	return &Terminal{w: w, color: color}
}

// Notify writes a log line.
func (t *Terminal) Notify(severity Severity, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.w, t.decorate(fmt.Sprintf("[%v] %s", severity, msg), severity))
}

func (t *Terminal) decorate(s string, severity Severity) string {
	if !t.color {
		return s
	}
	switch severity {
	case Info:
		s = InfoColor + s
	case Success:
		s = SuccessColor + s
	case Error:
		s = ErrorColor + s
	default:
		return s
	}
	return s + DefaultColor
}

////////////////////////////////////////////////////////////////

// Multi sends every log line to all sinks.
type Multi []Sink

// Notify sends a log line to all sinks.
func (m Multi) Notify(severity Severity, msg string) {
	for _, sink := range m {
		sink.Notify(severity, msg)
	}
}

// Discard drops all log lines.
var Discard Sink = discard{}

type discard struct{}

func (discard) Notify(Severity, string) {}
