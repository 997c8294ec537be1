package notify

import (
	"bytes"
	"testing"

	"github.com/tdewolff/test"
)

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	Infof(r, "branch %s", "update/icon")
	Successf(r, "uploaded %d", 2)
	Errorf(r, "failed")
	test.T(t, r.Entries(), []Entry{
		{Info, "branch update/icon"},
		{Success, "uploaded 2"},
		{Error, "failed"},
	})
	test.T(t, r.Count(Error), 1)
	test.String(t, r.Entries()[2].String(), "error: failed")
}

func TestTerminal(t *testing.T) {
	b := &bytes.Buffer{}
	sink := NewTerminal(b)
	sink.Notify(Success, "done")
	test.String(t, b.String(), "[success] done\n")

	sink.color = true
	b.Reset()
	sink.Notify(Error, "oops")
	test.String(t, b.String(), ErrorColor+"[error] oops"+DefaultColor+"\n")
}

func TestMulti(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	Multi{a, Discard, b}.Notify(Info, "x")
	test.T(t, len(a.Entries()), 1)
	test.T(t, len(b.Entries()), 1)
}

func TestSeverityString(t *testing.T) {
	test.String(t, Info.String(), "info")
	test.String(t, Severity(7).String(), "Severity(7)")
}
