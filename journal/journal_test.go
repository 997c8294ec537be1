package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopl/shoplcon/publish"
	"github.com/shopl/shoplcon/route"
	"github.com/tdewolff/test"
)

func openTestJournal(t *testing.T) *Journal {
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	test.Error(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecord(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	report := publish.Report{
		{Name: "hada/ic-a", Path: "res/ic-a.xml", Status: publish.Uploaded},
		{Name: "shopl/ic-b", Status: publish.Skipped, Err: publish.ErrNotEligible},
	}
	id, err := j.Record(ctx, RunFromReport("publish", route.Mobile, "update/icon", started, report))
	test.Error(t, err)
	test.T(t, id, int64(1))

	runs, err := j.Recent(ctx, 10)
	test.Error(t, err)
	test.T(t, runs, []Run{{
		ID:        1,
		Operation: "publish",
		Platform:  "mobile",
		Branch:    "update/icon",
		OK:        true,
		StartedAt: started,
		Outcomes: []Outcome{
			{Name: "hada/ic-a", Path: "res/ic-a.xml", Status: "uploaded"},
			{Name: "shopl/ic-b", Status: "skipped", Error: "icon not eligible for platform"},
		},
	}})
}

func TestRecent(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	for _, op := range []string{"publish", "delete", "publish"} {
		_, err := j.Record(ctx, Run{Operation: op, Platform: "web", Branch: "b", StartedAt: time.Now()})
		test.Error(t, err)
	}

	runs, err := j.Recent(ctx, 2)
	test.Error(t, err)
	test.T(t, len(runs), 2)
	test.T(t, runs[0].ID, int64(3))
	test.String(t, runs[1].Operation, "delete")
	test.T(t, runs[1].Outcomes, []Outcome{})
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path)
	test.Error(t, err)
	_, err = j.Record(context.Background(), Run{Operation: "publish", StartedAt: time.Now()})
	test.Error(t, err)
	test.Error(t, j.Close())

	j, err = Open(path)
	test.Error(t, err)
	defer j.Close()
	runs, err := j.Recent(context.Background(), 10)
	test.Error(t, err)
	test.T(t, len(runs), 1)
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := Open(" ")
	test.That(t, err != nil)
}

func TestCanceled(t *testing.T) {
	j := openTestJournal(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := j.Record(ctx, Run{})
	test.T(t, err, context.Canceled)
}
