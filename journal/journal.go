// Package journal records publish runs and the outcome of every icon in a SQLite database.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopl/shoplcon/publish"
	"github.com/shopl/shoplcon/route"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	operation  TEXT    NOT NULL,
	platform   TEXT    NOT NULL,
	branch     TEXT    NOT NULL,
	ok         INTEGER NOT NULL,
	started_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS outcomes (
	run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	seq    INTEGER NOT NULL,
	name   TEXT    NOT NULL,
	path   TEXT    NOT NULL,
	status TEXT    NOT NULL,
	error  TEXT    NOT NULL,
	PRIMARY KEY (run_id, seq)
);`

// Outcome is the stored outcome of a single icon.
type Outcome struct {
	Name   string
	Path   string
	Status string
	Error  string
}

// Run is a stored publish or delete run.
type Run struct {
	ID        int64
	Operation string
	Platform  string
	Branch    string
	OK        bool
	StartedAt time.Time
	Outcomes  []Outcome
}

// RunFromReport converts the report of a publish or delete run for storage.
func RunFromReport(operation string, platform route.Platform, branch string, startedAt time.Time, report publish.Report) Run {
	run := Run{
		Operation: operation,
		Platform:  platform.String(),
		Branch:    branch,
		OK:        report.OK(),
		StartedAt: startedAt,
		Outcomes:  make([]Outcome, 0, len(report)),
	}
	for _, o := range report {
		outcome := Outcome{Name: o.Name, Path: o.Path, Status: o.Status.String()}
		if o.Err != nil {
			outcome.Error = o.Err.Error()
		}
		run.Outcomes = append(run.Outcomes, outcome)
	}
	return run
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Journal is a SQLite database of runs.
type Journal struct {
	sqlDB *sql.DB
}

// Open opens or creates the journal at path. The path ":memory:" opens a temporary journal.
func Open(path string) (*Journal, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("journal path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path)
	}
	dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Journal{sqlDB: sqlDB}, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	if j == nil || j.sqlDB == nil {
		return nil
	}
	return j.sqlDB.Close()
}

// Record stores a run with its outcomes and returns its ID.
func (j *Journal) Record(ctx context.Context, run Run) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	tx, err := j.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	ok := 0
	if run.OK {
		ok = 1
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (operation, platform, branch, ok, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.Operation, run.Platform, run.Branch, ok, toMillis(run.StartedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	for i, o := range run.Outcomes {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO outcomes (run_id, seq, name, path, status, error) VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, o.Name, o.Path, o.Status, o.Error,
		)
		if err != nil {
			return 0, fmt.Errorf("insert outcome: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// Recent returns the last limit runs, most recent first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := j.sqlDB.QueryContext(ctx,
		`SELECT id, operation, platform, branch, ok, started_at FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	runs := []Run{}
	for rows.Next() {
		var run Run
		var ok int
		var startedAt int64
		if err := rows.Scan(&run.ID, &run.Operation, &run.Platform, &run.Branch, &ok, &startedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.OK = ok != 0
		run.StartedAt = fromMillis(startedAt)
		runs = append(runs, run)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	} else if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		if runs[i].Outcomes, err = j.outcomes(ctx, runs[i].ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (j *Journal) outcomes(ctx context.Context, runID int64) ([]Outcome, error) {
	rows, err := j.sqlDB.QueryContext(ctx,
		`SELECT name, path, status, error FROM outcomes WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	outcomes := []Outcome{}
	for rows.Next() {
		var o Outcome
		if err := rows.Scan(&o.Name, &o.Path, &o.Status, &o.Error); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}
