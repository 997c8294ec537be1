package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopl/shoplcon"
	"github.com/shopl/shoplcon/bridge"
	"github.com/shopl/shoplcon/config"
	"github.com/shopl/shoplcon/journal"
	"github.com/shopl/shoplcon/notify"
	"github.com/shopl/shoplcon/publish"
	"github.com/shopl/shoplcon/route"
	"github.com/shopl/shoplcon/telemetry"
	"github.com/shopl/shoplcon/tokenstore"
	"github.com/tdewolff/argp"
)

type Publish struct {
	Platform string `short:"p" default:"mobile" desc:"Target platform, mobile or web"`
	Only     string `desc:"Comma-separated icon names to publish, all when empty"`
	DryRun   bool   `short:"n" desc:"Publish to an in-memory repository"`
	Dir      string `index:"0" desc:"Directory of SVG icons"`
}

func (cmd *Publish) Run() error {
	if cmd.Dir == "" {
		return argp.ShowUsage
	}
	return runPublish("publish", cmd.Dir, cmd.Only, cmd.Platform, cmd.DryRun)
}

type Delete struct {
	Platform string `short:"p" default:"mobile" desc:"Target platform, mobile or web"`
	Only     string `desc:"Comma-separated icon names to delete, all when empty"`
	DryRun   bool   `short:"n" desc:"Delete from an in-memory repository"`
	Dir      string `index:"0" desc:"Directory of SVG icons"`
}

func (cmd *Delete) Run() error {
	if cmd.Dir == "" {
		return argp.ShowUsage
	}
	return runPublish("delete", cmd.Dir, cmd.Only, cmd.Platform, cmd.DryRun)
}

func setupTelemetry(ctx context.Context, cfg config.Config) (func(context.Context) error, error) {
	return telemetry.Setup(ctx, cfg.OTELEndpoint, cfg.OTELEnabled)
}

// repository returns the GitHub repository, or an in-memory repository for dry runs.
func repository(cfg config.Config, dryRun bool) (publish.Repository, error) {
	if dryRun {
		return publish.NewMemoryRepository(cfg.BaseBranch), nil
	}

	tokens, err := cfg.TokenSource(func() (string, error) {
		path := cfg.TokenFile
		if path == "" {
			var err error
			if path, err = tokenstore.DefaultPath(); err != nil {
				return "", err
			}
		}
		store := tokenstore.New(path)
		if !store.Exists() {
			return "", fmt.Errorf("no GitHub token, set SHOPLCON_GITHUB_TOKEN or run token set")
		}
		pass, err := passphrase(cfg)
		if err != nil {
			return "", err
		}
		return store.Load(pass)
	})
	if err != nil {
		return nil, err
	}
	return cfg.Client(tokens), nil
}

func runPublish(operation, dir, only, platformName string, dryRun bool) error {
	platform, err := route.ParsePlatform(platformName)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	repo, err := repository(cfg, dryRun)
	if err != nil {
		return err
	}

	sink := terminal()
	src := bridge.NewDir(dir, splitNames(only)...)
	src.Sink = sink
	p := publish.New(repo, sink, cfg.PublishOptions(func(svg string) (string, error) {
		return shoplcon.TranscodeWithOptions(svg, &shoplcon.Options{Density: cfg.Density})
	}))

	return withTelemetry(cfg, func(ctx context.Context) error {
		started := time.Now()
		var report publish.Report
		if operation == "delete" {
			report, err = p.DeleteSelection(ctx, src, platform)
		} else {
			report, err = p.Export(ctx, src, platform)
		}
		if err != nil {
			return err
		}

		if cfg.JournalPath != "" && !dryRun {
			if err := record(ctx, cfg.JournalPath, journal.RunFromReport(operation, platform, cfg.Branch, started, report)); err != nil {
				notify.Errorf(sink, "journal: %v", err)
			}
		}
		if !report.OK() {
			return fmt.Errorf("%d of %d icons failed", len(report.Failed()), len(report))
		}
		return nil
	})
}

func record(ctx context.Context, path string, run journal.Run) error {
	j, err := journal.Open(path)
	if err != nil {
		return err
	}
	defer j.Close()
	_, err = j.Record(ctx, run)
	return err
}

type History struct {
	Limit   int    `short:"l" default:"10" desc:"Number of runs"`
	Journal string `short:"j" desc:"Journal database, SHOPLCON_JOURNAL when empty"`
}

func (cmd *History) Run() error {
	path := cmd.Journal
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path = cfg.JournalPath
	}
	if path == "" {
		return fmt.Errorf("no journal, set SHOPLCON_JOURNAL")
	}

	j, err := journal.Open(path)
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.Recent(context.Background(), cmd.Limit)
	if err != nil {
		return err
	}
	for _, run := range runs {
		status := "ok"
		if !run.OK {
			status = "failed"
		}
		fmt.Printf("#%d %s %s %s on %s: %s\n", run.ID, run.StartedAt.Local().Format(time.DateTime), run.Operation, run.Platform, run.Branch, status)
		for _, o := range run.Outcomes {
			if o.Error != "" {
				fmt.Printf("    %s %s: %s\n", o.Status, o.Name, o.Error)
			} else {
				fmt.Printf("    %s %s -> %s\n", o.Status, o.Name, o.Path)
			}
		}
	}
	return nil
}
