// Package publish writes exported icons to a repository on a working branch, ready for a pull
// request. Icons are processed one at a time and each icon gets an Outcome, so that a failing
// icon does not stop the run.
package publish

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopl/shoplcon"
	"github.com/shopl/shoplcon/notify"
	"github.com/shopl/shoplcon/route"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/svg"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Errors returned by repositories and the publisher.
var (
	ErrBranchExists = errors.New("branch already exists")
	ErrNotEligible  = errors.New("icon not eligible for platform")
	ErrNotFound     = errors.New("file not found")
	ErrNoIcons      = errors.New("no exportable icons")
	ErrNoSelection  = errors.New("no icons selected")
)

// Icon is an exported icon with its slash-namespaced name and SVG source.
type Icon struct {
	Name string
	Data string
}

// FileInfo describes a file in the repository. Revision identifies the current content and is
// required to update or delete an existing file.
type FileInfo struct {
	Exists   bool
	Revision string
}

// Repository is a remote repository that holds the icon files.
type Repository interface {
	GetFile(ctx context.Context, path, branch string) (FileInfo, error)
	PutFile(ctx context.Context, path string, content []byte, branch, message, revision string) error
	DeleteFile(ctx context.Context, path, branch, revision, message string) error
	// CreateBranch creates branch name from branch from, it returns ErrBranchExists if name
	// already exists.
	CreateBranch(ctx context.Context, from, name string) error
}

// Bridge hands over the icons selected in the design tool.
type Bridge interface {
	ExportSelection(ctx context.Context) ([]Icon, error)
	SelectionIconCount(ctx context.Context) (int, error)
}

// Options are the publisher options.
type Options struct {
	BaseBranch    string
	Policy        route.Policy
	UploadMessage string
	DeleteMessage string
	// MinifyWeb minifies SVG files before they are uploaded for the web.
	MinifyWeb bool
	// Transcode converts SVG to a vector document, shoplcon.Transcode if nil.
	Transcode func(string) (string, error)
}

// DefaultOptions are the default publisher options.
var DefaultOptions = Options{
	BaseBranch:    "main",
	Policy:        route.DefaultPolicy,
	UploadMessage: "icon 추가/업데이트",
	DeleteMessage: "icon 삭제",
}

// Publisher uploads and deletes icons in a repository.
type Publisher struct {
	repo     Repository
	sink     notify.Sink
	opts     Options
	tracer   trace.Tracer
	minifier *minify.M
}

// New returns a publisher for repo that reports progress to sink. Empty options take their value
// from DefaultOptions.
func New(repo Repository, sink notify.Sink, opts Options) *Publisher {
	if opts.BaseBranch == "" {
		opts.BaseBranch = DefaultOptions.BaseBranch
	}
	if opts.Policy.WebBrands == nil {
		opts.Policy.WebBrands = DefaultOptions.Policy.WebBrands
	}
	if opts.Policy.WebPath == "" {
		opts.Policy.WebPath = DefaultOptions.Policy.WebPath
	}
	if opts.Policy.MobileRoot == "" {
		opts.Policy.MobileRoot = DefaultOptions.Policy.MobileRoot
	}
	if opts.Policy.Branch == "" {
		opts.Policy.Branch = DefaultOptions.Policy.Branch
	}
	if opts.UploadMessage == "" {
		opts.UploadMessage = DefaultOptions.UploadMessage
	}
	if opts.DeleteMessage == "" {
		opts.DeleteMessage = DefaultOptions.DeleteMessage
	}
	if opts.Transcode == nil {
		opts.Transcode = shoplcon.Transcode
	}
	if sink == nil {
		sink = notify.Discard
	}

	m := minify.New()
	m.AddFunc("image/svg+xml", svg.Minify)
	return &Publisher{
		repo:     repo,
		sink:     sink,
		opts:     opts,
		tracer:   otel.Tracer("github.com/shopl/shoplcon/publish"),
		minifier: m,
	}
}

// EnsureBranch creates the working branch from the base branch. An existing branch is reused.
func (p *Publisher) EnsureBranch(ctx context.Context) error {
	ctx, span := p.tracer.Start(ctx, "publish.EnsureBranch")
	defer span.End()

	branch := p.opts.Policy.Branch
	notify.Infof(p.sink, "creating branch %s from %s...", branch, p.opts.BaseBranch)
	if err := p.repo.CreateBranch(ctx, p.opts.BaseBranch, branch); errors.Is(err, ErrBranchExists) {
		notify.Infof(p.sink, "branch %s already exists, reusing it", branch)
		return nil
	} else if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		notify.Errorf(p.sink, "create branch failed: %v", err)
		return fmt.Errorf("create branch %s: %w", branch, err)
	}
	notify.Successf(p.sink, "branch %s created", branch)
	return nil
}

// Publish ensures the working branch and uploads the icons for platform, one after the other.
// Only a failure to create the branch is returned as an error, in which case no file is touched.
// Failures of single icons are logged and reported in their Outcome.
func (p *Publisher) Publish(ctx context.Context, icons []Icon, platform route.Platform) (Report, error) {
	if err := p.EnsureBranch(ctx); err != nil {
		return nil, err
	}

	notify.Infof(p.sink, "uploading %d icons...", len(icons))
	report := make(Report, 0, len(icons))
	for _, icon := range icons {
		report = append(report, p.upload(ctx, icon, platform))
	}

	if report.OK() {
		notify.Successf(p.sink, "upload complete")
		notify.Infof(p.sink, "repository workflows will run automatically...")
	} else {
		notify.Errorf(p.sink, "upload finished with %d failures", len(report.Failed()))
	}
	return report, nil
}

func (p *Publisher) upload(ctx context.Context, icon Icon, platform route.Platform) Outcome {
	dst := p.opts.Policy.Route(icon.Name, platform)
	ctx, span := p.tracer.Start(ctx, "publish.Upload", trace.WithAttributes(
		attribute.String("icon.name", icon.Name),
		attribute.String("icon.path", dst.Path),
		attribute.String("platform", platform.String()),
	))
	defer span.End()

	outcome := Outcome{Name: icon.Name, Path: dst.Path}
	fail := func(err error) Outcome {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		notify.Errorf(p.sink, "%s: %v", icon.Name, err)
		outcome.Status, outcome.Err = Failed, err
		return outcome
	}

	if !dst.Eligible {
		notify.Infof(p.sink, "%s: skipped, not a %v icon", icon.Name, platform)
		outcome.Status, outcome.Err = Skipped, ErrNotEligible
		return outcome
	}

	content := icon.Data
	if dst.Transcode() {
		vd, err := p.opts.Transcode(icon.Data)
		if err != nil {
			return fail(fmt.Errorf("transcode: %w", err))
		}
		content = vd
	} else if p.opts.MinifyWeb {
		minified, err := p.minifier.String("image/svg+xml", icon.Data)
		if err != nil {
			return fail(fmt.Errorf("minify: %w", err))
		}
		content = minified
	}

	info, err := p.repo.GetFile(ctx, dst.Path, dst.Branch)
	if err != nil {
		return fail(fmt.Errorf("get %s: %w", dst.Path, err))
	}
	if err := p.repo.PutFile(ctx, dst.Path, []byte(content), dst.Branch, p.opts.UploadMessage, info.Revision); err != nil {
		return fail(fmt.Errorf("upload %s: %w", dst.Path, err))
	}
	notify.Successf(p.sink, "%s uploaded to %s", icon.Name, dst.Path)
	outcome.Status = Uploaded
	return outcome
}

// Delete ensures the working branch and deletes the files of the named icons for platform. Only a
// failure to create the branch is returned as an error.
func (p *Publisher) Delete(ctx context.Context, names []string, platform route.Platform) (Report, error) {
	if err := p.EnsureBranch(ctx); err != nil {
		return nil, err
	}

	report := make(Report, 0, len(names))
	for _, name := range names {
		report = append(report, p.delete(ctx, name, platform))
	}
	return report, nil
}

func (p *Publisher) delete(ctx context.Context, name string, platform route.Platform) Outcome {
	dst := p.opts.Policy.Route(name, platform)
	ctx, span := p.tracer.Start(ctx, "publish.Delete", trace.WithAttributes(
		attribute.String("icon.name", name),
		attribute.String("icon.path", dst.Path),
		attribute.String("platform", platform.String()),
	))
	defer span.End()

	outcome := Outcome{Name: name, Path: dst.Path}
	fail := func(err error) Outcome {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		notify.Errorf(p.sink, "delete failed: %v", err)
		outcome.Status, outcome.Err = Failed, err
		return outcome
	}

	if !dst.Eligible {
		notify.Infof(p.sink, "%s: skipped, not a %v icon", name, platform)
		outcome.Status, outcome.Err = Skipped, ErrNotEligible
		return outcome
	}

	info, err := p.repo.GetFile(ctx, dst.Path, dst.Branch)
	if err != nil {
		return fail(fmt.Errorf("get %s: %w", dst.Path, err))
	} else if !info.Exists {
		return fail(fmt.Errorf("%w (%s)", ErrNotFound, dst.Path))
	}
	if err := p.repo.DeleteFile(ctx, dst.Path, dst.Branch, info.Revision, p.opts.DeleteMessage); err != nil {
		return fail(fmt.Errorf("delete %s: %w", dst.Path, err))
	}
	notify.Successf(p.sink, "%s deleted", name)
	outcome.Status = Deleted
	return outcome
}

// Export publishes the icons selected in bridge. Exported nodes that are not icons, see
// route.IsIconName, are logged and left out, and ErrNoIcons is returned when none remain.
func (p *Publisher) Export(ctx context.Context, bridge Bridge, platform route.Platform) (Report, error) {
	exported, err := bridge.ExportSelection(ctx)
	if err != nil {
		return nil, fmt.Errorf("export selection: %w", err)
	}

	icons := FilterIcons(p.sink, exported)
	if len(icons) == 0 {
		notify.Errorf(p.sink, "no exportable icons, icon names must contain \"ic\"")
		return nil, ErrNoIcons
	}
	notify.Successf(p.sink, "%d icons exported", len(icons))
	return p.Publish(ctx, icons, platform)
}

// DeleteSelection deletes the files of the icons selected in bridge. It returns ErrNoSelection when
// the bridge reports no selected icons.
func (p *Publisher) DeleteSelection(ctx context.Context, bridge Bridge, platform route.Platform) (Report, error) {
	n, err := bridge.SelectionIconCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("selection count: %w", err)
	} else if n == 0 {
		return nil, ErrNoSelection
	}

	exported, err := bridge.ExportSelection(ctx)
	if err != nil {
		return nil, fmt.Errorf("export selection: %w", err)
	}
	names := make([]string, 0, len(exported))
	for _, icon := range exported {
		names = append(names, icon.Name)
	}
	return p.Delete(ctx, names, platform)
}

// FilterIcons returns the icons whose name passes route.IsIconName and logs the others as errors.
func FilterIcons(sink notify.Sink, icons []Icon) []Icon {
	valid := make([]Icon, 0, len(icons))
	for _, icon := range icons {
		if !route.IsIconName(icon.Name) {
			notify.Errorf(sink, "%s: name does not contain \"ic\", not exported", icon.Name[strings.LastIndexByte(icon.Name, '/')+1:])
			continue
		}
		valid = append(valid, icon)
	}
	return valid
}
