package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Digital-Shane/media-sort/internal/log"
	"github.com/Digital-Shane/media-sort/internal/media"
)

// Resolver corrects an Episode's title against a title database.
type Resolver interface {
	Resolve(ctx context.Context, ep *media.Episode) (bool, error)
}

// Notifier announces files that were added to the library.
type Notifier interface {
	Notify(ctx context.Context, ep media.Episode) error
}

// Reporter presents the plan of a dry run.
type Reporter interface {
	Report(entries []PlanEntry) error
}

// Options are the run settings the pipeline acts on.
type Options struct {
	Input         string
	Output        string
	TvTemplate    string
	MovieTemplate string
	Threads       int
	DryRun        bool
	SkipSubtitles bool
	// MoveSeriesDir relocates a whole <series>/<season> folder when one of its
	// episodes has no season marker.
	MoveSeriesDir bool
}

// Validate checks the options that make a run impossible.
func (o Options) Validate() error {
	if strings.TrimSpace(o.Input) == "" {
		return fmt.Errorf("%w: no input directory", ErrInputInvalid)
	}
	if strings.TrimSpace(o.Output) == "" {
		return fmt.Errorf("%w: no output directory", ErrInputInvalid)
	}
	if o.Threads <= 0 {
		return fmt.Errorf("%w: thread count must be positive, got %d", ErrInputInvalid, o.Threads)
	}
	info, err := os.Stat(o.Input)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInputInvalid, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInputInvalid, o.Input)
	}
	return nil
}

// Deps are the collaborators of a Pipeline. Only Scanner is required.
type Deps struct {
	Scanner  *media.Scanner
	Resolver Resolver
	Notifier Notifier
	Reporter Reporter
	Progress ProgressFunc
	Mover    *Mover
	Pool     *Pool
	Logger   *slog.Logger
	// Mkdir replaces os.MkdirAll for the planner's directories.
	Mkdir func(path string, perm os.FileMode) error
}

// Pipeline sorts one input directory into the library.
type Pipeline struct {
	opts     Options
	deps     Deps
	planner  *Planner
	dirs     *DirectorySet
	ledger   *Ledger
	logger   *slog.Logger
	progress ProgressFunc
}

func NewPipeline(opts Options, deps Deps) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if deps.Scanner == nil {
		return nil, errors.New("pipeline needs a scanner")
	}
	if deps.Mover == nil {
		deps.Mover = NewMover()
	}
	if deps.Pool == nil {
		deps.Pool = SharedPool(opts.Threads)
	}

	p := &Pipeline{
		opts:     opts,
		deps:     deps,
		ledger:   NewLedger(),
		logger:   deps.Logger,
		progress: deps.Progress,
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	if p.progress == nil {
		p.progress = func(string, int) Progress { return NopProgress{} }
	}
	if !opts.DryRun {
		p.dirs = NewDirectorySet(deps.Mkdir)
	}

	planner, err := NewPlanner(opts.Output, opts.TvTemplate, opts.MovieTemplate, p.dirs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputInvalid, err)
	}
	p.planner = planner
	return p, nil
}

// Ledger holds the result of every file the last Run handled.
func (p *Pipeline) Ledger() *Ledger {
	return p.ledger
}

// Run scans, optionally looks up, matches and then either reports or moves.
// Per-file failures do not stop their batch; the first one in scan order is
// returned once every batch has settled.
func (p *Pipeline) Run(ctx context.Context) error {
	lib, err := p.deps.Scanner.Scan(ctx, p.opts.Input)
	if err != nil {
		return err
	}
	for _, ferr := range lib.Failures {
		p.logger.Warn("skipping file", "error", ferr)
		var fe *media.FileError
		if errors.As(ferr, &fe) {
			p.ledger.Record(Result{Source: fe.Path, Stage: StageScan, Err: ferr})
		}
	}

	if p.deps.Resolver != nil {
		p.lookup(ctx, lib)
	}
	sanitizeTitles(lib)
	matched := media.MatchSubtitles(lib)
	p.logger.Info("scan complete",
		"episodes", len(lib.Episodes), "subtitles", len(lib.Subtitles), "matched", matched)

	if p.opts.DryRun {
		return p.report(lib)
	}

	skip := map[string]bool{}
	if p.opts.MoveSeriesDir {
		if err := p.relocateSeries(lib, skip); err != nil {
			return err
		}
	}

	firstErr := firstError(p.moveEpisodes(ctx, lib, skip))
	if !p.opts.SkipSubtitles {
		if err := firstError(p.moveSubtitles(ctx, lib, skip)); firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (p *Pipeline) lookup(ctx context.Context, lib *media.Library) {
	bar := p.progress("Looking up titles", len(lib.Episodes))
	p.deps.Pool.Run(ctx, len(lib.Episodes), func(ctx context.Context, i int) error {
		ep := &lib.Episodes[i]
		defer bar.Inc()
		bar.SetMessage(ep.Filename)
		changed, err := p.deps.Resolver.Resolve(ctx, ep)
		if err != nil {
			p.logger.Warn("title lookup failed", "file", ep.Filename, "error", err)
		}
		if changed {
			p.logger.Info("title corrected", "file", ep.Filename, "title", ep.Title)
		}
		return nil
	})
	bar.Finish("Lookup complete")
}

// sanitizeTitles makes every title usable as a path component so folder and
// file names agree. Unusable titles are left for the planner to reject.
func sanitizeTitles(lib *media.Library) {
	clean := func(ep *media.Episode) {
		if title, err := pathComponent(ep.Title); err == nil {
			ep.Title = title
		}
	}
	for i := range lib.Episodes {
		clean(&lib.Episodes[i])
	}
	for i := range lib.Subtitles {
		clean(&lib.Subtitles[i].Stub)
	}
}

func (p *Pipeline) report(lib *media.Library) error {
	entries := make([]PlanEntry, 0, len(lib.Episodes)+len(lib.Subtitles))
	for _, ep := range lib.Episodes {
		entries = append(entries, p.planner.Entry(ep, ep.FullPath, media.TargetName(ep), false))
	}
	if !p.opts.SkipSubtitles {
		for _, sub := range lib.Subtitles {
			ep := lib.EpisodeFor(sub)
			entries = append(entries, p.planner.Entry(ep, sub.FullPath, media.SubtitleTargetName(sub, ep), true))
		}
	}
	if p.deps.Reporter == nil {
		return nil
	}
	return p.deps.Reporter.Report(entries)
}

// relocateSeries moves whole series folders for episodes without a season
// marker that sit at <input>/<series>/<season>/<file>. Everything under a
// relocated folder is added to skip.
func (p *Pipeline) relocateSeries(lib *media.Library, skip map[string]bool) error {
	targets := map[string]string{}
	var order []string
	for _, ep := range lib.Episodes {
		if ep.IsMovie || ep.Season != 0 {
			continue
		}
		rel, err := filepath.Rel(p.opts.Input, ep.FullPath)
		if err != nil || len(strings.Split(rel, string(filepath.Separator))) != 3 {
			continue
		}
		seriesDir := filepath.Dir(filepath.Dir(ep.FullPath))
		if _, seen := targets[seriesDir]; !seen {
			targets[seriesDir] = ep.Title
			order = append(order, seriesDir)
		}
	}
	if len(order) == 0 {
		return nil
	}

	bar := p.progress("Moving series folders", 0)
	defer bar.Finish("Series folders moved")
	for _, src := range order {
		dst, err := p.planner.SeriesDir(targets[src])
		if err != nil {
			return &ItemError{Path: src, Stage: StagePlan, Err: err}
		}
		p.logger.Info("moving series folder", "from", src, "to", dst)
		if err := p.deps.Mover.MoveTree(src, dst, bar); err != nil {
			return &ItemError{Path: src, Stage: StageMove, Err: err}
		}
	}

	prefixes := make([]string, len(order))
	for i, dir := range order {
		prefixes[i] = dir + string(filepath.Separator)
	}
	under := func(path string) bool {
		for _, prefix := range prefixes {
			if strings.HasPrefix(path, prefix) {
				return true
			}
		}
		return false
	}
	for _, ep := range lib.Episodes {
		if under(ep.FullPath) {
			skip[ep.FullPath] = true
			p.ledger.Record(Result{Source: ep.FullPath, Outcome: Renamed, Stage: StageMove})
		}
	}
	for _, sub := range lib.Subtitles {
		if under(sub.FullPath) {
			skip[sub.FullPath] = true
			p.ledger.Record(Result{Source: sub.FullPath, Outcome: Renamed, Stage: StageMove})
		}
	}
	return nil
}

func (p *Pipeline) moveEpisodes(ctx context.Context, lib *media.Library, skip map[string]bool) []error {
	bar := p.progress("Moving media", len(lib.Episodes))
	defer bar.Finish("Media moved")

	return p.deps.Pool.Run(ctx, len(lib.Episodes), func(ctx context.Context, i int) error {
		ep := lib.Episodes[i]
		defer bar.Inc()
		if skip[ep.FullPath] {
			return nil
		}
		bar.SetMessage(ep.String())

		dir, err := p.planner.DirFor(ep)
		if err != nil {
			return p.fail(ep.FullPath, "", Skipped, StagePlan, err)
		}
		target := filepath.Join(dir, media.TargetName(ep))
		outcome, err := p.deps.Mover.Move(ep.FullPath, target)
		if err != nil {
			return p.fail(ep.FullPath, target, outcome, StageMove, err)
		}
		p.logger.Info(outcome.String(), "from", ep.FullPath, "to", target)

		if outcome.Moved() && p.deps.Notifier != nil {
			err := p.deps.Notifier.Notify(ctx, ep)
			log.LogNotify(target, err)
			if err != nil {
				return p.fail(ep.FullPath, target, outcome, StageNotify, err)
			}
		}
		p.ledger.Record(Result{Source: ep.FullPath, Target: target, Outcome: outcome, Stage: StageMove})
		return nil
	})
}

func (p *Pipeline) moveSubtitles(ctx context.Context, lib *media.Library, skip map[string]bool) []error {
	bar := p.progress("Moving subtitles", len(lib.Subtitles))
	defer bar.Finish("Subtitles moved")

	return p.deps.Pool.Run(ctx, len(lib.Subtitles), func(ctx context.Context, i int) error {
		sub := lib.Subtitles[i]
		defer bar.Inc()
		if skip[sub.FullPath] {
			return nil
		}
		ep := lib.EpisodeFor(sub)
		name := media.SubtitleTargetName(sub, ep)
		bar.SetMessage(name)

		dir, err := p.planner.SubtitleDir(ep)
		if err != nil {
			return p.fail(sub.FullPath, "", Skipped, StagePlan, err)
		}
		target := filepath.Join(dir, name)
		outcome, err := p.deps.Mover.Move(sub.FullPath, target)
		if err != nil {
			return p.fail(sub.FullPath, target, outcome, StageMove, err)
		}
		p.logger.Info(outcome.String(), "from", sub.FullPath, "to", target)
		p.ledger.Record(Result{Source: sub.FullPath, Target: target, Outcome: outcome, Stage: StageMove})
		return nil
	})
}

func (p *Pipeline) fail(source, target string, outcome Outcome, stage Stage, err error) error {
	ierr := &ItemError{Path: source, Stage: stage, Err: err}
	p.logger.Error("item failed", "file", source, "stage", stage, "error", err)
	p.ledger.Record(Result{Source: source, Target: target, Outcome: outcome, Stage: stage, Err: ierr})
	return ierr
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
