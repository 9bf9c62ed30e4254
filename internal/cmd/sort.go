package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Digital-Shane/media-sort/internal/config"
	"github.com/Digital-Shane/media-sort/internal/core"
	"github.com/Digital-Shane/media-sort/internal/log"
	"github.com/Digital-Shane/media-sort/internal/media"
	"github.com/Digital-Shane/media-sort/internal/notify"
	"github.com/Digital-Shane/media-sort/internal/provider"
	"github.com/Digital-Shane/media-sort/internal/provider/ffprobe"
	"github.com/Digital-Shane/media-sort/internal/provider/tmdb"
	"github.com/Digital-Shane/media-sort/internal/provider/tvmaze"
	"github.com/Digital-Shane/media-sort/internal/ui"
	"github.com/spf13/cobra"
)

// Catalog priorities; the TV database is asked first for series.
const (
	tvmazePriority = 20
	tmdbPriority   = 10
)

var sortCmd = &cobra.Command{
	Use:   "sort",
	Short: "Sort the input directory into the library",
	Long: `Sort every video and subtitle file of the input directory into the output library.

When --profile is given the profile's values are used as defaults and any flag
set on the command line overrides them.`,
	Args: cobra.NoArgs,
	RunE: runSortCommand,
}

func runSortCommand(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	return runSort(cmd.Context(), cfg, sortIO{
		out:  cmd.OutOrStdout(),
		err:  cmd.ErrOrStderr(),
		args: changedArgs(cmd.Flags()),
	})
}

// effectiveConfig builds the run's Config from defaults, the optional
// profile and the flags set on cmd.
func effectiveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()

	name, err := cmd.Flags().GetString("profile")
	if err != nil {
		return cfg, err
	}
	if name != "" {
		p, err := newStore().Load(name)
		if err != nil {
			return cfg, err
		}
		cfg = cfg.WithProfile(p)
	}

	o, err := readOverrides(cmd.Flags())
	if err != nil {
		return cfg, err
	}
	cfg = cfg.WithOverrides(o)
	return cfg, cfg.Validate()
}

type sortIO struct {
	out  io.Writer
	err  io.Writer
	args []string
}

// runSort wires the collaborators for cfg and runs one pipeline. A failed
// run is reported on the error writer and returned as a SilentExit. A dry
// run writes nothing to the data directory.
func runSort(ctx context.Context, cfg config.Config, w sortIO) error {
	console := ui.NewConsole(w.err)
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(console, &slog.HandlerOptions{Level: level}))

	loadWords := config.LoadWords
	if cfg.DryRun {
		loadWords = config.ReadWords
	}
	words, err := loadWords(config.WordsPath())
	if err != nil {
		return err
	}

	var probe media.DurationProbe
	if ffprobe.Available() {
		probe = ffprobe.New()
	} else {
		logger.Info("ffprobe not found, movies are detected from their names only")
	}
	scanner := media.NewScanner(media.NewExtractor(words, probe, logger), cfg.Recursive, logger)

	deps := core.Deps{
		Scanner:  scanner,
		Progress: console.Progress,
		Logger:   logger,
	}

	var cache *provider.Cache
	if cfg.Search {
		cache = provider.NewCache(config.CachePath(), provider.DefaultCacheTTL)
		resolver, err := newResolver(cfg, cache, logger)
		if err != nil {
			return err
		}
		deps.Resolver = resolver
	}
	if url := cfg.WebhookURL(); url != "" {
		deps.Notifier = notify.NewWebhook(url)
	}
	if cfg.DryRun {
		deps.Reporter = ui.NewTreeReporter(w.out)
	}

	pipeline, err := core.NewPipeline(core.Options{
		Input:         cfg.Input,
		Output:        cfg.Output,
		TvTemplate:    cfg.TvTemplate,
		MovieTemplate: cfg.MovieTemplate,
		Threads:       cfg.Threads,
		DryRun:        cfg.DryRun,
		SkipSubtitles: cfg.SkipSubtitles,
		MoveSeriesDir: cfg.MoveSeriesDir,
	}, deps)
	if err != nil {
		return err
	}

	if !cfg.DryRun {
		log.Initialize(config.LogDir(), cfg.Log, cfg.LogRetentionDays)
		if err := log.StartSession("sort", w.args, false); err != nil {
			logger.Warn("operation log unavailable", "error", err)
		}
	}

	runErr := pipeline.Run(ctx)

	if !cfg.DryRun {
		if path, err := log.EndSession(); err != nil {
			logger.Warn("failed to write operation log", "error", err)
		} else if path != "" {
			logger.Info("operation log written", "path", path)
		}
		if err := cache.Save(); err != nil {
			logger.Warn("failed to save lookup cache", "error", err)
		}
	}

	if !cfg.DryRun {
		reportResults(w.out, pipeline.Ledger(), cfg.Verbose)
	}
	if runErr != nil {
		fmt.Fprintf(w.err, "mediasort: %v\n", runErr)
		return core.SilentExit{Code: 1}
	}
	return nil
}

// newResolver registers the TV database and, with a key, the movie database.
func newResolver(cfg config.Config, cache *provider.Cache, logger *slog.Logger) (*provider.Resolver, error) {
	reg := provider.NewRegistry()
	if err := reg.Register(tvmaze.New(), tvmazePriority); err != nil {
		return nil, err
	}
	if cfg.TmdbKey != "" {
		movies, err := tmdb.New(cfg.TmdbKey)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(movies, tmdbPriority); err != nil {
			return nil, err
		}
	} else {
		logger.Info("no movie database key, movie titles are not looked up")
	}
	return provider.NewResolver(reg, provider.ResolverOptions{
		Cache:    cache,
		Language: cfg.Language,
		Timeout:  cfg.Timeout,
		Logger:   logger,
	}), nil
}

// reportResults prints the run summary, preceded by one line per file when
// verbose.
func reportResults(w io.Writer, ledger *core.Ledger, verbose bool) {
	if verbose {
		for _, r := range ledger.Results() {
			switch {
			case r.Err != nil:
				fmt.Fprintf(w, "failed   %s: %v\n", r.Source, r.Err)
			case r.Outcome == core.Skipped:
				fmt.Fprintf(w, "skipped  %s\n", r.Source)
			default:
				fmt.Fprintf(w, "%-8s %s -> %s\n", r.Outcome, r.Source, r.Target)
			}
		}
	}
	s := ledger.Summary()
	fmt.Fprintf(w, "moved %d, skipped %d, failed %d\n", s.Moved, s.Skipped, s.Failed)
}

func init() {
	addSortFlags(sortCmd.Flags())
	sortCmd.Flags().StringP("profile", "p", "", "Profile whose values are used as defaults")
	rootCmd.AddCommand(sortCmd)
}
