package cmd

import (
	"github.com/Digital-Shane/media-sort/internal/config"
	"github.com/spf13/pflag"
)

// addSortFlags registers the settings shared by sort and the profile
// commands. Defaults are only shown in help; values reach a Config through
// readOverrides so that unset flags never mask a profile.
func addSortFlags(fs *pflag.FlagSet) {
	d := config.Default()
	fs.String("input", "", "Directory to read media from")
	fs.String("output", "", "Library directory to sort into")
	fs.Int("threads", d.Threads, "Number of worker threads")
	fs.String("webhook", d.Webhook, `Webhook URL notified for each added file ("default" disables)`)
	fs.Bool("recursive", d.Recursive, "Scan the input directory recursively")
	fs.BoolP("dry-run", "d", d.DryRun, "Print the resulting library tree without moving anything")
	fs.String("tv-template", d.TvTemplate, "Library folder for series")
	fs.String("movie-template", d.MovieTemplate, "Library folder for movies")
	fs.Bool("search", d.Search, "Correct titles against online databases")
	fs.Bool("skip-subtitles", d.SkipSubtitles, "Leave subtitle files in place")
	fs.BoolP("verbose", "v", d.Verbose, "Report every file handled")
	fs.Bool("move-series-dir", d.MoveSeriesDir, "Move a whole series folder when its episodes carry no season")
	fs.String("tmdb-key", "", "Movie database API key (default $"+config.EnvTMDBKey+")")
	fs.String("language", d.Language, "Language of looked up titles")
	fs.Int("timeout", int(d.Timeout.Seconds()), "Seconds allowed for each lookup request")
	fs.Bool("log", d.Log, "Record file operations in the session log")
}

// readOverrides collects the flags the user actually set.
func readOverrides(fs *pflag.FlagSet) (config.Overrides, error) {
	var o config.Overrides
	var err error
	str := func(name string) *string {
		if err != nil || !fs.Changed(name) {
			return nil
		}
		var v string
		v, err = fs.GetString(name)
		return &v
	}
	boolean := func(name string) *bool {
		if err != nil || !fs.Changed(name) {
			return nil
		}
		var v bool
		v, err = fs.GetBool(name)
		return &v
	}
	integer := func(name string) *int {
		if err != nil || !fs.Changed(name) {
			return nil
		}
		var v int
		v, err = fs.GetInt(name)
		return &v
	}

	o.Input = str("input")
	o.Output = str("output")
	o.Threads = integer("threads")
	o.Webhook = str("webhook")
	o.Recursive = boolean("recursive")
	o.DryRun = boolean("dry-run")
	o.TvTemplate = str("tv-template")
	o.MovieTemplate = str("movie-template")
	o.Search = boolean("search")
	o.SkipSubtitles = boolean("skip-subtitles")
	o.Verbose = boolean("verbose")
	o.MoveSeriesDir = boolean("move-series-dir")
	o.TmdbKey = str("tmdb-key")
	o.Language = str("language")
	o.Timeout = integer("timeout")
	o.Log = boolean("log")
	return o, err
}

// changedArgs renders the set flags for the session log.
func changedArgs(fs *pflag.FlagSet) []string {
	var args []string
	fs.Visit(func(f *pflag.Flag) {
		if f.Name == "tmdb-key" || f.Name == "webhook" {
			args = append(args, "--"+f.Name+"=<redacted>")
			return
		}
		args = append(args, "--"+f.Name+"="+f.Value.String())
	})
	return args
}
