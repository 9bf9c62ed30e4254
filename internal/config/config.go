package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Digital-Shane/media-sort/internal/notify"
)

// EnvTMDBKey supplies the movie database key when no profile sets one.
const EnvTMDBKey = "MEDIASORT_TMDB_KEY"

// Config is the effective configuration of one run. It is built by
// Default, then WithProfile, then WithOverrides, each returning a new value.
type Config struct {
	Input  string
	Output string

	Verbose       bool
	Recursive     bool
	Threads       int
	Webhook       string
	DryRun        bool
	TvTemplate    string
	MovieTemplate string
	Search        bool
	SkipSubtitles bool
	MoveSeriesDir bool

	// Lookup settings
	TmdbKey  string
	Language string
	Timeout  time.Duration

	// Operation log
	Log              bool
	LogRetentionDays int
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Threads:          4,
		Webhook:          notify.DisabledSentinel,
		TvTemplate:       "Series",
		MovieTemplate:    "Films",
		TmdbKey:          os.Getenv(EnvTMDBKey),
		Language:         "en-US",
		Timeout:          10 * time.Second,
		Log:              true,
		LogRetentionDays: 30,
	}
}

// WithProfile overlays a loaded profile. Flags are taken as stored since
// loading backfills every missing key. An empty stored key keeps the current one.
func (c Config) WithProfile(p Profile) Config {
	if p.Input != "" {
		c.Input = p.Input
	}
	if p.Output != "" {
		c.Output = p.Output
	}
	f := p.Flags
	c.Verbose = f.Verbose
	c.Recursive = f.Recursive
	c.Threads = f.Threads
	c.Webhook = f.Webhook
	c.DryRun = f.DryRun
	c.TvTemplate = f.TvTemplate
	c.MovieTemplate = f.MovieTemplate
	c.Search = f.Search
	c.SkipSubtitles = f.SkipSubtitles
	c.MoveSeriesDir = f.MoveSeriesDir
	if f.TmdbKey != "" {
		c.TmdbKey = f.TmdbKey
	}
	c.Language = f.Language
	c.Timeout = time.Duration(f.Timeout) * time.Second
	c.Log = f.Log
	c.LogRetentionDays = f.Retention
	return c
}

// Overrides holds explicitly set command line values. Nil fields are left
// untouched by WithOverrides.
type Overrides struct {
	Input         *string
	Output        *string
	Verbose       *bool
	Recursive     *bool
	Threads       *int
	Webhook       *string
	DryRun        *bool
	TvTemplate    *string
	MovieTemplate *string
	Search        *bool
	SkipSubtitles *bool
	MoveSeriesDir *bool
	TmdbKey       *string
	Language      *string
	Timeout       *int
	Log           *bool
}

// WithOverrides overlays explicit command line values.
func (c Config) WithOverrides(o Overrides) Config {
	set(&c.Input, o.Input)
	set(&c.Output, o.Output)
	set(&c.Verbose, o.Verbose)
	set(&c.Recursive, o.Recursive)
	set(&c.Threads, o.Threads)
	set(&c.Webhook, o.Webhook)
	set(&c.DryRun, o.DryRun)
	set(&c.TvTemplate, o.TvTemplate)
	set(&c.MovieTemplate, o.MovieTemplate)
	set(&c.Search, o.Search)
	set(&c.SkipSubtitles, o.SkipSubtitles)
	set(&c.MoveSeriesDir, o.MoveSeriesDir)
	set(&c.TmdbKey, o.TmdbKey)
	set(&c.Language, o.Language)
	set(&c.Log, o.Log)
	if o.Timeout != nil {
		c.Timeout = time.Duration(*o.Timeout) * time.Second
	}
	return c
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// WebhookURL returns the webhook to notify, or "" when notifications are off.
func (c Config) WebhookURL() string {
	if !notify.Enabled(c.Webhook) {
		return ""
	}
	return strings.TrimSpace(c.Webhook)
}

// Validate checks values no run can use. Directory checks happen when the
// run starts.
func (c Config) Validate() error {
	if c.Threads <= 0 {
		return fmt.Errorf("threads must be positive, got %d", c.Threads)
	}
	if strings.TrimSpace(c.TvTemplate) == "" || strings.TrimSpace(c.MovieTemplate) == "" {
		return fmt.Errorf("templates must not be empty")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %v", c.Timeout)
	}
	return nil
}
