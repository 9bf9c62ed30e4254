package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// ProfileExt is the extension of profile documents.
const ProfileExt = ".pms"

// DefaultProfile is the profile written by "profile init".
const DefaultProfile = "default"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
	ErrProfileName     = errors.New("invalid profile name")
)

var profileNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Profile is a saved set of sort settings.
type Profile struct {
	Name   string `json:"name" mapstructure:"name"`
	Input  string `json:"input" mapstructure:"input"`
	Output string `json:"output" mapstructure:"output"`
	Flags  Flags  `json:"flags" mapstructure:"flags"`
}

// Flags is the flag block of a profile. Keys match the sort command's flags.
type Flags struct {
	Verbose       bool   `json:"verbose" mapstructure:"verbose"`
	Recursive     bool   `json:"recursive" mapstructure:"recursive"`
	Threads       int    `json:"threads" mapstructure:"threads"`
	Webhook       string `json:"webhook" mapstructure:"webhook"`
	DryRun        bool   `json:"dry-run" mapstructure:"dry-run"`
	TvTemplate    string `json:"tv-template" mapstructure:"tv-template"`
	MovieTemplate string `json:"movie-template" mapstructure:"movie-template"`
	Search        bool   `json:"search" mapstructure:"search"`
	SkipSubtitles bool   `json:"skip-subtitles" mapstructure:"skip-subtitles"`
	MoveSeriesDir bool   `json:"move-series-dir" mapstructure:"move-series-dir"`
	TmdbKey       string `json:"tmdb-key" mapstructure:"tmdb-key"`
	Language      string `json:"language" mapstructure:"language"`
	Timeout       int    `json:"timeout" mapstructure:"timeout"`
	Log           bool   `json:"log" mapstructure:"log"`
	Retention     int    `json:"log-retention-days" mapstructure:"log-retention-days"`
}

// ProfileFrom captures c as a profile named name. The environment key is not
// persisted unless it was set explicitly.
func ProfileFrom(name string, c Config) Profile {
	key := c.TmdbKey
	if key == os.Getenv(EnvTMDBKey) {
		key = ""
	}
	return Profile{
		Name:   name,
		Input:  c.Input,
		Output: c.Output,
		Flags: Flags{
			Verbose:       c.Verbose,
			Recursive:     c.Recursive,
			Threads:       c.Threads,
			Webhook:       c.Webhook,
			DryRun:        c.DryRun,
			TvTemplate:    c.TvTemplate,
			MovieTemplate: c.MovieTemplate,
			Search:        c.Search,
			SkipSubtitles: c.SkipSubtitles,
			MoveSeriesDir: c.MoveSeriesDir,
			TmdbKey:       key,
			Language:      c.Language,
			Timeout:       int(c.Timeout.Seconds()),
			Log:           c.Log,
			Retention:     c.LogRetentionDays,
		},
	}
}

// defaultFlags maps every flag key to its default for backfilling.
func defaultFlags() map[string]any {
	d := ProfileFrom("", Default()).Flags
	return map[string]any{
		"verbose":            d.Verbose,
		"recursive":          d.Recursive,
		"threads":            d.Threads,
		"webhook":            d.Webhook,
		"dry-run":            d.DryRun,
		"tv-template":        d.TvTemplate,
		"movie-template":     d.MovieTemplate,
		"search":             d.Search,
		"skip-subtitles":     d.SkipSubtitles,
		"move-series-dir":    d.MoveSeriesDir,
		"tmdb-key":           "",
		"language":           d.Language,
		"timeout":            d.Timeout,
		"log":                d.Log,
		"log-retention-days": d.Retention,
	}
}

// ValidateName rejects names that cannot be used as a file name.
func ValidateName(name string) error {
	if !profileNamePattern.MatchString(name) || strings.HasSuffix(name, ProfileExt) {
		return fmt.Errorf("%w: %q", ErrProfileName, name)
	}
	return nil
}

// Store reads and writes profiles in one directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultStore is the store under the user's data directory.
func DefaultStore() *Store {
	return NewStore(ProfilesDir())
}

func (s *Store) Dir() string {
	return s.dir
}

// Path returns the document path of the profile name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+ProfileExt)
}

// Exists reports whether the profile name is stored.
func (s *Store) Exists(name string) bool {
	info, err := os.Stat(s.Path(name))
	return err == nil && info.Mode().IsRegular()
}

// Load reads the profile name, filling in any missing flag with its default.
func (s *Store) Load(name string) (Profile, error) {
	if err := ValidateName(name); err != nil {
		return Profile{}, err
	}
	path := s.Path(name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
		}
		return Profile{}, fmt.Errorf("failed to stat profile: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	for key, value := range defaultFlags() {
		v.SetDefault("flags."+key, value)
	}
	if err := v.ReadInConfig(); err != nil {
		return Profile{}, fmt.Errorf("failed to read profile %s: %w", name, err)
	}

	var p Profile
	if err := v.Unmarshal(&p); err != nil {
		return Profile{}, fmt.Errorf("failed to parse profile %s: %w", name, err)
	}
	if p.Name == "" {
		p.Name = name
	}
	return p, nil
}

// Save writes p. Unless overwrite is set an existing profile is an error.
func (s *Store) Save(p Profile, overwrite bool) error {
	if err := ValidateName(p.Name); err != nil {
		return err
	}
	if !overwrite && s.Exists(p.Name) {
		return fmt.Errorf("%w: %s", ErrProfileExists, p.Name)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := os.WriteFile(s.Path(p.Name), data, 0644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// Delete removes the profile name.
func (s *Store) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := os.Remove(s.Path(name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
		}
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

// List returns the stored profile names in order. A missing directory has none.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || filepath.Ext(e.Name()) != ProfileExt {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ProfileExt))
	}
	sort.Strings(names)
	return names, nil
}
