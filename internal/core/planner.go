package core

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/Digital-Shane/media-sort/internal/log"
	"github.com/Digital-Shane/media-sort/internal/media"
)

// SubtitleDirName is the folder subtitles are filed under, next to their video.
const SubtitleDirName = "Subtitles"

// onceGroup runs a function at most once per key. The lock only covers the
// lookup and insert of the key's entry; the function itself runs outside it,
// so slow work on one key does not block other keys.
type onceGroup struct {
	mu      sync.Mutex
	entries map[string]*onceEntry
}

type onceEntry struct {
	once sync.Once
	err  error
}

func (g *onceGroup) do(key string, fn func() error) error {
	g.mu.Lock()
	if g.entries == nil {
		g.entries = make(map[string]*onceEntry)
	}
	e, ok := g.entries[key]
	if !ok {
		e = &onceEntry{}
		g.entries[key] = e
	}
	g.mu.Unlock()

	e.once.Do(func() { e.err = fn() })
	return e.err
}

func (g *onceGroup) len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}

// DirectorySet records the directories ensured during a run. Each path is
// created at most once no matter how many workers ask for it; a failed mkdir
// is remembered and returned to every later caller.
type DirectorySet struct {
	group onceGroup
	mkdir func(path string, perm os.FileMode) error
}

// NewDirectorySet returns a set that creates directories with mkdir, or
// os.MkdirAll when mkdir is nil.
func NewDirectorySet(mkdir func(path string, perm os.FileMode) error) *DirectorySet {
	if mkdir == nil {
		mkdir = os.MkdirAll
	}
	return &DirectorySet{mkdir: mkdir}
}

// Ensure creates path and its missing parents unless an earlier call already did.
func (s *DirectorySet) Ensure(path string) error {
	return s.group.do(filepath.Clean(path), func() error {
		err := s.mkdir(path, 0755)
		log.LogCreateDir(path, err)
		return err
	})
}

// Len is the number of distinct paths seen.
func (s *DirectorySet) Len() int {
	return s.group.len()
}

// Planner maps Episodes to library directories below the output root.
type Planner struct {
	output    string
	tvRoot    string
	movieRoot string
	// nil during a dry run: paths are computed but never created.
	dirs *DirectorySet
}

// NewPlanner validates the templates and returns a planner. Pass a nil dirs to
// plan without touching the filesystem.
func NewPlanner(output, tvTemplate, movieTemplate string, dirs *DirectorySet) (*Planner, error) {
	tv, err := pathComponent(tvTemplate)
	if err != nil {
		return nil, err
	}
	movie, err := pathComponent(movieTemplate)
	if err != nil {
		return nil, err
	}
	return &Planner{output: output, tvRoot: tv, movieRoot: movie, dirs: dirs}, nil
}

// RootName is the template directory ep is filed under.
func (p *Planner) RootName(ep media.Episode) string {
	if ep.IsMovie {
		return p.movieRoot
	}
	return p.tvRoot
}

// SeriesDir is the directory holding every season of the series named title.
func (p *Planner) SeriesDir(title string) (string, error) {
	name, err := pathComponent(title)
	if err != nil {
		return "", err
	}
	root := filepath.Join(p.output, p.tvRoot)
	if err := p.ensure(root); err != nil {
		return "", err
	}
	return filepath.Join(root, name), nil
}

// DirFor returns the directory ep belongs in, creating it unless planning a dry run.
func (p *Planner) DirFor(ep media.Episode) (string, error) {
	root := filepath.Join(p.output, p.RootName(ep))
	if err := p.ensure(root); err != nil {
		return "", err
	}
	if ep.IsMovie {
		return root, nil
	}

	title, err := pathComponent(ep.Title)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(root, title, media.SeasonDir(ep.Season))
	if err := p.ensure(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// SubtitleDir returns the Subtitles folder next to ep's directory.
func (p *Planner) SubtitleDir(ep media.Episode) (string, error) {
	dir, err := p.DirFor(ep)
	if err != nil {
		return "", err
	}
	sub := filepath.Join(dir, SubtitleDirName)
	if err := p.ensure(sub); err != nil {
		return "", err
	}
	return sub, nil
}

// Entry describes where a file named name would be filed for ep.
func (p *Planner) Entry(ep media.Episode, source, name string, subtitle bool) PlanEntry {
	entry := PlanEntry{
		Root:     p.RootName(ep),
		Name:     name,
		Source:   source,
		Subtitle: subtitle,
	}
	if !ep.IsMovie {
		entry.Series = ep.Title
		entry.Season = media.SeasonDir(ep.Season)
	}
	return entry
}

func (p *Planner) ensure(dir string) error {
	if p.dirs == nil {
		return nil
	}
	return p.dirs.Ensure(dir)
}

// PlanEntry is one file of a planned run. Movies leave Series and Season empty.
type PlanEntry struct {
	Root     string
	Series   string
	Season   string
	Name     string
	Source   string
	Subtitle bool
}
