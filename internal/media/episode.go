package media

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrNameNotFound is returned when no title can be derived from a cleaned filename.
	ErrNameNotFound = errors.New("name not found")
	// ErrNoMediaFound is returned when a scan finishes without a single media file.
	ErrNoMediaFound = errors.New("no media found")
)

var (
	videoExtensions    = []string{"mp4", "mkv", "avi", "mov", "flv", "wmv", "webm"}
	subtitleExtensions = []string{"srt", "sub", "vtt", "ass"}
	textSubtitles      = []string{"srt", "vtt", "ass"}
)

// Episode is the inferred description of one media file. Movies are Episodes
// too, flagged with IsMovie.
type Episode struct {
	FullPath    string
	Filename    string
	CleanedName string
	Extension   string
	Title       string
	Season      int
	Episode     int
	IsMovie     bool
	Year        string
}

// String renders the episode the way it is announced to users.
func (e Episode) String() string {
	if e.IsMovie {
		return e.Title
	}
	return fmt.Sprintf("%s - S%02dE%02d", e.Title, e.Season, e.Episode)
}

// Subtitle is a caption sidecar file. EpisodeIndex points into Library.Episodes
// once matched; until then it is -1 and Stub describes the subtitle on its own.
type Subtitle struct {
	FullPath     string
	CleanedName  string
	Extension    string
	Language     string
	EpisodeIndex int
	Stub         Episode
}

// Matched reports whether the subtitle is bound to a scanned Episode.
func (s Subtitle) Matched() bool {
	return s.EpisodeIndex >= 0
}

// Library is the result of a scan. Episodes is the arena Subtitles refer into.
type Library struct {
	Episodes  []Episode
	Subtitles []Subtitle
	// Failures holds per-file errors that did not stop the scan.
	Failures []error
}

// EpisodeFor returns the Episode a subtitle belongs to: the matched one or its stub.
func (l *Library) EpisodeFor(sub Subtitle) Episode {
	if sub.Matched() && sub.EpisodeIndex < len(l.Episodes) {
		return l.Episodes[sub.EpisodeIndex]
	}
	return sub.Stub
}

// FileError attaches the offending path to a per-file error.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Extension returns the characters after the last dot of a filename.
func Extension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return name[idx+1:]
}

// IsVideo reports whether the file has a recognized media extension.
func IsVideo(name string) bool {
	return hasExtension(name, videoExtensions)
}

// IsSubtitle reports whether the file has a recognized subtitle extension.
func IsSubtitle(name string) bool {
	return hasExtension(name, subtitleExtensions)
}

func isTextSubtitle(name string) bool {
	return hasExtension(name, textSubtitles)
}

func hasExtension(name string, exts []string) bool {
	ext := strings.ToLower(Extension(filepath.Base(name)))
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
