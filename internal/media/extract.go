package media

import (
	"context"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Digital-Shane/media-sort/internal/util"
)

// MovieDurationThreshold is the container duration above which a file
// without an SxxEyy marker is treated as a movie.
const MovieDurationThreshold = 4200 * time.Second

const unknownTitle = "unknown"

// DurationProbe reports the playback duration of a media container.
type DurationProbe interface {
	Duration(ctx context.Context, path string) (time.Duration, error)
}

// Extractor derives Episode metadata from filenames.
type Extractor struct {
	words  *Words
	probe  DurationProbe
	logger *slog.Logger
}

// NewExtractor creates an extractor. probe may be nil to disable the
// duration check; logger may be nil.
func NewExtractor(words *Words, probe DurationProbe, logger *slog.Logger) *Extractor {
	if words == nil {
		words = DefaultWords()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Extractor{words: words, probe: probe, logger: logger}
}

// Words returns the unwanted word set used for cleaning.
func (x *Extractor) Words() *Words {
	return x.words
}

// Parse builds an Episode for the media file at fullPath.
func (x *Extractor) Parse(ctx context.Context, fullPath string) (Episode, error) {
	return x.parse(ctx, fullPath, filepath.Base(fullPath), true)
}

// ParseName builds an Episode for fullPath using name in place of the file's
// own basename, without probing the container. Subtitle stubs use it.
func (x *Extractor) ParseName(fullPath, name string) (Episode, error) {
	return x.parse(context.Background(), fullPath, name, false)
}

func (x *Extractor) parse(ctx context.Context, fullPath, name string, probe bool) (Episode, error) {
	ep := Episode{
		FullPath:  fullPath,
		Filename:  filepath.Base(fullPath),
		Extension: Extension(filepath.Base(fullPath)),
		Title:     unknownTitle,
	}
	ep.CleanedName = Clean(name, x.words)

	title, err := ExtractTitle(ep.CleanedName, name)
	if err != nil {
		return Episode{}, &FileError{Path: fullPath, Err: err}
	}
	ep.Title = title

	tokens := strings.Fields(ep.CleanedName)
	ep.Season = extractSeason(tokens, ep.CleanedName)
	ep.Episode = extractEpisode(tokens, ep.CleanedName)
	ep.Year = util.FindYear(ep.CleanedName)
	ep.IsMovie = x.isMovie(ctx, ep, name, probe)

	return ep, nil
}

// isMovie applies the movie rules in order; the duration probe is the last resort.
func (x *Extractor) isMovie(ctx context.Context, ep Episode, rawName string, probe bool) bool {
	if hasMovieWord(rawName) {
		return true
	}
	if ep.Season == 0 && ep.Episode == 0 {
		return true
	}
	if ep.Season > 0 && ep.Episode == 0 {
		return true
	}
	if !probe || x.probe == nil {
		return false
	}

	d, err := x.probe.Duration(ctx, ep.FullPath)
	if err != nil {
		x.logger.Debug("duration probe failed", "path", ep.FullPath, "err", err)
		return false
	}
	if d > MovieDurationThreshold {
		return !seriesMarkRe.MatchString(rawName)
	}
	return false
}

// ExtractTitle finds the title in a cleaned filename. The title is the prefix
// before the first season, episode or year marker; ordered fallback patterns
// apply when no marker token exists. rawName is consulted for the Film/Movie word.
func ExtractTitle(cleaned, rawName string) (string, error) {
	tokens := strings.Fields(cleaned)
	for i := 1; i < len(tokens); i++ {
		if isMarkerToken(tokens[i]) {
			return strings.Join(tokens[:i], " "), nil
		}
	}

	for _, re := range titleFallRe {
		m := re.FindStringSubmatch(cleaned)
		if m == nil {
			continue
		}
		// A bare marker such as "S01" in "S01E01" is not a title.
		if title := strings.TrimSpace(m[1]); title != "" && !isMarkerToken(title) {
			return title, nil
		}
	}

	if cleaned != "" && hasMovieWord(rawName) {
		return cleaned, nil
	}
	return "", ErrNameNotFound
}

// hasMovieWord looks for Film or Movie as a word once separators are spaces,
// so "Some_Movie_2020" counts.
func hasMovieWord(rawName string) bool {
	return movieWordRe.MatchString(separatorReplacer.Replace(rawName))
}

func isMarkerToken(tok string) bool {
	switch {
	case strings.EqualFold(tok, "Season"), strings.EqualFold(tok, "Episode"):
		return true
	case seasonTokenRe.MatchString(tok), episodeTokenRe.MatchString(tok), seasonEpisodeTokenRe.MatchString(tok):
		return true
	case yearTokenRe.MatchString(tok):
		return true
	}
	return false
}

// ExtractSeason returns the season number of a cleaned name, or 0.
func ExtractSeason(cleaned string) int {
	return extractSeason(strings.Fields(cleaned), cleaned)
}

// ExtractEpisode returns the episode number of a cleaned name, or 0.
func ExtractEpisode(cleaned string) int {
	return extractEpisode(strings.Fields(cleaned), cleaned)
}

func extractSeason(tokens []string, cleaned string) int {
	for _, tok := range tokens {
		if m := seasonEpisodeTokenRe.FindStringSubmatch(tok); m != nil {
			return atoi(m[1])
		}
		if m := seasonTokenRe.FindStringSubmatch(tok); m != nil {
			return atoi(m[1])
		}
	}

	// "2nd Season"
	for i := 1; i < len(tokens); i++ {
		if !strings.EqualFold(tokens[i], "Season") {
			continue
		}
		if m := ordinalTokenRe.FindStringSubmatch(tokens[i-1]); m != nil {
			return atoi(m[1])
		}
	}

	// "Season 2"
	for i := 0; i+1 < len(tokens); i++ {
		if strings.EqualFold(tokens[i], "Season") && numberTokenRe.MatchString(tokens[i+1]) {
			return atoi(tokens[i+1])
		}
	}

	if m := seasonFallRe.FindStringSubmatch(cleaned); m != nil {
		if m[1] != "" {
			return atoi(m[1])
		}
		return atoi(m[2])
	}
	return 0
}

func extractEpisode(tokens []string, cleaned string) int {
	for i, tok := range tokens {
		if m := episodeTokenRe.FindStringSubmatch(tok); m != nil {
			return atoi(m[1])
		}
		if m := seasonEpisodeTokenRe.FindStringSubmatch(tok); m != nil {
			return atoi(m[2])
		}
		if strings.EqualFold(tok, "Episode") && i+1 < len(tokens) && numberTokenRe.MatchString(tokens[i+1]) {
			return atoi(tokens[i+1])
		}
		if i > 0 && numberTokenRe.MatchString(tok) && seasonTokenRe.MatchString(tokens[i-1]) {
			return atoi(tok)
		}
	}

	for _, re := range episodeFallRe {
		if m := re.FindStringSubmatch(cleaned); m != nil {
			return atoi(m[1])
		}
	}
	return 0
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
