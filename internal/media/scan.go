package media

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
)

const partialSuffix = ".part"

// Scanner enumerates an input directory and classifies its files.
type Scanner struct {
	extractor *Extractor
	recursive bool
	logger    *slog.Logger
}

// NewScanner creates a scanner that parses media files with x.
func NewScanner(x *Extractor, recursive bool, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scanner{extractor: x, recursive: recursive, logger: logger}
}

// Scan walks input and returns every media file as an Episode and every
// subtitle as an unmatched Subtitle. Files whose title cannot be found are
// recorded in Library.Failures. ErrNoMediaFound is returned alongside the
// library when no Episode was produced.
func (s *Scanner) Scan(ctx context.Context, input string) (*Library, error) {
	lib := &Library{}

	visit := func(path string, name string) {
		if strings.HasPrefix(name, ".") || strings.HasSuffix(name, partialSuffix) {
			return
		}
		switch {
		case IsVideo(name):
			ep, err := s.extractor.Parse(ctx, path)
			if err != nil {
				s.logger.Warn("skipping media file", "path", path, "err", err)
				lib.Failures = append(lib.Failures, err)
				return
			}
			lib.Episodes = append(lib.Episodes, ep)
		case IsSubtitle(name):
			sub, err := s.subtitle(path)
			if err != nil {
				s.logger.Warn("skipping subtitle", "path", path, "err", err)
				lib.Failures = append(lib.Failures, err)
				return
			}
			lib.Subtitles = append(lib.Subtitles, sub)
		}
	}

	if s.recursive {
		err := filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == input {
					return err
				}
				lib.Failures = append(lib.Failures, &FileError{Path: path, Err: err})
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if d.IsDir() {
				if path != input && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() {
				visit(path, d.Name())
			}
			return nil
		})
		if err != nil {
			return lib, fmt.Errorf("scan %s: %w", input, err)
		}
	} else {
		entries, err := os.ReadDir(input)
		if err != nil {
			return lib, fmt.Errorf("scan %s: %w", input, err)
		}
		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return lib, err
			}
			if !entry.Type().IsRegular() {
				continue
			}
			visit(filepath.Join(input, entry.Name()), entry.Name())
		}
	}

	if len(lib.Episodes) == 0 {
		return lib, ErrNoMediaFound
	}
	return lib, nil
}

func (s *Scanner) subtitle(path string) (Subtitle, error) {
	filename := filepath.Base(path)
	name, lang := splitLanguageToken(filename)

	stub, err := s.extractor.ParseName(path, name)
	if err != nil {
		return Subtitle{}, err
	}

	sub := Subtitle{
		FullPath:     path,
		CleanedName:  stub.CleanedName,
		Extension:    Extension(filename),
		Language:     lang,
		EpisodeIndex: -1,
		Stub:         stub,
	}

	if isTextSubtitle(filename) {
		title, err := readTitleLine(path)
		if err != nil {
			s.logger.Debug("could not read subtitle", "path", path, "err", err)
		} else if title != "" {
			sub.Language = title
		}
	}
	return sub, nil
}

// readTitleLine returns the trimmed remainder of the first line starting with "Title:".
func readTitleLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimPrefix(sc.Text(), "\ufeff")
		if rest, ok := strings.CutPrefix(line, "Title:"); ok {
			return strings.TrimSpace(rest), nil
		}
	}
	return "", sc.Err()
}

// splitLanguageToken removes a trailing ISO 639 language token from a
// subtitle filename: "Show.S01E01.en.srt" becomes ("Show.S01E01.srt", "en").
func splitLanguageToken(filename string) (string, string) {
	ext := Extension(filename)
	if ext == "" {
		return filename, ""
	}
	stem := strings.TrimSuffix(filename, "."+ext)
	idx := strings.LastIndexAny(stem, "._ -")
	if idx <= 0 {
		return filename, ""
	}
	token := stem[idx+1:]
	if !isLanguageToken(token) {
		return filename, ""
	}
	return stem[:idx] + "." + ext, token
}

// isLanguageToken accepts lowercase two or three letter codes that parse as a
// known language. Capitalized words belong to titles and are never codes.
func isLanguageToken(token string) bool {
	if len(token) < 2 || len(token) > 3 {
		return false
	}
	for _, r := range token {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	tag, err := language.Parse(token)
	if err != nil {
		return false
	}
	_, conf := tag.Base()
	return conf != language.No
}
