package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}

func episodeNames(lib *Library) []string {
	var names []string
	for _, ep := range lib.Episodes {
		names = append(names, ep.Filename)
	}
	return names
}

func TestScanFlat(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"Breaking.Bad.S01E01.720p.mkv":    "video",
		"Breaking.Bad.S01E01.720p.en.srt": "1\n00:00:01,000 --> 00:00:02,000\nSay my name\n",
		".hidden.S01E01.mkv":              "video",
		"Movie.Night.2001.mkv.part":       "partial",
		"notes.txt":                       "ignore me",
		"random.mkv":                      "video",
		"extra/Other.Show.S01E02.mkv":     "video",
	})

	s := NewScanner(NewExtractor(nil, nil, nil), false, nil)
	lib, err := s.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	if diff := cmp.Diff([]string{"Breaking.Bad.S01E01.720p.mkv"}, episodeNames(lib)); diff != "" {
		t.Errorf("episodes mismatch (-want +got):\n%s", diff)
	}
	if len(lib.Subtitles) != 1 {
		t.Fatalf("subtitles = %d, want 1", len(lib.Subtitles))
	}
	sub := lib.Subtitles[0]
	if sub.Language != "en" || sub.Extension != "srt" || sub.Matched() {
		t.Errorf("subtitle = %+v, want unmatched en srt", sub)
	}
	if sub.CleanedName != "Breaking Bad S01E01" {
		t.Errorf("subtitle cleaned name = %q, want %q", sub.CleanedName, "Breaking Bad S01E01")
	}
	if len(lib.Failures) != 1 || !errors.Is(lib.Failures[0], ErrNameNotFound) {
		t.Errorf("failures = %v, want one ErrNameNotFound", lib.Failures)
	}
}

func TestScanRecursive(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"Show.A.S01E01.mkv":            "video",
		"nested/Show.B.S01E02.mp4":     "video",
		"nested/deeper/Show.C.E03.avi": "video",
		".cache/Show.D.S01E04.mkv":     "video",
	})

	s := NewScanner(NewExtractor(nil, nil, nil), true, nil)
	lib, err := s.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	want := []string{"Show.A.S01E01.mkv", "Show.B.S01E02.mp4", "Show.C.E03.avi"}
	if diff := cmp.Diff(want, episodeNames(lib)); diff != "" {
		t.Errorf("episodes mismatch (-want +got):\n%s", diff)
	}
}

func TestScanSubtitleTitleLine(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"Show.S01E02.mkv":    "video",
		"Show.S01E02.srt":    "\ufeffTitle: French\n1\n00:00:01,000 --> 00:00:02,000\nBonjour\n",
		"Show.S01E02.en.vtt": "WEBVTT\nTitle: Deutsch\n",
		"Show.S01E02.sub":    "Title: binary formats are not read\n",
	})

	s := NewScanner(NewExtractor(nil, nil, nil), false, nil)
	lib, err := s.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	got := map[string]string{}
	for _, sub := range lib.Subtitles {
		got[filepath.Base(sub.FullPath)] = sub.Language
	}
	want := map[string]string{
		"Show.S01E02.srt":    "French",
		"Show.S01E02.en.vtt": "Deutsch",
		"Show.S01E02.sub":    "",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("subtitle languages mismatch (-want +got):\n%s", diff)
	}
}

func TestScanNoMedia(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"Lonely.S01E01.srt": "Title: English\n",
		"readme.md":         "nothing",
	})

	s := NewScanner(NewExtractor(nil, nil, nil), false, nil)
	lib, err := s.Scan(context.Background(), root)
	if !errors.Is(err, ErrNoMediaFound) {
		t.Fatalf("Scan() error = %v, want ErrNoMediaFound", err)
	}
	if lib == nil || len(lib.Subtitles) != 1 {
		t.Errorf("Scan() should still report the subtitle, got %+v", lib)
	}
}

func TestScanMissingInput(t *testing.T) {
	s := NewScanner(NewExtractor(nil, nil, nil), false, nil)
	_, err := s.Scan(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if err == nil || errors.Is(err, ErrNoMediaFound) {
		t.Errorf("Scan() error = %v, want a read error", err)
	}
}

func TestScanCancelled(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"Show.S01E01.mkv": "video"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewScanner(NewExtractor(nil, nil, nil), true, nil)
	if _, err := s.Scan(ctx, root); !errors.Is(err, context.Canceled) {
		t.Errorf("Scan() error = %v, want context.Canceled", err)
	}
}

func TestSplitLanguageToken(t *testing.T) {
	tests := []struct {
		in       string
		wantName string
		wantLang string
	}{
		{"Show.S01E01.en.srt", "Show.S01E01.srt", "en"},
		{"Show.S01E01.fra.ass", "Show.S01E01.ass", "fra"},
		{"Show.S01E01.srt", "Show.S01E01.srt", ""},
		{"The.Movie.Up.srt", "The.Movie.Up.srt", ""},
		{"Show.S01E01.720p.srt", "Show.S01E01.720p.srt", ""},
		{"en.srt", "en.srt", ""},
		{"noext", "noext", ""},
	}
	for _, tc := range tests {
		name, lang := splitLanguageToken(tc.in)
		if name != tc.wantName || lang != tc.wantLang {
			t.Errorf("splitLanguageToken(%q) = (%q, %q), want (%q, %q)", tc.in, name, lang, tc.wantName, tc.wantLang)
		}
	}
}

func TestMatchSubtitles(t *testing.T) {
	lib := &Library{
		Episodes: []Episode{
			{CleanedName: "Show S01E01"},
			{CleanedName: "Show S01E02"},
			{CleanedName: "Show S01E01"},
		},
		Subtitles: []Subtitle{
			{CleanedName: "Show S01E01", EpisodeIndex: -1, Stub: Episode{Title: "stub one"}},
			{CleanedName: "Show S01E02", EpisodeIndex: -1},
			{CleanedName: "Other S01E01", EpisodeIndex: -1, Stub: Episode{Title: "Other"}},
		},
	}

	if n := MatchSubtitles(lib); n != 2 {
		t.Errorf("MatchSubtitles() = %d, want 2", n)
	}

	got := []int{lib.Subtitles[0].EpisodeIndex, lib.Subtitles[1].EpisodeIndex, lib.Subtitles[2].EpisodeIndex}
	if diff := cmp.Diff([]int{0, 1, -1}, got); diff != "" {
		t.Errorf("episode indices mismatch (-want +got):\n%s", diff)
	}
	if ep := lib.EpisodeFor(lib.Subtitles[2]); ep.Title != "Other" {
		t.Errorf("EpisodeFor(unmatched) = %q, want stub %q", ep.Title, "Other")
	}
	if ep := lib.EpisodeFor(lib.Subtitles[0]); ep.CleanedName != "Show S01E01" {
		t.Errorf("EpisodeFor(matched) = %+v, want first episode", ep)
	}
}
