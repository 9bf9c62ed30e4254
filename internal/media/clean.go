package media

import (
	"strings"
	"unicode"
)

// DefaultUnwantedWords seeds the unwanted words file on first run.
var DefaultUnwantedWords = []string{
	"www", "com", "net", "org", "info",
	"mkv", "mp4", "avi", "wmv", "flv", "mov", "webm",
	"720p", "1080p", "2160p",
	"x264", "x265", "HEVC", "H264", "AAC", "DTS",
	"MULTI", "HD", "FRENCH", "VOSTFR", "VOSTA", "VF", "VO",
	"DL", "WEBRip", "WEB-DL", "WEB", "WEBRIP", "Rip", "RIP",
	"BluRay", "Blu-Ray", "Blu-ray",
	"Film", "Movie",
	"TsundereRaws", "Tsundere", "Raws", "NanDesuKa", "FANSUB",
	"fit", "ws", "tv", "TV", "ec", "co", "vip", "cc", "red", "uno", "boats", "tokyo",
	"vostfree", "Wawacity", "wawacity",
}

// Words is a case-sensitive set of tokens stripped from filenames.
type Words struct {
	set map[string]struct{}
}

// NewWords builds a word set. Blank entries are ignored.
func NewWords(words []string) *Words {
	w := &Words{set: make(map[string]struct{}, len(words))}
	for _, word := range words {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		w.set[word] = struct{}{}
	}
	return w
}

// DefaultWords returns the built-in word set.
func DefaultWords() *Words {
	return NewWords(DefaultUnwantedWords)
}

// Contains reports whether word is unwanted.
func (w *Words) Contains(word string) bool {
	if w == nil {
		return false
	}
	_, ok := w.set[word]
	return ok
}

// Len returns the number of unwanted words.
func (w *Words) Len() int {
	if w == nil {
		return 0
	}
	return len(w.set)
}

// Clean strips release noise from a filename and returns the canonical
// space-joined token sequence.
func Clean(filename string, words *Words) string {
	s := filename
	if idx := strings.LastIndex(s, "."); idx >= 0 {
		s = s[:idx]
	}

	s = separatorReplacer.Replace(s)
	s = bracketsRe.ReplaceAllString(s, "")
	s = removeWords(s, words)

	return strings.Join(strings.Fields(s), " ")
}

var separatorReplacer = strings.NewReplacer(".", " ", "_", " ", "-", " ", "+", " ")

// removeWords drops every maximal alphanumeric run that is an unwanted word.
// Runs are bounded by non-alphanumerics so title substrings survive.
func removeWords(s string, words *Words) string {
	if words.Len() == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	runes := []rune(s)
	for i := 0; i < len(runes); {
		if !isWordRune(runes[i]) {
			b.WriteRune(runes[i])
			i++
			continue
		}
		j := i
		for j < len(runes) && isWordRune(runes[j]) {
			j++
		}
		word := string(runes[i:j])
		if !words.Contains(word) {
			b.WriteString(word)
		}
		i = j
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
