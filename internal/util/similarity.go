package util

import (
	"regexp"
	"unicode/utf8"
)

var yearRe = regexp.MustCompile(`\b(19\d\d|20\d\d)\b`)

// Distance returns the Levenshtein edit distance between a and b, counted in
// code points. It keeps two rows sized by the shorter string.
func Distance(a, b string) int {
	if utf8.RuneCountInString(a) < utf8.RuneCountInString(b) {
		a, b = b, a
	}
	ra, rb := []rune(a), []rune(b)
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i, ca := range ra {
		cur[0] = i + 1
		for j, cb := range rb {
			cost := 1
			if ca == cb {
				cost = 0
			}
			cur[j+1] = min(prev[j+1]+1, cur[j]+1, prev[j]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

// Accuracy scores how close b is to a: 100 minus their edit distance.
// The result may be negative.
func Accuracy(a, b string) int {
	return 100 - Distance(a, b)
}

// FindYear returns the first word-bounded 19xx/20xx year in s, or "".
func FindYear(s string) string {
	if m := yearRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

// MatchesYear reports whether s carries year as a standalone word.
func MatchesYear(s, year string) bool {
	if year == "" {
		return false
	}
	for _, m := range yearRe.FindAllString(s, -1) {
		if m == year {
			return true
		}
	}
	return false
}

// YearFromDate extracts the year of an ISO date such as "2008-01-20".
func YearFromDate(date string) string {
	if len(date) < 4 {
		return ""
	}
	return FindYear(date[:4])
}
