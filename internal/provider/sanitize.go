package provider

import (
	"strings"
)

const invalidTitleChars = "<>\"/|?*:"

var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// SanitizeTitle makes a catalog title safe to use as a file or directory name.
// A leading drive letter such as "C:" keeps its colon. Reserved device names
// get a trailing underscore.
func SanitizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	rest := title
	if hasDrivePrefix(title) {
		b.WriteString(title[:2])
		rest = title[2:]
	}
	for _, r := range rest {
		if strings.ContainsRune(invalidTitleChars, r) {
			continue
		}
		b.WriteRune(r)
	}

	result := strings.TrimSpace(b.String())
	if _, reserved := reservedNames[strings.ToUpper(result)]; reserved {
		result += "_"
	}
	return result
}

func hasDrivePrefix(s string) bool {
	if len(s) < 2 || s[1] != ':' {
		return false
	}
	c := s[0]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
