package core

import (
	"fmt"
	"strings"
)

const invalidFilenameChars = "<>:\"/\\|?*"

// pathComponent turns a title or template into a single directory name.
// Control and reserved characters collapse into one space.
func pathComponent(name string) (string, error) {
	var b strings.Builder
	b.Grow(len(name))

	lastSpace := false
	for _, r := range name {
		if r < 32 || r == 127 || r == ' ' || strings.ContainsRune(invalidFilenameChars, r) {
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
			continue
		}
		lastSpace = false
		b.WriteRune(r)
	}

	result := strings.TrimSpace(b.String())
	switch result {
	case "":
		return "", fmt.Errorf("%q is empty after sanitization", name)
	case ".", "..":
		return "", fmt.Errorf("%q is not a usable directory name", name)
	}
	return result, nil
}
