package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const appDir = "MediaSort"

// DataDir is the per-user data directory, <dataLocal>/MediaSort.
func DataDir() string {
	return filepath.Join(xdg.DataHome, appDir)
}

// ProfilesDir holds the <name>.pms profile documents.
func ProfilesDir() string {
	return filepath.Join(DataDir(), "profiles")
}

// WordsPath is the unwanted words file.
func WordsPath() string {
	return filepath.Join(DataDir(), "unwanted_words.txt")
}

// LogDir holds the operation session logs.
func LogDir() string {
	return filepath.Join(DataDir(), "logs")
}

// CachePath is the persisted lookup cache.
func CachePath() string {
	return filepath.Join(DataDir(), "cache", "lookup.gob")
}
