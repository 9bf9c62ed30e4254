//go:build windows

package core

import (
	"path/filepath"
	"strings"
)

// sameVolume compares the drive letter or UNC share of two paths.
func sameVolume(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(filepath.VolumeName(absA), filepath.VolumeName(absB)), nil
}
