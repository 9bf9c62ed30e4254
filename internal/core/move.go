package core

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Digital-Shane/media-sort/internal/log"
)

// Outcome is what a Move did.
type Outcome int

const (
	// Skipped means the target already existed and nothing was touched.
	Skipped Outcome = iota
	// Renamed means the file was renamed within one volume.
	Renamed
	// Copied means the file was copied to another volume and the source removed.
	Copied
)

func (o Outcome) String() string {
	switch o {
	case Renamed:
		return "renamed"
	case Copied:
		return "copied"
	default:
		return "skipped"
	}
}

// Moved reports whether the file now lives at the target.
func (o Outcome) Moved() bool {
	return o == Renamed || o == Copied
}

// Mover moves single files and whole trees, linking when source and target
// share a volume and copying then deleting when they do not. Either way the
// target is claimed exclusively, so of two moves racing for one target only
// the first lands and the other is Skipped.
type Mover struct {
	link       func(oldpath, newpath string) error
	remove     func(path string) error
	sameVolume func(a, b string) (bool, error)
}

// NewMover returns a Mover backed by the host filesystem.
func NewMover() *Mover {
	return &Mover{
		link:       os.Link,
		remove:     os.Remove,
		sameVolume: sameVolume,
	}
}

// Move relocates src to dst. The directory of dst must already exist. An
// existing dst is not an error: the file is left alone and Skipped returned.
func (m *Mover) Move(src, dst string) (Outcome, error) {
	info, err := os.Lstat(src)
	if err != nil {
		return Skipped, fmt.Errorf("%w: %v", ErrSourceNotFound, err)
	}
	if !info.Mode().IsRegular() {
		return Skipped, fmt.Errorf("%w: %s is not a regular file", ErrSourceNotFound, src)
	}
	srcDir, dstDir := filepath.Dir(src), filepath.Dir(dst)
	if filepath.Clean(srcDir) == filepath.Clean(dstDir) {
		return Skipped, fmt.Errorf("%w: %s", ErrSameDirectory, srcDir)
	}
	if _, err := os.Lstat(dst); err == nil {
		return Skipped, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Skipped, fmt.Errorf("check target: %w", err)
	}

	same, err := m.sameVolume(srcDir, dstDir)
	if err != nil {
		return Skipped, fmt.Errorf("compare volumes: %w", err)
	}
	if same {
		outcome, handled, err := m.linkMove(src, dst)
		if handled {
			return outcome, err
		}
	}

	err = copyFile(src, dst, info.Mode().Perm())
	if errors.Is(err, fs.ErrExist) {
		return Skipped, nil
	}
	log.LogCopy(src, dst, err)
	if err != nil {
		return Skipped, fmt.Errorf("copy: %w", err)
	}

	err = m.remove(src)
	log.LogDelete(src, err)
	if err != nil {
		return Copied, fmt.Errorf("copied to %s but could not remove source: %w", dst, err)
	}
	return Copied, nil
}

// linkMove claims dst with a hard link and then drops src. handled is false
// when the filesystem cannot link the two paths and the caller should copy
// instead.
func (m *Mover) linkMove(src, dst string) (Outcome, bool, error) {
	err := m.link(src, dst)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrExist):
		return Skipped, true, nil
	default:
		// Cross-device despite matching ids (bind mounts) or no hard link
		// support (FAT, some network shares).
		return Skipped, false, nil
	}

	if err := m.remove(src); err != nil {
		// Put things back so the file is not left in both places.
		if rerr := os.Remove(dst); rerr != nil {
			err = errors.Join(err, rerr)
		}
		log.LogMove(src, dst, err)
		return Skipped, true, fmt.Errorf("remove source after link: %w", err)
	}
	log.LogMove(src, dst, nil)
	return Renamed, true, nil
}

// copyFile writes src to a new dst. A partial dst is removed on failure and an
// existing dst is never overwritten.
func copyFile(src, dst string, perm fs.FileMode) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			out.Close()
			os.Remove(dst)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	if err = out.Sync(); err != nil {
		return err
	}
	return out.Close()
}

// MoveTree moves every regular file below src to the same relative path below
// dst, then removes the source directories that were emptied. progress gets
// one tick per file. Files whose target exists stay behind, and so do their
// directories.
func (m *Mover) MoveTree(src, dst string, progress Progress) error {
	if progress == nil {
		progress = NopProgress{}
	}
	src, dst = filepath.Clean(src), filepath.Clean(dst)
	if dst == src || strings.HasPrefix(dst, src+string(filepath.Separator)) {
		return fmt.Errorf("cannot move %s into itself", src)
	}

	var files, dirs []string
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		switch {
		case d.IsDir():
			dirs = append(dirs, path)
		case d.Type().IsRegular():
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", src, err)
	}

	progress.Add(len(files))
	for _, dir := range dirs {
		rel, err := filepath.Rel(src, dir)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if err := os.MkdirAll(target, 0755); err != nil {
			log.LogCreateDir(target, err)
			return err
		}
	}

	var firstErr error
	for _, path := range files {
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if _, err := m.Move(path, filepath.Join(dst, rel)); err != nil && firstErr == nil {
			firstErr = err
		}
		progress.SetMessage(rel)
		progress.Inc()
	}

	// Deepest first so parents are empty by the time they are reached.
	slices.Reverse(dirs)
	for _, dir := range dirs {
		if err := m.remove(dir); err == nil {
			log.LogDelete(dir, nil)
		}
	}
	return firstErr
}
