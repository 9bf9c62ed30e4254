package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Digital-Shane/media-sort/internal/media"
)

// LoadWords reads the unwanted words file at path, one token per line. A
// missing file is created with the built-in words first.
func LoadWords(path string) (*media.Words, error) {
	if err := WriteDefaultWords(path); err != nil {
		return nil, err
	}
	return ReadWords(path)
}

// ReadWords is LoadWords without creating anything: a missing file yields
// the built-in words.
func ReadWords(path string) (*media.Words, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return media.DefaultWords(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open unwanted words: %w", err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		words = append(words, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read unwanted words: %w", err)
	}
	return media.NewWords(words), nil
}

// WriteDefaultWords writes the built-in words to path unless it exists.
func WriteDefaultWords(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	content := strings.Join(media.DefaultUnwantedWords, "\n") + "\n"
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if os.IsExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create unwanted words: %w", err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("failed to write unwanted words: %w", err)
	}
	return f.Close()
}
