package dictionary

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
)

// FileCache stores raw dictionary responses, one JSON file per word.
// Only successful responses are stored, so a word missing from a dictionary is asked again.
type FileCache struct {
	rootDir string
}

func NewFileCache(cacheDirectory string) *FileCache {
	return &FileCache{
		rootDir: cacheDirectory,
	}
}

func (f *FileCache) filePath(word string) string {
	// Escaping keeps phrases and apostrophes inside rootDir.
	return filepath.Join(f.rootDir, url.PathEscape(word)+".json")
}

// cache returns the stored response for word, or calls fetch and stores its result.
// An unreadable cache is treated as a miss, and a response that cannot be stored is still
// returned.
func (f *FileCache) cache(word string, fetch func() ([]byte, error)) ([]byte, error) {
	contents, err := f.read(word)
	if err == nil {
		return contents, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		slog.Default().Warn("failed to read a cached dictionary response", "word", word, "error", err)
	}

	contents, err = fetch()
	if err != nil {
		return nil, err
	}
	if err := f.write(word, contents); err != nil {
		slog.Default().Warn("failed to cache a dictionary response", "word", word, "error", err)
	}
	return contents, nil
}

func (f *FileCache) read(word string) ([]byte, error) {
	contents, err := os.ReadFile(f.filePath(word))
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile > %w", err)
	}
	return contents, nil
}

// write replaces the cached file through a rename, so an interrupted lookup never leaves a
// truncated response behind.
func (f *FileCache) write(word string, contents []byte) error {
	if err := os.MkdirAll(f.rootDir, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll > %w", err)
	}
	tmp, err := os.CreateTemp(f.rootDir, ".lookup-*")
	if err != nil {
		return fmt.Errorf("os.CreateTemp > %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(contents); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("tmp.Write > %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tmp.Close > %w", err)
	}
	if err := os.Rename(tmp.Name(), f.filePath(word)); err != nil {
		return fmt.Errorf("os.Rename > %w", err)
	}
	return nil
}
