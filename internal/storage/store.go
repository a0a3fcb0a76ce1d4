// Package storage keeps the raw uploaded files on local disk, next to (but
// outside of) the database records that reference them.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store writes and removes uploaded file artifacts. Stored names are unique
// within the directory; collisions get a timestamp suffix.
type Store struct {
	dir string
}

// NewStore creates the upload directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes content under a sanitized, collision-safe version of the
// requested filename and returns the name actually used.
func (s *Store) Save(filename string, content []byte) (string, error) {
	name := sanitize(filename)
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err == nil {
		ext := filepath.Ext(name)
		base := strings.TrimSuffix(name, ext)
		name = fmt.Sprintf("%s_%d%s", base, time.Now().UnixNano(), ext)
		path = filepath.Join(s.dir, name)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("storage: write %s: %w", name, err)
	}
	return name, nil
}

// Remove deletes a stored file. A file already gone is not an error.
func (s *Store) Remove(name string) error {
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove %s: %w", name, err)
	}
	return nil
}

// Path returns the absolute location of a stored file.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// sanitize strips directory components and characters that are unsafe in a
// stored filename, mirroring what the upload boundary guarantees.
func sanitize(filename string) string {
	name := filepath.Base(filename)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." || name == ".." {
		name = "upload"
	}
	return name
}
