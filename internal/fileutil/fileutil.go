// Package fileutil holds path helpers and the scratch directories used for
// files handed to child processes (Chrome, the mermaid CLI).
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidScratchName is returned for names that are not a bare file name.
var ErrInvalidScratchName = errors.New("scratch file name must be a bare file name")

// Scratch is a private temp directory. Everything written into it is removed
// by a single Close, including files a child process created there.
type Scratch struct {
	dir string
}

// NewScratch creates a directory named mdpress-{purpose}-* under os.TempDir.
func NewScratch(purpose string) (*Scratch, error) {
	dir, err := os.MkdirTemp("", "mdpress-"+purpose+"-*")
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	return &Scratch{dir: dir}, nil
}

// Dir returns the scratch directory.
func (s *Scratch) Dir() string { return s.dir }

// Path returns the location of name inside the scratch directory. The file
// does not need to exist.
func (s *Scratch) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\\x00") {
		return "", fmt.Errorf("%w: %q", ErrInvalidScratchName, name)
	}
	return filepath.Join(s.dir, name), nil
}

// WriteFile writes content to name and returns its path. Only the owner can
// read it.
func (s *Scratch) WriteFile(name, content string) (string, error) {
	path, err := s.Path(name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("writing scratch file: %w", err)
	}
	return path, nil
}

// Close removes the directory and its contents.
func (s *Scratch) Close() error {
	return os.RemoveAll(s.dir)
}

// FileExists returns true if the path exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath reports whether s names a path rather than a bare name:
// "serif" and "my-style" are names, "./brand.css" and "sub/dir" are paths.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// HasExtension reports whether path ends with one of exts, compared
// case-insensitively. Extensions include the leading dot.
func HasExtension(path string, exts ...string) bool {
	ext := filepath.Ext(path)
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
