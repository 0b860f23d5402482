package assets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// styleSubdir is where a style directory keeps its CSS files.
const styleSubdir = "styles"

// Dir serves styles from {path}/styles. Reads go through os.Root, so neither
// a crafted name nor a symlink can reach a file outside the directory.
type Dir struct {
	path string
}

var _ Loader = (*Dir)(nil)

// NewDir checks that path is an openable directory.
func NewDir(path string) (*Dir, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidStyleDir)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStyleDir, err)
	}
	root, err := os.OpenRoot(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStyleDir, err)
	}
	_ = root.Close()
	return &Dir{path: abs}, nil
}

func (d *Dir) LoadStyle(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}

	root, err := os.OpenRoot(d.path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStyleRead, err)
	}
	defer root.Close()

	f, err := root.Open(filepath.Join(styleSubdir, name+".css"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
		}
		return "", fmt.Errorf("%w: %v", ErrStyleRead, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStyleRead, err)
	}
	return string(content), nil
}
