// Package uploads stores incoming audio files under randomized names.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Dir is the fixed directory uploaded audio is written to.
type Dir struct {
	path string
}

// NewDir returns a Dir rooted at path.
func NewDir(path string) *Dir {
	return &Dir{path: path}
}

// Path returns the upload directory.
func (d *Dir) Path() string {
	return d.path
}

// Save writes r to a new file named with a random UUID plus the extension of
// originalName and returns the absolute path. Data is written to a temporary
// file and renamed into place, so a failed save leaves nothing behind.
func (d *Dir) Save(originalName string, r io.Reader) (string, error) {
	if r == nil {
		return "", errors.New("save upload: nil reader")
	}
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return "", fmt.Errorf("save upload: ensure directory: %w", err)
	}

	target := filepath.Join(d.path, uuid.NewString()+extension(originalName))
	tmp, err := os.CreateTemp(d.path, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("save upload: create temp: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", fmt.Errorf("save upload: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("save upload: close: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		cleanup()
		return "", fmt.Errorf("save upload: rename: %w", err)
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return target, nil
	}
	return abs, nil
}

// Remove deletes a previously saved file. Missing files are not an error.
func (d *Dir) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

// extension keeps the final extension of the client-supplied name, stripped of
// any directory components.
func extension(originalName string) string {
	base := filepath.Base(strings.ReplaceAll(originalName, "\\", "/"))
	ext := filepath.Ext(base)
	if ext == "." {
		return ""
	}
	return ext
}
