// Package pictures stores uploaded book cover images on disk. Stored files
// get content-derived names so the database only keeps a short reference.
package pictures

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxUploadSize limits accepted picture uploads to 5 MiB.
const MaxUploadSize = 5 << 20

var (
	ErrUnsupportedType = errors.New("unsupported picture type")
	ErrTooLarge        = errors.New("picture exceeds maximum size")
)

// allowedExtensions whitelists picture file extensions (lowercase).
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Store persists pictures under a single flat directory.
type Store struct {
	dir string
}

// NewStore creates a picture store at the specified directory.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create pictures dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes an uploaded picture and returns its stored name. The name is
// derived from the content hash, so re-uploading the same file is idempotent.
func (s *Store) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedType
	}

	// Temp file in the same directory for an atomic rename
	tmpFile, err := os.CreateTemp(s.dir, "upload_tmp_")
	if err != nil {
		return "", err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath) // Clean up if we didn't rename
	}()

	hasher := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tmpFile, hasher), io.LimitReader(r, MaxUploadSize)); err != nil {
		return "", err
	}
	if err := tmpFile.Close(); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%x%s", hasher.Sum(nil)[:16], ext)
	if err := os.Rename(tmpPath, filepath.Join(s.dir, name)); err != nil {
		return "", err
	}
	return name, nil
}

// Remove deletes a stored picture. Missing files are not an error.
func (s *Store) Remove(name string) error {
	if name == "" {
		return nil
	}
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Path resolves a stored name to its on-disk path. Names containing path
// separators are rejected so database values cannot escape the directory.
func (s *Store) Path(name string) (string, error) {
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid picture name %q", name)
	}
	return filepath.Join(s.dir, name), nil
}

// Dir returns the storage directory path.
func (s *Store) Dir() string {
	return s.dir
}
