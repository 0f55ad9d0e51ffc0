package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrObjectExists is returned when a write targets an object that is already stored.
var ErrObjectExists = errors.New("object already exists")

// LocalStorage persists objects on disk under a base directory.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// SaveStream copies r into a temp file and renames it into place. A failed copy leaves nothing behind.
func (s *LocalStorage) SaveStream(name string, r io.Reader) (int64, error) {
	path := s.resolve(name)
	if _, err := os.Stat(path); err == nil {
		return 0, ErrObjectExists
	}
	tmp, err := os.CreateTemp(s.baseDir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create temp object: %w", err)
	}
	tmpName := tmp.Name()
	written, copyErr := io.Copy(tmp, r)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(tmpName)
		if copyErr != nil {
			return 0, fmt.Errorf("write object stream: %w", copyErr)
		}
		return 0, fmt.Errorf("close object: %w", closeErr)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("commit object: %w", err)
	}
	return written, nil
}

// Open returns a read-only handle for the stored object.
func (s *LocalStorage) Open(name string) (*os.File, error) {
	file, err := os.Open(s.resolve(name))
	if err != nil {
		return nil, fmt.Errorf("open object: %w", err)
	}
	return file, nil
}

// Exists reports whether the object is present.
func (s *LocalStorage) Exists(name string) (bool, error) {
	info, err := os.Stat(s.resolve(name))
	if err == nil {
		return !info.IsDir(), nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat object: %w", err)
}

// Path exposes the underlying path of an object.
func (s *LocalStorage) Path(name string) string {
	return s.resolve(name)
}

func (s *LocalStorage) resolve(name string) string {
	return filepath.Join(s.baseDir, filepath.Base(name))
}
