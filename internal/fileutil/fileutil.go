package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to a temp file next to path and renames it
// into place, so readers never see a partial file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// CreateSibling opens a hidden temp file in the directory of dest. Pair it
// with Commit or Discard.
func CreateSibling(dest string) (*os.File, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.partial")
	if err != nil {
		return nil, fmt.Errorf("create temp output: %w", err)
	}
	return f, nil
}

// Commit syncs and closes f, then renames it to dest.
func Commit(f *os.File, dest string) error {
	if err := f.Sync(); err != nil {
		Discard(f)
		return fmt.Errorf("sync output: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Chmod(f.Name(), 0o644); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("chmod output: %w", err)
	}
	if err := os.Rename(f.Name(), dest); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}

// Discard closes and removes a temp file created by CreateSibling.
func Discard(f *os.File) {
	_ = f.Close()
	_ = os.Remove(f.Name())
}
