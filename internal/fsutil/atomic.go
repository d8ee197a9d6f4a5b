// Package fsutil provides file helpers for writing generated projects.
package fsutil

import (
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to path using a temp file + rename.
// The temp file is created in the same directory as path so the rename stays
// on one filesystem. On failure the original file, if any, is left unchanged.
// The caller must ensure the parent directory exists.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".ezinit-tmp-*")
	if err != nil {
		return err
	}
	tmpPath := f.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}

	success = true
	return nil
}

// Exists reports whether path exists.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
