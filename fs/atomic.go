package fs

import (
	"os"
	"path/filepath"
)

// AtomicFile is a file written under a temporary name and moved into place
// on Commit. Readers never observe a partially written file at the final path.
type AtomicFile struct {
	*os.File
	path string
	done bool
}

// CreateAtomic creates a temporary file in the directory of path.
// The directory must exist.
func CreateAtomic(path string) (*AtomicFile, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, err
	}
	return &AtomicFile{File: f, path: path}, nil
}

// Path returns the final path of the file.
func (f *AtomicFile) Path() string {
	return f.path
}

// Commit closes the temporary file and renames it to the final path,
// replacing any existing file.
func (f *AtomicFile) Commit() error {
	if f.done {
		return nil
	}
	f.done = true

	if err := f.File.Close(); err != nil {
		_ = os.Remove(f.File.Name())
		return err
	}
	if err := os.Rename(f.File.Name(), f.path); err != nil {
		_ = os.Remove(f.File.Name())
		return err
	}
	return nil
}

// Abort closes and removes the temporary file. It is a no-op after Commit,
// so it is safe to defer.
func (f *AtomicFile) Abort() error {
	if f.done {
		return nil
	}
	f.done = true

	_ = f.File.Close()
	return os.Remove(f.File.Name())
}
