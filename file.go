// File handle and whole-file operations.
//
// A File is a path plus the settings it was registered with. It does not
// hold an open descriptor: each operation opens, uses and closes the
// underlying file, so a handle stays valid across renames and deletions
// of the path it names.
package rowfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// TempSuffix is appended to a file's path to form its rewrite temp path.
const TempSuffix = "_temp"

// File is the shared handle for one normalized path. Obtain it from a
// Registry; at most one exists per path per Registry.
type File struct {
	path   string
	config Config
	reg    *Registry
}

// Path returns the normalized absolute path.
func (f *File) Path() string {
	return f.path
}

// TempPath returns the sibling path used while the file is rewritten.
func (f *File) TempPath() string {
	return f.path + TempSuffix
}

// ChunkSize returns the read window size in bytes.
func (f *File) ChunkSize() int {
	return f.config.ChunkSize
}

// Exists reports whether the file is present.
func (f *File) Exists() (bool, error) {
	_, err := os.Stat(f.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("exists: %w", err)
}

// Size returns the file length in bytes.
func (f *File) Size() (int64, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		return 0, fmt.Errorf("size: %w", err)
	}
	return info.Size(), nil
}

// Rename moves the file to newPath and returns the handle for newPath.
func (f *File) Rename(newPath string) (*File, error) {
	abs, err := normalize(newPath)
	if err != nil {
		return nil, fmt.Errorf("rename: %w", err)
	}
	if err := os.Rename(f.path, abs); err != nil {
		return nil, fmt.Errorf("rename: %w", err)
	}
	if f.reg != nil {
		return f.reg.File(abs)
	}
	return &File{path: abs, config: f.config}, nil
}

// Remove deletes the file.
func (f *File) Remove() error {
	if err := os.Remove(f.path); err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// Read returns the entire file content.
func (f *File) Read() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("read: %w", err)
	}
	return string(data), nil
}
