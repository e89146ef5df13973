package types

import (
	"io"
	"io/fs"
	"path/filepath"
)

// FS is the filesystem abstraction used by every package that touches disk
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	Open(name string) (io.ReadCloser, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Chmod(name string, mode fs.FileMode) error

	// AtomicWrite replaces name with data through a temp file and rename
	AtomicWrite(name string, data []byte, perm fs.FileMode) error

	// Copy copies a file or a directory tree, preserving permission bits
	Copy(src, dst string) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.FileInfo, error)
	Walk(root string, fn filepath.WalkFunc) error

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error
}
