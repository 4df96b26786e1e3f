package types

import (
	"io/fs"
)

// FS is the filesystem interface required for sdfm operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error

	// Link operations. Implementations without hard link support return an
	// error wrapping errors.ErrUnsupported.
	Link(oldname, newname string) error

	// Other operations
	Rename(oldpath, newpath string) error
	Remove(name string) error
	RemoveAll(path string) error
}
