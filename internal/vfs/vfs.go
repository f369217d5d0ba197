// Package vfs provides the file system capability documents are loaded
// from and saved to.
//
// The VFS interface allows swapping the underlying file system
// implementation, enabling tests to run against an in-memory file system.
package vfs

import (
	"io"
	"io/fs"
	"time"
)

// DefaultFileMode is the permission used for newly created files.
const DefaultFileMode fs.FileMode = 0644

// VFS is a virtual file system abstraction covering what a document
// needs: whole-file reads, streaming truncating writes, and metadata.
type VFS interface {
	// ReadFile reads the entire file content.
	ReadFile(path string) ([]byte, error)

	// Create opens a file for writing, creating or truncating it.
	// The content becomes visible once the writer is closed.
	Create(path string) (io.WriteCloser, error)

	// Stat returns file information.
	Stat(path string) (FileInfo, error)

	// Abs returns the absolute path.
	Abs(path string) (string, error)
}

// FileInfo describes a file or directory.
type FileInfo struct {
	path    string
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

// NewFileInfo creates a FileInfo from the given parameters.
func NewFileInfo(path, name string, size int64, mode fs.FileMode, modTime time.Time, isDir bool) FileInfo {
	return FileInfo{
		path:    path,
		name:    name,
		size:    size,
		mode:    mode,
		modTime: modTime,
		isDir:   isDir,
	}
}

// Path returns the full path.
func (fi FileInfo) Path() string { return fi.path }

// Name returns the base name.
func (fi FileInfo) Name() string { return fi.name }

// Size returns the file size in bytes.
func (fi FileInfo) Size() int64 { return fi.size }

// Mode returns the file mode.
func (fi FileInfo) Mode() fs.FileMode { return fi.mode }

// ModTime returns the modification time.
func (fi FileInfo) ModTime() time.Time { return fi.modTime }

// IsDir returns true if this is a directory.
func (fi FileInfo) IsDir() bool { return fi.isDir }
