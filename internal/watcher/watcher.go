// Package watcher reports changes that other programs make to the files
// behind open documents.
//
// Each watched file is observed through its parent directory, so atomic
// saves (write to a temporary file, then rename over the original) are
// seen as a create of the watched name rather than losing the watch.
// Bursts of events for one file are coalesced over a short debounce
// window before delivery.
package watcher

import (
	"errors"
	"strings"
	"time"
)

// Common errors returned by watcher operations.
var (
	ErrWatcherClosed   = errors.New("watcher is closed")
	ErrAlreadyWatching = errors.New("path is already being watched")
	ErrNotWatching     = errors.New("path is not being watched")
	ErrPathNotExist    = errors.New("path does not exist")
)

// Op represents the type of file system operation. Coalesced events may
// carry several bits.
type Op uint32

const (
	// OpCreate indicates the file was created, or replaced by a rename.
	OpCreate Op = 1 << iota
	// OpWrite indicates the file was written to.
	OpWrite
	// OpRemove indicates the file was removed.
	OpRemove
	// OpRename indicates the file was renamed away.
	OpRename
	// OpChmod indicates file permissions were changed.
	OpChmod
)

var opNames = []struct {
	op   Op
	name string
}{
	{OpCreate, "CREATE"},
	{OpWrite, "WRITE"},
	{OpRemove, "REMOVE"},
	{OpRename, "RENAME"},
	{OpChmod, "CHMOD"},
}

// String returns the names of the set bits joined by "|".
func (op Op) String() string {
	var parts []string
	for _, n := range opNames {
		if op.Has(n.op) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "UNKNOWN"
	}
	return strings.Join(parts, "|")
}

// Has returns true if the operation includes the given op.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// Gone reports whether the file no longer exists under its name.
func (op Op) Gone() bool {
	return op&(OpRemove|OpRename) != 0
}

// coalesce merges a newer operation into a pending one. A file that
// disappears stops counting as created or written; a file that comes back
// stops counting as gone.
func coalesce(prev, next Op) Op {
	op := prev | next
	switch {
	case next.Gone():
		op &^= OpCreate | OpWrite
	case next.Has(OpCreate):
		op &^= OpRemove | OpRename
	}
	return op
}

// Event represents a change to a watched file.
type Event struct {
	// Path is the absolute path of the affected file.
	Path string

	// Op is the operation, or the union of coalesced operations.
	Op Op

	// Timestamp is when the last coalesced change occurred.
	Timestamp time.Time
}

// Config holds watcher settings.
type Config struct {
	// Debounce is how long events are collected before delivery.
	// Zero delivers every event immediately.
	Debounce time.Duration

	// BufferSize is the capacity of the Events channel.
	BufferSize int
}

// DefaultConfig returns the default watcher settings.
func DefaultConfig() Config {
	return Config{
		Debounce:   100 * time.Millisecond,
		BufferSize: 64,
	}
}

// Option configures a FileWatcher.
type Option func(*Config)

// WithDebounce sets the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.Debounce = d
		}
	}
}

// WithBufferSize sets the event channel capacity.
func WithBufferSize(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.BufferSize = n
		}
	}
}
