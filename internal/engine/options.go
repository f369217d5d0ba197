package engine

import (
	"github.com/dshills/lala/internal/engine/history"
	"github.com/dshills/lala/internal/vfs"
)

// DefaultMaxUndoEntries is the undo capacity used when none is configured.
const DefaultMaxUndoEntries = history.DefaultMaxEntries

// Option configures an Editor during creation.
type Option func(*Editor)

// WithText sets the initial content of the editor.
// The initial content is not undoable and does not mark the editor modified.
func WithText(text string) Option {
	return func(e *Editor) {
		e.initText = text
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(e *Editor) {
		if max > 0 {
			e.maxUndoEntries = max
		}
	}
}

// WithFS sets the file system used by LoadFile and Save.
func WithFS(fs vfs.VFS) Option {
	return func(e *Editor) {
		if fs != nil {
			e.fs = fs
		}
	}
}
