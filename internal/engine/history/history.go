package history

import (
	"time"

	"github.com/dshills/lala/internal/engine/buffer"
	"github.com/dshills/lala/internal/engine/cursor"
)

// DefaultMaxEntries is the capacity used when none is given.
const DefaultMaxEntries = 1000

// OperationInfo provides read-only info about a recorded edit.
// Used for displaying undo/redo history to users.
type OperationInfo struct {
	Description string    // Human-readable description
	Timestamp   time.Time // When the edit was recorded
	CharsDelta  int       // Positive for insertions, negative for deletions
}

type entry struct {
	edit      Edit
	timestamp time.Time
}

func (e entry) info() OperationInfo {
	return OperationInfo{
		Description: Describe(e.edit),
		Timestamp:   e.timestamp,
		CharsDelta:  CharsDelta(e.edit),
	}
}

// History is a bounded, linear undo log.
//
// entries[:current] can be undone and entries[current:] can be redone.
// Recording a new edit discards the redo tail. The saved anchor marks the
// value of current at which the document matched its file on disk; it is
// lost when the edit it points at is evicted or truncated away.
//
// History is not safe for concurrent use.
type History struct {
	entries    []entry
	current    int
	maxEntries int

	savedPos int
	hasSaved bool
}

// New creates a history with DefaultMaxEntries capacity.
func New() *History {
	return NewWithCapacity(DefaultMaxEntries)
}

// NewWithCapacity creates a history holding at most maxEntries edits.
// Non-positive values select DefaultMaxEntries.
func NewWithCapacity(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{
		maxEntries: maxEntries,
		hasSaved:   true,
	}
}

// Add records e as the newest edit, discarding anything that could have
// been redone. The oldest edit is evicted once capacity is exceeded.
func (h *History) Add(e Edit) {
	clear(h.entries[h.current:])
	h.entries = h.entries[:h.current]
	if h.hasSaved && h.savedPos > h.current {
		h.hasSaved = false
	}

	h.entries = append(h.entries, entry{edit: e, timestamp: time.Now()})
	h.current++

	for len(h.entries) > h.maxEntries {
		h.dropOldest()
	}
}

func (h *History) dropOldest() {
	h.entries[0] = entry{}
	h.entries = h.entries[1:]
	h.current--
	if h.hasSaved {
		if h.savedPos == 0 {
			h.hasSaved = false
		} else {
			h.savedPos--
		}
	}
}

// Undo reverts the most recent edit. Returns false if there is nothing
// to undo; buf and cur are then left untouched.
func (h *History) Undo(buf *buffer.TextBuffer, cur *cursor.Cursor) bool {
	if h.current == 0 {
		return false
	}
	h.current--
	Revert(h.entries[h.current].edit, buf, cur)
	return true
}

// Redo reapplies the most recently undone edit. Returns false if there is
// nothing to redo.
func (h *History) Redo(buf *buffer.TextBuffer, cur *cursor.Cursor) bool {
	if h.current == len(h.entries) {
		return false
	}
	Apply(h.entries[h.current].edit, buf, cur)
	h.current++
	return true
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	return h.current > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	return h.current < len(h.entries)
}

// UndoCount returns the number of undo operations available.
func (h *History) UndoCount() int {
	return h.current
}

// RedoCount returns the number of redo operations available.
func (h *History) RedoCount() int {
	return len(h.entries) - h.current
}

// Clear removes all history and treats the current state as saved.
func (h *History) Clear() {
	h.entries = nil
	h.current = 0
	h.savedPos = 0
	h.hasSaved = true
}

// MarkSaved records the current position as matching the file on disk.
func (h *History) MarkSaved() {
	h.savedPos = h.current
	h.hasSaved = true
}

// IsModified reports whether the document differs from its last saved
// state. Undoing back to the saved point clears the flag again.
func (h *History) IsModified() bool {
	return !h.hasSaved || h.savedPos != h.current
}

// PeekUndo returns info about the next undo operation without removing it.
func (h *History) PeekUndo() (OperationInfo, bool) {
	if h.current == 0 {
		return OperationInfo{}, false
	}
	return h.entries[h.current-1].info(), true
}

// PeekRedo returns info about the next redo operation without removing it.
func (h *History) PeekRedo() (OperationInfo, bool) {
	if h.current == len(h.entries) {
		return OperationInfo{}, false
	}
	return h.entries[h.current].info(), true
}

// UndoInfo returns info about undoable edits, oldest first.
func (h *History) UndoInfo() []OperationInfo {
	result := make([]OperationInfo, h.current)
	for i, e := range h.entries[:h.current] {
		result[i] = e.info()
	}
	return result
}

// RedoInfo returns info about redoable edits in the order Redo would
// replay them.
func (h *History) RedoInfo() []OperationInfo {
	result := make([]OperationInfo, 0, len(h.entries)-h.current)
	for _, e := range h.entries[h.current:] {
		result = append(result, e.info())
	}
	return result
}

// MaxEntries returns the maximum number of recorded edits.
func (h *History) MaxEntries() int {
	return h.maxEntries
}

// SetMaxEntries changes the capacity. When shrinking, the oldest undoable
// edits go first, then the far end of the redo tail.
func (h *History) SetMaxEntries(maxEntries int) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	h.maxEntries = maxEntries

	for len(h.entries) > h.maxEntries && h.current > 0 {
		h.dropOldest()
	}
	if len(h.entries) > h.maxEntries {
		clear(h.entries[h.maxEntries:])
		h.entries = h.entries[:h.maxEntries]
		if h.hasSaved && h.savedPos > len(h.entries) {
			h.hasSaved = false
		}
	}
}
