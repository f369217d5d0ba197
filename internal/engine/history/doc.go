// Package history provides undo/redo functionality for the text editor engine.
//
// # Edits
//
// An Edit is either an Insert or a Delete. Each carries the text involved
// and the cursor position before and after the change, so it can be
// replayed forward (Apply) or backward (Revert):
//
//	Insert{Position: 5, Text: "abc", CursorBefore: 5, CursorAfter: 8}
//	Delete{Range: buffer.NewRange(2, 4), Text: "xy", CursorBefore: 4, CursorAfter: 2}
//
// # History
//
// History is a linear log with a current position:
//
//	h := history.New() // DefaultMaxEntries edits
//	h.Add(edit)
//	h.Undo(buf, cur)
//	h.Redo(buf, cur)
//
// Adding an edit after an undo discards the redo tail. When the log is
// full the oldest edit is evicted.
//
// # Saved state
//
// MarkSaved remembers the current position. IsModified is false exactly
// when the log is back at that position, so undoing to the saved point
// makes the document clean again. Evicting or discarding the saved edit
// leaves the document permanently modified until the next MarkSaved.
package history
