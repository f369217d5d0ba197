// Package engine provides the document editing core of lala.
//
// An Editor ties together a character-indexed text buffer, a single cursor,
// an undo history and an optional file path. Every mutation goes through the
// Editor so that it is recorded as an invertible edit:
//
//	e := engine.New(engine.WithText("hello"))
//	e.SetCursorPosition(5)
//	e.InsertText(" world") // "hello world", cursor 11
//	_ = e.Undo()           // "hello", cursor 5
//	_ = e.Redo()           // "hello world", cursor 11
//
// # Positions
//
// All positions count Unicode characters, never bytes. Insertion at the end
// of the document (index == LenChars) is valid. Indices that fall outside the
// document are reported as *OutOfBoundsError; empty ranges and empty text are
// accepted and change nothing.
//
// # Files
//
// LoadFile replaces the content with a file's and clears the history. Save
// writes the content back and marks the current history position as saved,
// so IsModified turns false until the next edit, or until an undo or redo
// moves away from that position.
//
// # Thread Safety
//
// An Editor is not safe for concurrent use. The app package serializes access
// to a shared Editor; Snapshot hands out an immutable view that may be read
// from any goroutine.
package engine
