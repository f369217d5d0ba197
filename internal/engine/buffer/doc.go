// Package buffer provides a character-indexed text buffer built on top of the
// rope data structure.
//
// Every position in this package counts Unicode scalar values, never bytes:
// "héllo" has length 5. Operations handed an out-of-range index or an
// inverted range are silent no-ops, and reads return "" or (0, false).
// Callers that need strict validation check bounds before calling in.
//
// Basic usage:
//
//	buf := buffer.FromString("Hello, World!")
//	buf.Insert(7, "Beautiful ")            // "Hello, Beautiful World!"
//	buf.DeleteRange(buffer.NewRange(0, 7)) // "Beautiful World!"
//
//	snap := buf.Snapshot()
//	go func() {
//	    _, _ = snap.WriteTo(w)
//	}()
//
// A TextBuffer is owned by one goroutine at a time. Snapshot returns an
// immutable view that may be read concurrently with further edits.
package buffer
