// Package rope provides an immutable rope data structure for text storage.
//
// A rope is a B+ tree whose leaves hold bounded UTF-8 chunks and whose
// internal nodes cache a TextSummary (bytes, characters, newlines) for
// their subtree. The character count lets callers address text by Unicode
// scalar value in O(log n) while storage stays byte-oriented.
//
// Key features:
//   - O(log n) insertion, deletion, and character-to-byte conversion
//   - Immutable operations return new ropes; originals are never modified
//   - Line starts resolved through per-node newline counts
//   - Thread-safe for concurrent read access
//
// Basic usage:
//
//	r := rope.FromString("héllo world")
//	at := r.CharToByte(5)          // byte offset of the 6th character
//	r = r.Insert(at, ",")          // "héllo, world"
//	text := r.String()
package rope
