package buffer

import (
	"io"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/dshills/lala/internal/engine/rope"
)

// RevisionID uniquely identifies a buffer revision.
// Every mutation produces a new, process-wide unique ID.
type RevisionID uint64

var revisionCounter uint64

// NewRevisionID generates a new unique revision ID.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}

// TextBuffer is a mutable, character-indexed text store backed by a rope.
//
// All positions are offsets in Unicode scalar values. Operations given an
// index past the end (or an inverted range) leave the buffer unchanged.
// TextBuffer is not safe for concurrent mutation; callers serialize access.
type TextBuffer struct {
	rope       rope.Rope
	revisionID RevisionID
}

// New creates an empty buffer.
func New() *TextBuffer {
	return &TextBuffer{
		rope:       rope.New(),
		revisionID: NewRevisionID(),
	}
}

// FromString creates a buffer holding s.
// Invalid UTF-8 sequences are replaced with U+FFFD.
func FromString(s string) *TextBuffer {
	return &TextBuffer{
		rope:       rope.FromString(Sanitize(s)),
		revisionID: NewRevisionID(),
	}
}

// Sanitize replaces invalid UTF-8 sequences in s with U+FFFD.
// Valid input is returned unchanged.
func Sanitize(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}

// LenChars returns the number of characters in the buffer.
func (b *TextBuffer) LenChars() int {
	return int(b.rope.CharCount())
}

// LenBytes returns the UTF-8 encoded size of the buffer.
func (b *TextBuffer) LenBytes() int {
	return int(b.rope.Len())
}

// LenLines returns the number of newlines plus one. A trailing newline
// therefore yields a trailing empty line.
func (b *TextBuffer) LenLines() int {
	return int(b.rope.LineCount())
}

// IsEmpty returns true if the buffer holds no text.
func (b *TextBuffer) IsEmpty() bool {
	return b.rope.IsEmpty()
}

func (b *TextBuffer) byteOffset(idx int) rope.ByteOffset {
	return b.rope.CharToByte(rope.CharOffset(idx))
}

// Insert inserts s before the character at idx.
// idx == LenChars appends. idx outside [0, LenChars] is ignored.
func (b *TextBuffer) Insert(idx int, s string) {
	if s == "" || idx < 0 || idx > b.LenChars() {
		return
	}
	b.rope = b.rope.Insert(b.byteOffset(idx), Sanitize(s))
	b.revisionID = NewRevisionID()
}

// InsertChar inserts a single character at idx.
func (b *TextBuffer) InsertChar(idx int, r rune) {
	b.Insert(idx, string(r))
}

// DeleteRange removes the characters in [r.Start, r.End).
// Inverted or out-of-range spans are ignored.
func (b *TextBuffer) DeleteRange(r Range) {
	if !b.validRange(r) || r.IsEmpty() {
		return
	}
	b.rope = b.rope.Delete(b.byteOffset(r.Start), b.byteOffset(r.End))
	b.revisionID = NewRevisionID()
}

// DeleteChar removes the single character at idx.
func (b *TextBuffer) DeleteChar(idx int) {
	b.DeleteRange(Range{Start: idx, End: idx + 1})
}

func (b *TextBuffer) validRange(r Range) bool {
	return r.Start >= 0 && r.IsValid() && r.End <= b.LenChars()
}

// Slice returns the text in [r.Start, r.End), or "" for an invalid range.
func (b *TextBuffer) Slice(r Range) string {
	if !b.validRange(r) || r.IsEmpty() {
		return ""
	}
	return b.rope.Slice(b.byteOffset(r.Start), b.byteOffset(r.End))
}

// LineText returns line i without its terminator, LF or CRLF.
// Returns "" when i is out of range.
func (b *TextBuffer) LineText(i int) string {
	if i < 0 || i >= b.LenLines() {
		return ""
	}
	text := b.rope.LineText(uint32(i))
	if i < b.LenLines()-1 {
		text = strings.TrimSuffix(text, "\r")
	}
	return text
}

// Line returns line i including its trailing newline, if any.
// Returns "" when i is out of range.
func (b *TextBuffer) Line(i int) string {
	if i < 0 || i >= b.LenLines() {
		return ""
	}
	start := b.rope.LineStartOffset(uint32(i))
	end := b.rope.LineStartOffset(uint32(i + 1))
	return b.rope.Slice(start, end)
}

// CharAt returns the character at idx.
// The second result is false when idx is out of range.
func (b *TextBuffer) CharAt(idx int) (rune, bool) {
	if idx < 0 || idx >= b.LenChars() {
		return 0, false
	}
	start := b.byteOffset(idx)
	end := min(start+utf8.UTFMax, b.rope.Len())
	r, _ := utf8.DecodeRuneInString(b.rope.Slice(start, end))
	return r, true
}

// ReplaceAll discards the current content and stores s instead.
func (b *TextBuffer) ReplaceAll(s string) {
	b.rope = rope.FromString(Sanitize(s))
	b.revisionID = NewRevisionID()
}

// String returns the full buffer content.
func (b *TextBuffer) String() string {
	return b.rope.String()
}

// WriteTo streams the buffer content to w without building one string.
func (b *TextBuffer) WriteTo(w io.Writer) (int64, error) {
	return b.rope.WriteTo(w)
}

// RevisionID returns the current revision ID.
func (b *TextBuffer) RevisionID() RevisionID {
	return b.revisionID
}

// LineEnding reports the dominant line terminator in the buffer.
func (b *TextBuffer) LineEnding() LineEnding {
	return DetectLineEnding(b.rope.String())
}

// Snapshot returns an immutable view of the current content.
// The snapshot is safe to read from other goroutines while the buffer
// continues to change.
func (b *TextBuffer) Snapshot() *Snapshot {
	return &Snapshot{
		rope:       b.rope,
		revisionID: b.revisionID,
	}
}
