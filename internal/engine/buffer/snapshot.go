package buffer

import (
	"io"

	"github.com/dshills/lala/internal/engine/rope"
)

// Snapshot provides a read-only view of a buffer at a specific point in time.
// It is safe for concurrent access and will not change even if the original
// buffer is modified.
type Snapshot struct {
	rope       rope.Rope
	revisionID RevisionID
}

// Text returns the full snapshot content as a string.
func (s *Snapshot) Text() string {
	return s.rope.String()
}

// LenChars returns the number of characters in the snapshot.
func (s *Snapshot) LenChars() int {
	return int(s.rope.CharCount())
}

// LenBytes returns the encoded size of the snapshot.
func (s *Snapshot) LenBytes() int {
	return int(s.rope.Len())
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() int {
	return int(s.rope.LineCount())
}

// WriteTo streams the snapshot content to w.
func (s *Snapshot) WriteTo(w io.Writer) (int64, error) {
	return s.rope.WriteTo(w)
}

// RevisionID returns the revision ID of this snapshot.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}

// IsEmpty returns true if the snapshot is empty.
func (s *Snapshot) IsEmpty() bool {
	return s.rope.IsEmpty()
}
