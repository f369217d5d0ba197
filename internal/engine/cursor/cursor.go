package cursor

import (
	"fmt"
	"math"
)

// Cursor is a single insertion point, stored as a character offset.
//
// Cursor does not know the buffer it points into. Callers pass the buffer
// length to bounded moves and keep the cursor within [0, len] across edits
// with AdjustForInsert, AdjustForDelete and Clamp.
type Cursor struct {
	pos int
}

// New creates a cursor at offset 0.
func New() *Cursor {
	return &Cursor{}
}

// At creates a cursor at pos. Negative positions clamp to 0.
func At(pos int) *Cursor {
	return &Cursor{pos: max(pos, 0)}
}

// Position returns the cursor's character offset.
func (c *Cursor) Position() int {
	return c.pos
}

// SetPosition moves the cursor to pos without bounds checking beyond
// rejecting negative values.
func (c *Cursor) SetPosition(pos int) {
	c.pos = max(pos, 0)
}

// MoveForward advances the cursor by n, saturating at maxPos.
func (c *Cursor) MoveForward(n, maxPos int) {
	if n <= 0 {
		return
	}
	if n > math.MaxInt-c.pos {
		c.pos = maxPos
		return
	}
	c.pos = min(c.pos+n, maxPos)
}

// MoveBackward retreats the cursor by n, saturating at 0.
func (c *Cursor) MoveBackward(n int) {
	if n <= 0 {
		return
	}
	c.pos = max(c.pos-n, 0)
}

// AdjustForInsert updates the cursor after n characters were inserted at pos.
func (c *Cursor) AdjustForInsert(pos, n int) {
	c.pos = AdjustForInsertion(c.pos, pos, n)
}

// AdjustForDelete updates the cursor after n characters were removed
// starting at start.
func (c *Cursor) AdjustForDelete(start, n int) {
	c.pos = AdjustForDeletion(c.pos, Range{Start: start, End: start + n})
}

// Clamp pulls the cursor back to maxPos if it lies beyond it.
func (c *Cursor) Clamp(maxPos int) {
	c.pos = min(c.pos, max(maxPos, 0))
}

// String returns a string representation of the cursor.
func (c *Cursor) String() string {
	return fmt.Sprintf("Cursor(%d)", c.pos)
}
