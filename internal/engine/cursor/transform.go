package cursor

import "github.com/dshills/lala/internal/engine/buffer"

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// AdjustForDeletion transforms an offset after the characters in
// deleteRange were removed. An offset inside the deleted span collapses
// to its start; an offset at or after its end shifts left by its length.
func AdjustForDeletion(offset int, deleteRange Range) int {
	switch {
	case offset <= deleteRange.Start:
		return offset
	case deleteRange.Contains(offset):
		return deleteRange.Start
	}
	return offset - deleteRange.Len()
}

// AdjustForInsertion transforms an offset after insertLen characters were
// inserted at insertOffset. Offsets at the insertion point move past the
// inserted text.
func AdjustForInsertion(offset, insertOffset, insertLen int) int {
	if offset < insertOffset {
		return offset
	}
	return offset + insertLen
}
