package history

import (
	"fmt"
	"unicode/utf8"

	"github.com/dshills/lala/internal/engine/buffer"
	"github.com/dshills/lala/internal/engine/cursor"
)

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Edit is a single reversible change to a buffer.
//
// The set of edits is closed: Insert and Delete are the only
// implementations, and Apply and Revert switch over them exhaustively.
type Edit interface {
	edit()
}

// Insert records Text inserted at Position.
type Insert struct {
	Position     int
	Text         string
	CursorBefore int
	CursorAfter  int
}

// Delete records the removal of Range. Text holds the characters that
// were removed, captured before the deletion.
type Delete struct {
	Range        Range
	Text         string
	CursorBefore int
	CursorAfter  int
}

func (Insert) edit() {}
func (Delete) edit() {}

// Apply performs e on buf and moves cur to the post-edit position.
func Apply(e Edit, buf *buffer.TextBuffer, cur *cursor.Cursor) {
	switch e := e.(type) {
	case Insert:
		buf.Insert(e.Position, e.Text)
		cur.SetPosition(e.CursorAfter)
	case Delete:
		buf.DeleteRange(e.Range)
		cur.SetPosition(e.CursorAfter)
	default:
		panic(fmt.Sprintf("history: unknown edit type %T", e))
	}
}

// Revert undoes e on buf and restores cur to the pre-edit position.
func Revert(e Edit, buf *buffer.TextBuffer, cur *cursor.Cursor) {
	switch e := e.(type) {
	case Insert:
		n := utf8.RuneCountInString(e.Text)
		buf.DeleteRange(Range{Start: e.Position, End: e.Position + n})
		cur.SetPosition(e.CursorBefore)
	case Delete:
		buf.Insert(e.Range.Start, e.Text)
		cur.SetPosition(e.CursorBefore)
	default:
		panic(fmt.Sprintf("history: unknown edit type %T", e))
	}
}

// CharsDelta returns the change in document length caused by applying e.
func CharsDelta(e Edit) int {
	switch e := e.(type) {
	case Insert:
		return utf8.RuneCountInString(e.Text)
	case Delete:
		return -e.Range.Len()
	default:
		panic(fmt.Sprintf("history: unknown edit type %T", e))
	}
}

// Describe returns a short human-readable label for e, suitable for an
// undo menu.
func Describe(e Edit) string {
	switch e := e.(type) {
	case Insert:
		return fmt.Sprintf("Insert %q at %d", abbreviate(e.Text), e.Position)
	case Delete:
		return fmt.Sprintf("Delete %q at %s", abbreviate(e.Text), e.Range)
	default:
		panic(fmt.Sprintf("history: unknown edit type %T", e))
	}
}

const maxDescribedChars = 24

func abbreviate(s string) string {
	if utf8.RuneCountInString(s) <= maxDescribedChars {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxDescribedChars]) + "…"
}
