package history

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/dshills/lala/internal/engine/buffer"
	"github.com/dshills/lala/internal/engine/cursor"
)

// drawEdit builds a random valid edit against the current buffer, applying
// the cursor rules the editor uses.
func drawEdit(t *rapid.T, buf *buffer.TextBuffer, cur *cursor.Cursor) Edit {
	n := buf.LenChars()
	before := cur.Position()

	if n == 0 || rapid.Bool().Draw(t, "insert") {
		pos := rapid.IntRange(0, n).Draw(t, "pos")
		text := rapid.StringMatching(`[a-zé日\n]{1,6}`).Draw(t, "text")
		after := cursor.AdjustForInsertion(before, pos, len([]rune(text)))
		return Insert{Position: pos, Text: text, CursorBefore: before, CursorAfter: after}
	}

	start := rapid.IntRange(0, n-1).Draw(t, "start")
	end := rapid.IntRange(start+1, n).Draw(t, "end")
	r := buffer.NewRange(start, end)
	after := cursor.AdjustForDeletion(before, r)
	return Delete{Range: r, Text: buf.Slice(r), CursorBefore: before, CursorAfter: after}
}

func TestUndoAllRestoresOriginalProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initial := rapid.StringMatching(`[a-z日 \n]{0,20}`).Draw(t, "initial")
		buf := buffer.FromString(initial)
		cur := cursor.At(rapid.IntRange(0, buf.LenChars()).Draw(t, "cursor"))
		startCursor := cur.Position()
		h := New()

		steps := rapid.IntRange(1, 15).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			record(h, buf, cur, drawEdit(t, buf, cur))
		}

		for h.Undo(buf, cur) {
		}
		if buf.String() != initial {
			t.Fatalf("undo all: got %q, want %q", buf.String(), initial)
		}
		if cur.Position() != startCursor {
			t.Fatalf("undo all: cursor %d, want %d", cur.Position(), startCursor)
		}
		if h.IsModified() {
			t.Fatal("undoing every edit should return to the saved state")
		}
	})
}

func TestRedoReplaysProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		buf := buffer.FromString(rapid.StringMatching(`[a-z ]{0,12}`).Draw(t, "initial"))
		cur := cursor.New()
		h := New()

		steps := rapid.IntRange(1, 10).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			record(h, buf, cur, drawEdit(t, buf, cur))
		}
		final, finalCursor := buf.String(), cur.Position()

		k := rapid.IntRange(1, steps).Draw(t, "undos")
		for i := 0; i < k; i++ {
			h.Undo(buf, cur)
		}
		for i := 0; i < k; i++ {
			if !h.Redo(buf, cur) {
				t.Fatalf("redo %d failed", i)
			}
		}
		if buf.String() != final || cur.Position() != finalCursor {
			t.Fatalf("redo: got %q@%d, want %q@%d", buf.String(), cur.Position(), final, finalCursor)
		}
	})
}

func TestModifiedMatchesSavePointProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		buf := buffer.New()
		cur := cursor.New()
		h := NewWithCapacity(rapid.IntRange(1, 8).Draw(t, "capacity"))

		saved := buf.String()
		steps := rapid.IntRange(1, 30).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0:
				record(h, buf, cur, drawEdit(t, buf, cur))
			case 1:
				h.Undo(buf, cur)
			case 2:
				h.Redo(buf, cur)
			case 3:
				h.MarkSaved()
				saved = buf.String()
			}
			// A clean flag must always mean the text equals the saved text.
			if !h.IsModified() && buf.String() != saved {
				t.Fatalf("clean flag with text %q, saved %q", buf.String(), saved)
			}
		}
	})
}
