package history

import (
	"strings"
	"testing"

	"github.com/dshills/lala/internal/engine/buffer"
	"github.com/dshills/lala/internal/engine/cursor"
)

// Helper to create a test buffer and cursor
func newTestBufferAndCursor(text string, pos int) (*buffer.TextBuffer, *cursor.Cursor) {
	return buffer.FromString(text), cursor.At(pos)
}

// record applies e and appends it, mirroring what the editor does.
func record(h *History, buf *buffer.TextBuffer, cur *cursor.Cursor, e Edit) {
	Apply(e, buf, cur)
	h.Add(e)
}

func insertAt(pos int, text string) Insert {
	n := len([]rune(text))
	return Insert{Position: pos, Text: text, CursorBefore: pos, CursorAfter: pos + n}
}

// Edit Tests

func TestApplyRevertInsert(t *testing.T) {
	buf, cur := newTestBufferAndCursor("héllo", 2)
	e := Insert{Position: 2, Text: "世界", CursorBefore: 2, CursorAfter: 4}

	Apply(e, buf, cur)
	if buf.String() != "hé世界llo" || cur.Position() != 4 {
		t.Fatalf("after Apply: %q cursor %d", buf.String(), cur.Position())
	}

	Revert(e, buf, cur)
	if buf.String() != "héllo" || cur.Position() != 2 {
		t.Fatalf("after Revert: %q cursor %d", buf.String(), cur.Position())
	}
}

func TestApplyRevertDelete(t *testing.T) {
	buf, cur := newTestBufferAndCursor("abcdef", 4)
	e := Delete{Range: buffer.NewRange(1, 4), Text: "bcd", CursorBefore: 4, CursorAfter: 1}

	Apply(e, buf, cur)
	if buf.String() != "aef" || cur.Position() != 1 {
		t.Fatalf("after Apply: %q cursor %d", buf.String(), cur.Position())
	}

	Revert(e, buf, cur)
	if buf.String() != "abcdef" || cur.Position() != 4 {
		t.Fatalf("after Revert: %q cursor %d", buf.String(), cur.Position())
	}
}

func TestCharsDeltaAndDescribe(t *testing.T) {
	ins := insertAt(0, "日本")
	if CharsDelta(ins) != 2 {
		t.Errorf("CharsDelta(insert) = %d, want 2", CharsDelta(ins))
	}
	del := Delete{Range: buffer.NewRange(3, 8), Text: "hello"}
	if CharsDelta(del) != -5 {
		t.Errorf("CharsDelta(delete) = %d, want -5", CharsDelta(del))
	}

	if got := Describe(ins); got != `Insert "日本" at 0` {
		t.Errorf("Describe(insert) = %q", got)
	}
	if got := Describe(del); got != `Delete "hello" at [3:8)` {
		t.Errorf("Describe(delete) = %q", got)
	}
	long := Describe(insertAt(0, strings.Repeat("x", 100)))
	if !strings.Contains(long, "…") {
		t.Errorf("long text should be abbreviated: %q", long)
	}
}

// History Tests

func TestNewHistory(t *testing.T) {
	h := New()
	if h.MaxEntries() != DefaultMaxEntries {
		t.Errorf("MaxEntries() = %d, want %d", h.MaxEntries(), DefaultMaxEntries)
	}
	if h.CanUndo() || h.CanRedo() {
		t.Error("new history should have nothing to undo or redo")
	}
	if h.IsModified() {
		t.Error("new history should not be modified")
	}
	if NewWithCapacity(0).MaxEntries() != DefaultMaxEntries {
		t.Error("zero capacity should select the default")
	}
}

func TestUndoRedoEmpty(t *testing.T) {
	h := New()
	buf, cur := newTestBufferAndCursor("abc", 1)
	if h.Undo(buf, cur) {
		t.Error("Undo on empty history should return false")
	}
	if h.Redo(buf, cur) {
		t.Error("Redo on empty history should return false")
	}
	if buf.String() != "abc" || cur.Position() != 1 {
		t.Error("failed undo/redo must not touch buffer or cursor")
	}
}

func TestUndoRedoSequence(t *testing.T) {
	h := New()
	buf, cur := newTestBufferAndCursor("", 0)

	record(h, buf, cur, insertAt(0, "Hello"))
	record(h, buf, cur, insertAt(5, " World"))

	if !h.Undo(buf, cur) {
		t.Fatal("Undo should succeed")
	}
	if buf.String() != "Hello" || cur.Position() != 5 {
		t.Fatalf("after first undo: %q cursor %d", buf.String(), cur.Position())
	}
	if !h.Undo(buf, cur) {
		t.Fatal("Undo should succeed")
	}
	if buf.String() != "" || cur.Position() != 0 {
		t.Fatalf("after second undo: %q cursor %d", buf.String(), cur.Position())
	}
	if h.Undo(buf, cur) {
		t.Fatal("third Undo should fail")
	}

	h.Redo(buf, cur)
	h.Redo(buf, cur)
	if buf.String() != "Hello World" || cur.Position() != 11 {
		t.Fatalf("after redo: %q cursor %d", buf.String(), cur.Position())
	}
	if h.Redo(buf, cur) {
		t.Fatal("Redo past the end should fail")
	}
}

func TestAddTruncatesRedo(t *testing.T) {
	h := New()
	buf, cur := newTestBufferAndCursor("", 0)

	record(h, buf, cur, insertAt(0, "a"))
	record(h, buf, cur, insertAt(1, "b"))
	h.Undo(buf, cur)
	if h.RedoCount() != 1 {
		t.Fatalf("RedoCount() = %d, want 1", h.RedoCount())
	}

	record(h, buf, cur, insertAt(1, "c"))
	if h.CanRedo() {
		t.Error("new edit should discard redo entries")
	}
	if h.UndoCount() != 2 {
		t.Errorf("UndoCount() = %d, want 2", h.UndoCount())
	}
	if buf.String() != "ac" {
		t.Errorf("buffer = %q, want %q", buf.String(), "ac")
	}
}

func TestModifiedFlag(t *testing.T) {
	h := New()
	buf, cur := newTestBufferAndCursor("", 0)

	record(h, buf, cur, insertAt(0, "x"))
	if !h.IsModified() {
		t.Error("should be modified after an edit")
	}

	h.MarkSaved()
	if h.IsModified() {
		t.Error("should not be modified after MarkSaved")
	}

	h.Undo(buf, cur)
	if !h.IsModified() {
		t.Error("should be modified after undoing past the save point")
	}

	h.Redo(buf, cur)
	if h.IsModified() {
		t.Error("redo back to the save point should be clean")
	}
}

func TestModifiedFlagLostWhenSavedBranchDiscarded(t *testing.T) {
	h := New()
	buf, cur := newTestBufferAndCursor("", 0)

	record(h, buf, cur, insertAt(0, "a"))
	record(h, buf, cur, insertAt(1, "b"))
	h.MarkSaved()

	h.Undo(buf, cur)
	record(h, buf, cur, insertAt(1, "c"))
	h.Undo(buf, cur)
	h.Redo(buf, cur)
	if !h.IsModified() {
		t.Error("saved state on a discarded branch can never be reached again")
	}
}

func TestCapacityEviction(t *testing.T) {
	h := NewWithCapacity(2)
	buf, cur := newTestBufferAndCursor("", 0)

	record(h, buf, cur, insertAt(0, "a"))
	record(h, buf, cur, insertAt(1, "b"))
	record(h, buf, cur, insertAt(2, "c"))

	if h.UndoCount() != 2 {
		t.Fatalf("UndoCount() = %d, want 2", h.UndoCount())
	}

	h.Undo(buf, cur)
	h.Undo(buf, cur)
	if h.Undo(buf, cur) {
		t.Error("the evicted edit should not be undoable")
	}
	if buf.String() != "a" {
		t.Errorf("buffer = %q, want %q", buf.String(), "a")
	}
}

func TestCapacityEvictionShiftsSavedAnchor(t *testing.T) {
	h := NewWithCapacity(3)
	buf, cur := newTestBufferAndCursor("", 0)

	record(h, buf, cur, insertAt(0, "a"))
	record(h, buf, cur, insertAt(1, "b"))
	h.MarkSaved()
	record(h, buf, cur, insertAt(2, "c"))
	record(h, buf, cur, insertAt(3, "d"))

	// "a" was evicted; the save point now sits one entry back.
	h.Undo(buf, cur)
	h.Undo(buf, cur)
	if h.IsModified() {
		t.Errorf("back at the save point, buffer %q should be clean", buf.String())
	}
}

func TestCapacityEvictionDropsSavedAnchorAtZero(t *testing.T) {
	h := NewWithCapacity(1)
	buf, cur := newTestBufferAndCursor("", 0)

	record(h, buf, cur, insertAt(0, "a"))
	record(h, buf, cur, insertAt(1, "b"))

	for h.Undo(buf, cur) {
	}
	if !h.IsModified() {
		t.Error("pristine state fell off the log; the document must stay modified")
	}
}

func TestClear(t *testing.T) {
	h := New()
	buf, cur := newTestBufferAndCursor("", 0)

	record(h, buf, cur, insertAt(0, "abc"))
	h.Undo(buf, cur)
	record(h, buf, cur, insertAt(0, "x"))

	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("Clear should remove all entries")
	}
	if h.IsModified() {
		t.Error("Clear should reset the saved anchor")
	}
}

func TestPeekAndInfo(t *testing.T) {
	h := New()
	buf, cur := newTestBufferAndCursor("", 0)

	if _, ok := h.PeekUndo(); ok {
		t.Error("PeekUndo on empty history should report false")
	}

	record(h, buf, cur, insertAt(0, "one"))
	record(h, buf, cur, insertAt(3, "two"))
	record(h, buf, cur, Delete{Range: buffer.NewRange(0, 3), Text: "one", CursorBefore: 6, CursorAfter: 3})
	h.Undo(buf, cur)

	info, ok := h.PeekUndo()
	if !ok || info.Description != `Insert "two" at 3` || info.CharsDelta != 3 {
		t.Errorf("PeekUndo = %+v, %v", info, ok)
	}
	if info.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}

	redo, ok := h.PeekRedo()
	if !ok || redo.CharsDelta != -3 {
		t.Errorf("PeekRedo = %+v, %v", redo, ok)
	}

	undos := h.UndoInfo()
	if len(undos) != 2 || undos[0].Description != `Insert "one" at 0` {
		t.Errorf("UndoInfo = %+v", undos)
	}
	if redos := h.RedoInfo(); len(redos) != 1 {
		t.Errorf("RedoInfo = %+v", redos)
	}
}

func TestSetMaxEntries(t *testing.T) {
	h := New()
	buf, cur := newTestBufferAndCursor("", 0)
	for i, s := range []string{"a", "b", "c", "d", "e"} {
		record(h, buf, cur, insertAt(i, s))
	}
	h.MarkSaved()
	h.Undo(buf, cur)

	h.SetMaxEntries(2)
	if h.MaxEntries() != 2 {
		t.Fatalf("MaxEntries() = %d, want 2", h.MaxEntries())
	}
	if h.UndoCount() != 1 || h.RedoCount() != 1 {
		t.Errorf("counts = %d/%d, want 1/1", h.UndoCount(), h.RedoCount())
	}

	h.Redo(buf, cur)
	if h.IsModified() {
		t.Error("save point should survive trimming older entries")
	}
	if buf.String() != "abcde" {
		t.Errorf("buffer = %q", buf.String())
	}
}

func TestSetMaxEntriesTrimsRedoTail(t *testing.T) {
	h := New()
	buf, cur := newTestBufferAndCursor("", 0)
	for i, s := range []string{"a", "b", "c"} {
		record(h, buf, cur, insertAt(i, s))
	}
	h.MarkSaved()
	for h.Undo(buf, cur) {
	}

	h.SetMaxEntries(1)
	if h.UndoCount() != 0 || h.RedoCount() != 1 {
		t.Fatalf("counts = %d/%d, want 0/1", h.UndoCount(), h.RedoCount())
	}
	if !h.IsModified() {
		t.Error("save point beyond the trimmed tail should be lost")
	}
}
