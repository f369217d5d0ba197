package engine

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dshills/lala/internal/engine/buffer"
	"github.com/dshills/lala/internal/engine/cursor"
	"github.com/dshills/lala/internal/engine/history"
	"github.com/dshills/lala/internal/vfs"
)

// Editor is a single text document: its content, one cursor, an undo
// history and the file it belongs to, if any.
//
// Every mutating method records exactly one invertible edit. Mutations that
// would change nothing (empty text, empty range, backspace at the start)
// record nothing.
//
// Editor is not safe for concurrent use.
type Editor struct {
	buf     *buffer.TextBuffer
	cursor  *cursor.Cursor
	history *history.History
	fs      vfs.VFS
	path    string

	// encoding of the file; a byte order mark is kept out of the buffer
	// and written back on save.
	encoding vfs.Encoding

	// Construction-time settings.
	initText       string
	maxUndoEntries int
}

// New creates an editor configured by opts. Without options the document
// is empty, untitled and backed by the OS file system.
func New(opts ...Option) *Editor {
	e := &Editor{
		fs:             vfs.NewOSFS(),
		encoding:       vfs.EncodingUTF8,
		maxUndoEntries: DefaultMaxUndoEntries,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.buf = buffer.FromString(e.initText)
	e.initText = ""
	e.cursor = cursor.New()
	e.history = history.NewWithCapacity(e.maxUndoEntries)
	return e
}

// Load creates an editor holding the content of the file at path.
func Load(ctx context.Context, path string, opts ...Option) (*Editor, error) {
	e := New(opts...)
	if err := e.LoadFile(ctx, path); err != nil {
		return nil, err
	}
	return e, nil
}

// LoadFile replaces the document with the content of the file at path.
//
// On success the cursor moves to 0, the history is cleared and path becomes
// the document's file. On failure the editor is left untouched.
func (e *Editor) LoadFile(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := e.fs.ReadFile(path)
	if err != nil {
		return &FileError{Op: "load", Path: path, Err: err}
	}
	enc := vfs.DetectEncoding(data)
	if enc == vfs.EncodingUnknown {
		return &FileError{Op: "load", Path: path, Err: fmt.Errorf("%w: %w", ErrInvalidUTF8, vfs.CheckUTF8(data))}
	}

	e.buf.ReplaceAll(string(bytes.TrimPrefix(data, enc.Prefix())))
	e.cursor.SetPosition(0)
	e.history.Clear()
	e.path = path
	e.encoding = enc
	return nil
}

// Save writes the document to its file and marks it unmodified.
// Returns ErrNoFilePath if the document has never had a file.
func (e *Editor) Save(ctx context.Context) error {
	if e.path == "" {
		return ErrNoFilePath
	}
	return e.saveTo(ctx, e.path)
}

// SaveAs writes the document to path and, on success, makes path the
// document's file.
func (e *Editor) SaveAs(ctx context.Context, path string) error {
	if path == "" {
		return ErrNoFilePath
	}
	if err := e.saveTo(ctx, path); err != nil {
		return err
	}
	e.path = path
	return nil
}

func (e *Editor) saveTo(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w, err := e.fs.Create(path)
	if err != nil {
		return &FileError{Op: "save", Path: path, Err: err}
	}
	_, werr := w.Write(e.encoding.Prefix())
	if werr == nil {
		_, werr = e.buf.WriteTo(w)
	}
	cerr := w.Close()
	if werr != nil {
		return &FileError{Op: "save", Path: path, Err: werr}
	}
	if cerr != nil {
		return &FileError{Op: "save", Path: path, Err: cerr}
	}

	e.history.MarkSaved()
	return nil
}

// InsertChar inserts r at the cursor and moves the cursor past it.
func (e *Editor) InsertChar(r rune) {
	e.insert(e.cursor.Position(), string(r))
}

// InsertText inserts s at the cursor and moves the cursor past it.
func (e *Editor) InsertText(s string) {
	e.insert(e.cursor.Position(), s)
}

// InsertAt inserts s at character index idx. The cursor shifts right if it
// sits at or after idx.
func (e *Editor) InsertAt(idx int, s string) error {
	if n := e.buf.LenChars(); idx < 0 || idx > n {
		return &OutOfBoundsError{Index: idx, Len: n}
	}
	e.insert(idx, s)
	return nil
}

// DeleteBeforeCursor removes the character before the cursor, like
// backspace. Does nothing at the start of the document.
func (e *Editor) DeleteBeforeCursor() {
	pos := e.cursor.Position()
	if pos == 0 {
		return
	}
	e.delete(buffer.Range{Start: pos - 1, End: pos})
}

// DeleteAtCursor removes the character under the cursor, like the delete
// key. Does nothing at the end of the document.
func (e *Editor) DeleteAtCursor() {
	pos := e.cursor.Position()
	if pos >= e.buf.LenChars() {
		return
	}
	e.delete(buffer.Range{Start: pos, End: pos + 1})
}

// DeleteRange removes the characters in [start, end).
func (e *Editor) DeleteRange(start, end int) error {
	n := e.buf.LenChars()
	switch {
	case start < 0 || start > n:
		return &OutOfBoundsError{Index: start, Len: n}
	case end > n:
		return &OutOfBoundsError{Index: end, Len: n}
	case end < start:
		return fmt.Errorf("%w: %s", ErrInvalidRange, buffer.Range{Start: start, End: end})
	}
	e.delete(buffer.Range{Start: start, End: end})
	return nil
}

func (e *Editor) insert(pos int, s string) {
	if s == "" {
		return
	}
	s = buffer.Sanitize(s)

	before := e.cursor.Position()
	e.buf.Insert(pos, s)
	e.cursor.AdjustForInsert(pos, utf8.RuneCountInString(s))
	e.history.Add(history.Insert{
		Position:     pos,
		Text:         s,
		CursorBefore: before,
		CursorAfter:  e.cursor.Position(),
	})
}

func (e *Editor) delete(r buffer.Range) {
	if r.IsEmpty() {
		return
	}

	before := e.cursor.Position()
	text := e.buf.Slice(r)
	e.buf.DeleteRange(r)
	e.cursor.AdjustForDelete(r.Start, r.Len())
	e.history.Add(history.Delete{
		Range:        r,
		Text:         text,
		CursorBefore: before,
		CursorAfter:  e.cursor.Position(),
	})
}

// Undo reverts the most recent edit and restores the cursor to where it
// was before that edit.
func (e *Editor) Undo() error {
	if !e.history.Undo(e.buf, e.cursor) {
		return ErrNothingToUndo
	}
	return nil
}

// Redo replays the most recently undone edit.
func (e *Editor) Redo() error {
	if !e.history.Redo(e.buf, e.cursor) {
		return ErrNothingToRedo
	}
	return nil
}

// CanUndo reports whether Undo would succeed.
func (e *Editor) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether Redo would succeed.
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// UndoInfo describes the undoable edits, oldest first.
func (e *Editor) UndoInfo() []history.OperationInfo { return e.history.UndoInfo() }

// RedoInfo describes the redoable edits in replay order.
func (e *Editor) RedoInfo() []history.OperationInfo { return e.history.RedoInfo() }

// SetMaxUndoEntries changes the history capacity, evicting the oldest edits
// if the history is already larger.
func (e *Editor) SetMaxUndoEntries(n int) { e.history.SetMaxEntries(n) }

// MarkSaved records the current content as matching the file on disk.
func (e *Editor) MarkSaved() { e.history.MarkSaved() }

// IsModified reports whether the content differs from the last save or
// load, as seen through the history position.
func (e *Editor) IsModified() bool { return e.history.IsModified() }

// SetCursorPosition moves the cursor to pos, clamped to [0, LenChars].
func (e *Editor) SetCursorPosition(pos int) {
	e.cursor.SetPosition(pos)
	e.cursor.Clamp(e.buf.LenChars())
}

// MoveCursorForward moves the cursor n characters right, stopping at the end.
func (e *Editor) MoveCursorForward(n int) {
	e.cursor.MoveForward(n, e.buf.LenChars())
}

// MoveCursorBackward moves the cursor n characters left, stopping at 0.
func (e *Editor) MoveCursorBackward(n int) {
	e.cursor.MoveBackward(n)
}

// Cursor returns a copy of the cursor. Moving the copy does not affect
// the editor.
func (e *Editor) Cursor() *cursor.Cursor {
	return cursor.At(e.cursor.Position())
}

// CursorPosition returns the cursor's character offset.
func (e *Editor) CursorPosition() int { return e.cursor.Position() }

// CursorLineColumn returns the zero-based line and column of the cursor.
func (e *Editor) CursorLineColumn() (line, col int) {
	before := e.buf.Slice(buffer.Range{Start: 0, End: e.cursor.Position()})
	line = strings.Count(before, "\n")
	if i := strings.LastIndexByte(before, '\n'); i >= 0 {
		before = before[i+1:]
	}
	return line, utf8.RuneCountInString(before)
}

// LineEnding reports the dominant line terminator of the content.
func (e *Editor) LineEnding() buffer.LineEnding { return e.buf.LineEnding() }

// Text returns the full document content.
func (e *Editor) Text() string { return e.buf.String() }

// LenChars returns the number of characters in the document.
func (e *Editor) LenChars() int { return e.buf.LenChars() }

// LenLines returns the number of lines in the document.
func (e *Editor) LenLines() int { return e.buf.LenLines() }

// Line returns line i including its terminator, or "" if i is out of range.
func (e *Editor) Line(i int) string { return e.buf.Line(i) }

// LineText returns line i without its newline, or "" if i is out of range.
func (e *Editor) LineText(i int) string { return e.buf.LineText(i) }

// Slice returns the text in [start, end).
func (e *Editor) Slice(start, end int) (string, error) {
	n := e.buf.LenChars()
	switch {
	case start < 0 || start > n:
		return "", &OutOfBoundsError{Index: start, Len: n}
	case end > n:
		return "", &OutOfBoundsError{Index: end, Len: n}
	case end < start:
		return "", fmt.Errorf("%w: %s", ErrInvalidRange, buffer.Range{Start: start, End: end})
	}
	return e.buf.Slice(buffer.Range{Start: start, End: end}), nil
}

// Snapshot returns an immutable view of the current content that may be
// read from other goroutines.
func (e *Editor) Snapshot() *buffer.Snapshot { return e.buf.Snapshot() }

// RevisionID identifies the current content. It changes on every edit,
// undo, redo and load.
func (e *Editor) RevisionID() buffer.RevisionID { return e.buf.RevisionID() }

// Encoding reports how the document's file is encoded: EncodingUTF8BOM
// when it was loaded with a byte order mark, EncodingUTF8 otherwise.
func (e *Editor) Encoding() vfs.Encoding { return e.encoding }

// FilePath returns the document's file path, or "" if it has none.
func (e *Editor) FilePath() string { return e.path }

// FileName returns the base name of the document's file, or "" if it
// has none.
func (e *Editor) FileName() string {
	if e.path == "" {
		return ""
	}
	return filepath.Base(e.path)
}

// FileExtension returns the extension of the document's file without the
// leading dot, or "" if it has no file or no extension. A leading dot
// alone, as in ".profile", does not start an extension.
func (e *Editor) FileExtension() string {
	name := filepath.Base(e.path)
	ext := filepath.Ext(name)
	if e.path == "" || ext == name {
		return ""
	}
	return strings.TrimPrefix(ext, ".")
}
