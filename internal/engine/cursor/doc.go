// Package cursor tracks the single insertion point of a document.
//
// Positions are character offsets into a buffer.TextBuffer. After every
// edit the owner adjusts the cursor so it keeps pointing at the same
// logical place:
//
//   - insertion of n characters at p: if p <= cursor, cursor += n
//   - deletion of [s, e): if e <= cursor, cursor -= e-s;
//     if s < cursor < e, cursor = s; otherwise unchanged
//
// The pure functions AdjustForInsertion and AdjustForDeletion implement the
// rules for any offset; Cursor applies them to itself.
package cursor
