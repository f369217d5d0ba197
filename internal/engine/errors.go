package engine

import (
	"errors"
	"fmt"
)

// Errors returned by editor operations.
var (
	// ErrOutOfBounds indicates a character index outside the document.
	ErrOutOfBounds = errors.New("index out of bounds")

	// ErrInvalidRange indicates a range whose end precedes its start.
	ErrInvalidRange = errors.New("invalid range")

	// ErrNothingToUndo indicates the undo history is empty.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo indicates there is no undone edit to replay.
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrNoFilePath indicates a save was requested on a document that has
	// never been associated with a file.
	ErrNoFilePath = errors.New("no file path")

	// ErrInvalidUTF8 indicates file content that is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid UTF-8")
)

// OutOfBoundsError reports an index outside [0, Len].
type OutOfBoundsError struct {
	Index int
	Len   int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("index %d out of bounds for length %d", e.Index, e.Len)
}

// Is reports whether target is ErrOutOfBounds.
func (e *OutOfBoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}

// FileError wraps a failure reading or writing a document's file.
type FileError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *FileError) Unwrap() error {
	return e.Err
}
