package rope

import (
	"strings"
	"unicode/utf8"
)

// ByteOffset represents an absolute byte position in the rope.
type ByteOffset uint64

// CharOffset represents an absolute position in the rope counted in
// Unicode scalar values.
type CharOffset uint64

// TextSummary holds aggregated metrics for a text span.
// Summaries form a monoid under Add; every node caches the sum of its subtree.
type TextSummary struct {
	// Bytes is the UTF-8 byte count.
	Bytes ByteOffset

	// Chars is the Unicode scalar value count.
	Chars CharOffset

	// Lines is the number of '\n' characters.
	Lines uint32

	// Flags indicate text properties for fast paths.
	Flags TextFlags
}

// TextFlags indicate text properties for optimization fast paths.
type TextFlags uint8

const (
	// FlagASCII indicates all characters are ASCII (< 128), so byte and
	// character offsets coincide.
	FlagASCII TextFlags = 1 << iota

	// FlagHasNewlines indicates the text contains newline characters.
	FlagHasNewlines
)

// Add combines two summaries (monoid operation).
func (s TextSummary) Add(other TextSummary) TextSummary {
	if s.Bytes == 0 {
		return other
	}
	if other.Bytes == 0 {
		return s
	}

	result := TextSummary{
		Bytes: s.Bytes + other.Bytes,
		Chars: s.Chars + other.Chars,
		Lines: s.Lines + other.Lines,
		Flags: s.Flags & other.Flags & FlagASCII,
	}
	if (s.Flags|other.Flags)&FlagHasNewlines != 0 {
		result.Flags |= FlagHasNewlines
	}
	return result
}

// Zero returns the identity element for the summary monoid.
func (TextSummary) Zero() TextSummary {
	return TextSummary{Flags: FlagASCII}
}

// IsZero returns true if this is the zero/identity summary.
func (s TextSummary) IsZero() bool {
	return s.Bytes == 0
}

// IsASCII reports whether the span contains only ASCII characters.
func (s TextSummary) IsASCII() bool {
	return s.Flags&FlagASCII != 0
}

// ComputeSummary calculates metrics for a string.
func ComputeSummary(s string) TextSummary {
	if len(s) == 0 {
		return TextSummary{Flags: FlagASCII}
	}

	sum := TextSummary{
		Bytes: ByteOffset(len(s)),
		Lines: uint32(strings.Count(s, "\n")),
	}
	if sum.Lines > 0 {
		sum.Flags |= FlagHasNewlines
	}

	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		sum.Flags |= FlagASCII
		sum.Chars = CharOffset(len(s))
	} else {
		sum.Chars = CharOffset(utf8.RuneCountInString(s))
	}
	return sum
}

// FindNthNewline finds the byte position of the nth newline (1-indexed).
// Returns -1 if not found.
func FindNthNewline(s string, n uint32) int {
	if n == 0 {
		return -1
	}

	var count uint32
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			count++
			if count == n {
				return i
			}
		}
	}
	return -1
}

// byteIndexOfChar returns the byte index of the nth character of s.
// n == character count of s yields len(s).
func byteIndexOfChar(s string, n CharOffset, ascii bool) int {
	if ascii {
		if n >= CharOffset(len(s)) {
			return len(s)
		}
		return int(n)
	}

	var count CharOffset
	for i := range s {
		if count == n {
			return i
		}
		count++
	}
	return len(s)
}
