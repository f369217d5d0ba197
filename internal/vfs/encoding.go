package vfs

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// Encoding represents a character encoding.
type Encoding string

const (
	// EncodingUTF8 is UTF-8 encoding (default).
	EncodingUTF8 Encoding = "utf-8"

	// EncodingUTF8BOM is UTF-8 encoding with BOM.
	EncodingUTF8BOM Encoding = "utf-8-bom"

	// EncodingUnknown is anything that is not valid UTF-8.
	EncodingUnknown Encoding = "unknown"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Prefix returns the bytes that start every file in this encoding:
// the byte order mark for EncodingUTF8BOM, nil otherwise.
func (e Encoding) Prefix() []byte {
	if e == EncodingUTF8BOM {
		return bomUTF8
	}
	return nil
}

// EncodingError reports content that is not valid UTF-8.
type EncodingError struct {
	Offset int // byte offset of the first invalid sequence
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("invalid UTF-8 at byte %d", e.Offset)
}

// DetectEncoding reports whether content is UTF-8, with or without a BOM.
func DetectEncoding(content []byte) Encoding {
	if !utf8.Valid(content) {
		return EncodingUnknown
	}
	if bytes.HasPrefix(content, bomUTF8) {
		return EncodingUTF8BOM
	}
	return EncodingUTF8
}

// CheckUTF8 returns an *EncodingError locating the first invalid UTF-8
// sequence in content, or nil if content is valid.
func CheckUTF8(content []byte) error {
	if utf8.Valid(content) {
		return nil
	}
	for i := 0; i < len(content); {
		r, size := utf8.DecodeRune(content[i:])
		if r == utf8.RuneError && size == 1 {
			return &EncodingError{Offset: i}
		}
		i += size
	}
	return nil
}
