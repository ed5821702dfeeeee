package assist

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// CursorMarker marks the cursor in fixture text.
const CursorMarker = "$0"

// ErrInvalidPosition is returned for a line/column outside the text.
var ErrInvalidPosition = errors.New("position out of bounds")

// ExtractOffset removes the cursor marker from text and returns its byte
// offset with the cleaned text. It panics if the marker is missing; it is
// meant for fixtures.
func ExtractOffset(text string) (int, string) {
	i := strings.Index(text, CursorMarker)
	if i < 0 {
		panic(fmt.Sprintf("text should contain cursor marker %q", CursorMarker))
	}
	return i, text[:i] + text[i+len(CursorMarker):]
}

// OffsetAt converts a 1-based line and column into a byte offset. Columns
// count runes, and the position just past the last rune of a line is
// valid.
func OffsetAt(text string, line, col int) (int, error) {
	if line < 1 || col < 1 {
		return 0, fmt.Errorf("%w: %d:%d", ErrInvalidPosition, line, col)
	}
	off := 0
	for l := 1; l < line; l++ {
		nl := strings.IndexByte(text[off:], '\n')
		if nl < 0 {
			return 0, fmt.Errorf("%w: line %d of %d", ErrInvalidPosition, line, l)
		}
		off += nl + 1
	}
	for c := 1; c < col; c++ {
		if off >= len(text) || text[off] == '\n' {
			return 0, fmt.Errorf("%w: %d:%d", ErrInvalidPosition, line, col)
		}
		_, size := utf8.DecodeRuneInString(text[off:])
		off += size
	}
	return off, nil
}

// PositionOf converts a byte offset into a 1-based line and rune column.
func PositionOf(text string, offset int) (line, col int) {
	offset = min(max(offset, 0), len(text))
	before := text[:offset]
	line = strings.Count(before, "\n") + 1
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return line, utf8.RuneCountInString(before[lineStart:]) + 1
}
