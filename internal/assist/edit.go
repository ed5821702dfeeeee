package assist

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrStaleEdit is returned when an edit range does not fit the text
	// it is applied to, usually because the text changed after the
	// assist was computed.
	ErrStaleEdit = errors.New("edit range outside document")

	// ErrOverlappingEdits is returned when two edits touch the same bytes.
	ErrOverlappingEdits = errors.New("edits overlap")
)

// ApplyEdits applies edits to src and returns the new text. Edits are
// expressed in offsets of src and may be given in any order. Inserts at
// the same offset are applied in the order given.
func ApplyEdits(src string, edits []Edit) (string, error) {
	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, func(a, b Edit) int {
		return a.Range.Start - b.Range.Start
	})

	var sb strings.Builder
	sb.Grow(len(src))
	pos := 0
	for _, e := range sorted {
		r := e.Range
		if r.Start < 0 || r.End < r.Start || r.End > len(src) {
			return "", fmt.Errorf("%w: [%d, %d) in %d bytes", ErrStaleEdit, r.Start, r.End, len(src))
		}
		if r.Start < pos {
			return "", fmt.Errorf("%w: [%d, %d)", ErrOverlappingEdits, r.Start, r.End)
		}
		sb.WriteString(src[pos:r.Start])
		sb.WriteString(e.Replacement)
		pos = r.End
	}
	sb.WriteString(src[pos:])
	return sb.String(), nil
}
